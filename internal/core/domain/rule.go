package domain

import (
	"fmt"
	"time"
)

// TriggerType is the lifecycle event an automation rule reacts to.
type TriggerType string

const (
	TriggerLeadSubmitted    TriggerType = "lead_submitted"
	TriggerLeadStageChanged TriggerType = "lead_stage_changed"
)

// Valid reports whether t is a known trigger.
func (t TriggerType) Valid() bool {
	switch t {
	case TriggerLeadSubmitted, TriggerLeadStageChanged:
		return true
	}
	return false
}

// ActionType is the side effect a rule performs when it fires.
type ActionType string

const (
	ActionEmailLead  ActionType = "email_lead"
	ActionEmailAdmin ActionType = "email_admin"
)

// Valid reports whether a is a known action.
func (a ActionType) Valid() bool {
	switch a {
	case ActionEmailLead, ActionEmailAdmin:
		return true
	}
	return false
}

// AutomationRule reacts to a lead lifecycle event on its form by sending a
// templated email. Rules have no lifecycle outside their form: the rule set
// is always replaced wholesale, and Order is reassigned by array index on
// every save.
type AutomationRule struct {
	ID     string `json:"id,omitempty"`
	FormID string `json:"-"`
	Name   string `json:"name,omitempty"`

	Enabled bool        `json:"enabled"`
	Trigger TriggerType `json:"trigger"`

	// TriggerStageName is a case-insensitive exact stage filter; only
	// meaningful for lead_stage_changed. Empty matches any stage.
	TriggerStageName string `json:"triggerStageName,omitempty"`

	Action  ActionType `json:"action"`
	Subject string     `json:"subject"`
	Body    string     `json:"body"`

	Order     int       `json:"-"`
	CreatedAt time.Time `json:"-"`
}

// Validate rejects rules with unknown enum values or missing template
// fields before they reach the store.
func (r *AutomationRule) Validate() error {
	if !r.Trigger.Valid() {
		return ErrValidation(fmt.Sprintf("unknown trigger %q", r.Trigger))
	}
	if !r.Action.Valid() {
		return ErrValidation(fmt.Sprintf("unknown action %q", r.Action))
	}
	if r.Subject == "" {
		return ErrValidation("rule subject is required")
	}
	if r.Body == "" {
		return ErrValidation("rule body is required")
	}
	return nil
}
