package domain

import "time"

// LeadEvent describes a lead lifecycle event handed to the automation
// dispatcher by an event producer (lead submission, stage move). The
// producer resolves form name and admin email once so rule evaluation does
// not reach back into the caller's request.
type LeadEvent struct {
	FormID  string
	Trigger TriggerType

	// LeadData is the submitted field map; values are stringified for
	// template substitution.
	LeadData map[string]any

	FormName   string
	AdminEmail string

	// StageName is the lead's new stage for lead_stage_changed events;
	// empty otherwise.
	StageName string

	OccurredAt time.Time
}
