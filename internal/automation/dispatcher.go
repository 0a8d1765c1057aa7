package automation

import (
	"context"
	"log/slog"
	"strings"

	"github.com/leadrail/leadrail/internal/core/domain"
	"github.com/leadrail/leadrail/internal/core/ports"
)

// Dispatcher is the automation engine. On a lead lifecycle event it loads
// the form's rules, matches triggers, renders templates, and hands sends
// to the delivery pool. It runs on the critical path of lead submission
// and stage moves, so it never returns an error: every failure is absorbed
// and logged, and the primary operation succeeds or fails independently of
// automation outcome.
type Dispatcher struct {
	forms    ports.FormReadModel
	rules    ports.RuleStore
	features ports.PlanFeatures
	sender   Sender
	logger   *slog.Logger
}

// DispatcherConfig wires a Dispatcher.
type DispatcherConfig struct {
	Forms    ports.FormReadModel
	Rules    ports.RuleStore
	Features ports.PlanFeatures
	Sender   Sender
	Logger   *slog.Logger
}

// NewDispatcher creates the automation engine.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		forms:    cfg.Forms,
		rules:    cfg.Rules,
		features: cfg.Features,
		sender:   cfg.Sender,
		logger:   logger,
	}
}

// Run evaluates the form's rules against the event and enqueues matching
// sends. Evaluation is synchronous and cheap (two store reads); delivery
// is fire-and-forget through the pool. Form-not-found, free plan, and an
// empty rule set are silent no-ops by design.
func (d *Dispatcher) Run(ctx context.Context, event domain.LeadEvent) {
	form, err := d.forms.GetForm(ctx, event.FormID)
	if err != nil {
		if !domain.IsNotFound(err) {
			d.logger.Error("automation form lookup failed",
				slog.String("form_id", event.FormID),
				slog.String("error", err.Error()))
		}
		return
	}

	// Paid-tier feature: free-plan forms skip rule evaluation entirely,
	// regardless of configuration.
	if !d.features.CanUseAutomation(form.Plan) {
		return
	}

	rules, err := d.rules.GetAutomationRulesForForm(ctx, event.FormID)
	if err != nil {
		d.logger.Error("automation rule load failed",
			slog.String("form_id", event.FormID),
			slog.String("error", err.Error()))
		return
	}
	if len(rules) == 0 {
		return
	}

	subs := BuildSubstitutions(event.LeadData, event.FormName, event.StageName)

	for _, rule := range rules {
		if !d.matches(&rule, event) {
			continue
		}

		to := d.recipient(&rule, subs, event.AdminEmail)
		if to == "" {
			d.logger.Debug("automation rule skipped: no recipient",
				slog.String("rule_id", rule.ID),
				slog.String("form_id", event.FormID),
				slog.String("action", string(rule.Action)))
			continue
		}

		d.sender.Enqueue(SendJob{
			RuleID:   rule.ID,
			RuleName: rule.Name,
			FormID:   event.FormID,
			To:       to,
			Subject:  Render(rule.Subject, subs),
			Body:     Render(rule.Body, subs),
		})
	}
}

// matches applies the trigger filter. Stage filters compare trimmed,
// case-insensitive, and exact: no prefix or substring matching.
func (d *Dispatcher) matches(rule *domain.AutomationRule, event domain.LeadEvent) bool {
	if !rule.Enabled || rule.Trigger != event.Trigger {
		return false
	}
	if rule.Trigger == domain.TriggerLeadStageChanged && strings.TrimSpace(rule.TriggerStageName) != "" {
		want := strings.TrimSpace(rule.TriggerStageName)
		got := strings.TrimSpace(event.StageName)
		if !strings.EqualFold(want, got) {
			return false
		}
	}
	return true
}

func (d *Dispatcher) recipient(rule *domain.AutomationRule, subs map[string]string, adminEmail string) string {
	switch rule.Action {
	case domain.ActionEmailLead:
		return subs["email"]
	case domain.ActionEmailAdmin:
		return adminEmail
	default:
		return ""
	}
}
