package sqldb

import (
	"context"
	"testing"

	"github.com/leadrail/leadrail/internal/core/domain"
)

func TestSetAutomationRulesForForm(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedForm(t, store, "form-1", "owner-1", domain.PlanPro)

	rules := []domain.AutomationRule{
		{Name: "welcome", Enabled: true, Trigger: domain.TriggerLeadSubmitted, Action: domain.ActionEmailLead, Subject: "Hi {{name}}", Body: "Thanks!"},
		{Name: "notify", Enabled: true, Trigger: domain.TriggerLeadSubmitted, Action: domain.ActionEmailAdmin, Subject: "New lead", Body: "{{name}} <{{email}}>"},
	}

	saved, err := store.SetAutomationRulesForForm(ctx, "form-1", "owner-1", rules)
	if err != nil {
		t.Fatalf("SetAutomationRulesForForm() error = %v", err)
	}
	if len(saved) != 2 {
		t.Fatalf("saved %d rules, want 2", len(saved))
	}
	for i, r := range saved {
		if r.ID == "" {
			t.Errorf("rule %d has no assigned id", i)
		}
		if r.Order != i {
			t.Errorf("rule %d order = %d, want %d", i, r.Order, i)
		}
	}

	// Replacement is wholesale: old IDs are gone, order follows the new list.
	replacement := []domain.AutomationRule{
		{Name: "won", Enabled: true, Trigger: domain.TriggerLeadStageChanged, TriggerStageName: "Won", Action: domain.ActionEmailAdmin, Subject: "Deal won", Body: "🎉"},
	}
	saved2, err := store.SetAutomationRulesForForm(ctx, "form-1", "owner-1", replacement)
	if err != nil {
		t.Fatalf("replace error = %v", err)
	}
	if len(saved2) != 1 {
		t.Fatalf("replaced set has %d rules, want 1", len(saved2))
	}
	if saved2[0].ID == saved[0].ID || saved2[0].ID == saved[1].ID {
		t.Error("replacement reused an old rule id")
	}

	loaded, err := store.GetAutomationRulesByFormID(ctx, "form-1", "owner-1")
	if err != nil {
		t.Fatalf("GetAutomationRulesByFormID() error = %v", err)
	}
	if len(loaded) != 1 || loaded[0].Name != "won" {
		t.Errorf("loaded = %+v, want single won rule", loaded)
	}

	// Empty list clears everything.
	cleared, err := store.SetAutomationRulesForForm(ctx, "form-1", "owner-1", nil)
	if err != nil {
		t.Fatalf("clear error = %v", err)
	}
	if len(cleared) != 0 {
		t.Errorf("cleared set has %d rules, want 0", len(cleared))
	}
	loaded, err = store.GetAutomationRulesForForm(ctx, "form-1")
	if err != nil {
		t.Fatalf("GetAutomationRulesForForm() error = %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("rules remain after clear: %+v", loaded)
	}
}

func TestSetAutomationRulesForForm_ForeignOwner(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedForm(t, store, "form-1", "owner-1", domain.PlanPro)

	existing := []domain.AutomationRule{
		{Enabled: true, Trigger: domain.TriggerLeadSubmitted, Action: domain.ActionEmailAdmin, Subject: "s", Body: "b"},
	}
	if _, err := store.SetAutomationRulesForForm(ctx, "form-1", "owner-1", existing); err != nil {
		t.Fatalf("seed rules error = %v", err)
	}

	// A foreign owner's write is a quiet no-op.
	got, err := store.SetAutomationRulesForForm(ctx, "form-1", "owner-2", []domain.AutomationRule{
		{Enabled: true, Trigger: domain.TriggerLeadSubmitted, Action: domain.ActionEmailLead, Subject: "x", Body: "y"},
	})
	if err != nil {
		t.Fatalf("foreign write error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("foreign write returned %d rules, want 0", len(got))
	}

	kept, err := store.GetAutomationRulesForForm(ctx, "form-1")
	if err != nil {
		t.Fatalf("GetAutomationRulesForForm() error = %v", err)
	}
	if len(kept) != 1 || kept[0].Action != domain.ActionEmailAdmin {
		t.Errorf("owner's rules were mutated by a foreign write: %+v", kept)
	}
}

func TestGetAutomationRulesByFormID_Absent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	got, err := store.GetAutomationRulesByFormID(ctx, "no-such-form", "owner-1")
	if err != nil {
		t.Fatalf("error = %v, want quiet empty result", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got = %v, want empty non-nil slice", got)
	}
}
