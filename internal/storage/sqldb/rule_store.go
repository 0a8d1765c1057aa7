package sqldb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/leadrail/leadrail/internal/core/domain"
)

// GetAutomationRulesByFormID returns the form's rules for its owner. A
// missing or foreign form yields an empty slice, not an error: absence is a
// normal outcome on this read path.
func (s *Store) GetAutomationRulesByFormID(ctx context.Context, formID, ownerID string) ([]domain.AutomationRule, error) {
	owned, err := s.formOwnedBy(ctx, formID, ownerID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return []domain.AutomationRule{}, nil
	}
	return s.GetAutomationRulesForForm(ctx, formID)
}

// SetAutomationRulesForForm replaces the form's rule set wholesale: delete
// all existing rules, then insert the supplied list with order assigned by
// slice index. An empty list is how "delete all automation" is expressed.
// A failed ownership check returns an empty slice without mutating.
func (s *Store) SetAutomationRulesForForm(ctx context.Context, formID, ownerID string, rules []domain.AutomationRule) ([]domain.AutomationRule, error) {
	owned, err := s.formOwnedBy(ctx, formID, ownerID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return []domain.AutomationRule{}, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM automation_rules WHERE form_id = ?`, formID); err != nil {
		return nil, fmt.Errorf("failed to clear rules: %w", err)
	}

	now := time.Now().UTC()
	saved := make([]domain.AutomationRule, 0, len(rules))
	for i, r := range rules {
		r.ID = uuid.New().String()
		r.FormID = formID
		r.Order = i
		r.CreatedAt = now

		_, err := tx.ExecContext(ctx,
			`INSERT INTO automation_rules
			 (id, form_id, name, enabled, trigger_type, trigger_stage_name, action, subject, body, position, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.FormID, r.Name, r.Enabled, string(r.Trigger), r.TriggerStageName,
			string(r.Action), r.Subject, r.Body, r.Order, r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert rule: %w", err)
		}
		saved = append(saved, r)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit rules: %w", err)
	}
	return saved, nil
}

// GetAutomationRulesForForm loads the form's rules in evaluation order with
// no ownership check. Only trigger evaluation calls this; the form has
// already been resolved through the form read model there.
func (s *Store) GetAutomationRulesForForm(ctx context.Context, formID string) ([]domain.AutomationRule, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, form_id, name, enabled, trigger_type, trigger_stage_name, action, subject, body, position, created_at
		 FROM automation_rules WHERE form_id = ? ORDER BY position ASC`,
		formID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	defer rows.Close()

	rules := []domain.AutomationRule{}
	for rows.Next() {
		var r domain.AutomationRule
		var trigger, action string
		if err := rows.Scan(&r.ID, &r.FormID, &r.Name, &r.Enabled, &trigger, &r.TriggerStageName,
			&action, &r.Subject, &r.Body, &r.Order, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		r.Trigger = domain.TriggerType(trigger)
		r.Action = domain.ActionType(action)
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

func (s *Store) formOwnedBy(ctx context.Context, formID, ownerID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM forms WHERE id = ? AND owner_id = ?`, formID, ownerID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check form ownership: %w", err)
	}
	return count > 0, nil
}
