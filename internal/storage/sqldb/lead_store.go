package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/leadrail/leadrail/internal/core/domain"
)

// CreateLead persists a submitted lead.
func (s *Store) CreateLead(ctx context.Context, lead *domain.Lead) error {
	if lead.ID == "" {
		lead.ID = uuid.New().String()
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now().UTC()
	}
	if lead.Data == "" {
		lead.Data = "{}"
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO leads (id, form_id, owner_id, stage_id, assigned_to, data, follow_up_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		lead.ID, lead.FormID, lead.OwnerID, lead.StageID, lead.AssignedTo, lead.Data,
		lead.FollowUpBy, lead.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}
	return nil
}

// GetLead returns the owner's lead.
func (s *Store) GetLead(ctx context.Context, ownerID, leadID string) (*domain.Lead, error) {
	var lead domain.Lead
	var followUpBy sql.NullTime
	err := s.db.QueryRowContext(ctx,
		`SELECT id, form_id, owner_id, stage_id, assigned_to, data, follow_up_by, created_at
		 FROM leads WHERE id = ? AND owner_id = ?`,
		leadID, ownerID).Scan(&lead.ID, &lead.FormID, &lead.OwnerID, &lead.StageID,
		&lead.AssignedTo, &lead.Data, &followUpBy, &lead.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("lead not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	if followUpBy.Valid {
		lead.FollowUpBy = &followUpBy.Time
	}
	return &lead, nil
}

// DeleteLead removes the owner's lead. Activity rows keep their lead id;
// the audit trail outlives the lead.
func (s *Store) DeleteLead(ctx context.Context, ownerID, leadID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM leads WHERE id = ? AND owner_id = ?`, leadID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound("lead not found")
	}
	return nil
}

// UpdateLeadAssignee sets or clears (empty userID) the lead's assignee.
func (s *Store) UpdateLeadAssignee(ctx context.Context, ownerID, leadID, userID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE leads SET assigned_to = ? WHERE id = ? AND owner_id = ?`,
		userID, leadID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to update assignee: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound("lead not found")
	}
	return nil
}

// ListLeadsForForm returns the form's leads for the owner, oldest first.
// A set AssignedToUserID filter is exhaustive: every returned lead is
// assigned to that user.
func (s *Store) ListLeadsForForm(ctx context.Context, ownerID, formID string, filter domain.BoardFilter) ([]domain.Lead, error) {
	query := `SELECT id, form_id, owner_id, stage_id, assigned_to, data, follow_up_by, created_at
	          FROM leads WHERE owner_id = ? AND form_id = ?`
	args := []any{ownerID, formID}
	if filter.AssignedToUserID != "" {
		query += ` AND assigned_to = ?`
		args = append(args, filter.AssignedToUserID)
	}
	query += ` ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	leads := []domain.Lead{}
	for rows.Next() {
		var lead domain.Lead
		var followUpBy sql.NullTime
		if err := rows.Scan(&lead.ID, &lead.FormID, &lead.OwnerID, &lead.StageID,
			&lead.AssignedTo, &lead.Data, &followUpBy, &lead.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		if followUpBy.Valid {
			lead.FollowUpBy = &followUpBy.Time
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}
