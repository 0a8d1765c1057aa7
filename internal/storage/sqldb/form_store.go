package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/leadrail/leadrail/internal/core/domain"
)

// GetForm resolves a form to its owner, plan, and notification context.
func (s *Store) GetForm(ctx context.Context, formID string) (*domain.Form, error) {
	var f domain.Form
	var plan string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, admin_email, plan FROM forms WHERE id = ?`,
		formID).Scan(&f.ID, &f.OwnerID, &f.Name, &f.AdminEmail, &plan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("form not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get form: %w", err)
	}
	f.Plan = domain.Plan(plan)
	return &f, nil
}

// UpsertForm creates or updates a form row. The form catalog is maintained
// by an external collaborator; this write path exists for seeding and sync.
func (s *Store) UpsertForm(ctx context.Context, f *domain.Form) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO forms (id, owner_id, name, admin_email, plan, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   owner_id = excluded.owner_id,
		   name = excluded.name,
		   admin_email = excluded.admin_email,
		   plan = excluded.plan,
		   updated_at = excluded.updated_at`,
		f.ID, f.OwnerID, f.Name, f.AdminEmail, string(f.Plan), now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert form: %w", err)
	}
	return nil
}

// GetSessionByKeyHash resolves an API key hash to the caller's session.
func (s *Store) GetSessionByKeyHash(ctx context.Context, keyHash string) (*domain.Session, error) {
	var sess domain.Session
	var role string
	err := s.db.QueryRowContext(ctx,
		`SELECT owner_id, user_id, email, username, role FROM api_keys WHERE key_hash = ?`,
		keyHash).Scan(&sess.OwnerID, &sess.UserID, &sess.Email, &sess.Username, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("unknown API key")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up API key: %w", err)
	}
	sess.Role = domain.Role(role)
	return &sess, nil
}

// CreateAPIKey registers a key hash for a tenant user.
func (s *Store) CreateAPIKey(ctx context.Context, keyHash string, sess *domain.Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO api_keys (key_hash, owner_id, user_id, email, username, role, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		keyHash, sess.OwnerID, sess.UserID, sess.Email, sess.Username, string(sess.Role), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to create API key: %w", err)
	}
	return nil
}
