package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/leadrail/leadrail/internal/core/ports"
)

const defaultActivityLimit = 100

// AppendLeadActivity inserts one immutable audit row. There is no update
// or delete path for lead_activities anywhere in this package.
func (s *Store) AppendLeadActivity(ctx context.Context, row *ports.ActivityRow) error {
	if row.ID == "" {
		row.ID = uuid.New().String()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	var metadata any
	if len(row.Metadata) > 0 {
		metadata = string(row.Metadata)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO lead_activities (id, lead_id, type, metadata, created_at) VALUES (?, ?, ?, ?, ?)`,
		row.ID, row.LeadID, row.Type, metadata, row.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append activity: %w", err)
	}
	return nil
}

// ListLeadActivities returns up to limit rows for the lead, newest first.
// Metadata is returned raw; decoding happens lazily at the read boundary.
func (s *Store) ListLeadActivities(ctx context.Context, leadID string, limit int) ([]ports.ActivityRow, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, lead_id, type, metadata, created_at
		 FROM lead_activities WHERE lead_id = ?
		 ORDER BY created_at DESC LIMIT ?`,
		leadID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	out := []ports.ActivityRow{}
	for rows.Next() {
		var row ports.ActivityRow
		var metadata sql.NullString
		if err := rows.Scan(&row.ID, &row.LeadID, &row.Type, &metadata, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		if metadata.Valid {
			row.Metadata = []byte(metadata.String)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
