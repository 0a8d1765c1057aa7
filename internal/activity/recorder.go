// Package activity records the append-only audit trail of lead mutations.
package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/leadrail/leadrail/internal/core/domain"
	"github.com/leadrail/leadrail/internal/core/ports"
)

// Recorder writes typed activity entries and reads them back for timeline
// display. Writes validate the payload against its activity kind; reads
// decode stored metadata lazily and tolerate malformed payloads.
type Recorder struct {
	store  ports.ActivityStore
	logger *slog.Logger
}

// NewRecorder creates a Recorder.
func NewRecorder(store ports.ActivityStore, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{store: store, logger: logger}
}

// Record appends one immutable entry for the lead. A nil meta records the
// bare activity type with no payload.
func (r *Recorder) Record(ctx context.Context, leadID string, typ domain.ActivityType, meta domain.ActivityMeta) error {
	if leadID == "" {
		return domain.ErrValidation("lead id is required")
	}

	row := &ports.ActivityRow{
		ID:        uuid.New().String(),
		LeadID:    leadID,
		Type:      string(typ),
		CreatedAt: time.Now().UTC(),
	}

	if meta != nil {
		if meta.ActivityType() != typ {
			return domain.ErrValidation(fmt.Sprintf("metadata shape %q does not match activity type %q", meta.ActivityType(), typ))
		}
		encoded, err := json.Marshal(meta)
		if err != nil {
			return domain.ErrInternal("failed to encode activity metadata", err)
		}
		row.Metadata = encoded
	}

	return r.store.AppendLeadActivity(ctx, row)
}

// List returns up to limit activities for the lead, newest first. Stored
// metadata that fails to decode yields a nil Metadata field instead of
// failing the read.
func (r *Recorder) List(ctx context.Context, leadID string, limit int) ([]domain.Activity, error) {
	rows, err := r.store.ListLeadActivities(ctx, leadID, limit)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Activity, 0, len(rows))
	for _, row := range rows {
		entry := domain.Activity{
			ID:        row.ID,
			LeadID:    row.LeadID,
			Type:      domain.ActivityType(row.Type),
			CreatedAt: row.CreatedAt,
		}
		if len(row.Metadata) > 0 {
			var decoded map[string]any
			if err := json.Unmarshal(row.Metadata, &decoded); err != nil {
				r.logger.Warn("malformed activity metadata",
					slog.String("activity_id", row.ID),
					slog.String("lead_id", row.LeadID))
			} else {
				entry.Metadata = decoded
			}
		}
		out = append(out, entry)
	}
	return out, nil
}
