package activity

import (
	"context"
	"testing"
	"time"

	"github.com/leadrail/leadrail/internal/core/domain"
	"github.com/leadrail/leadrail/internal/core/ports"
)

type fakeActivityStore struct {
	rows []ports.ActivityRow
}

func (f *fakeActivityStore) AppendLeadActivity(_ context.Context, row *ports.ActivityRow) error {
	f.rows = append(f.rows, *row)
	return nil
}

func (f *fakeActivityStore) ListLeadActivities(_ context.Context, leadID string, limit int) ([]ports.ActivityRow, error) {
	out := []ports.ActivityRow{}
	for _, row := range f.rows {
		if row.LeadID == leadID {
			out = append(out, row)
		}
	}
	return out, nil
}

func TestRecorder_Record(t *testing.T) {
	store := &fakeActivityStore{}
	rec := NewRecorder(store, nil)
	ctx := context.Background()

	err := rec.Record(ctx, "lead-1", domain.ActivityStageChanged, domain.StageChangedMeta{
		StageID:   "stage-won",
		StageName: "Won",
	})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if len(store.rows) != 1 {
		t.Fatalf("stored %d rows, want 1", len(store.rows))
	}
	row := store.rows[0]
	if row.ID == "" || row.CreatedAt.IsZero() {
		t.Errorf("row missing defaults: %+v", row)
	}
	if row.Type != "stage_changed" {
		t.Errorf("type = %q, want stage_changed", row.Type)
	}
	if string(row.Metadata) != `{"stageId":"stage-won","stageName":"Won"}` {
		t.Errorf("metadata = %s", row.Metadata)
	}
}

func TestRecorder_Record_NilMeta(t *testing.T) {
	store := &fakeActivityStore{}
	rec := NewRecorder(store, nil)

	if err := rec.Record(context.Background(), "lead-1", domain.ActivityDeleted, nil); err != nil {
		t.Fatalf("Record(nil meta) error = %v", err)
	}
	if store.rows[0].Metadata != nil {
		t.Errorf("metadata = %s, want none", store.rows[0].Metadata)
	}
}

func TestRecorder_Record_MetaTypeMismatch(t *testing.T) {
	rec := NewRecorder(&fakeActivityStore{}, nil)

	err := rec.Record(context.Background(), "lead-1", domain.ActivityNote, domain.DeletedMeta{})
	if !domain.IsValidation(err) {
		t.Errorf("Record(mismatched meta) error = %v, want validation", err)
	}
}

func TestRecorder_Record_RequiresLeadID(t *testing.T) {
	rec := NewRecorder(&fakeActivityStore{}, nil)

	err := rec.Record(context.Background(), "", domain.ActivityNote, domain.NoteMeta{Body: "hi"})
	if !domain.IsValidation(err) {
		t.Errorf("Record(no lead) error = %v, want validation", err)
	}
}

func TestRecorder_List(t *testing.T) {
	store := &fakeActivityStore{rows: []ports.ActivityRow{
		{ID: "a1", LeadID: "lead-1", Type: "note", Metadata: []byte(`{"body":"called"}`), CreatedAt: time.Now()},
		{ID: "a2", LeadID: "lead-1", Type: "created", CreatedAt: time.Now()},
		{ID: "a3", LeadID: "lead-1", Type: "note", Metadata: []byte(`{broken`), CreatedAt: time.Now()},
	}}
	rec := NewRecorder(store, nil)

	entries, err := rec.List(context.Background(), "lead-1", 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("count = %d, want 3 (malformed rows are kept)", len(entries))
	}
	if entries[0].Metadata["body"] != "called" {
		t.Errorf("decoded metadata = %v", entries[0].Metadata)
	}
	if entries[1].Metadata != nil {
		t.Errorf("bare row metadata = %v, want nil", entries[1].Metadata)
	}
	if entries[2].Metadata != nil {
		t.Errorf("malformed row metadata = %v, want nil", entries[2].Metadata)
	}
}
