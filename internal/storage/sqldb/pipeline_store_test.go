package sqldb

import (
	"context"
	"testing"

	"github.com/leadrail/leadrail/internal/core/domain"
)

func TestGetOrCreatePipelineForForm(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.GetOrCreatePipelineForForm(ctx, "owner-1", "form-1")
	if err != nil {
		t.Fatalf("GetOrCreatePipelineForForm() error = %v", err)
	}
	if first.Name != domain.DefaultPipelineName {
		t.Errorf("pipeline name = %q, want %q", first.Name, domain.DefaultPipelineName)
	}
	if len(first.Stages) != len(domain.DefaultStageNames) {
		t.Fatalf("stage count = %d, want %d", len(first.Stages), len(domain.DefaultStageNames))
	}
	for i, want := range domain.DefaultStageNames {
		if first.Stages[i].Name != want {
			t.Errorf("stage[%d].Name = %q, want %q", i, first.Stages[i].Name, want)
		}
		if first.Stages[i].Order != i {
			t.Errorf("stage[%d].Order = %d, want %d", i, first.Stages[i].Order, i)
		}
	}

	// Repeat access returns the same pipeline without duplicating stages.
	second, err := store.GetOrCreatePipelineForForm(ctx, "owner-1", "form-1")
	if err != nil {
		t.Fatalf("second GetOrCreatePipelineForForm() error = %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second access created a new pipeline: %s != %s", second.ID, first.ID)
	}
	if len(second.Stages) != len(domain.DefaultStageNames) {
		t.Errorf("second access stage count = %d, want %d", len(second.Stages), len(domain.DefaultStageNames))
	}

	// A different owner with the same form gets an independent pipeline.
	other, err := store.GetOrCreatePipelineForForm(ctx, "owner-2", "form-1")
	if err != nil {
		t.Fatalf("other-owner GetOrCreatePipelineForForm() error = %v", err)
	}
	if other.ID == first.ID {
		t.Error("pipelines should be scoped per owner")
	}
}

func TestGetPipeline_Ownership(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	p, err := store.GetOrCreatePipelineForForm(ctx, "owner-1", "form-1")
	if err != nil {
		t.Fatalf("GetOrCreatePipelineForForm() error = %v", err)
	}

	if _, err := store.GetPipeline(ctx, "owner-1", p.ID); err != nil {
		t.Errorf("GetPipeline(own) error = %v", err)
	}

	// A foreign owner sees not-found, not forbidden.
	if _, err := store.GetPipeline(ctx, "owner-2", p.ID); !domain.IsNotFound(err) {
		t.Errorf("GetPipeline(foreign) error = %v, want not-found", err)
	}
}

func TestUpdatePipelineName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	p, err := store.GetOrCreatePipelineForForm(ctx, "owner-1", "form-1")
	if err != nil {
		t.Fatalf("GetOrCreatePipelineForForm() error = %v", err)
	}

	affected, err := store.UpdatePipelineName(ctx, p.ID, "owner-1", "Enterprise Deals")
	if err != nil {
		t.Fatalf("UpdatePipelineName() error = %v", err)
	}
	if affected != 1 {
		t.Errorf("affected = %d, want 1", affected)
	}

	got, err := store.GetPipeline(ctx, "owner-1", p.ID)
	if err != nil {
		t.Fatalf("GetPipeline() error = %v", err)
	}
	if got.Name != "Enterprise Deals" {
		t.Errorf("name = %q, want %q", got.Name, "Enterprise Deals")
	}

	// Foreign owner renames nothing.
	affected, err = store.UpdatePipelineName(ctx, p.ID, "owner-2", "Hijacked")
	if err != nil {
		t.Fatalf("UpdatePipelineName(foreign) error = %v", err)
	}
	if affected != 0 {
		t.Errorf("foreign affected = %d, want 0", affected)
	}
}

func TestCreateStage(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	p, err := store.GetOrCreatePipelineForForm(ctx, "owner-1", "form-1")
	if err != nil {
		t.Fatalf("GetOrCreatePipelineForForm() error = %v", err)
	}

	// Nil order appends after the defaults.
	stage, err := store.CreateStage(ctx, p.ID, "Negotiation", nil)
	if err != nil {
		t.Fatalf("CreateStage() error = %v", err)
	}
	if stage.Order != len(domain.DefaultStageNames) {
		t.Errorf("appended order = %d, want %d", stage.Order, len(domain.DefaultStageNames))
	}

	order := 2
	mid, err := store.CreateStage(ctx, p.ID, "Demo", &order)
	if err != nil {
		t.Fatalf("CreateStage(order) error = %v", err)
	}
	if mid.Order != 2 {
		t.Errorf("explicit order = %d, want 2", mid.Order)
	}

	if _, err := store.CreateStage(ctx, p.ID, "  ", nil); !domain.IsValidation(err) {
		t.Errorf("CreateStage(blank) error = %v, want validation", err)
	}
}

func TestUpdateStage(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	p, err := store.GetOrCreatePipelineForForm(ctx, "owner-1", "form-1")
	if err != nil {
		t.Fatalf("GetOrCreatePipelineForForm() error = %v", err)
	}
	stage := p.Stages[0]

	name := "Fresh"
	got, err := store.UpdateStage(ctx, stage.ID, domain.StageUpdate{Name: &name})
	if err != nil {
		t.Fatalf("UpdateStage(name) error = %v", err)
	}
	if got.Name != "Fresh" || got.Order != stage.Order {
		t.Errorf("UpdateStage(name) = %+v, want renamed with same order", got)
	}

	// Order changes are last-write-wins: the final position is simply the
	// most recent value written, with no reconciliation of other stages.
	for _, position := range []int{7, 3} {
		pos := position
		got, err = store.UpdateStage(ctx, stage.ID, domain.StageUpdate{Order: &pos})
		if err != nil {
			t.Fatalf("UpdateStage(order=%d) error = %v", pos, err)
		}
	}
	if got.Order != 3 {
		t.Errorf("final order = %d, want 3 (last write)", got.Order)
	}

	if _, err := store.UpdateStage(ctx, stage.ID, domain.StageUpdate{}); !domain.IsValidation(err) {
		t.Errorf("UpdateStage(empty) error = %v, want validation", err)
	}

	if _, err := store.UpdateStage(ctx, "missing", domain.StageUpdate{Name: &name}); !domain.IsNotFound(err) {
		t.Errorf("UpdateStage(missing) error = %v, want not-found", err)
	}
}

func TestGetStageForOwner(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	p, err := store.GetOrCreatePipelineForForm(ctx, "owner-1", "form-1")
	if err != nil {
		t.Fatalf("GetOrCreatePipelineForForm() error = %v", err)
	}
	stage := p.Stages[0]

	got, err := store.GetStageForOwner(ctx, "owner-1", stage.ID)
	if err != nil {
		t.Fatalf("GetStageForOwner() error = %v", err)
	}
	if got.ID != stage.ID {
		t.Errorf("stage id = %s, want %s", got.ID, stage.ID)
	}

	if _, err := store.GetStageForOwner(ctx, "owner-2", stage.ID); !domain.IsNotFound(err) {
		t.Errorf("GetStageForOwner(foreign) error = %v, want not-found", err)
	}
}

func TestUpdateLeadStage(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	p, err := store.GetOrCreatePipelineForForm(ctx, "owner-1", "form-1")
	if err != nil {
		t.Fatalf("GetOrCreatePipelineForForm() error = %v", err)
	}
	foreign, err := store.GetOrCreatePipelineForForm(ctx, "owner-2", "form-2")
	if err != nil {
		t.Fatalf("foreign GetOrCreatePipelineForForm() error = %v", err)
	}

	lead := &domain.Lead{FormID: "form-1", OwnerID: "owner-1"}
	if err := store.CreateLead(ctx, lead); err != nil {
		t.Fatalf("CreateLead() error = %v", err)
	}

	t.Run("move into stage", func(t *testing.T) {
		if err := store.UpdateLeadStage(ctx, lead.ID, "owner-1", p.Stages[1].ID); err != nil {
			t.Fatalf("UpdateLeadStage() error = %v", err)
		}
		got, err := store.GetLead(ctx, "owner-1", lead.ID)
		if err != nil {
			t.Fatalf("GetLead() error = %v", err)
		}
		if got.StageID != p.Stages[1].ID {
			t.Errorf("stage_id = %q, want %q", got.StageID, p.Stages[1].ID)
		}
	})

	t.Run("cross-tenant stage rejected without mutation", func(t *testing.T) {
		err := store.UpdateLeadStage(ctx, lead.ID, "owner-1", foreign.Stages[0].ID)
		if !domain.IsNotFound(err) {
			t.Fatalf("error = %v, want not-found", err)
		}
		got, err := store.GetLead(ctx, "owner-1", lead.ID)
		if err != nil {
			t.Fatalf("GetLead() error = %v", err)
		}
		if got.StageID != p.Stages[1].ID {
			t.Errorf("stage_id mutated to %q on rejected move", got.StageID)
		}
	})

	t.Run("clear stage", func(t *testing.T) {
		if err := store.UpdateLeadStage(ctx, lead.ID, "owner-1", ""); err != nil {
			t.Fatalf("UpdateLeadStage(clear) error = %v", err)
		}
		got, err := store.GetLead(ctx, "owner-1", lead.ID)
		if err != nil {
			t.Fatalf("GetLead() error = %v", err)
		}
		if got.StageID != "" {
			t.Errorf("stage_id = %q, want empty", got.StageID)
		}
	})

	t.Run("missing lead", func(t *testing.T) {
		if err := store.UpdateLeadStage(ctx, "missing", "owner-1", ""); !domain.IsNotFound(err) {
			t.Errorf("error = %v, want not-found", err)
		}
	})

	t.Run("foreign lead", func(t *testing.T) {
		if err := store.UpdateLeadStage(ctx, lead.ID, "owner-2", ""); !domain.IsNotFound(err) {
			t.Errorf("error = %v, want not-found", err)
		}
	})
}
