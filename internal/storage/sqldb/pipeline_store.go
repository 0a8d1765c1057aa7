package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/leadrail/leadrail/internal/core/domain"
)

// GetOrCreatePipelineForForm returns the form's pipeline, creating it with
// the default stage set on first access. The insert uses ON CONFLICT DO
// NOTHING on (owner_id, form_id) so concurrent first accesses converge on
// one pipeline; repeat calls return it unchanged.
func (s *Store) GetOrCreatePipelineForForm(ctx context.Context, ownerID, formID string) (*domain.Pipeline, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	pipelineID := uuid.New().String()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO pipelines (id, owner_id, form_id, name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (owner_id, form_id) DO NOTHING`,
		pipelineID, ownerID, formID, domain.DefaultPipelineName, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}

	created, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read insert result: %w", err)
	}

	if created > 0 {
		for i, name := range domain.DefaultStageNames {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO stages (id, pipeline_id, name, position, created_at) VALUES (?, ?, ?, ?, ?)`,
				uuid.New().String(), pipelineID, name, i, now)
			if err != nil {
				return nil, fmt.Errorf("failed to create default stage: %w", err)
			}
		}
	}

	var p domain.Pipeline
	err = tx.QueryRowContext(ctx,
		`SELECT id, owner_id, form_id, name, created_at, updated_at
		 FROM pipelines WHERE owner_id = ? AND form_id = ?`,
		ownerID, formID).Scan(&p.ID, &p.OwnerID, &p.FormID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to load pipeline: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	stages, err := s.listStages(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Stages = stages

	return &p, nil
}

// GetPipeline returns the owner's pipeline with stages ordered by position.
func (s *Store) GetPipeline(ctx context.Context, ownerID, pipelineID string) (*domain.Pipeline, error) {
	var p domain.Pipeline
	err := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, form_id, name, created_at, updated_at
		 FROM pipelines WHERE id = ? AND owner_id = ?`,
		pipelineID, ownerID).Scan(&p.ID, &p.OwnerID, &p.FormID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("pipeline not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pipeline: %w", err)
	}

	stages, err := s.listStages(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Stages = stages

	return &p, nil
}

// UpdatePipelineName renames the pipeline, scoped by owner. Zero affected
// rows means not-found-or-not-owned; the caller maps that to 404.
func (s *Store) UpdatePipelineName(ctx context.Context, pipelineID, ownerID, name string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE pipelines SET name = ?, updated_at = ? WHERE id = ? AND owner_id = ?`,
		name, time.Now().UTC(), pipelineID, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to update pipeline name: %w", err)
	}
	return res.RowsAffected()
}

// CreateStage appends a stage to the pipeline. A nil order defaults to the
// current stage count so the stage lands after all existing ones; existing
// stages keep their positions.
func (s *Store) CreateStage(ctx context.Context, pipelineID, name string, order *int) (*domain.Stage, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.ErrValidation("stage name is required")
	}

	position := 0
	if order != nil {
		position = *order
	} else {
		err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM stages WHERE pipeline_id = ?`, pipelineID).Scan(&position)
		if err != nil {
			return nil, fmt.Errorf("failed to count stages: %w", err)
		}
	}

	stage := &domain.Stage{
		ID:         uuid.New().String(),
		PipelineID: pipelineID,
		Name:       name,
		Order:      position,
		CreatedAt:  time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO stages (id, pipeline_id, name, position, created_at) VALUES (?, ?, ?, ?, ?)`,
		stage.ID, stage.PipelineID, stage.Name, stage.Order, stage.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create stage: %w", err)
	}

	return stage, nil
}

// GetStageForOwner resolves a stage joined through its pipeline's owner.
// Route handlers call this before UpdateStage as the ownership check.
func (s *Store) GetStageForOwner(ctx context.Context, ownerID, stageID string) (*domain.Stage, error) {
	var st domain.Stage
	err := s.db.QueryRowContext(ctx,
		`SELECT s.id, s.pipeline_id, s.name, s.position, s.created_at
		 FROM stages s
		 JOIN pipelines p ON p.id = s.pipeline_id
		 WHERE s.id = ? AND p.owner_id = ?`,
		stageID, ownerID).Scan(&st.ID, &st.PipelineID, &st.Name, &st.Order, &st.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("stage not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stage: %w", err)
	}
	return &st, nil
}

// UpdateStage applies a partial update to the stage. Position updates are
// last-write-wins: there is no version column, and concurrent reordering by
// two sessions can produce an inconsistent final order.
func (s *Store) UpdateStage(ctx context.Context, stageID string, upd domain.StageUpdate) (*domain.Stage, error) {
	if upd.IsEmpty() {
		return nil, domain.ErrValidation("no stage fields to update")
	}

	sets := make([]string, 0, 2)
	args := make([]any, 0, 3)
	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Order != nil {
		sets = append(sets, "position = ?")
		args = append(args, *upd.Order)
	}
	args = append(args, stageID)

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE stages SET %s WHERE id = ?`, strings.Join(sets, ", ")), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update stage: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return nil, domain.ErrNotFound("stage not found")
	}

	var st domain.Stage
	err = s.db.QueryRowContext(ctx,
		`SELECT id, pipeline_id, name, position, created_at FROM stages WHERE id = ?`,
		stageID).Scan(&st.ID, &st.PipelineID, &st.Name, &st.Order, &st.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to reload stage: %w", err)
	}
	return &st, nil
}

// UpdateLeadStage moves the lead into stageID, or clears the assignment
// when stageID is empty. The stage must live in a pipeline owned by the
// same owner as the lead; cross-tenant and cross-pipeline references are
// rejected with a typed not-found error and no mutation.
func (s *Store) UpdateLeadStage(ctx context.Context, leadID, ownerID, stageID string) error {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM leads WHERE id = ? AND owner_id = ?`, leadID, ownerID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check lead: %w", err)
	}
	if exists == 0 {
		return domain.ErrNotFound("lead not found")
	}

	if stageID != "" {
		var owned int
		err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM stages s JOIN pipelines p ON p.id = s.pipeline_id
			 WHERE s.id = ? AND p.owner_id = ?`, stageID, ownerID).Scan(&owned)
		if err != nil {
			return fmt.Errorf("failed to check stage: %w", err)
		}
		if owned == 0 {
			return domain.ErrNotFound("stage not found")
		}
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE leads SET stage_id = ? WHERE id = ? AND owner_id = ?`,
		stageID, leadID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to update lead stage: %w", err)
	}
	return nil
}

func (s *Store) listStages(ctx context.Context, pipelineID string) ([]domain.Stage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, pipeline_id, name, position, created_at
		 FROM stages WHERE pipeline_id = ? ORDER BY position ASC, created_at ASC`,
		pipelineID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stages: %w", err)
	}
	defer rows.Close()

	stages := []domain.Stage{}
	for rows.Next() {
		var st domain.Stage
		if err := rows.Scan(&st.ID, &st.PipelineID, &st.Name, &st.Order, &st.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan stage: %w", err)
		}
		stages = append(stages, st)
	}
	return stages, rows.Err()
}
