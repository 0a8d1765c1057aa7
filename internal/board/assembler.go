// Package board builds the stage-grouped, trimmed read projection of a
// form's leads for Kanban rendering.
package board

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leadrail/leadrail/internal/core/domain"
	"github.com/leadrail/leadrail/internal/core/ports"
)

// Assembler groups a pipeline's leads by stage. It returns only leads
// owned by the requesting tenant; plan gating happens at the caller via
// ports.PlanFeatures before the assembler runs.
type Assembler struct {
	pipelines ports.PipelineStore
	leads     ports.LeadStore
	forms     ports.FormReadModel
	logger    *slog.Logger
}

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithLogger sets the logger for the assembler.
func WithLogger(logger *slog.Logger) AssemblerOption {
	return func(a *Assembler) {
		a.logger = logger
	}
}

// NewAssembler creates a board assembler.
func NewAssembler(pipelines ports.PipelineStore, leads ports.LeadStore, forms ports.FormReadModel, opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		pipelines: pipelines,
		leads:     leads,
		forms:     forms,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Board builds the stage-grouped view of the pipeline's leads for ownerID.
// Leads without a stage land in Unassigned (the default "New" bucket). The
// plan parameter is threaded through for callers that gate upstream; the
// assembler itself does not special-case it. When filter.AssignedToUserID
// is set every returned lead is assigned to that user.
func (a *Assembler) Board(ctx context.Context, ownerID, pipelineID string, plan domain.Plan, filter domain.BoardFilter) (*domain.Board, error) {
	_ = plan

	pipeline, err := a.pipelines.GetPipeline(ctx, ownerID, pipelineID)
	if err != nil {
		return nil, err
	}

	formName := ""
	if pipeline.FormID != "" {
		if form, err := a.forms.GetForm(ctx, pipeline.FormID); err == nil {
			formName = form.Name
		} else if !domain.IsNotFound(err) {
			return nil, err
		}
	}

	leads, err := a.leads.ListLeadsForForm(ctx, ownerID, pipeline.FormID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list board leads: %w", err)
	}

	known := make(map[string]bool, len(pipeline.Stages))
	for _, st := range pipeline.Stages {
		known[st.ID] = true
	}

	byStage := make(map[string][]domain.BoardLead, len(pipeline.Stages))
	unassigned := []domain.BoardLead{}
	for _, lead := range leads {
		if lead.OwnerID != ownerID {
			// Store queries are owner-scoped already; a mismatch here
			// would be a query bug, so drop the row and complain loudly.
			a.logger.Error("cross-tenant lead excluded from board",
				slog.String("lead_id", lead.ID),
				slog.String("owner_id", ownerID))
			continue
		}

		bl := domain.BoardLead{
			ID:        lead.ID,
			FormID:    lead.FormID,
			StageID:   lead.StageID,
			Data:      TrimLeadData(lead.Data),
			CreatedAt: lead.CreatedAt,
			FormName:  formName,
		}
		// Leads pointing at a stage that no longer exists render as
		// unassigned rather than vanishing from the board.
		if lead.StageID == "" || !known[lead.StageID] {
			unassigned = append(unassigned, bl)
			continue
		}
		byStage[lead.StageID] = append(byStage[lead.StageID], bl)
	}

	stages := make([]domain.BoardStage, 0, len(pipeline.Stages))
	for _, st := range pipeline.Stages {
		column := domain.BoardStage{
			StageID:   st.ID,
			StageName: st.Name,
			Order:     st.Order,
			Leads:     byStage[st.ID],
		}
		if column.Leads == nil {
			column.Leads = []domain.BoardLead{}
		}
		stages = append(stages, column)
	}

	return &domain.Board{
		Pipeline:   *pipeline,
		Stages:     stages,
		Unassigned: unassigned,
	}, nil
}
