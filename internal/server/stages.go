package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/leadrail/leadrail/internal/board"
	"github.com/leadrail/leadrail/internal/core/domain"
)

type renamePipelineRequest struct {
	Name string `json:"name"`
}

// handleRenamePipeline renames a pipeline owned by the caller.
func (s *Server) handleRenamePipeline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := GetSession(ctx)
	pipelineID := chi.URLParam(r, "pipelineID")
	AddLogField(ctx, "pipeline_id", pipelineID)

	var req renamePipelineRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, r, s.logger, domain.ErrValidation("pipeline name is required"))
		return
	}

	affected, err := s.storage.UpdatePipelineName(ctx, pipelineID, sess.OwnerID, name)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	if affected == 0 {
		writeError(w, r, s.logger, domain.ErrNotFound("pipeline not found"))
		return
	}

	pipeline, err := s.storage.GetPipeline(ctx, sess.OwnerID, pipelineID)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, board.SerializePipeline(pipeline))
}

type createStageRequest struct {
	Name  string `json:"name"`
	Order *int   `json:"order"`
}

// handleCreateStage appends a stage to a pipeline the caller owns. Omitted
// order appends at the end of the pipeline.
func (s *Server) handleCreateStage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := GetSession(ctx)
	pipelineID := chi.URLParam(r, "pipelineID")
	AddLogField(ctx, "pipeline_id", pipelineID)

	var req createStageRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, r, s.logger, domain.ErrValidation("stage name is required"))
		return
	}

	// Ownership check before the append; CreateStage itself is unscoped.
	if _, err := s.storage.GetPipeline(ctx, sess.OwnerID, pipelineID); err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	stage, err := s.storage.CreateStage(ctx, pipelineID, name, req.Order)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, board.StageResponse{ID: stage.ID, Name: stage.Name, Order: stage.Order})
}

type updateStageRequest struct {
	Name  *string `json:"name"`
	Order *int    `json:"order"`
}

// handleUpdateStage applies a partial update to a stage. Order changes are
// last-write-wins; concurrent renumbering is not reconciled.
func (s *Server) handleUpdateStage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := GetSession(ctx)
	stageID := chi.URLParam(r, "stageID")
	AddLogField(ctx, "stage_id", stageID)

	var req updateStageRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	upd := domain.StageUpdate{Order: req.Order}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			writeError(w, r, s.logger, domain.ErrValidation("stage name cannot be empty"))
			return
		}
		upd.Name = &name
	}
	if upd.IsEmpty() {
		writeError(w, r, s.logger, domain.ErrValidation("no fields to update"))
		return
	}

	if _, err := s.storage.GetStageForOwner(ctx, sess.OwnerID, stageID); err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	stage, err := s.storage.UpdateStage(ctx, stageID, upd)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, board.StageResponse{ID: stage.ID, Name: stage.Name, Order: stage.Order})
}
