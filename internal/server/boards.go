package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leadrail/leadrail/internal/board"
	"github.com/leadrail/leadrail/internal/core/domain"
)

// handleGetBoard returns the stage-grouped Kanban view of a form's leads.
// The pipeline is created lazily with the default stage set on first access.
func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := GetSession(ctx)
	formID := chi.URLParam(r, "formID")
	AddLogField(ctx, "form_id", formID)

	form, err := s.forms.GetForm(ctx, formID)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	if form.OwnerID != sess.OwnerID {
		// Not-owned reads 404 like not-found; existence is not revealed.
		writeError(w, r, s.logger, domain.ErrNotFound("form not found"))
		return
	}
	if !s.features.CanUseBoard(form.Plan) {
		writeError(w, r, s.logger, domain.ErrForbidden("board requires a paid plan"))
		return
	}

	pipeline, err := s.storage.GetOrCreatePipelineForForm(ctx, sess.OwnerID, formID)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	filter := domain.BoardFilter{AssignedToUserID: sess.AssignedScope()}
	b, err := s.board.Board(ctx, sess.OwnerID, pipeline.ID, form.Plan, filter)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, board.SerializeBoard(b))
}
