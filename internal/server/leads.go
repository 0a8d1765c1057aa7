package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/leadrail/leadrail/internal/core/domain"
)

// handleLeadIntake accepts a public form submission, persists it as an
// unassigned lead, records the created activity, and fires the
// lead_submitted automation trigger. The intake path never fails because of
// automation: rule evaluation and delivery happen off the response path.
func (s *Server) handleLeadIntake(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	formID := chi.URLParam(r, "formID")
	AddLogField(ctx, "form_id", formID)

	var fields map[string]any
	if err := decodeBody(r, &fields); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	if fields == nil {
		fields = map[string]any{}
	}

	form, err := s.forms.GetForm(ctx, formID)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		writeError(w, r, s.logger, domain.ErrValidation("unserializable submission"))
		return
	}

	lead := &domain.Lead{
		FormID:  formID,
		OwnerID: form.OwnerID,
		Data:    string(raw),
	}
	if err := s.storage.CreateLead(ctx, lead); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	AddLogField(ctx, "lead_id", lead.ID)

	if err := s.activities.Record(ctx, lead.ID, domain.ActivityCreated, domain.CreatedMeta{Source: "form"}); err != nil {
		// The lead is already persisted; a missing audit row is not worth
		// failing the submission over.
		s.logger.Warn("failed to record created activity",
			slog.String("lead_id", lead.ID),
			slog.String("error", err.Error()))
	}

	s.dispatcher.Run(ctx, domain.LeadEvent{
		FormID:     formID,
		Trigger:    domain.TriggerLeadSubmitted,
		LeadData:   fields,
		FormName:   form.Name,
		AdminEmail: form.AdminEmail,
		OccurredAt: time.Now().UTC(),
	})

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":        lead.ID,
		"formId":    lead.FormID,
		"createdAt": lead.CreatedAt.UTC().Format(time.RFC3339),
	})
}

type moveLeadStageRequest struct {
	StageID string `json:"stageId"`
}

// handleMoveLeadStage moves a lead between stages (or clears the stage when
// stageId is empty), records the stage_changed activity, and fires the
// lead_stage_changed automation trigger.
func (s *Server) handleMoveLeadStage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := GetSession(ctx)
	leadID := chi.URLParam(r, "leadID")
	AddLogField(ctx, "lead_id", leadID)

	var req moveLeadStageRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	lead, err := s.storage.GetLead(ctx, sess.OwnerID, leadID)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	meta := domain.StageChangedMeta{}
	if lead.StageID != "" {
		if from, err := s.storage.GetStageForOwner(ctx, sess.OwnerID, lead.StageID); err == nil {
			meta.FromStageID = from.ID
			meta.FromStageName = from.Name
		}
	}
	if req.StageID != "" {
		to, err := s.storage.GetStageForOwner(ctx, sess.OwnerID, req.StageID)
		if err != nil {
			writeError(w, r, s.logger, err)
			return
		}
		meta.StageID = to.ID
		meta.StageName = to.Name
	}

	if err := s.storage.UpdateLeadStage(ctx, leadID, sess.OwnerID, req.StageID); err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	if err := s.activities.Record(ctx, leadID, domain.ActivityStageChanged, meta); err != nil {
		s.logger.Warn("failed to record stage_changed activity",
			slog.String("lead_id", leadID),
			slog.String("error", err.Error()))
	}

	// Stage-change rules fire even when the stage was cleared; the empty
	// stage name only matches rules without a stage filter.
	if form, err := s.forms.GetForm(ctx, lead.FormID); err == nil {
		s.dispatcher.Run(ctx, domain.LeadEvent{
			FormID:     lead.FormID,
			Trigger:    domain.TriggerLeadStageChanged,
			LeadData:   parseLeadData(lead.Data),
			FormName:   form.Name,
			AdminEmail: form.AdminEmail,
			StageName:  meta.StageName,
			OccurredAt: time.Now().UTC(),
		})
	}

	updated, err := s.storage.GetLead(ctx, sess.OwnerID, leadID)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

type assignLeadRequest struct {
	AssignedToUserID string `json:"assignedToUserId"`
	AssignedToEmail  string `json:"assignedToEmail"`
}

// handleAssignLead sets or clears (empty assignedToUserId) the lead's
// assignee and records the matching activity.
func (s *Server) handleAssignLead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := GetSession(ctx)
	leadID := chi.URLParam(r, "leadID")
	AddLogField(ctx, "lead_id", leadID)

	var req assignLeadRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	if _, err := s.storage.GetLead(ctx, sess.OwnerID, leadID); err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	if err := s.storage.UpdateLeadAssignee(ctx, sess.OwnerID, leadID, req.AssignedToUserID); err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	var typ domain.ActivityType
	var meta domain.ActivityMeta
	if req.AssignedToUserID == "" {
		typ = domain.ActivityUnassigned
		meta = domain.UnassignedMeta{
			UnassignedByEmail:    sess.Email,
			UnassignedByUsername: sess.Username,
		}
	} else {
		typ = domain.ActivityAssigned
		meta = domain.AssignedMeta{
			AssignedToUserID:   req.AssignedToUserID,
			AssignedToEmail:    req.AssignedToEmail,
			AssignedByEmail:    sess.Email,
			AssignedByUsername: sess.Username,
		}
	}
	if err := s.activities.Record(ctx, leadID, typ, meta); err != nil {
		s.logger.Warn("failed to record assignment activity",
			slog.String("lead_id", leadID),
			slog.String("error", err.Error()))
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"id":               leadID,
		"assignedToUserId": req.AssignedToUserID,
	})
}

type addNoteRequest struct {
	Body string `json:"body"`
}

// handleAddNote appends a note activity to the lead's timeline.
func (s *Server) handleAddNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := GetSession(ctx)
	leadID := chi.URLParam(r, "leadID")
	AddLogField(ctx, "lead_id", leadID)

	var req addNoteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	if strings.TrimSpace(req.Body) == "" {
		writeError(w, r, s.logger, domain.ErrValidation("note body is required"))
		return
	}

	if _, err := s.storage.GetLead(ctx, sess.OwnerID, leadID); err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	if err := s.activities.Record(ctx, leadID, domain.ActivityNote, domain.NoteMeta{
		Body:        req.Body,
		AuthorEmail: sess.Email,
	}); err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"leadId": leadID})
}

// handleDeleteLead removes the lead. The deleted activity is written before
// the row goes away so the audit trail records who removed it.
func (s *Server) handleDeleteLead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := GetSession(ctx)
	leadID := chi.URLParam(r, "leadID")
	AddLogField(ctx, "lead_id", leadID)

	if _, err := s.storage.GetLead(ctx, sess.OwnerID, leadID); err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	if err := s.activities.Record(ctx, leadID, domain.ActivityDeleted, domain.DeletedMeta{
		DeletedByEmail: sess.Email,
	}); err != nil {
		s.logger.Warn("failed to record deleted activity",
			slog.String("lead_id", leadID),
			slog.String("error", err.Error()))
	}

	if err := s.storage.DeleteLead(ctx, sess.OwnerID, leadID); err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleListActivities returns the lead's timeline, newest first.
func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := GetSession(ctx)
	leadID := chi.URLParam(r, "leadID")
	AddLogField(ctx, "lead_id", leadID)

	if _, err := s.storage.GetLead(ctx, sess.OwnerID, leadID); err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, r, s.logger, domain.ErrValidation("limit must be a positive integer"))
			return
		}
		limit = n
	}

	entries, err := s.activities.List(ctx, leadID, limit)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"activities": entries})
}

// parseLeadData decodes the stored submission JSON for template
// substitution. Malformed data yields an empty map.
func parseLeadData(raw string) map[string]any {
	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil || fields == nil {
		return map[string]any{}
	}
	return fields
}
