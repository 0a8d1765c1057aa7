package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leadrail/leadrail/internal/core/domain"
)

type ruleSetResponse struct {
	Rules []domain.AutomationRule `json:"rules"`
}

// handleGetRules returns the form's automation rule set in evaluation order.
// A form that does not exist or is not owned by the caller reads as an empty
// rule set.
func (s *Server) handleGetRules(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := GetSession(ctx)
	formID := chi.URLParam(r, "formID")
	AddLogField(ctx, "form_id", formID)

	rules, err := s.storage.GetAutomationRulesByFormID(ctx, formID, sess.OwnerID)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, ruleSetResponse{Rules: rules})
}

type setRulesRequest struct {
	Rules []domain.AutomationRule `json:"rules"`
}

// handleSetRules replaces the form's rule set wholesale. Order follows array
// position; an empty array clears all automation for the form. Any invalid
// rule rejects the whole request before anything is written.
func (s *Server) handleSetRules(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := GetSession(ctx)
	formID := chi.URLParam(r, "formID")
	AddLogField(ctx, "form_id", formID)

	var req setRulesRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	for i := range req.Rules {
		if err := req.Rules[i].Validate(); err != nil {
			writeError(w, r, s.logger, domain.ErrValidation(fmt.Sprintf("rule %d: %v", i, err)))
			return
		}
	}

	saved, err := s.storage.SetAutomationRulesForForm(ctx, formID, sess.OwnerID, req.Rules)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, ruleSetResponse{Rules: saved})
}
