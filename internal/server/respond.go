package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/leadrail/leadrail/internal/core/domain"
)

// errorResponse is the wire shape of every error body.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError maps domain errors to HTTP status codes. Internal causes are
// logged but never leak into the response body.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	AddError(r.Context(), err)

	var de *domain.Error
	if !errors.As(err, &de) {
		de = domain.ErrInternal("internal error", err)
	}

	status := de.HTTPStatusCode()
	message := de.Message
	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			slog.String("request_id", GetRequestID(r.Context())),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
		message = "internal error"
	}

	writeJSON(w, status, errorResponse{Error: errorDetail{
		Kind:    string(de.Kind),
		Message: message,
	}})
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return domain.ErrValidation("invalid JSON body")
	}
	return nil
}
