// Package server exposes the HTTP surface: lead intake, the Kanban board,
// pipeline and stage management, automation rule configuration, and the
// lead activity timeline.
package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/leadrail/leadrail/internal/activity"
	"github.com/leadrail/leadrail/internal/automation"
	"github.com/leadrail/leadrail/internal/board"
	"github.com/leadrail/leadrail/internal/core/ports"
)

// Config wires a Server.
type Config struct {
	Port           int
	RequestTimeout time.Duration

	Storage    ports.StorageProvider
	Forms      ports.FormReadModel
	Features   ports.PlanFeatures
	Board      *board.Assembler
	Activities *activity.Recorder
	Dispatcher *automation.Dispatcher

	Logger *slog.Logger
}

// Server is the HTTP front door.
type Server struct {
	Router *chi.Mux
	Port   int

	storage    ports.StorageProvider
	forms      ports.FormReadModel
	features   ports.PlanFeatures
	board      *board.Assembler
	activities *activity.Recorder
	dispatcher *automation.Dispatcher
	logger     *slog.Logger
}

// New builds the router and mounts all routes. Lead intake is public; every
// other route requires a valid API key.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	s := &Server{
		Port:       cfg.Port,
		storage:    cfg.Storage,
		forms:      cfg.Forms,
		features:   cfg.Features,
		board:      cfg.Board,
		activities: cfg.Activities,
		dispatcher: cfg.Dispatcher,
		logger:     logger,
	}

	r := chi.NewRouter()

	// Apply middleware in order
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(logger))
	r.Use(TimeoutMiddleware(timeout))
	r.Use(middleware.Recoverer)

	// Wrap with OpenTelemetry HTTP instrumentation
	r.Use(func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, "leadrail")
	})

	r.Route("/v1", func(r chi.Router) {
		// Public intake endpoint hit by hosted form embeds.
		r.Post("/forms/{formID}/leads", s.handleLeadIntake)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(s.storage))

			r.Get("/forms/{formID}/board", s.handleGetBoard)
			r.Get("/forms/{formID}/automations", s.handleGetRules)
			r.Put("/forms/{formID}/automations", s.handleSetRules)

			r.Patch("/pipelines/{pipelineID}", s.handleRenamePipeline)
			r.Post("/pipelines/{pipelineID}/stages", s.handleCreateStage)
			r.Patch("/stages/{stageID}", s.handleUpdateStage)

			r.Patch("/leads/{leadID}/stage", s.handleMoveLeadStage)
			r.Patch("/leads/{leadID}/assign", s.handleAssignLead)
			r.Post("/leads/{leadID}/notes", s.handleAddNote)
			r.Delete("/leads/{leadID}", s.handleDeleteLead)
			r.Get("/leads/{leadID}/activities", s.handleListActivities)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.Router = r
	return s
}

// Start blocks serving HTTP on the configured port.
func (s *Server) Start() error {
	s.logger.Info("starting server", slog.Int("port", s.Port))
	return http.ListenAndServe(fmt.Sprintf(":%d", s.Port), s.Router)
}
