// Package ports defines the interfaces between the core components and
// their collaborators (storage, email transport, plan gating).
package ports

import (
	"context"
	"time"

	"github.com/leadrail/leadrail/internal/core/domain"
)

// PipelineStore owns pipelines and stages: creation, ownership checks, and
// lead stage assignment. Every read and mutation is scoped by the caller's
// owner id; there is no unscoped path.
type PipelineStore interface {
	// GetOrCreatePipelineForForm returns the form's pipeline, creating it
	// together with the default stage set on first access. Idempotent:
	// repeat calls return the same pipeline unchanged.
	GetOrCreatePipelineForForm(ctx context.Context, ownerID, formID string) (*domain.Pipeline, error)

	// GetPipeline returns the pipeline with its stages ordered by display
	// position. Not-found and not-owned are indistinguishable.
	GetPipeline(ctx context.Context, ownerID, pipelineID string) (*domain.Pipeline, error)

	// UpdatePipelineName renames the pipeline and returns the number of
	// affected rows; zero signals not-found-or-not-owned.
	UpdatePipelineName(ctx context.Context, pipelineID, ownerID, name string) (int64, error)

	// CreateStage appends a stage. A nil order defaults to the current
	// stage count (append at end); existing stages are not reordered.
	CreateStage(ctx context.Context, pipelineID, name string, order *int) (*domain.Stage, error)

	// GetStageForOwner resolves a stage joined through its pipeline's
	// owner. Used as the route-level ownership check before UpdateStage.
	GetStageForOwner(ctx context.Context, ownerID, stageID string) (*domain.Stage, error)

	// UpdateStage applies a partial update. Ownership must already have
	// been verified by the caller. Stage order is last-write-wins.
	UpdateStage(ctx context.Context, stageID string, upd domain.StageUpdate) (*domain.Stage, error)

	// UpdateLeadStage moves the lead to stageID, or clears the stage when
	// stageID is empty. It fails with a typed not-found error when the
	// lead is absent or not owned, or when the stage's pipeline belongs
	// to a different owner.
	UpdateLeadStage(ctx context.Context, leadID, ownerID, stageID string) error
}

// RuleStore persists per-form automation rule sets with full-replace
// semantics.
type RuleStore interface {
	// GetAutomationRulesByFormID returns the form's rules ordered by
	// position. Returns an empty slice, not an error, when the form does
	// not exist or is not owned by ownerID.
	GetAutomationRulesByFormID(ctx context.Context, formID, ownerID string) ([]domain.AutomationRule, error)

	// SetAutomationRulesForForm deletes all existing rules for the form
	// and recreates the supplied list, assigning order by slice index.
	// Returns an empty slice without mutating anything when the ownership
	// check fails. An empty rules slice clears the form's automation.
	SetAutomationRulesForForm(ctx context.Context, formID, ownerID string, rules []domain.AutomationRule) ([]domain.AutomationRule, error)

	// GetAutomationRulesForForm loads rules without an ownership check.
	// Only the trigger-evaluation path may call it; the form has already
	// been resolved through a trusted collaborator there.
	GetAutomationRulesForForm(ctx context.Context, formID string) ([]domain.AutomationRule, error)
}

// ActivityRow is the stored form of an activity entry. Metadata stays raw
// so reads can decode lazily and tolerate malformed stored payloads.
type ActivityRow struct {
	ID        string
	LeadID    string
	Type      string
	Metadata  []byte
	CreatedAt time.Time
}

// ActivityStore is the append-only audit trail per lead.
type ActivityStore interface {
	// AppendLeadActivity inserts one immutable row.
	AppendLeadActivity(ctx context.Context, row *ActivityRow) error

	// ListLeadActivities returns up to limit rows, newest first.
	ListLeadActivities(ctx context.Context, leadID string, limit int) ([]ActivityRow, error)
}

// LeadStore persists leads and serves the owner-scoped reads behind the
// board.
type LeadStore interface {
	CreateLead(ctx context.Context, lead *domain.Lead) error
	GetLead(ctx context.Context, ownerID, leadID string) (*domain.Lead, error)
	DeleteLead(ctx context.Context, ownerID, leadID string) error

	// UpdateLeadAssignee sets or clears (empty userID) the assignee.
	UpdateLeadAssignee(ctx context.Context, ownerID, leadID, userID string) error

	// ListLeadsForForm returns the form's leads for the given owner,
	// narrowed by filter when set, oldest first.
	ListLeadsForForm(ctx context.Context, ownerID, formID string, filter domain.BoardFilter) ([]domain.Lead, error)
}

// FormReadModel resolves a form to its owner, plan, and notification
// context. Forms are maintained by an external collaborator.
type FormReadModel interface {
	GetForm(ctx context.Context, formID string) (*domain.Form, error)
}

// SessionStore resolves API key hashes to caller sessions.
type SessionStore interface {
	GetSessionByKeyHash(ctx context.Context, keyHash string) (*domain.Session, error)
}

// StorageProvider is the complete storage surface the service wires up.
type StorageProvider interface {
	PipelineStore
	RuleStore
	ActivityStore
	LeadStore
	FormReadModel
	SessionStore

	Close() error
}
