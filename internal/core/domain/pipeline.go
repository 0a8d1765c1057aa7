package domain

import "time"

// Pipeline is a named, per-tenant, per-form ordered set of stages. At most
// one pipeline exists per (owner, form) pair; it is created lazily on first
// access to the form's board.
type Pipeline struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	FormID    string    `json:"formId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Stages are populated on reads, ordered by display position.
	Stages []Stage `json:"stages,omitempty"`
}

// Stage is one bucket in a pipeline's workflow. Order is a dense integer
// used purely for display sort; there is no transition-graph restriction
// between stages.
type Stage struct {
	ID         string    `json:"id"`
	PipelineID string    `json:"pipelineId"`
	Name       string    `json:"name"`
	Order      int       `json:"order"`
	CreatedAt  time.Time `json:"createdAt"`
}

// DefaultStageNames is the starter stage set created with every new
// pipeline, in display order.
var DefaultStageNames = []string{"New", "Contacted", "Qualified", "Won", "Lost"}

// DefaultPipelineName names lazily created pipelines.
const DefaultPipelineName = "Sales Pipeline"

// StageUpdate is a partial update to a stage. Nil fields are left unchanged.
type StageUpdate struct {
	Name  *string
	Order *int
}

// IsEmpty reports whether the update would change nothing.
func (u StageUpdate) IsEmpty() bool {
	return u.Name == nil && u.Order == nil
}
