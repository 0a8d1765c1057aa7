package ports

import "github.com/leadrail/leadrail/internal/core/domain"

// PlanFeatures gates paid-tier features by subscription plan.
type PlanFeatures interface {
	// CanUseBoard reports whether the plan may render the Kanban board.
	CanUseBoard(plan domain.Plan) bool

	// CanUseAutomation reports whether the plan may run automation rules.
	// Free-plan forms skip rule evaluation entirely.
	CanUseAutomation(plan domain.Plan) bool
}
