// Package plan gates paid-tier features by subscription plan.
package plan

import (
	"github.com/leadrail/leadrail/internal/core/domain"
	"github.com/leadrail/leadrail/internal/core/ports"
)

// Features implements ports.PlanFeatures with the standard tier matrix:
// the board and automation are paid features, denied on the free plan.
type Features struct{}

// NewFeatures creates the plan feature matrix.
func NewFeatures() *Features {
	return &Features{}
}

// CanUseBoard reports whether the plan may render the Kanban board.
func (f *Features) CanUseBoard(plan domain.Plan) bool {
	return plan != domain.PlanFree && plan != ""
}

// CanUseAutomation reports whether the plan may run automation rules.
func (f *Features) CanUseAutomation(plan domain.Plan) bool {
	return plan != domain.PlanFree && plan != ""
}

var _ ports.PlanFeatures = (*Features)(nil)
