package domain

import "time"

// Board is the stage-grouped, trimmed read projection of a form's leads
// for Kanban rendering. Every lead on the board belongs to the pipeline
// owner's tenant; leads with no stage land in Unassigned.
type Board struct {
	Pipeline   Pipeline
	Stages     []BoardStage
	Unassigned []BoardLead
}

// BoardStage is one column of the board.
type BoardStage struct {
	StageID   string
	StageName string
	Order     int
	Leads     []BoardLead
}

// BoardLead is the trimmed lead projection used on the board. Data holds a
// bounded subset of the submitted payload; callers needing the full payload
// fetch the lead individually.
type BoardLead struct {
	ID        string
	FormID    string
	StageID   string
	Data      map[string]any
	CreatedAt time.Time
	FormName  string
}

// BoardFilter narrows a board or lead listing. When AssignedToUserID is
// set, every returned lead must be assigned to that user.
type BoardFilter struct {
	AssignedToUserID string
}
