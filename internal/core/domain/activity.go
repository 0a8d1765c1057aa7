package domain

import "time"

// ActivityType identifies the kind of mutation an activity row records.
type ActivityType string

const (
	ActivityCreated      ActivityType = "created"
	ActivityStageChanged ActivityType = "stage_changed"
	ActivityDeleted      ActivityType = "deleted"
	ActivityNote         ActivityType = "note"
	ActivityAssigned     ActivityType = "assigned"
	ActivityUnassigned   ActivityType = "unassigned"
)

// Activity is one immutable audit-trail entry for a lead. Rows are never
// updated or deleted; display order is newest first. Metadata is nil when
// the row carries none or when the stored payload failed to decode.
type Activity struct {
	ID        string         `json:"id"`
	LeadID    string         `json:"-"`
	Type      ActivityType   `json:"type"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"createdAt"`
}

// ActivityMeta is the tagged union of per-type activity payloads. Each kind
// of activity carries exactly one payload shape, validated at the write
// boundary instead of drifting as opaque JSON.
type ActivityMeta interface {
	ActivityType() ActivityType
}

// CreatedMeta accompanies the created activity.
type CreatedMeta struct {
	Source string `json:"source,omitempty"`
}

func (CreatedMeta) ActivityType() ActivityType { return ActivityCreated }

// StageChangedMeta accompanies the stage_changed activity. From fields are
// empty when the lead was previously unassigned.
type StageChangedMeta struct {
	StageID       string `json:"stageId"`
	StageName     string `json:"stageName"`
	FromStageID   string `json:"fromStageId,omitempty"`
	FromStageName string `json:"fromStageName,omitempty"`
}

func (StageChangedMeta) ActivityType() ActivityType { return ActivityStageChanged }

// DeletedMeta accompanies the deleted activity.
type DeletedMeta struct {
	DeletedByEmail string `json:"deletedByEmail,omitempty"`
}

func (DeletedMeta) ActivityType() ActivityType { return ActivityDeleted }

// NoteMeta accompanies the note activity.
type NoteMeta struct {
	Body        string `json:"body"`
	AuthorEmail string `json:"authorEmail,omitempty"`
}

func (NoteMeta) ActivityType() ActivityType { return ActivityNote }

// AssignedMeta accompanies the assigned activity.
type AssignedMeta struct {
	AssignedToUserID   string `json:"assignedToUserId"`
	AssignedToEmail    string `json:"assignedToEmail,omitempty"`
	AssignedByEmail    string `json:"assignedByEmail,omitempty"`
	AssignedByUsername string `json:"assignedByUsername,omitempty"`
}

func (AssignedMeta) ActivityType() ActivityType { return ActivityAssigned }

// UnassignedMeta accompanies the unassigned activity, the symmetric shape
// of AssignedMeta.
type UnassignedMeta struct {
	UnassignedByEmail    string `json:"unassignedByEmail,omitempty"`
	UnassignedByUsername string `json:"unassignedByUsername,omitempty"`
}

func (UnassignedMeta) ActivityType() ActivityType { return ActivityUnassigned }
