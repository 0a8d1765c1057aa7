package board

import (
	"time"

	"github.com/leadrail/leadrail/internal/core/domain"
)

// PipelineResponse is the wire shape of a pipeline.
type PipelineResponse struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	FormID *string         `json:"formId"`
	Stages []StageResponse `json:"stages"`
}

// StageResponse is the wire shape of a stage.
type StageResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// BoardResponse is the wire shape of a board.
type BoardResponse struct {
	Pipeline        PipelineResponse     `json:"pipeline"`
	Stages          []BoardStageResponse `json:"stages"`
	UnassignedLeads []BoardLeadResponse  `json:"unassignedLeads"`
}

// BoardStageResponse is one board column on the wire.
type BoardStageResponse struct {
	StageID   string              `json:"stageId"`
	StageName string              `json:"stageName"`
	Order     int                 `json:"order"`
	Leads     []BoardLeadResponse `json:"leads"`
}

// BoardLeadResponse is the trimmed lead card on the wire. CreatedAt is
// ISO-8601.
type BoardLeadResponse struct {
	ID        string         `json:"id"`
	FormID    string         `json:"formId"`
	StageID   string         `json:"stageId"`
	Data      map[string]any `json:"data"`
	CreatedAt string         `json:"createdAt"`
	FormName  string         `json:"formName"`
}

// SerializePipeline converts a pipeline to its wire shape.
func SerializePipeline(p *domain.Pipeline) PipelineResponse {
	resp := PipelineResponse{
		ID:     p.ID,
		Name:   p.Name,
		Stages: make([]StageResponse, 0, len(p.Stages)),
	}
	if p.FormID != "" {
		formID := p.FormID
		resp.FormID = &formID
	}
	for _, st := range p.Stages {
		resp.Stages = append(resp.Stages, StageResponse{ID: st.ID, Name: st.Name, Order: st.Order})
	}
	return resp
}

// SerializeBoard converts an assembled board into the wire format:
// flattened stage/lead arrays and ISO-8601 timestamps.
func SerializeBoard(b *domain.Board) *BoardResponse {
	resp := &BoardResponse{
		Pipeline:        SerializePipeline(&b.Pipeline),
		Stages:          make([]BoardStageResponse, 0, len(b.Stages)),
		UnassignedLeads: serializeLeads(b.Unassigned),
	}
	for _, st := range b.Stages {
		resp.Stages = append(resp.Stages, BoardStageResponse{
			StageID:   st.StageID,
			StageName: st.StageName,
			Order:     st.Order,
			Leads:     serializeLeads(st.Leads),
		})
	}
	return resp
}

func serializeLeads(leads []domain.BoardLead) []BoardLeadResponse {
	out := make([]BoardLeadResponse, 0, len(leads))
	for _, l := range leads {
		data := l.Data
		if data == nil {
			data = map[string]any{}
		}
		out = append(out, BoardLeadResponse{
			ID:        l.ID,
			FormID:    l.FormID,
			StageID:   l.StageID,
			Data:      data,
			CreatedAt: l.CreatedAt.UTC().Format(time.RFC3339),
			FormName:  l.FormName,
		})
	}
	return out
}
