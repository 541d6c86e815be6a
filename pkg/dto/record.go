package dto

import (
	"github.com/google/uuid"

	"github.com/your-org/cid/internal/models"
)

type CreateRecordRequest struct {
	Name        string `json:"name" binding:"required"`
	Offense     string `json:"crime" binding:"required"`
	Severity    string `json:"severity"`
	Status      string `json:"status"`
	PortraitURL string `json:"image"`
	LastSeen    string `json:"lastSeen"`
	Age         string `json:"age"`
	Height      string `json:"height"`
	Description string `json:"description"`
}

// UpdateRecordRequest is a partial update; absent fields are untouched.
type UpdateRecordRequest struct {
	Name        *string `json:"name"`
	Offense     *string `json:"crime"`
	Severity    *string `json:"severity"`
	Status      *string `json:"status"`
	PortraitURL *string `json:"image"`
	LastSeen    *string `json:"lastSeen"`
	Age         *string `json:"age"`
	Height      *string `json:"height"`
	Description *string `json:"description"`
}

type RecordResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Offense     string    `json:"crime"`
	Severity    string    `json:"severity"`
	Status      string    `json:"status"`
	PortraitURL string    `json:"image"`
	LastSeen    string    `json:"lastSeen,omitempty"`
	Age         string    `json:"age,omitempty"`
	Height      string    `json:"height,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
}

type RecordListResponse struct {
	Records []RecordResponse `json:"records"`
	Total   int              `json:"total"`
}

// SummaryResponse feeds the dashboard overview.
type SummaryResponse struct {
	TotalRecords int              `json:"total_records"`
	Wanted       int              `json:"wanted"`
	HighSeverity int              `json:"high_severity"`
	LastAnalysis *AnalysisSummary `json:"last_analysis,omitempty"`
}

// AnalysisSummary is the dashboard's view of the last completed run.
type AnalysisSummary struct {
	MatchFound   bool   `json:"matchFound"`
	Detections   int    `json:"detections"`
	AnalysisTime string `json:"analysisTime"`
}

func NewRecordResponse(rec models.PersonRecord) RecordResponse {
	return RecordResponse{
		ID:          rec.ID,
		Name:        rec.Name,
		Offense:     rec.Offense,
		Severity:    string(rec.Severity),
		Status:      string(rec.Status),
		PortraitURL: rec.PortraitURL,
		LastSeen:    rec.LastSeen,
		Age:         rec.Age,
		Height:      rec.Height,
		Description: rec.Description,
		CreatedAt:   rec.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:   rec.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
