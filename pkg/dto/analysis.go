package dto

import (
	"github.com/your-org/cid/internal/analysis"
	"github.com/your-org/cid/internal/intake"
	"github.com/your-org/cid/internal/models"
	"github.com/your-org/cid/internal/present"
)

type StagedFileResponse struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	Filename   string `json:"filename"`
	MIME       string `json:"mime"`
	Size       int64  `json:"size"`
	PreviewURL string `json:"preview_url"`
}

func NewStagedFileResponse(sf intake.StagedFile) StagedFileResponse {
	return StagedFileResponse{
		ID:         sf.ID.String(),
		Kind:       string(sf.Kind),
		Filename:   sf.Filename,
		MIME:       sf.MIME,
		Size:       sf.Size,
		PreviewURL: sf.PreviewURL,
	}
}

// AnalysisErrorResponse carries a classified failure plus user guidance,
// so the UI never has to inspect message text.
type AnalysisErrorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"error"`
	Hint    string `json:"hint,omitempty"`
}

func NewAnalysisErrorResponse(err *analysis.Error) *AnalysisErrorResponse {
	if err == nil {
		return nil
	}
	return &AnalysisErrorResponse{
		Kind:    string(err.Kind),
		Message: err.Message,
		Hint:    err.Kind.Hint(),
	}
}

// AnalysisStateResponse is the snapshot served to the analysis page.
type AnalysisStateResponse struct {
	State  string                 `json:"state"`
	Result *models.AnalysisResult `json:"result,omitempty"`
	Error  *AnalysisErrorResponse `json:"error,omitempty"`
}

type TimelineResponse struct {
	Entries []present.TimelineEntry `json:"entries"`
	Total   int                     `json:"total"`
}

// WSMessage is one WebSocket frame pushed to dashboard clients.
type WSMessage struct {
	Type  string                 `json:"type"` // run_state, record_added, record_updated, record_removed
	State string                 `json:"state,omitempty"`
	Error *AnalysisErrorResponse `json:"error,omitempty"`
	Data  any                    `json:"data,omitempty"`
}
