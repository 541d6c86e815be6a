package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/cid/internal/analysis"
	"github.com/your-org/cid/internal/models"
	"github.com/your-org/cid/internal/store"
	"github.com/your-org/cid/pkg/dto"
)

// SummaryHandler feeds the dashboard overview page.
type SummaryHandler struct {
	store  *store.RecordStore
	client *analysis.Client
}

func NewSummaryHandler(s *store.RecordStore, client *analysis.Client) *SummaryHandler {
	return &SummaryHandler{store: s, client: client}
}

func (h *SummaryHandler) Get(c *gin.Context) {
	recs := h.store.List()

	wanted := 0
	high := 0
	for _, rec := range recs {
		if rec.Status == models.StatusWanted {
			wanted++
		}
		if rec.Severity == models.SeverityHigh {
			high++
		}
	}

	resp := dto.SummaryResponse{
		TotalRecords: len(recs),
		Wanted:       wanted,
		HighSeverity: high,
	}

	if _, result, _ := h.client.Snapshot(); result != nil {
		resp.LastAnalysis = &dto.AnalysisSummary{
			MatchFound:   result.MatchFound,
			Detections:   len(result.Timestamps),
			AnalysisTime: result.AnalysisTime,
		}
	}

	c.JSON(http.StatusOK, resp)
}
