package handlers

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/your-org/cid/internal/analysis"
	"github.com/your-org/cid/internal/intake"
	"github.com/your-org/cid/internal/present"
	"github.com/your-org/cid/pkg/dto"
)

type AnalysisHandler struct {
	client *analysis.Client
	intake *intake.Intake
}

func NewAnalysisHandler(client *analysis.Client, in *intake.Intake) *AnalysisHandler {
	return &AnalysisHandler{client: client, intake: in}
}

// Start runs one complete analysis exchange against the staged files and
// blocks until it finishes. Missing files are rejected without a single
// backend call; a concurrent run is rejected without disturbing it.
func (h *AnalysisHandler) Start(c *gin.Context) {
	ref, closeRef, err := h.stagedMedia(intake.KindImage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer closeRef()

	video, closeVideo, err := h.stagedMedia(intake.KindVideo)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer closeVideo()

	result, err := h.client.Analyze(c.Request.Context(), ref, video)
	if err != nil {
		var aerr *analysis.Error
		if errors.As(err, &aerr) {
			c.JSON(statusForKind(aerr.Kind), dto.NewAnalysisErrorResponse(aerr))
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.AnalysisStateResponse{
		State:  string(analysis.StateSucceeded),
		Result: result,
	})
}

// Get returns the current run state plus the last result or failure.
func (h *AnalysisHandler) Get(c *gin.Context) {
	state, result, lastErr := h.client.Snapshot()

	c.JSON(http.StatusOK, dto.AnalysisStateResponse{
		State:  string(state),
		Result: result,
		Error:  dto.NewAnalysisErrorResponse(lastErr),
	})
}

// Timeline returns the detection timeline of the last completed run,
// decorated with display emphasis.
func (h *AnalysisHandler) Timeline(c *gin.Context) {
	_, result, _ := h.client.Snapshot()

	entries := present.Timeline(result)
	c.JSON(http.StatusOK, dto.TimelineResponse{Entries: entries, Total: len(entries)})
}

// Backend probes the external ML backend's health endpoint.
func (h *AnalysisHandler) Backend(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	c.JSON(http.StatusOK, h.client.CheckHealth(ctx))
}

// stagedMedia opens the staged file of the given kind as an analysis
// input. A missing staged file yields a nil media so the client can
// classify the run as MissingInput itself.
func (h *AnalysisHandler) stagedMedia(kind intake.Kind) (*analysis.Media, func(), error) {
	noop := func() {}

	sf, ok := h.intake.Staged(kind)
	if !ok {
		return nil, noop, nil
	}

	f, err := os.Open(sf.Path)
	if err != nil {
		return nil, noop, err
	}

	return &analysis.Media{
		Filename:   sf.Filename,
		Reader:     f,
		PreviewURL: sf.PreviewURL,
	}, func() { f.Close() }, nil
}

func statusForKind(kind analysis.ErrorKind) int {
	switch kind {
	case analysis.KindMissingInput:
		return http.StatusBadRequest
	case analysis.KindAlreadyRunning:
		return http.StatusConflict
	case analysis.KindTransportUnreachable:
		return http.StatusBadGateway
	case analysis.KindReferenceRejected, analysis.KindVideoAnalysisRejected:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
