// Package analysis drives the two-phase exchange with the external ML
// backend: the reference image is registered first, then the video is
// analyzed against it. One run is in flight at a time and every run ends
// in exactly one of succeeded or failed.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/your-org/cid/internal/config"
	"github.com/your-org/cid/internal/models"
	"github.com/your-org/cid/internal/observability"
)

// State of the analysis run state machine.
type State string

const (
	StateIdle               State = "idle"
	StateUploadingReference State = "uploading_reference"
	StateAnalyzingVideo     State = "analyzing_video"
	StateSucceeded          State = "succeeded"
	StateFailed             State = "failed"
)

// Media is one input blob for a run. PreviewURL, when set on the
// reference image, becomes the portrait of the synthesized subject.
type Media struct {
	Filename   string
	Reader     io.Reader
	PreviewURL string
}

// Health is the classified outcome of a backend health probe. The
// status/port/method fields are passed through from the backend when
// it is reachable.
type Health struct {
	Connected bool   `json:"connected"`
	Status    string `json:"status,omitempty"`
	Port      int    `json:"port,omitempty"`
	Method    string `json:"method,omitempty"`
}

// Client is the remote analysis client. It owns the run state machine
// and the last completed result; pages read both through Snapshot.
type Client struct {
	baseURL string
	httpc   *http.Client

	// OnState, when set, is called after every state transition. It is
	// invoked outside the client's lock. Set it before the first run.
	OnState func(State, *Error)

	mu      sync.Mutex
	state   State
	running bool
	result  *models.AnalysisResult
	lastErr *Error
}

func NewClient(cfg config.BackendConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpc:   &http.Client{Timeout: cfg.Timeout},
		state:   StateIdle,
	}
}

// State returns the current run state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot returns the current state together with the last result and
// last failure, if any. The result is copied so callers cannot observe
// a later run mutating it.
func (c *Client) Snapshot() (State, *models.AnalysisResult, *Error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var res *models.AnalysisResult
	if c.result != nil {
		cp := *c.result
		cp.Timestamps = append([]models.DetectionEvent(nil), c.result.Timestamps...)
		res = &cp
	}
	var lastErr *Error
	if c.lastErr != nil {
		cp := *c.lastErr
		lastErr = &cp
	}
	return c.state, res, lastErr
}

// Analyze performs one complete run. The two phases are strictly
// sequential; a failure in either phase is terminal for the run and the
// caller must start a new run explicitly. Re-entrant calls while a run
// is active are rejected without touching the in-flight run.
func (c *Client) Analyze(ctx context.Context, ref, video *Media) (*models.AnalysisResult, error) {
	if ref == nil || ref.Reader == nil || video == nil || video.Reader == nil {
		return nil, &Error{Kind: KindMissingInput, Message: "both a reference image and a video are required"}
	}

	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return nil, &Error{Kind: KindAlreadyRunning, Message: "an analysis run is already in progress"}
	}
	c.running = true
	c.state = StateUploadingReference
	c.result = nil
	c.lastErr = nil
	notify := c.OnState
	c.mu.Unlock()

	observability.AnalysesStarted.Inc()
	if notify != nil {
		notify(StateUploadingReference, nil)
	}

	result, runErr := c.run(ctx, ref, video)

	c.mu.Lock()
	c.running = false
	if runErr != nil {
		c.state = StateFailed
		c.lastErr = runErr
	} else {
		c.state = StateSucceeded
		c.result = result
	}
	c.mu.Unlock()

	if runErr != nil {
		observability.AnalysesCompleted.WithLabelValues("failed").Inc()
		slog.Warn("analysis run failed", "kind", runErr.Kind, "message", runErr.Message)
		if notify != nil {
			notify(StateFailed, runErr)
		}
		return nil, runErr
	}

	observability.AnalysesCompleted.WithLabelValues("succeeded").Inc()
	slog.Info("analysis run succeeded",
		"match_found", result.MatchFound,
		"detections", len(result.Timestamps),
		"total_frames", result.TotalFrames,
	)
	if notify != nil {
		notify(StateSucceeded, nil)
	}
	return result, nil
}

type referenceResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

type videoResponse struct {
	Error                   string                  `json:"error"`
	MatchFound              bool                    `json:"matchFound"`
	Timestamps              []models.DetectionEvent `json:"timestamps"`
	AnalysisTime            string                  `json:"analysisTime"`
	TotalFrames             int                     `json:"totalFrames"`
	TotalFacesDetected      int                     `json:"totalFacesDetected"`
	TargetDetections        int                     `json:"targetDetections"`
	DifferentPeopleDetected int                     `json:"differentPeopleDetected"`
	SimilarityThreshold     float64                 `json:"similarityThreshold"`
	Method                  string                  `json:"method"`
	AccuracyNote            string                  `json:"accuracyNote"`
}

func (c *Client) run(ctx context.Context, ref, video *Media) (*models.AnalysisResult, *Error) {
	// Phase 1: register the reference face.
	start := time.Now()
	status, body, err := c.postFile(ctx, "/api/upload-reference", "image", ref)
	observability.AnalysisPhaseDuration.WithLabelValues("upload_reference").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, &Error{Kind: KindTransportUnreachable, Message: err.Error()}
	}

	var refResp referenceResponse
	decodeErr := json.Unmarshal(body, &refResp)
	if status < 200 || status > 299 || decodeErr != nil || !refResp.Success {
		return nil, &Error{Kind: KindReferenceRejected, Message: rejectionMessage(refResp.Error, body, status)}
	}
	slog.Debug("reference accepted", "message", refResp.Message)

	c.transition(StateAnalyzingVideo)

	// Phase 2: analyze the video against the registered reference.
	start = time.Now()
	status, body, err = c.postFile(ctx, "/api/analyze-video", "video", video)
	observability.AnalysisPhaseDuration.WithLabelValues("analyze_video").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, &Error{Kind: KindTransportUnreachable, Message: err.Error()}
	}

	var vidResp videoResponse
	decodeErr = json.Unmarshal(body, &vidResp)
	if status < 200 || status > 299 || decodeErr != nil || vidResp.Error != "" {
		return nil, &Error{Kind: KindVideoAnalysisRejected, Message: rejectionMessage(vidResp.Error, body, status)}
	}

	return normalize(&vidResp, ref), nil
}

func (c *Client) transition(st State) {
	c.mu.Lock()
	c.state = st
	notify := c.OnState
	c.mu.Unlock()

	if notify != nil {
		notify(st, nil)
	}
}

func (c *Client) postFile(ctx context.Context, path, field string, m *Media) (int, []byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, m.Filename)
	if err != nil {
		return 0, nil, err
	}
	if _, err := io.Copy(part, m.Reader); err != nil {
		return 0, nil, fmt.Errorf("read %s: %w", field, err)
	}
	if err := mw.Close(); err != nil {
		return 0, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

// rejectionMessage picks the failure message: the backend's error field
// when present, else the raw body, else a generic status-code message.
func rejectionMessage(errField string, body []byte, status int) string {
	if errField != "" {
		return errField
	}
	if s := strings.TrimSpace(string(body)); s != "" {
		return s
	}
	return fmt.Sprintf("backend returned status %d", status)
}

func normalize(vr *videoResponse, ref *Media) *models.AnalysisResult {
	threshold := vr.SimilarityThreshold
	if threshold == 0 {
		threshold = 0.7
	}
	method := vr.Method
	if method == "" {
		method = "Deep Learning Analysis"
	}
	note := vr.AccuracyNote
	if note == "" {
		note = "Using advanced face recognition"
	}
	analysisTime := vr.AnalysisTime
	if analysisTime == "" {
		analysisTime = "Analysis Complete"
	}
	timestamps := vr.Timestamps
	if timestamps == nil {
		timestamps = []models.DetectionEvent{}
	}

	return &models.AnalysisResult{
		MatchFound: vr.MatchFound,
		Subject: models.SubjectDescriptor{
			Name:        "Target Person",
			Offense:     "Reference Face Match",
			Severity:    models.SeverityHigh,
			PortraitURL: ref.PreviewURL,
		},
		Timestamps:   timestamps,
		AnalysisTime: analysisTime,
		TotalFrames:  vr.TotalFrames,
		Stats: models.AnalysisStats{
			TotalFacesDetected:      vr.TotalFacesDetected,
			TargetDetections:        vr.TargetDetections,
			DifferentPeopleDetected: vr.DifferentPeopleDetected,
			ConfidenceThreshold:     threshold * 100,
			Method:                  method,
			AccuracyNote:            note,
		},
	}
}

// CheckHealth probes the backend health endpoint. It classifies purely
// on reachability and HTTP status and never touches the run state machine.
func (c *Client) CheckHealth(ctx context.Context) Health {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		observability.BackendHealthChecks.WithLabelValues("disconnected").Inc()
		return Health{}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		observability.BackendHealthChecks.WithLabelValues("disconnected").Inc()
		return Health{}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		observability.BackendHealthChecks.WithLabelValues("disconnected").Inc()
		return Health{}
	}

	var h Health
	// The payload shape beyond status/port/method is opaque; decode
	// failures still count as connected since the endpoint answered.
	_ = json.NewDecoder(resp.Body).Decode(&h)
	h.Connected = true
	observability.BackendHealthChecks.WithLabelValues("connected").Inc()
	return h
}
