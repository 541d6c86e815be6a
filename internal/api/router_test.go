package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/cid/internal/analysis"
	"github.com/your-org/cid/internal/api/ws"
	"github.com/your-org/cid/internal/config"
	"github.com/your-org/cid/internal/intake"
	"github.com/your-org/cid/internal/store"
	"github.com/your-org/cid/pkg/dto"
)

const backendURL = "http://ml-backend.test"

func newTestRouter(t *testing.T, apiKey string) http.Handler {
	t.Helper()

	records := store.NewRecordStore()
	spoolDir := t.TempDir()
	staging, err := intake.New(config.IntakeConfig{
		SpoolDir:      spoolDir,
		StagedTTL:     time.Minute,
		MaxImageBytes: 10 << 20,
		MaxVideoBytes: 100 << 20,
	})
	require.NoError(t, err)

	client := analysis.NewClient(config.BackendConfig{BaseURL: backendURL, Timeout: 5 * time.Second})

	hub := ws.NewHub()
	go hub.Run()
	client.OnState = hub.BroadcastRunState

	router := NewRouter(RouterConfig{
		APIKey:   apiKey,
		SpoolDir: spoolDir,
		Store:    records,
		Intake:   staging,
		Analysis: client,
		Hub:      hub,
	})
	return router
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func doUpload(t *testing.T, h http.Handler, kind, filename, mime string, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	hdr.Set("Content-Type", mime)
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/uploads/"+kind, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRecordsCRUD(t *testing.T) {
	router := newTestRouter(t, "")

	// Create
	w := doJSON(t, router, http.MethodPost, "/v1/records", payload{
		"name": "John Smith", "crime": "Armed Robbery", "severity": "High", "status": "Wanted",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created dto.RecordResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "John Smith", created.Name)
	assert.Equal(t, "High", created.Severity)

	// List
	w = doJSON(t, router, http.MethodGet, "/v1/records", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list dto.RecordListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Equal(t, 1, list.Total)
	assert.Equal(t, created.ID, list.Records[0].ID)

	// Search
	w = doJSON(t, router, http.MethodGet, "/v1/records?q=robbery", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Total)

	w = doJSON(t, router, http.MethodGet, "/v1/records?q=nothing", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 0, list.Total)

	// Update
	w = doJSON(t, router, http.MethodPatch, "/v1/records/"+created.ID.String(), payload{"status": "Arrested"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated dto.RecordResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Arrested", updated.Status)
	assert.Equal(t, "John Smith", updated.Name)

	// Delete
	w = doJSON(t, router, http.MethodDelete, "/v1/records/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/v1/records/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Deleting again stays a no-op
	w = doJSON(t, router, http.MethodDelete, "/v1/records/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecordsValidation(t *testing.T) {
	router := newTestRouter(t, "")

	tests := []struct {
		name string
		body payload
	}{
		{"missing name", payload{"crime": "Theft"}},
		{"missing crime", payload{"name": "X"}},
		{"bad severity", payload{"name": "X", "crime": "Y", "severity": "Extreme"}},
		{"bad status", payload{"name": "X", "crime": "Y", "status": "Escaped"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/v1/records", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	w := doJSON(t, router, http.MethodPatch, "/v1/records/not-a-uuid", payload{"name": "Z"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploads(t *testing.T) {
	router := newTestRouter(t, "")

	// Accepted image
	w := doUpload(t, router, "image", "face.jpg", "image/jpeg", bytes.Repeat([]byte{1}, 1024))
	require.Equal(t, http.StatusCreated, w.Code)

	var staged dto.StagedFileResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &staged))
	assert.Equal(t, "image", staged.Kind)
	assert.Equal(t, "/v1/uploads/"+staged.ID, staged.PreviewURL)

	// Preview round-trip
	w = doJSON(t, router, http.MethodGet, staged.PreviewURL, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1024), int64(w.Body.Len()))

	// Oversized image
	w = doUpload(t, router, "image", "big.jpg", "image/jpeg", bytes.Repeat([]byte{1}, 11<<20))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	// Wrong type
	w = doUpload(t, router, "image", "anim.gif", "image/gif", []byte("gif"))
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	// Unknown kind
	w = doUpload(t, router, "audio", "x.mp3", "audio/mpeg", []byte("mp3"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Clear releases the preview
	w = doJSON(t, router, http.MethodDelete, "/v1/uploads/image", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, router, http.MethodGet, staged.PreviewURL, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnalysisEndpoints(t *testing.T) {
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)

	router := newTestRouter(t, "")

	// Without staged files: rejected before any backend call.
	w := doJSON(t, router, http.MethodPost, "/v1/analysis", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var aerr dto.AnalysisErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &aerr))
	assert.Equal(t, "missing_input", aerr.Kind)
	assert.NotEmpty(t, aerr.Hint)
	assert.Equal(t, 0, httpmock.GetTotalCallCount())

	// Stage both inputs.
	require.Equal(t, http.StatusCreated, doUpload(t, router, "image", "face.jpg", "image/jpeg", []byte("img")).Code)
	require.Equal(t, http.StatusCreated, doUpload(t, router, "video", "cam.mp4", "video/mp4", []byte("vid")).Code)

	httpmock.RegisterResponder(http.MethodPost, backendURL+"/api/upload-reference",
		httpmock.NewStringResponder(http.StatusOK, `{"success": true}`))
	httpmock.RegisterResponder(http.MethodPost, backendURL+"/api/analyze-video",
		httpmock.NewStringResponder(http.StatusOK, `{
			"matchFound": true,
			"timestamps": [{"time": "00:01:23", "confidence": 92, "cameraId": "CAM-01", "location": "Main Entrance"}],
			"similarityThreshold": 0.8
		}`))

	w = doJSON(t, router, http.MethodPost, "/v1/analysis", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var state dto.AnalysisStateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, "succeeded", state.State)
	require.NotNil(t, state.Result)
	assert.True(t, state.Result.MatchFound)
	assert.InDelta(t, 80, state.Result.Stats.ConfidenceThreshold, 0.001)

	// Snapshot endpoint sees the same result.
	w = doJSON(t, router, http.MethodGet, "/v1/analysis", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, "succeeded", state.State)
	require.NotNil(t, state.Result)

	// Timeline carries display emphasis.
	w = doJSON(t, router, http.MethodGet, "/v1/analysis/timeline", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var timeline dto.TimelineResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &timeline))
	require.Equal(t, 1, timeline.Total)
	assert.Equal(t, "00:01:23", timeline.Entries[0].Time)
	assert.Equal(t, "high", string(timeline.Entries[0].Emphasis))

	// Summary reflects the completed run.
	w = doJSON(t, router, http.MethodGet, "/v1/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary dto.SummaryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	require.NotNil(t, summary.LastAnalysis)
	assert.True(t, summary.LastAnalysis.MatchFound)
	assert.Equal(t, 1, summary.LastAnalysis.Detections)
}

func TestAnalysisBackendProbe(t *testing.T) {
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)

	router := newTestRouter(t, "")

	httpmock.RegisterResponder(http.MethodGet, backendURL+"/api/health",
		httpmock.NewStringResponder(http.StatusOK, `{"status": "ML Backend is running!", "port": 5000}`))

	w := doJSON(t, router, http.MethodGet, "/v1/analysis/backend", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var health analysis.Health
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.True(t, health.Connected)
	assert.Equal(t, 5000, health.Port)
}

func TestAPIKeyAuth(t *testing.T) {
	router := newTestRouter(t, "secret")

	// System endpoints stay open.
	w := doJSON(t, router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Missing key
	w = doJSON(t, router, http.MethodGet, "/v1/records", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Wrong key
	req := httptest.NewRequest(http.MethodGet, "/v1/records", strings.NewReader(""))
	req.Header.Set("X-API-Key", "wrong")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Right key
	req = httptest.NewRequest(http.MethodGet, "/v1/records", strings.NewReader(""))
	req.Header.Set("X-API-Key", "secret")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// payload mirrors gin.H for request bodies without importing gin here.
type payload = map[string]any
