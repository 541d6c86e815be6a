package handlers

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/your-org/cid/internal/analysis"
)

type SystemHandler struct {
	spoolDir string
	client   *analysis.Client
}

func NewSystemHandler(spoolDir string, client *analysis.Client) *SystemHandler {
	return &SystemHandler{spoolDir: spoolDir, client: client}
}

func (h *SystemHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *SystemHandler) Readyz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	// Check the upload spool
	if err := checkWritable(h.spoolDir); err != nil {
		checks["spool"] = err.Error()
		healthy = false
	} else {
		checks["spool"] = "ok"
	}

	// The ML backend is an external collaborator: its absence degrades the
	// analysis page but the dashboard itself still serves, so it is
	// reported without gating readiness.
	if h.client.CheckHealth(ctx).Connected {
		checks["backend"] = "ok"
	} else {
		checks["backend"] = "unreachable"
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status": map[bool]string{true: "ready", false: "not ready"}[healthy],
		"checks": checks,
	})
}

func checkWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return err
	}
	f.Close()
	return os.Remove(f.Name())
}
