package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/your-org/cid/internal/analysis"
	"github.com/your-org/cid/internal/api/handlers"
	"github.com/your-org/cid/internal/api/ws"
	"github.com/your-org/cid/internal/intake"
	"github.com/your-org/cid/internal/store"
)

type RouterConfig struct {
	APIKey   string
	SpoolDir string
	Store    *store.RecordStore
	Intake   *intake.Intake
	Analysis *analysis.Client
	Hub      *ws.Hub
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggingMiddleware())
	r.Use(cors.Default())

	// System endpoints (no auth)
	systemH := handlers.NewSystemHandler(cfg.SpoolDir, cfg.Analysis)
	r.GET("/healthz", systemH.Healthz)
	r.GET("/readyz", systemH.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 (with auth)
	v1 := r.Group("/v1")
	v1.Use(APIKeyMiddleware(cfg.APIKey))

	// WebSocket
	v1.GET("/ws", cfg.Hub.HandleWS)

	// Records (database page)
	recordH := handlers.NewRecordHandler(cfg.Store, cfg.Hub)
	v1.POST("/records", recordH.Create)
	v1.GET("/records", recordH.List)
	v1.GET("/records/:id", recordH.Get)
	v1.PATCH("/records/:id", recordH.Update)
	v1.DELETE("/records/:id", recordH.Delete)

	// Dashboard summary
	summaryH := handlers.NewSummaryHandler(cfg.Store, cfg.Analysis)
	v1.GET("/summary", summaryH.Get)

	// Staged uploads (analysis page)
	uploadH := handlers.NewUploadHandler(cfg.Intake)
	v1.POST("/uploads/:kind", uploadH.Stage)
	v1.DELETE("/uploads/:kind", uploadH.Clear)
	v1.GET("/uploads/:id", uploadH.Preview)

	// Analysis runs
	analysisH := handlers.NewAnalysisHandler(cfg.Analysis, cfg.Intake)
	v1.POST("/analysis", analysisH.Start)
	v1.GET("/analysis", analysisH.Get)
	v1.GET("/analysis/timeline", analysisH.Timeline)
	v1.GET("/analysis/backend", analysisH.Backend)

	return r
}
