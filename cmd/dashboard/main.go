package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/your-org/cid/internal/analysis"
	"github.com/your-org/cid/internal/api"
	"github.com/your-org/cid/internal/api/ws"
	"github.com/your-org/cid/internal/config"
	"github.com/your-org/cid/internal/intake"
	"github.com/your-org/cid/internal/observability"
	"github.com/your-org/cid/internal/store"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	observability.SetupLogger(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("starting CID dashboard service", "port", cfg.Server.Port, "backend", cfg.Backend.BaseURL)

	// Record store
	records := store.NewRecordStore()
	if cfg.Server.DemoSeed {
		records.SeedDemo()
		slog.Info("seeded demo records", "count", records.Count())
	}

	// Upload staging
	staging, err := intake.New(cfg.Intake)
	if err != nil {
		slog.Error("init upload staging", "error", err)
		os.Exit(1)
	}

	// Remote analysis client
	client := analysis.NewClient(cfg.Backend)

	// WebSocket hub
	hub := ws.NewHub()
	go hub.Run()
	client.OnState = hub.BroadcastRunState

	// Probe the backend once at startup so operators see its state early.
	probeCtx, probeCancel := context.WithTimeout(context.Background(), 3*time.Second)
	if h := client.CheckHealth(probeCtx); h.Connected {
		slog.Info("ML backend reachable", "status", h.Status, "method", h.Method)
	} else {
		slog.Warn("ML backend unreachable — analysis will fail until it is started", "url", cfg.Backend.BaseURL)
	}
	probeCancel()

	// Setup router
	router := api.NewRouter(api.RouterConfig{
		APIKey:   cfg.Server.APIKey,
		SpoolDir: cfg.Intake.SpoolDir,
		Store:    records,
		Intake:   staging,
		Analysis: client,
		Hub:      hub,
	})

	// Start HTTP server. Read/write timeouts are sized for large video
	// uploads and long-running analysis exchanges.
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: cfg.Backend.Timeout + time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("dashboard server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down dashboard server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("dashboard server stopped")
}
