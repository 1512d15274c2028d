package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wgomg/wordcloud/internal/api"
	"github.com/wgomg/wordcloud/internal/config"
	"github.com/wgomg/wordcloud/internal/layout"
	"github.com/wgomg/wordcloud/internal/metrics"
	"github.com/wgomg/wordcloud/internal/processor"
	"github.com/wgomg/wordcloud/internal/render"
	"github.com/wgomg/wordcloud/internal/session"
	"github.com/wgomg/wordcloud/internal/tracing"
	"github.com/wgomg/wordcloud/internal/utils"
	"github.com/wgomg/wordcloud/internal/words"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log := utils.NewLogger("error", false, false)
		log.Fatal("Failed to load configuration: ", err)
	}
	if err := cfg.Validate(); err != nil {
		log := utils.NewLogger("error", cfg.App.RawBodyLog, false)
		log.Fatal("Invalid configuration: ", err)
	}

	logger := utils.NewLogger(cfg.App.LogLevel, cfg.App.RawBodyLog, cfg.App.Env == config.Production)
	defer logger.Sync()

	logger.Info("Starting Word Cloud Service")
	logger.Info("Environment: %s", cfg.App.Env)
	logger.Info("Log level: %s", cfg.App.LogLevel)
	logger.Info("Palette: %d gradients, %d colors", len(cfg.Palette.Gradients), len(cfg.Palette.Colors))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.Init(ctx, tracing.Config{
		ServiceName: "wordcloud",
		Environment: string(cfg.App.Env),
		Endpoint:    cfg.Tracing.Endpoint,
		SampleRate:  cfg.Tracing.SampleRate,
		Insecure:    cfg.Tracing.Insecure,
	})
	if err != nil {
		logger.Fatal("Failed to initialize tracing: ", err)
	}
	if tp.Enabled() {
		logger.Info("Exporting traces to %s", cfg.Tracing.Endpoint)
	}

	font, err := render.LoadFontSource(cfg.Export.FontPath)
	if err != nil {
		logger.Fatal("Failed to load export font: ", err)
	}
	defer font.Close()

	collector := metrics.NewCollector("wordcloud")
	sessions := session.NewStore()

	handler := api.NewHandler(api.Deps{
		Logger:    logger,
		Processor: processor.New(words.NewExtractor(), cfg.Palette, logger),
		Placer:    layout.NewSpiralPlacer(render.NewFontMeasurer(font)),
		Exporter:  render.NewExporter(cfg.Palette, font, cfg.Export.Background),
		Sessions:  sessions,
		Metrics:   collector,
		Defaults:  cfg.Cloud,
		Bounds:    cfg.Layout,
		Timeout:   time.Duration(cfg.App.HttpTimeoutSeconds) * time.Second,
	})

	go sessions.RunPruner(ctx, cfg.Session.PruneInterval, cfg.Session.TTL, func(removed, remaining int) {
		collector.Sessions.Set(float64(remaining))
		if removed > 0 {
			logger.Info("Pruned %d idle sessions, %d left", removed, remaining)
		}
	})

	srv := &http.Server{
		Addr: "0.0.0.0:" + cfg.App.ServerPort,
		Handler: api.NewRouter(handler, api.RouterOptions{
			CORSOrigins:  cfg.App.CORSOrigins,
			MaxBodyBytes: cfg.App.MaxBodyBytes,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      time.Duration(cfg.App.HttpTimeoutSeconds) * time.Second * 2,
	}

	go func() {
		logger.Info("Starting server on port %s", cfg.App.ServerPort)
		logger.Info("Endpoints:")
		logger.Info("  GET    /health")
		logger.Info("  GET    /metrics")
		logger.Info("  POST   /clouds")
		logger.Info("  POST   /clouds/export/{format}")
		logger.Info("  POST   /sessions")
		logger.Info("  GET    /sessions/{id}")
		logger.Info("  DELETE /sessions/{id}")
		logger.Info("  PUT    /sessions/{id}/draft")
		logger.Info("  POST   /sessions/{id}/commit")
		logger.Info("  POST   /sessions/{id}/cloud")
		logger.Info("  POST   /sessions/{id}/export/{format}")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server error: ", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown: %v", err)
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		logger.Error("Tracing shutdown: %v", err)
	}
}
