package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bonyoongoo/campusfeed/internal/adapters/annotate"
	"github.com/bonyoongoo/campusfeed/internal/adapters/catalog"
	"github.com/bonyoongoo/campusfeed/internal/adapters/http/api"
	"github.com/bonyoongoo/campusfeed/internal/adapters/kv"
	app "github.com/bonyoongoo/campusfeed/internal/app"
	"github.com/bonyoongoo/campusfeed/internal/config"
	"github.com/bonyoongoo/campusfeed/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Pick the persistence backend: file-backed when a data dir is
	// configured, in-memory otherwise.
	var store kv.Store = kv.NewMemory()
	if cfg.DataDir != "" {
		fileStore, err := kv.NewFile(cfg.DataDir)
		if err != nil {
			os.Stderr.WriteString("failed to open data dir: " + err.Error() + "\n")
			return
		}
		store = fileStore
		log.Info(ctx, "using file store", logger.String("dir", cfg.DataDir))
	}

	// Annotation chain: remote collaborator when configured, with the
	// local heuristic always available as fallback.
	var annotator annotate.Annotator = annotate.NewHeuristic()
	if cfg.AnnotateURL != "" {
		client := annotate.NewClient(cfg.AnnotateURL,
			annotate.WithTimeout(time.Duration(cfg.AnnotateTimeoutMS)*time.Millisecond),
		)
		annotator = annotate.NewFallback(client, annotate.NewHeuristic())
	}

	svc := app.New(
		app.WithLogger(log),
		app.WithStore(store),
		app.WithSource(catalog.New(cfg.CatalogURL,
			catalog.WithTimeout(time.Duration(cfg.FetchTimeoutMS)*time.Millisecond),
		)),
		app.WithAnnotator(annotator),
		app.WithTagCloudSize(cfg.TagCloudSize),
		app.WithTrendingSize(cfg.TrendingSize),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.NewServer(svc).Router(),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
}
