package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/texthl/internal/api"
	"github.com/dgallion1/texthl/internal/config"
	"github.com/dgallion1/texthl/internal/pathstore"
	"github.com/dgallion1/texthl/internal/session"
	"github.com/dgallion1/texthl/internal/stats"
)

const sessionCleanupInterval = 5 * time.Minute

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.LoadHighlighter(); err != nil {
		log.Error("invalid highlighter configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Open documents live in memory and expire after SessionTTL.
	sessions := session.NewStore(cfg.SessionTTL, cfg.MaxSessions)
	go sessions.Run(ctx, sessionCleanupInterval)

	var ps *pathstore.Client
	if cfg.PersistenceEnabled() {
		ps = pathstore.NewClient(cfg.PathstoreURL, cfg.PathstoreAPIKey)
	} else {
		log.Warn("PATHSTORE_URL not set, persistence endpoints disabled")
	}

	srv := api.NewServer(sessions, ps, stats.NewRegistry(cfg.StatsWindow), log, cfg)

	// WriteTimeout stays unset: event streams are long-lived and set their
	// own per-message deadlines.
	httpServer := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     srv,
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		cancel()
		// Closing sessions ends event streams, which Shutdown does not track.
		sessions.CloseAll()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if ps != nil {
			ps.Close()
		}
	}()

	log.Info("starting texthl", "port", cfg.Port, "persistence", ps != nil)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
