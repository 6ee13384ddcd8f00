package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cardspark/cardex/internal/api"
	"github.com/cardspark/cardex/internal/config"
	"github.com/cardspark/cardex/internal/contactstore"
	"github.com/cardspark/cardex/internal/extract"
	"github.com/cardspark/cardex/internal/pipeline"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present; real environment takes precedence.
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The contact store is optional: without it the service still
	// parses and extracts, it just doesn't persist contacts.
	var store *contactstore.Client
	if cfg.ContactStoreURL != "" {
		store = contactstore.NewClient(cfg.ContactStoreURL, cfg.ContactStoreAPIKey)
	} else {
		log.Warn("no contact store configured, contacts will not be persisted")
	}

	stats := extract.NewStats(cfg.StatsWindow)

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, store, stats, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if store != nil {
			store.Close()
		}
	}()

	log.Info("starting cardex", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
