package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/ndthub/internal/api"
	"github.com/dgallion1/ndthub/internal/blob"
	"github.com/dgallion1/ndthub/internal/config"
	"github.com/dgallion1/ndthub/internal/extract"
	"github.com/dgallion1/ndthub/internal/ingest"
	"github.com/dgallion1/ndthub/internal/search"
	"github.com/dgallion1/ndthub/internal/store"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := store.Connect(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Seed(ctx); err != nil {
		log.Error("seed failed", "error", err)
		os.Exit(1)
	}

	blobs := blob.NewStore(cfg.StorageRoot)
	extractor := &extract.PDFExtractor{FallbackPdftotext: cfg.PDFFallbackPdftotext}
	ingestor := ingest.NewIngestor(extractor, blobs, db, log)
	searcher := search.NewClient(cfg.SearchSources, cfg.SearchTimeout, log)

	srv := api.NewServer(db, blobs, ingestor, searcher, log, cfg)

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

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting ndthub", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
