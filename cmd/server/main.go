package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/dgallion1/demystify/internal/api"
	"github.com/dgallion1/demystify/internal/assistant"
	"github.com/dgallion1/demystify/internal/config"
	"github.com/dgallion1/demystify/internal/llm"
	"github.com/dgallion1/demystify/internal/parser"
	"github.com/dgallion1/demystify/internal/session"
)

func main() {
	cfg := config.Load()

	log := newLogger(cfg.LogDebug)
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", zap.Error(err))
		os.Exit(1)
	}
	creds, _ := cfg.Credentials()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize clients.
	docai, err := parser.NewDocumentAI(ctx, parser.DocumentAIConfig{
		ProjectID:   cfg.ProjectID,
		Location:    cfg.DocumentAILocation,
		ProcessorID: cfg.ProcessorID,
		Credentials: creds,
	})
	if err != nil {
		log.Error("document ai client", zap.Error(err))
		os.Exit(1)
	}
	gen, err := llm.New(cfg, log)
	if err != nil {
		log.Error("generation client", zap.Error(err))
		os.Exit(1)
	}

	extractor := parser.NewExtractor(&parser.PDFParser{FallbackPdftotext: cfg.PDFFallbackPdftotext}, docai, log)
	asst := assistant.New(extractor, gen, log)

	sessions := session.NewStore(cfg.SessionTTL, log)
	sessions.Start(ctx, time.Minute)

	// Initialize HTTP server.
	srv := api.NewServer(sessions, asst, gen, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("shutdown", zap.Error(err))
		}
	}()

	log.Info("starting demystify",
		zap.String("port", cfg.Port),
		zap.String("provider", gen.Provider()),
		zap.String("model", gen.Model()),
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", zap.Error(err))
		os.Exit(1)
	}
	<-stopped

	sessions.Stop()
	if err := docai.Close(); err != nil {
		log.Warn("close document ai client", zap.Error(err))
	}
}

func newLogger(debug bool) *zap.Logger {
	var (
		log *zap.Logger
		err error
	)
	if debug {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return log
}
