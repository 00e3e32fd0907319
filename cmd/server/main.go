package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"intakedocs/internal/config"
	"intakedocs/internal/extract"
	"intakedocs/internal/extract/claude"
	"intakedocs/internal/extract/openai"
	"intakedocs/internal/gateway"
	"intakedocs/internal/handler"
	"intakedocs/internal/port"
	"intakedocs/internal/router"
	"intakedocs/internal/schema"
	"intakedocs/internal/service"
	s3storage "intakedocs/internal/storage/s3"
	"intakedocs/internal/textextract"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func registerProviders() {
	extract.RegisterProvider("openai", func(cfg *config.ChatProviderConfig) (port.ChatCompleter, error) {
		return openai.NewClient(cfg), nil
	})
	extract.RegisterProvider("claude", func(cfg *config.ChatProviderConfig) (port.ChatCompleter, error) {
		return claude.NewClient(cfg), nil
	})
}

// buildChatCompleter assembles the model tier from the provider configs. No
// API key means deterministic-only extraction; a configured secondary
// provider becomes the rate-limit fallback.
func buildChatCompleter(cfg *config.ExtractorConfig) (port.ChatCompleter, error) {
	if cfg.Primary.APIKey == "" {
		log.Printf("main: no model API key configured, running deterministic extraction only")
		return nil, nil
	}

	primary, err := extract.NewChatCompleter(&cfg.Primary)
	if err != nil {
		return nil, fmt.Errorf("creating primary model provider: %w", err)
	}

	secondaryCfg := cfg.SecondaryConfig()
	if secondaryCfg == nil || secondaryCfg.APIKey == "" {
		return primary, nil
	}

	secondary, err := extract.NewChatCompleter(secondaryCfg)
	if err != nil {
		return nil, fmt.Errorf("creating secondary model provider: %w", err)
	}

	return extract.NewFallbackCompleter(
		[]port.ChatCompleter{primary, secondary},
		[]string{cfg.Primary.Provider, secondaryCfg.Provider},
	), nil
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	registerProviders()

	// Extraction config source: remote endpoint when configured, local file otherwise
	var schemaProvider port.ConfigProvider
	if cfg.Schema.URL != "" {
		schemaProvider = schema.NewHTTPProvider(cfg.Schema.URL, time.Duration(cfg.Schema.TimeoutSecs)*time.Second)
	} else {
		schemaProvider = schema.NewFileProvider(cfg.Schema.Path)
	}

	storage, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	gw := gateway.NewClient(&cfg.API)

	chat, err := buildChatCompleter(&cfg.Extractor)
	if err != nil {
		return err
	}

	extractionSvc := service.NewExtractionService(
		gw,
		storage,
		schemaProvider,
		textextract.NewPDFExtractor(),
		extract.NewExtractor(chat),
		service.PipelineConfig{
			Timeout:       time.Duration(cfg.Pipeline.TimeoutMins) * time.Minute,
			FetchRetries:  cfg.Pipeline.FetchRetries,
			MinTextLength: cfg.Pipeline.MinTextLength,
		},
	)

	extractionH := handler.NewExtractionHandler(extractionSvc, schemaProvider)
	healthH := handler.NewHealthHandler(schemaProvider)

	r := router.Setup(extractionH, healthH, cfg.CORS.AllowedOrigins)

	// Queue worker runs until shutdown
	workerCtx, stopWorker := context.WithCancel(context.Background())
	worker := service.NewExtractQueueWorker(gw, extractionSvc, service.ExtractQueueConfig{
		PollInterval: time.Duration(cfg.Queue.PollIntervalSecs) * time.Second,
		Concurrency:  cfg.Queue.Concurrency,
		DocTimeout:   time.Duration(cfg.Pipeline.TimeoutMins) * time.Minute,
	})
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(workerCtx)
	}()

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		stopWorker()
		<-workerDone
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		log.Printf("main: received %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("main: server shutdown error: %v", err)
	}

	stopWorker()
	<-workerDone

	return nil
}
