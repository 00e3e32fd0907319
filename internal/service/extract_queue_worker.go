package service

import (
	"context"
	"log"
	"sync"
	"time"

	"intakedocs/internal/port"
)

// ExtractQueueConfig holds settings for the extraction queue worker.
type ExtractQueueConfig struct {
	PollInterval time.Duration
	Concurrency  int
	DocTimeout   time.Duration
}

// ExtractQueueWorker polls for queued documents and dispatches them for
// extraction.
type ExtractQueueWorker struct {
	gateway    port.DocumentGateway
	extraction ExtractionService
	cfg        ExtractQueueConfig
	wg         sync.WaitGroup
}

// NewExtractQueueWorker creates a new ExtractQueueWorker.
func NewExtractQueueWorker(gateway port.DocumentGateway, extraction ExtractionService, cfg ExtractQueueConfig) *ExtractQueueWorker {
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 10 * time.Second
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.DocTimeout == 0 {
		cfg.DocTimeout = 10 * time.Minute
	}
	return &ExtractQueueWorker{
		gateway:    gateway,
		extraction: extraction,
		cfg:        cfg,
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight extractions have finished.
func (w *ExtractQueueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	log.Printf("extractQueueWorker: started (poll=%s, concurrency=%d)", w.cfg.PollInterval, w.cfg.Concurrency)

	for {
		select {
		case <-ctx.Done():
			log.Printf("extractQueueWorker: shutting down, waiting for in-flight extractions...")
			w.wg.Wait()
			log.Printf("extractQueueWorker: shutdown complete")
			return
		case <-ticker.C:
			available := w.cfg.Concurrency - len(sem)
			if available <= 0 {
				continue
			}

			docs, err := w.gateway.ClaimQueued(ctx, available)
			if err != nil {
				if ctx.Err() != nil {
					// Context canceled during poll — exit gracefully
					continue
				}
				log.Printf("extractQueueWorker: ClaimQueued error: %v", err)
				continue
			}

			for i := range docs {
				doc := docs[i] // copy for goroutine

				sem <- struct{}{} // acquire
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }() // release

					// Use a fresh context independent of the poll context
					// so in-flight extractions complete even during shutdown.
					docCtx, cancel := context.WithTimeout(context.Background(), w.cfg.DocTimeout)
					defer cancel()

					log.Printf("extractQueueWorker: dispatching document %s", doc.ID)
					w.extraction.ExtractDocument(docCtx, &doc)
				}()
			}
		}
	}
}
