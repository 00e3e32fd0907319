package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"intakedocs/internal/domain"
	"intakedocs/internal/extract"
	"intakedocs/internal/port"
)

const (
	fetchRetryBaseDelay = 500 * time.Millisecond

	// statusWriteTimeout bounds terminal status writes issued on a
	// context detached from the pipeline deadline.
	statusWriteTimeout = 30 * time.Second
)

// PipelineConfig holds per-document pipeline settings.
type PipelineConfig struct {
	Timeout       time.Duration
	FetchRetries  int
	MinTextLength int
}

// ExtractionService defines the document extraction workflow contract.
type ExtractionService interface {
	ProcessDocument(ctx context.Context, docID uuid.UUID) domain.ExtractionResult
	ProcessSubmission(ctx context.Context, submissionID uuid.UUID) (*domain.SubmissionResult, error)
	ExtractDocument(ctx context.Context, doc *domain.Document) domain.ExtractionResult
}

type extractionService struct {
	gateway   port.DocumentGateway
	storage   port.ObjectStorage
	schema    port.ConfigProvider
	text      port.TextExtractor
	extractor *extract.Extractor
	cfg       PipelineConfig
}

// NewExtractionService creates the extraction workflow orchestrator.
func NewExtractionService(
	gateway port.DocumentGateway,
	storage port.ObjectStorage,
	schemaProvider port.ConfigProvider,
	textExtractor port.TextExtractor,
	fieldExtractor *extract.Extractor,
	cfg PipelineConfig,
) ExtractionService {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Minute
	}
	if cfg.MinTextLength == 0 {
		cfg.MinTextLength = 10
	}
	return &extractionService{
		gateway:   gateway,
		storage:   storage,
		schema:    schemaProvider,
		text:      textExtractor,
		extractor: fieldExtractor,
		cfg:       cfg,
	}
}

// ProcessDocument fetches the document's metadata and runs the extraction
// pipeline on it. The returned result always carries an entry for the
// document, success or not.
func (s *extractionService) ProcessDocument(ctx context.Context, docID uuid.UUID) domain.ExtractionResult {
	doc, err := s.gateway.GetDocument(ctx, docID)
	if err != nil {
		errMsg := fmt.Sprintf("fetching document: %v", err)
		log.Printf("extractionService.ProcessDocument: failed to fetch document %s: %v", docID, err)
		if updErr := s.gateway.UpdateDocumentStatus(ctx, docID, port.StatusUpdate{
			Status:       domain.DocumentStatusFailed,
			ErrorMessage: errMsg,
		}); updErr != nil {
			log.Printf("extractionService.ProcessDocument: failed to mark %s failed: %v", docID, updErr)
		}
		return domain.ExtractionResult{
			DocumentID: docID,
			Success:    false,
			Error:      errMsg,
		}
	}
	return s.ExtractDocument(ctx, doc)
}

// ProcessSubmission runs extraction over every document attached to a
// submission, sequentially. One document's failure never aborts its
// siblings; each gets its own result entry.
func (s *extractionService) ProcessSubmission(ctx context.Context, submissionID uuid.UUID) (*domain.SubmissionResult, error) {
	sub, err := s.gateway.GetSubmission(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("fetching submission: %w", err)
	}

	result := &domain.SubmissionResult{SubmissionID: sub.ID}
	for i := range sub.Documents {
		doc := sub.Documents[i]
		result.Documents = append(result.Documents, s.ExtractDocument(ctx, &doc))
	}

	log.Printf("extractionService.ProcessSubmission: submission %s done (%d/%d documents succeeded)",
		submissionID, result.Succeeded(), len(result.Documents))

	return result, nil
}

// ExtractDocument runs the full pipeline on one document: mark processing,
// download, extract text, classify, extract fields, persist, mark terminal.
// Every exit path records a terminal status; a status-write failure is
// logged and never panics the caller.
func (s *extractionService) ExtractDocument(ctx context.Context, doc *domain.Document) domain.ExtractionResult {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	log.Printf("extractionService.ExtractDocument: starting document %s (%s)", doc.ID, doc.FileName)

	// Mark processing before any work so observers never see a document
	// being worked on in a pending state.
	if err := s.gateway.UpdateDocumentStatus(ctx, doc.ID, port.StatusUpdate{Status: domain.DocumentStatusProcessing}); err != nil {
		log.Printf("extractionService.ExtractDocument: failed to mark %s processing: %v", doc.ID, err)
	}

	if _, ok := domain.AllowedContentTypes[doc.ContentType]; !ok {
		return s.fail(ctx, doc, fmt.Sprintf("unsupported content type %q", doc.ContentType))
	}

	// Download object bytes; transient storage errors get a bounded retry,
	// a missing object does not.
	var data []byte
	err := withRetry(ctx, s.cfg.FetchRetries, fetchRetryBaseDelay,
		func(err error) bool { return !errors.Is(err, domain.ErrObjectNotFound) },
		func() error {
			var dlErr error
			data, dlErr = s.storage.Download(ctx, doc.StorageKey)
			return dlErr
		})
	if err != nil {
		return s.fail(ctx, doc, fmt.Sprintf("downloading document: %v", err))
	}

	text, err := s.text.ExtractText(data)
	if err != nil {
		return s.fail(ctx, doc, fmt.Sprintf("extracting text: %v", err))
	}
	if len(strings.TrimSpace(text)) < s.cfg.MinTextLength {
		return s.fail(ctx, doc, domain.ErrInsufficientText.Error())
	}

	cfg, err := s.schema.Load(ctx)
	if err != nil {
		return s.fail(ctx, doc, fmt.Sprintf("loading extraction config: %v", err))
	}

	docType := extract.Classify(text, cfg)
	if docType == "" {
		log.Printf("extractionService.ExtractDocument: document %s did not match any configured type", doc.ID)
	}

	fields := s.extractor.Extract(ctx, text, cfg, docType)

	// Persist fields individually; one failed save costs that field only.
	saved := 0
	for _, f := range fields {
		if err := s.gateway.SaveExtractedField(ctx, doc.SubmissionID, doc.ID, f); err != nil {
			log.Printf("extractionService.ExtractDocument: failed to save field %s for %s: %v", f.FieldName, doc.ID, err)
			continue
		}
		saved++
	}
	if saved < len(fields) {
		log.Printf("extractionService.ExtractDocument: document %s saved %d/%d fields", doc.ID, saved, len(fields))
	}

	statusCtx, statusCancel := terminalStatusCtx(ctx)
	defer statusCancel()
	if err := s.gateway.UpdateDocumentStatus(statusCtx, doc.ID, port.StatusUpdate{
		Status:       domain.DocumentStatusCompleted,
		DocumentType: docType,
	}); err != nil {
		log.Printf("extractionService.ExtractDocument: failed to mark %s completed: %v", doc.ID, err)
	}

	log.Printf("extractionService.ExtractDocument: document %s completed (type=%q, fields=%d)", doc.ID, docType, saved)

	return domain.ExtractionResult{
		DocumentID:      doc.ID,
		Success:         true,
		DocumentType:    docType,
		FieldsExtracted: saved,
	}
}

// fail records the terminal failed status with its error message. A
// status-write failure is logged and the result still reports the original
// pipeline error.
func (s *extractionService) fail(ctx context.Context, doc *domain.Document, errMsg string) domain.ExtractionResult {
	log.Printf("extractionService: document %s failed: %s", doc.ID, errMsg)
	statusCtx, cancel := terminalStatusCtx(ctx)
	defer cancel()
	if err := s.gateway.UpdateDocumentStatus(statusCtx, doc.ID, port.StatusUpdate{
		Status:       domain.DocumentStatusFailed,
		ErrorMessage: errMsg,
	}); err != nil {
		log.Printf("extractionService: failed to mark %s failed: %v", doc.ID, err)
	}
	return domain.ExtractionResult{
		DocumentID: doc.ID,
		Success:    false,
		Error:      errMsg,
	}
}

// terminalStatusCtx returns a short-lived context detached from the
// pipeline deadline. A document whose pipeline timed out must still land
// its terminal status write; reusing the expired context would make that
// write impossible.
func terminalStatusCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), statusWriteTimeout)
}
