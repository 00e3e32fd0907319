package port

import (
	"context"

	"github.com/google/uuid"

	"intakedocs/internal/domain"
)

// StatusUpdate carries a document status transition. DocumentType and
// ErrorMessage are optional; empty strings are omitted from the request.
type StatusUpdate struct {
	Status       domain.DocumentStatus
	DocumentType string
	ErrorMessage string
}

// DocumentGateway is the request/response boundary to the external intake
// API: document and submission metadata reads, append-only extracted-field
// writes, and monotonic status writes.
type DocumentGateway interface {
	GetDocument(ctx context.Context, docID uuid.UUID) (*domain.Document, error)
	GetSubmission(ctx context.Context, submissionID uuid.UUID) (*domain.Submission, error)
	UpdateDocumentStatus(ctx context.Context, docID uuid.UUID, update StatusUpdate) error
	SaveExtractedField(ctx context.Context, submissionID, docID uuid.UUID, field domain.ExtractedField) error
	ClaimQueued(ctx context.Context, limit int) ([]domain.Document, error)
}
