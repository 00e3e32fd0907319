package domain

import (
	"time"

	"github.com/google/uuid"
)

// Document represents an uploaded intake document, owned by the external
// persistence API. The pipeline reads its storage coordinates and writes
// back status, classified type, and error message only.
type Document struct {
	ID           uuid.UUID      `json:"id"`
	SubmissionID uuid.UUID      `json:"submission_id"`
	FileName     string         `json:"file_name"`
	ContentType  string         `json:"content_type"`
	StorageKey   string         `json:"storage_key"`
	Status       DocumentStatus `json:"status"`
	DocumentType string         `json:"document_type"`
	ErrorMessage string         `json:"error_message"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Submission represents one intake session and its attached documents.
type Submission struct {
	ID        uuid.UUID  `json:"id"`
	LeadID    uuid.UUID  `json:"lead_id"`
	Documents []Document `json:"documents"`
	CreatedAt time.Time  `json:"created_at"`
}

// ExtractedField is the pipeline's primary output unit: one field value
// with its provenance. FieldName is always the canonical persisted-schema
// name, never the authoring name. FieldValue is stringly typed; numeric
// and boolean coercion is a downstream concern.
type ExtractedField struct {
	FieldName     string  `json:"fieldName"`
	FieldValue    string  `json:"fieldValue"`
	Confidence    float64 `json:"confidence"`
	Source        string  `json:"source"`
	ExtractedText string  `json:"extractedText"`
}

// ExtractionResult reports the outcome of one document's pipeline run.
type ExtractionResult struct {
	DocumentID      uuid.UUID `json:"document_id"`
	Success         bool      `json:"success"`
	DocumentType    string    `json:"document_type,omitempty"`
	FieldsExtracted int       `json:"fields_extracted"`
	Error           string    `json:"error,omitempty"`
}

// SubmissionResult aggregates per-document outcomes for one submission.
// Every document gets an entry; one document's failure never suppresses
// reporting on its siblings.
type SubmissionResult struct {
	SubmissionID uuid.UUID          `json:"submission_id"`
	Documents    []ExtractionResult `json:"documents"`
}

// Succeeded returns the number of documents that completed extraction.
func (r *SubmissionResult) Succeeded() int {
	n := 0
	for _, d := range r.Documents {
		if d.Success {
			n++
		}
	}
	return n
}
