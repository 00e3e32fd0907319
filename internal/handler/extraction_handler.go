package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"intakedocs/internal/port"
	"intakedocs/internal/service"
)

// ExtractionHandler handles extraction trigger and config endpoints.
type ExtractionHandler struct {
	extraction service.ExtractionService
	schema     port.ConfigProvider
}

// NewExtractionHandler creates a new ExtractionHandler.
func NewExtractionHandler(extraction service.ExtractionService, schemaProvider port.ConfigProvider) *ExtractionHandler {
	return &ExtractionHandler{extraction: extraction, schema: schemaProvider}
}

// ExtractDocument handles POST /api/v1/documents/:id/extract.
// Extraction runs in the background; the response acknowledges the trigger.
func (h *ExtractionHandler) ExtractDocument(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document id")
		return
	}

	go func() {
		// Detached from the request context so extraction outlives the response.
		result := h.extraction.ProcessDocument(context.Background(), docID)
		if !result.Success {
			log.Printf("extractionHandler.ExtractDocument: document %s failed: %s", docID, result.Error)
		}
	}()

	RespondAccepted(c, gin.H{"document_id": docID, "status": "processing"})
}

// ExtractSubmission handles POST /api/v1/submissions/:id/extract.
func (h *ExtractionHandler) ExtractSubmission(c *gin.Context) {
	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid submission id")
		return
	}

	go func() {
		if _, err := h.extraction.ProcessSubmission(context.Background(), submissionID); err != nil {
			log.Printf("extractionHandler.ExtractSubmission: submission %s failed: %v", submissionID, err)
		}
	}()

	RespondAccepted(c, gin.H{"submission_id": submissionID, "status": "processing"})
}

// GetConfig handles GET /api/v1/config. It returns the currently loaded
// extraction config so operators can verify what the pipeline will use.
func (h *ExtractionHandler) GetConfig(c *gin.Context) {
	cfg, err := h.schema.Load(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	types := make([]gin.H, 0, len(cfg.DocumentTypes))
	for _, dt := range cfg.DocumentTypes {
		types = append(types, gin.H{
			"id":       dt.ID,
			"label":    dt.Label,
			"keywords": dt.Keywords,
		})
	}
	fields := make([]gin.H, 0, len(cfg.Fields))
	for _, f := range cfg.Fields {
		fields = append(fields, gin.H{
			"name":           f.Name,
			"label":          f.Label,
			"mandatory":      f.Mandatory,
			"document_types": f.DocumentTypes,
		})
	}

	RespondOK(c, gin.H{"document_types": types, "fields": fields})
}
