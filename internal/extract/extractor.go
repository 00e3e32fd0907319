package extract

import (
	"context"
	"log"

	"intakedocs/internal/domain"
	"intakedocs/internal/port"
	"intakedocs/internal/schema"
)

// Extractor reconciles the two extraction tiers behind one contract: the
// model tier when a ChatCompleter is configured and yields fields, the
// deterministic regex/keyword tier otherwise. Both tiers emit canonical
// field names.
type Extractor struct {
	chat port.ChatCompleter
}

// NewExtractor creates a two-tier field extractor. A nil chat client means
// deterministic extraction only.
func NewExtractor(chat port.ChatCompleter) *Extractor {
	return &Extractor{chat: chat}
}

// Extract returns every field found in the text with a non-empty value,
// with per-field confidence, source tag, and evidence excerpt. Fields not
// found are absent from the result, never present with an empty value.
func (e *Extractor) Extract(ctx context.Context, text string, cfg *schema.ExtractionConfig, docType string) []domain.ExtractedField {
	fields := cfg.FieldsFor(docType)
	if len(fields) == 0 {
		return nil
	}

	if e.chat != nil {
		if out := e.extractModel(ctx, text, fields, docType); len(out) > 0 {
			return out
		}
		log.Printf("extract.Extractor: model tier returned no fields, using fallback")
	}

	return ExtractFallback(text, cfg, docType)
}
