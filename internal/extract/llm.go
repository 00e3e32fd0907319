package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"unicode/utf8"

	"intakedocs/internal/domain"
	"intakedocs/internal/port"
	"intakedocs/internal/schema"
)

const (
	// maxPromptTextChars bounds the document text sent to the model.
	// Fields whose evidence lies beyond the cut rely on the fallback
	// tier or stay absent; recall is traded for context-window cost.
	maxPromptTextChars = 8000

	// maxExcerptChars bounds the evidence excerpt stored per field.
	maxExcerptChars = 1000

	// minModelConfidence is the floor below which model-reported fields
	// are discarded.
	minModelConfidence = 0.5
)

// modelResponse mirrors the JSON contract the prompt asks for: three
// co-indexed maps keyed by canonical field name.
type modelResponse struct {
	ExtractedFields map[string]any     `json:"extractedFields"`
	Confidence      map[string]float64 `json:"confidence"`
	Reasoning       map[string]string  `json:"reasoning"`
}

// extractModel runs the LLM tier. Every failure mode — inference error,
// unusable response, missing JSON — degrades to an empty result so the
// caller falls through to the deterministic tier; it never fails the
// pipeline.
func (e *Extractor) extractModel(ctx context.Context, text string, fields []schema.FieldInstruction, docType string) []domain.ExtractedField {
	if len(fields) == 0 {
		return nil
	}

	text = trimToRuneBoundary(text, maxPromptTextChars)

	resp, err := e.chat.Complete(ctx, port.ChatRequest{
		System: BuildFieldExtractionPrompt(docType, fields),
		User:   text,
	})
	if err != nil {
		log.Printf("extract.extractModel: inference call failed: %v", err)
		return nil
	}

	parsed, err := parseModelResponse(resp.Content)
	if err != nil {
		log.Printf("extract.extractModel: unusable model response: %v", err)
		return nil
	}

	source := "llm:" + resp.Model
	var out []domain.ExtractedField
	for _, f := range fields {
		name := ToCanonical(f.Name)
		raw, ok := parsed.ExtractedFields[name]
		conf := parsed.Confidence[name]
		reasoning := parsed.Reasoning[name]
		if !ok {
			// Lenient lookup: some models echo the authoring name
			// despite the prompt using canonical names.
			if raw, ok = parsed.ExtractedFields[f.Name]; ok {
				conf = parsed.Confidence[f.Name]
				reasoning = parsed.Reasoning[f.Name]
			}
		}
		if !ok {
			continue
		}
		value := valueString(raw)
		if value == "" || conf < minModelConfidence {
			continue
		}
		out = append(out, domain.ExtractedField{
			FieldName:     name,
			FieldValue:    value,
			Confidence:    conf,
			Source:        source,
			ExtractedText: truncateExcerpt(reasoning),
		})
	}
	return out
}

// parseModelResponse strips optional markdown code fences, locates the
// JSON object in the response text, and decodes it.
func parseModelResponse(content string) (*modelResponse, error) {
	cleaned := stripCodeFences(content)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var parsed modelResponse
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &parsed); err != nil {
		return nil, fmt.Errorf("decoding response JSON: %w", err)
	}
	return &parsed, nil
}

// stripCodeFences removes a wrapping ```...``` block, with or without a
// language tag, if present.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}

// valueString normalizes a model-reported value to the pipeline's
// stringly-typed contract. Structured values (arrays, objects) are
// discarded rather than serialized.
func valueString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func truncateExcerpt(s string) string {
	return trimToRuneBoundary(s, maxExcerptChars)
}

// trimToRuneBoundary caps s at max bytes without splitting a multi-byte
// rune at the cut.
func trimToRuneBoundary(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
