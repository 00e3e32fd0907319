package extract

import (
	"fmt"
	"log"
	"regexp"
	"strings"
	"unicode/utf8"

	"intakedocs/internal/domain"
	"intakedocs/internal/schema"
)

const (
	// Fixed confidence tiers for the deterministic fallback.
	regexConfidence   = 0.9
	keywordConfidence = 0.7

	// evidenceWindow is the number of characters kept on each side of a
	// match start for the provenance excerpt.
	evidenceWindow = 300
)

// ExtractFallback runs the deterministic tier: ordered regex patterns
// first, then keyword proximity, per applicable field. First match wins
// per field; fields with no match are omitted entirely. Invalid patterns
// in the configuration are logged and skipped, never fatal.
func ExtractFallback(text string, cfg *schema.ExtractionConfig, docType string) []domain.ExtractedField {
	var out []domain.ExtractedField
	for _, f := range cfg.FieldsFor(docType) {
		if field, ok := extractFieldFallback(text, &f); ok {
			out = append(out, field)
		}
	}
	return out
}

func extractFieldFallback(text string, f *schema.FieldInstruction) (domain.ExtractedField, bool) {
	canonical := ToCanonical(f.Name)

	for _, pattern := range f.Patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			log.Printf("extract.ExtractFallback: field %s: invalid pattern %q: %v", f.Name, pattern, err)
			continue
		}
		m := re.FindStringSubmatchIndex(text)
		if m == nil || len(m) < 4 || m[2] < 0 {
			continue
		}
		value := strings.TrimSpace(text[m[2]:m[3]])
		if value == "" {
			continue
		}
		return domain.ExtractedField{
			FieldName:     canonical,
			FieldValue:    value,
			Confidence:    regexConfidence,
			Source:        fmt.Sprintf("regex:%s", pattern),
			ExtractedText: evidenceAround(text, m[0]),
		}, true
	}

	for _, kw := range f.Keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		// Keyword followed by colon/whitespace, then up to 100
		// non-newline characters of value.
		re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(kw) + `[:\s]+([^\n]{1,100})`)
		if err != nil {
			log.Printf("extract.ExtractFallback: field %s: keyword %q: %v", f.Name, kw, err)
			continue
		}
		m := re.FindStringSubmatchIndex(text)
		if m == nil {
			continue
		}
		value := strings.TrimSpace(text[m[2]:m[3]])
		if value == "" {
			continue
		}
		return domain.ExtractedField{
			FieldName:     canonical,
			FieldValue:    value,
			Confidence:    keywordConfidence,
			Source:        fmt.Sprintf("keyword:%s", kw),
			ExtractedText: evidenceAround(text, m[0]),
		}, true
	}

	return domain.ExtractedField{}, false
}

// evidenceAround returns the ±evidenceWindow slice of text around a match
// start, clamped to the document bounds and nudged onto rune boundaries so
// the excerpt never splits a multi-byte rune.
func evidenceAround(text string, matchStart int) string {
	start := matchStart - evidenceWindow
	if start < 0 {
		start = 0
	}
	end := matchStart + evidenceWindow
	if end > len(text) {
		end = len(text)
	}
	for start < end && !utf8.RuneStart(text[start]) {
		start++
	}
	for end > start && end < len(text) && !utf8.RuneStart(text[end]) {
		end--
	}
	return text[start:end]
}
