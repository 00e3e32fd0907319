package extract_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intakedocs/internal/extract"
	"intakedocs/internal/schema"
)

func fallbackConfig() *schema.ExtractionConfig {
	return &schema.ExtractionConfig{
		DocumentTypes: []schema.DocumentTypeDef{
			{ID: "acord_form", Label: "ACORD Form", Keywords: []string{"acord"}},
		},
		Fields: []schema.FieldInstruction{
			{
				Name:     "coinsurance",
				Label:    "Coinsurance",
				Patterns: []string{`(?i)coinsurance[:\s]+(\d{1,3})\s*%`},
				Keywords: []string{"coinsurance"},
			},
			{
				Name:     "policyNo",
				Label:    "Policy Number",
				Keywords: []string{"policy number"},
			},
		},
	}
}

func TestExtractFallback_RegexMatch(t *testing.T) {
	text := "Commercial property coverage.\nCoinsurance: 90%\nDeductible applies."

	fields := extract.ExtractFallback(text, fallbackConfig(), "acord_form")

	require.Len(t, fields, 1)
	f := fields[0]
	assert.Equal(t, "coinsurancePercent", f.FieldName)
	assert.Equal(t, "90", f.FieldValue)
	assert.Equal(t, 0.9, f.Confidence)
	assert.Equal(t, `regex:(?i)coinsurance[:\s]+(\d{1,3})\s*%`, f.Source)
	assert.Contains(t, f.ExtractedText, "Coinsurance: 90%")
}

func TestExtractFallback_KeywordMatchWhenNoPattern(t *testing.T) {
	text := "Policy Number: CPP-102938\nInsured: Example LLC"

	fields := extract.ExtractFallback(text, fallbackConfig(), "acord_form")

	require.Len(t, fields, 1)
	f := fields[0]
	assert.Equal(t, "policyNumber", f.FieldName)
	assert.Equal(t, "CPP-102938", f.FieldValue)
	assert.Equal(t, 0.7, f.Confidence)
	assert.Equal(t, "keyword:policy number", f.Source)
}

func TestExtractFallback_RegexWinsOverKeyword(t *testing.T) {
	// Both the pattern and the keyword would match; patterns run first
	text := "Coinsurance: 80% applies to this policy."

	fields := extract.ExtractFallback(text, fallbackConfig(), "acord_form")

	require.Len(t, fields, 1)
	assert.Equal(t, 0.9, fields[0].Confidence)
	assert.True(t, strings.HasPrefix(fields[0].Source, "regex:"))
}

func TestExtractFallback_InvalidPatternSkipped(t *testing.T) {
	cfg := &schema.ExtractionConfig{
		Fields: []schema.FieldInstruction{
			{
				Name:     "policyNo",
				Patterns: []string{`([unclosed`, `(?i)policy[:\s]+(\S+)`},
			},
		},
	}

	fields := extract.ExtractFallback("Policy: ABC-1", cfg, "")

	require.Len(t, fields, 1)
	assert.Equal(t, "ABC-1", fields[0].FieldValue)
}

func TestExtractFallback_NoMatchOmitsField(t *testing.T) {
	fields := extract.ExtractFallback("nothing relevant here at all", fallbackConfig(), "acord_form")

	assert.Empty(t, fields)
}

func TestExtractFallback_FieldScopedByDocumentType(t *testing.T) {
	cfg := &schema.ExtractionConfig{
		DocumentTypes: []schema.DocumentTypeDef{
			{ID: "acord_form"},
			{ID: "loss_run"},
		},
		Fields: []schema.FieldInstruction{
			{Name: "totalLosses", Keywords: []string{"total incurred"}, DocumentTypes: []string{"loss_run"}},
		},
	}
	text := "Total incurred: 125000"

	assert.Empty(t, extract.ExtractFallback(text, cfg, "acord_form"))

	fields := extract.ExtractFallback(text, cfg, "loss_run")
	require.Len(t, fields, 1)
	assert.Equal(t, "totalIncurredLosses", fields[0].FieldName)
	assert.Equal(t, "125000", fields[0].FieldValue)
}

func TestExtractFallback_EvidenceWindowClamped(t *testing.T) {
	// Match near the start of a long document; the excerpt must clamp at 0
	// and extend 300 characters past the match start
	text := "Coinsurance: 90% " + strings.Repeat("x", 1000)

	fields := extract.ExtractFallback(text, fallbackConfig(), "acord_form")

	require.Len(t, fields, 1)
	assert.Equal(t, text[:300], fields[0].ExtractedText)
}

func TestExtractFallback_EvidenceRespectsRuneBoundaries(t *testing.T) {
	// The window end falls inside a two-byte é; the excerpt must back off
	// to the rune boundary instead of emitting a broken byte
	text := "Coinsurance: 90% " + strings.Repeat("é", 400)

	fields := extract.ExtractFallback(text, fallbackConfig(), "acord_form")

	require.Len(t, fields, 1)
	assert.True(t, utf8.ValidString(fields[0].ExtractedText), "evidence excerpt must stay valid UTF-8")
	assert.Contains(t, fields[0].ExtractedText, "Coinsurance: 90%")
}
