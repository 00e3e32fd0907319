package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"intakedocs/internal/extract"
	"intakedocs/internal/schema"
)

func TestBuildFieldExtractionPrompt_UsesCanonicalNames(t *testing.T) {
	fields := []schema.FieldInstruction{
		{Name: "policyNo", Label: "Policy Number", Mandatory: true, Keywords: []string{"policy number", "policy no"}},
		{Name: "coinsurance", Label: "Coinsurance", Instructions: "Percentage only, drop the % sign"},
	}

	prompt := extract.BuildFieldExtractionPrompt("acord_form", fields)

	assert.Contains(t, prompt, "policyNumber (Policy Number) [mandatory]")
	assert.Contains(t, prompt, "coinsurancePercent (Coinsurance)")
	assert.NotContains(t, prompt, "- policyNo (")
	assert.Contains(t, prompt, "Percentage only, drop the % sign")
	assert.Contains(t, prompt, "Look near: policy number, policy no")
	assert.Contains(t, prompt, "classified as: acord_form")
}

func TestBuildFieldExtractionPrompt_ResponseContract(t *testing.T) {
	prompt := extract.BuildFieldExtractionPrompt("", nil)

	assert.Contains(t, prompt, `"extractedFields"`)
	assert.Contains(t, prompt, `"confidence"`)
	assert.Contains(t, prompt, `"reasoning"`)
	assert.Contains(t, prompt, "could not be determined")
}
