package extract

import (
	"fmt"
	"strings"

	"intakedocs/internal/schema"
)

// BuildFieldExtractionPrompt returns the system prompt for LLM field
// extraction. Field entries use canonical names so the model's response
// needs no post-hoc renaming. The response contract keys (extractedFields,
// confidence, reasoning) are depended on verbatim by the response parser
// and by downstream consumers.
func BuildFieldExtractionPrompt(documentType string, fields []schema.FieldInstruction) string {
	var b strings.Builder

	b.WriteString(`You are a document data extraction assistant for commercial insurance and lending intake. Analyze the provided document text and extract the fields listed below.

`)
	if documentType != "" {
		fmt.Fprintf(&b, "The document has been classified as: %s\n\n", documentType)
	} else {
		b.WriteString("The document type could not be determined; extract whichever fields you can find.\n\n")
	}

	b.WriteString("Fields to extract:\n")
	for _, f := range fields {
		fmt.Fprintf(&b, "- %s (%s)", ToCanonical(f.Name), f.Label)
		if f.Mandatory {
			b.WriteString(" [mandatory]")
		}
		b.WriteString("\n")
		if f.Instructions != "" {
			fmt.Fprintf(&b, "  Instructions: %s\n", f.Instructions)
		}
		if len(f.Keywords) > 0 {
			fmt.Fprintf(&b, "  Look near: %s\n", strings.Join(f.Keywords, ", "))
		}
	}

	b.WriteString(`
Return ONLY valid JSON with no markdown formatting, no code fences, no explanation — just the raw JSON object.

Return a single JSON object with three keys: "extractedFields", "confidence", and "reasoning".
- "extractedFields": map from field name to the extracted value as a string. Omit fields not found in the document.
- "confidence": map from field name to a float between 0.0 and 1.0. Use 0.9 or above only when the label and value appear verbatim; 0.7-0.89 when the value is contextual; 0.5-0.69 when inferred or calculated.
- "reasoning": map from field name to a one-sentence explanation quoting the document text the value came from.

All values in "extractedFields" must be strings, even numbers and dates. Do not invent values; omit anything not supported by the document text.`)

	return b.String()
}
