package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// configSchema constrains the shape of the extraction config document
// before decoding. Keyword and pattern lists may be empty; the fallback
// tier simply skips what is not there.
const configSchema = `{
  "type": "object",
  "required": ["documentTypes", "fieldExtractionInstructions"],
  "properties": {
    "documentTypes": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["label", "keywords"],
        "properties": {
          "label": {"type": "string", "minLength": 1},
          "description": {"type": "string"},
          "keywords": {"type": "array", "items": {"type": "string"}}
        }
      }
    },
    "fieldExtractionInstructions": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["label"],
        "properties": {
          "label": {"type": "string", "minLength": 1},
          "mandatory": {"type": "boolean"},
          "instructions": {"type": "string"},
          "keywords": {"type": "array", "items": {"type": "string"}},
          "patterns": {"type": "array", "items": {"type": "string"}},
          "documentTypes": {"type": "array", "items": {"type": "string"}}
        }
      }
    }
  }
}`

var compiledConfigSchema = jsonschema.MustCompileString("config.json", configSchema)

// validateDocument checks a raw config document against the JSON Schema.
func validateDocument(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decoding config document: %w", err)
	}
	if err := compiledConfigSchema.Validate(v); err != nil {
		// The validator's multi-line output is unreadable in a single
		// log line; flatten it.
		return fmt.Errorf("config document does not match schema: %s",
			strings.ReplaceAll(err.Error(), "\n", "; "))
	}
	return nil
}
