package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"intakedocs/internal/domain"
)

// DocumentTypeDef describes one classifiable document category.
type DocumentTypeDef struct {
	ID          string   `json:"-"`
	Label       string   `json:"label"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

// FieldInstruction describes how one field is extracted. Name is the
// authoring-time field name; the extract package maps it to the canonical
// persisted name.
type FieldInstruction struct {
	Name          string   `json:"-"`
	Label         string   `json:"label"`
	Mandatory     bool     `json:"mandatory"`
	Instructions  string   `json:"instructions"`
	Keywords      []string `json:"keywords"`
	Patterns      []string `json:"patterns"`
	DocumentTypes []string `json:"documentTypes"`
}

// AppliesTo reports whether the field should be extracted for the given
// classified type. An empty DocumentTypes list applies regardless of type.
func (f *FieldInstruction) AppliesTo(docType string) bool {
	if len(f.DocumentTypes) == 0 {
		return true
	}
	for _, dt := range f.DocumentTypes {
		if dt == docType {
			return true
		}
	}
	return false
}

// ExtractionConfig is the data-driven extraction schema. Both slices
// preserve the key order of the source JSON document: classification
// tie-breaks and fallback extraction are deterministic in that order.
type ExtractionConfig struct {
	DocumentTypes []DocumentTypeDef
	Fields        []FieldInstruction
}

// FieldsFor returns the fields applicable to the classified type, in
// configuration order.
func (c *ExtractionConfig) FieldsFor(docType string) []FieldInstruction {
	var out []FieldInstruction
	for _, f := range c.Fields {
		if f.AppliesTo(docType) {
			out = append(out, f)
		}
	}
	return out
}

// HasType reports whether a document type identifier is configured.
func (c *ExtractionConfig) HasType(id string) bool {
	for _, dt := range c.DocumentTypes {
		if dt.ID == id {
			return true
		}
	}
	return false
}

// UnmarshalJSON decodes the config document while preserving the key order
// of the documentTypes and fieldExtractionInstructions objects.
func (c *ExtractionConfig) UnmarshalJSON(data []byte) error {
	return decodeOrderedObject(data, func(key string, raw json.RawMessage) error {
		switch key {
		case "documentTypes":
			return decodeOrderedObject(raw, func(id string, typeRaw json.RawMessage) error {
				var dt DocumentTypeDef
				if err := json.Unmarshal(typeRaw, &dt); err != nil {
					return fmt.Errorf("document type %q: %w", id, err)
				}
				dt.ID = id
				c.DocumentTypes = append(c.DocumentTypes, dt)
				return nil
			})
		case "fieldExtractionInstructions":
			return decodeOrderedObject(raw, func(name string, fieldRaw json.RawMessage) error {
				var fi FieldInstruction
				if err := json.Unmarshal(fieldRaw, &fi); err != nil {
					return fmt.Errorf("field %q: %w", name, err)
				}
				fi.Name = name
				c.Fields = append(c.Fields, fi)
				return nil
			})
		}
		// Unknown top-level keys are ignored so the authoring tool can
		// carry metadata the pipeline does not consume.
		return nil
	})
}

// decodeOrderedObject walks a JSON object's keys in source order, handing
// each key and its raw value to fn.
func decodeOrderedObject(data []byte, fn func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if err := fn(key, raw); err != nil {
			return err
		}
	}
	_, err = dec.Token() // closing brace
	return err
}

// Validate checks the cross-reference invariant: every field's
// documentTypes entry must name a configured type identifier.
func (c *ExtractionConfig) Validate() error {
	for _, f := range c.Fields {
		for _, dt := range f.DocumentTypes {
			if !c.HasType(dt) {
				return fmt.Errorf("%w: field %q references unknown document type %q",
					domain.ErrConfigMalformed, f.Name, dt)
			}
		}
	}
	return nil
}

// Parse validates and decodes a raw config document.
func Parse(data []byte) (*ExtractionConfig, error) {
	if err := validateDocument(data); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfigMalformed, err)
	}
	cfg := &ExtractionConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfigMalformed, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
