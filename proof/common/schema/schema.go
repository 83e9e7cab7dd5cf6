package schema

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// verificationMethodSchema is the structural shape every resolved
// verification method document must satisfy before suite policy checks.
const verificationMethodSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["id", "type", "@context"],
	"properties": {
		"id": {"type": "string", "minLength": 1},
		"type": {"type": "string", "minLength": 1},
		"controller": {"type": "string"},
		"@context": {
			"oneOf": [
				{"type": "string"},
				{"type": "array", "items": {"type": "string"}}
			]
		}
	}
}`

// Validator validates JSON documents against a compiled JSON Schema.
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator compiles a validator from a JSON Schema string.
func NewValidator(schemaJSON string) (*Validator, error) {
	if schemaJSON == "" {
		return nil, fmt.Errorf("failed to load schema: schema string is empty")
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return &Validator{schema: schema}, nil
}

// NewVerificationMethodValidator returns a validator for the default
// verification method document shape.
func NewVerificationMethodValidator() (*Validator, error) {
	return NewValidator(verificationMethodSchema)
}

// Validate checks a document against the schema.
func (v *Validator) Validate(doc map[string]interface{}) error {
	result, err := v.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("failed to validate schema: %w", err)
	}
	if !result.Valid() {
		return fmt.Errorf("document validation failed: %v", result.Errors())
	}

	return nil
}
