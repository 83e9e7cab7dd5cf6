package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerificationMethodValidator(t *testing.T) {
	validator, err := NewVerificationMethodValidator()
	require.NoError(t, err)

	tests := []struct {
		name        string
		doc         map[string]interface{}
		expectError bool
	}{
		{
			name: "Valid method",
			doc: map[string]interface{}{
				"@context": "https://w3id.org/security/suites/ed25519-2018/v1",
				"id":       "did:example:123#key-1",
				"type":     "Ed25519VerificationKey2018",
			},
		},
		{
			name: "Array context",
			doc: map[string]interface{}{
				"@context": []interface{}{"https://www.w3.org/ns/did/v1"},
				"id":       "did:example:123#key-1",
				"type":     "Ed25519VerificationKey2018",
			},
		},
		{
			name: "Missing id",
			doc: map[string]interface{}{
				"@context": "https://www.w3.org/ns/did/v1",
				"type":     "Ed25519VerificationKey2018",
			},
			expectError: true,
		},
		{
			name: "Empty type",
			doc: map[string]interface{}{
				"@context": "https://www.w3.org/ns/did/v1",
				"id":       "did:example:123#key-1",
				"type":     "",
			},
			expectError: true,
		},
		{
			name: "Numeric context",
			doc: map[string]interface{}{
				"@context": 42,
				"id":       "did:example:123#key-1",
				"type":     "Ed25519VerificationKey2018",
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.Validate(tt.doc)

			if tt.expectError {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestNewValidatorErrors(t *testing.T) {
	_, err := NewValidator("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema string is empty")

	_, err = NewValidator(`{"type": 42}`)
	assert.Error(t, err)
}
