package canonical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalize(t *testing.T) {
	// Inline context keeps the test offline.
	doc := map[string]interface{}{
		"@context": map[string]interface{}{
			"name": "http://schema.org/name",
		},
		"name": "Alice",
	}

	result, err := Canonicalize(doc)
	require.NoError(t, err)

	assert.Equal(t, "_:c14n0 <http://schema.org/name> \"Alice\" .\n", string(result))
}

func TestCanonicalizeIsDeterministic(t *testing.T) {
	doc := map[string]interface{}{
		"@context": map[string]interface{}{
			"name": "http://schema.org/name",
			"age":  "http://schema.org/age",
		},
		"name": "Alice",
		"age":  "30",
	}

	first, err := Canonicalize(doc)
	require.NoError(t, err)

	second, err := Canonicalize(doc)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCanonicalizeNilDocument(t *testing.T) {
	_, err := Canonicalize(nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "document is nil")
}

func TestDigest(t *testing.T) {
	digest, err := Digest([]byte("hello"))
	require.NoError(t, err)
	assert.Len(t, digest, 32)

	_, err = Digest(nil)
	assert.Error(t, err)
}
