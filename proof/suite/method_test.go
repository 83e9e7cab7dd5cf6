package suite

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilacorp/go-ldproof-sdk/proof/common/docloader"
	"github.com/pilacorp/go-ldproof-sdk/proof/common/jsonmap"
)

const testContextURL = "https://example.org/security/test/v1"

type stubLoader struct {
	doc    *docloader.Document
	err    error
	called bool
}

func (l *stubLoader) Load(_ context.Context, _ string) (*docloader.Document, error) {
	l.called = true
	return l.doc, l.err
}

type stubSchemaValidator struct {
	err error
}

func (v *stubSchemaValidator) Validate(_ map[string]interface{}) error {
	return v.err
}

func testMethodSuite(opts ...Opt) *Suite {
	base := []Opt{
		WithContextURL(testContextURL),
		WithKeyType("TestVerificationKey"),
	}

	return New("TestSuite", "EdDSA", append(base, opts...)...)
}

func TestAssertVerificationMethod(t *testing.T) {
	s := testMethodSuite()

	tests := []struct {
		name    string
		vm      jsonmap.JSONMap
		errorAs interface{}
	}{
		{
			name: "Valid with string context",
			vm: jsonmap.JSONMap{
				"@context": testContextURL,
				"id":       "did:example:123#key-1",
				"type":     "TestVerificationKey",
			},
		},
		{
			name: "Valid with array context",
			vm: jsonmap.JSONMap{
				"@context": []interface{}{"https://www.w3.org/ns/did/v1", testContextURL},
				"id":       "did:example:123#key-1",
				"type":     "TestVerificationKey",
			},
		},
		{
			name: "Missing required context",
			vm: jsonmap.JSONMap{
				"@context": "https://www.w3.org/ns/did/v1",
				"type":     "TestVerificationKey",
			},
			errorAs: new(*ContextError),
		},
		{
			name: "No context at all",
			vm: jsonmap.JSONMap{
				"type": "TestVerificationKey",
			},
			errorAs: new(*ContextError),
		},
		{
			name: "Wrong key type",
			vm: jsonmap.JSONMap{
				"@context": testContextURL,
				"type":     "OtherVerificationKey",
			},
			errorAs: new(*KeyTypeError),
		},
		{
			name: "Revoked key",
			vm: jsonmap.JSONMap{
				"@context": testContextURL,
				"id":       "did:example:123#key-1",
				"type":     "TestVerificationKey",
				"revoked":  "2026-01-01T00:00:00Z",
			},
			errorAs: new(*RevokedKeyError),
		},
		{
			// Presence of the property is checked, not its truthiness.
			name: "Revoked key with false value",
			vm: jsonmap.JSONMap{
				"@context": testContextURL,
				"id":       "did:example:123#key-1",
				"type":     "TestVerificationKey",
				"revoked":  false,
			},
			errorAs: new(*RevokedKeyError),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.AssertVerificationMethod(tt.vm)

			if tt.errorAs != nil {
				require.Error(t, err)
				assert.True(t, errors.As(err, tt.errorAs))
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestGetVerificationMethodKeyFastPath(t *testing.T) {
	public := jsonmap.JSONMap{
		"@context": testContextURL,
		"id":       "did:example:123#key-1",
		"type":     "TestVerificationKey",
	}
	key := &stubKey{id: "did:example:123#key-1", public: public}
	s := testMethodSuite(WithKey(key))
	loader := &stubLoader{}

	vm, err := s.GetVerificationMethod(context.Background(), jsonmap.JSONMap{}, loader)

	require.NoError(t, err)
	assert.Equal(t, public, vm)
	assert.False(t, loader.called, "key-bound suite must not invoke the document loader")
}

func TestGetVerificationMethodMissingIdentifier(t *testing.T) {
	s := testMethodSuite()

	tests := []struct {
		name  string
		proof jsonmap.JSONMap
	}{
		{name: "No verificationMethod", proof: jsonmap.JSONMap{}},
		{name: "Empty string", proof: jsonmap.JSONMap{"verificationMethod": ""}},
		{name: "Object without id", proof: jsonmap.JSONMap{"verificationMethod": map[string]interface{}{"type": "TestVerificationKey"}}},
		{name: "Unsupported type", proof: jsonmap.JSONMap{"verificationMethod": 42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.GetVerificationMethod(context.Background(), tt.proof, &stubLoader{})

			var missingErr *MissingVerificationMethodError
			require.Error(t, err)
			assert.True(t, errors.As(err, &missingErr))
		})
	}
}

func TestGetVerificationMethodResolvesStringDocument(t *testing.T) {
	s := testMethodSuite()
	loader := &stubLoader{doc: &docloader.Document{
		Document: fmt.Sprintf(`{"@context":%q,"id":"did:example:123#key-1","type":"TestVerificationKey"}`, testContextURL),
	}}

	proof := jsonmap.JSONMap{"verificationMethod": "did:example:123#key-1"}
	vm, err := s.GetVerificationMethod(context.Background(), proof, loader)

	require.NoError(t, err)
	assert.Equal(t, "did:example:123#key-1", vm["id"])
	assert.True(t, loader.called)
}

func TestGetVerificationMethodAcceptsEmbeddedObject(t *testing.T) {
	s := testMethodSuite()
	loader := &stubLoader{doc: &docloader.Document{
		Document: map[string]interface{}{
			"@context": testContextURL,
			"id":       "did:example:123#key-1",
			"type":     "TestVerificationKey",
		},
	}}

	proof := jsonmap.JSONMap{
		"verificationMethod": map[string]interface{}{"id": "did:example:123#key-1"},
	}
	vm, err := s.GetVerificationMethod(context.Background(), proof, loader)

	require.NoError(t, err)
	assert.Equal(t, "TestVerificationKey", vm["type"])
}

func TestGetVerificationMethodLoaderError(t *testing.T) {
	s := testMethodSuite()
	loader := &stubLoader{err: fmt.Errorf("resolver unreachable")}

	_, err := s.GetVerificationMethod(context.Background(),
		jsonmap.JSONMap{"verificationMethod": "did:example:123#key-1"}, loader)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolver unreachable")
}

func TestGetVerificationMethodSchemaValidation(t *testing.T) {
	s := testMethodSuite(WithSchemaValidator(&stubSchemaValidator{err: fmt.Errorf("id is required")}))
	loader := &stubLoader{doc: &docloader.Document{
		Document: map[string]interface{}{
			"@context": testContextURL,
			"type":     "TestVerificationKey",
		},
	}}

	_, err := s.GetVerificationMethod(context.Background(),
		jsonmap.JSONMap{"verificationMethod": "did:example:123#key-1"}, loader)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed schema validation")
}

func TestGetVerificationMethodPolicyFailure(t *testing.T) {
	s := testMethodSuite()
	loader := &stubLoader{doc: &docloader.Document{
		Document: map[string]interface{}{
			"@context": testContextURL,
			"id":       "did:example:123#key-1",
			"type":     "TestVerificationKey",
			"revoked":  true,
		},
	}}

	_, err := s.GetVerificationMethod(context.Background(),
		jsonmap.JSONMap{"verificationMethod": "did:example:123#key-1"}, loader)

	var revokedErr *RevokedKeyError
	require.Error(t, err)
	assert.True(t, errors.As(err, &revokedErr))
}

func TestMatchProofDefaultMatcher(t *testing.T) {
	s := testMethodSuite()

	tests := []struct {
		name    string
		proof   jsonmap.JSONMap
		matched bool
	}{
		{name: "Matching type", proof: jsonmap.JSONMap{"type": "TestSuite"}, matched: true},
		{name: "Other type", proof: jsonmap.JSONMap{"type": "OtherSuite"}, matched: false},
		{name: "No type", proof: jsonmap.JSONMap{}, matched: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched, err := s.MatchProof(context.Background(), tt.proof, jsonmap.JSONMap{}, "assertionMethod", &stubLoader{})

			require.NoError(t, err)
			assert.Equal(t, tt.matched, matched)
		})
	}
}

func TestMatchProofKeyBinding(t *testing.T) {
	key := &stubKey{id: "did:example:123#key-1"}
	s := testMethodSuite(WithKey(key))

	tests := []struct {
		name    string
		proof   jsonmap.JSONMap
		matched bool
	}{
		{
			name:    "Proof references the bound key",
			proof:   jsonmap.JSONMap{"type": "TestSuite", "verificationMethod": "did:example:123#key-1"},
			matched: true,
		},
		{
			name: "Embedded object references the bound key",
			proof: jsonmap.JSONMap{
				"type":               "TestSuite",
				"verificationMethod": map[string]interface{}{"id": "did:example:123#key-1"},
			},
			matched: true,
		},
		{
			name:    "Proof references another key",
			proof:   jsonmap.JSONMap{"type": "TestSuite", "verificationMethod": "did:example:456#key-2"},
			matched: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched, err := s.MatchProof(context.Background(), tt.proof, jsonmap.JSONMap{}, "assertionMethod", &stubLoader{})

			require.NoError(t, err)
			assert.Equal(t, tt.matched, matched)
		})
	}
}

func TestMatchProofCustomMatcherError(t *testing.T) {
	matcherErr := fmt.Errorf("malformed document")
	s := testMethodSuite(WithMatcher(matcherFunc(func() (bool, error) {
		return false, matcherErr
	})))

	_, err := s.MatchProof(context.Background(), jsonmap.JSONMap{"type": "TestSuite"}, jsonmap.JSONMap{}, "", &stubLoader{})

	assert.Equal(t, matcherErr, err)
}

type matcherFunc func() (bool, error)

func (f matcherFunc) Match(_ context.Context, _, _ jsonmap.JSONMap, _ string, _ docloader.Loader) (bool, error) {
	return f()
}
