package suite

import (
	"context"
	"fmt"

	"github.com/pilacorp/go-ldproof-sdk/proof/common/docloader"
	"github.com/pilacorp/go-ldproof-sdk/proof/common/jsonmap"
)

// AssertVerificationMethod checks a verification method document against
// the suite's policy: it must declare the suite's context URL, be of the
// required key type, and must not carry a revoked property.
func (s *Suite) AssertVerificationMethod(vm jsonmap.JSONMap) error {
	if !hasContext(vm["@context"], s.contextURL) {
		return &ContextError{ContextURL: s.contextURL}
	}

	vmType, _ := vm.String("type")
	if vmType != s.keyType {
		return &KeyTypeError{Want: s.keyType, Got: vmType}
	}

	// Presence alone marks the key revoked, whatever the value.
	if _, revoked := vm["revoked"]; revoked {
		id, _ := vm.String("id")
		return &RevokedKeyError{ID: id}
	}

	return nil
}

// GetVerificationMethod returns the verification method for a proof. A
// suite bound to an explicit key returns the key's public representation
// directly without consulting the loader. Otherwise the method identifier
// is taken from the proof and resolved through the loader, and the result
// is validated before being returned.
func (s *Suite) GetVerificationMethod(ctx context.Context, p jsonmap.JSONMap, loader docloader.Loader) (jsonmap.JSONMap, error) {
	if s.key != nil {
		return s.key.Public(), nil
	}

	id, ok := verificationMethodID(p)
	if !ok {
		return nil, &MissingVerificationMethodError{}
	}

	doc, err := loader.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve verification method %q: %w", id, err)
	}

	vm, err := asVerificationMethod(doc.Document)
	if err != nil {
		return nil, fmt.Errorf("failed to parse verification method %q: %w", id, err)
	}

	if s.schema != nil {
		if err := s.schema.Validate(vm); err != nil {
			return nil, fmt.Errorf("verification method %q failed schema validation: %w", id, err)
		}
	}

	if err := s.AssertVerificationMethod(vm); err != nil {
		return nil, err
	}

	return vm, nil
}

// MatchProof reports whether this suite can verify the given proof. The
// base matching policy runs first; a suite bound to an explicit key
// additionally requires the proof to reference that key.
func (s *Suite) MatchProof(ctx context.Context, p, document jsonmap.JSONMap, purpose string, loader docloader.Loader) (bool, error) {
	matched, err := s.matcher.Match(ctx, p, document, purpose, loader)
	if err != nil || !matched {
		return false, err
	}

	if s.key != nil {
		id, _ := verificationMethodID(p)
		return id == s.key.KeyID(), nil
	}

	return true, nil
}

// verificationMethodID extracts the method identifier from a proof,
// accepting a bare identifier string or an embedded object's id field.
func verificationMethodID(p jsonmap.JSONMap) (string, bool) {
	switch vm := p["verificationMethod"].(type) {
	case string:
		return vm, vm != ""
	case map[string]interface{}:
		id, ok := jsonmap.JSONMap(vm).String("id")
		return id, ok
	default:
		return "", false
	}
}

// asVerificationMethod converts a loaded document, string-encoded or
// already structured, into a verification method map.
func asVerificationMethod(doc interface{}) (jsonmap.JSONMap, error) {
	switch d := doc.(type) {
	case string:
		return jsonmap.FromJSON([]byte(d))
	case []byte:
		return jsonmap.FromJSON(d)
	case map[string]interface{}:
		return jsonmap.JSONMap(d), nil
	case jsonmap.JSONMap:
		return d, nil
	default:
		return nil, fmt.Errorf("unsupported document type %T", doc)
	}
}

// hasContext reports whether a JSON-LD @context value, string or array,
// includes the given context URL.
func hasContext(ctx interface{}, contextURL string) bool {
	switch c := ctx.(type) {
	case string:
		return c == contextURL
	case []interface{}:
		for _, entry := range c {
			if entry == contextURL {
				return true
			}
		}
		return false
	case []string:
		for _, entry := range c {
			if entry == contextURL {
				return true
			}
		}
		return false
	default:
		return false
	}
}
