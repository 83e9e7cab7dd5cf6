// Package ldproof provides document-level helpers for attaching and
// verifying detached-JWS linked data proofs. The heavy lifting lives in
// proof/suite; this package supplies the canonicalize-digest-sign flow
// most callers want.
package ldproof

import (
	"context"
	"fmt"

	"github.com/pilacorp/go-ldproof-sdk/proof/common/canonical"
	"github.com/pilacorp/go-ldproof-sdk/proof/common/docloader"
	"github.com/pilacorp/go-ldproof-sdk/proof/common/jsonmap"
	"github.com/pilacorp/go-ldproof-sdk/proof/suite"
)

// ErrNoMatchingProof is returned when a document carries no proof the
// given suite can verify.
var ErrNoMatchingProof = fmt.Errorf("document has no proof matching the suite")

// AddProof canonicalizes the document without its proof field, signs the
// digest with the suite, and attaches the resulting proof to the
// document.
func AddProof(ctx context.Context, doc jsonmap.JSONMap, s *suite.Suite, purpose, verificationMethod string, opts ...canonical.Opt) error {
	if doc == nil {
		return fmt.Errorf("document is nil")
	}

	verifyData, err := createVerifyData(doc, opts...)
	if err != nil {
		return err
	}

	p, err := s.Sign(ctx, verifyData, s.NewProof(purpose, verificationMethod))
	if err != nil {
		return fmt.Errorf("failed to sign document: %w", err)
	}

	attachProof(doc, p)

	return nil
}

// VerifyProof verifies the first proof on the document that the suite
// matches. The verification method is re-resolved through the loader on
// every call; a cryptographic mismatch yields (false, nil).
func VerifyProof(ctx context.Context, doc jsonmap.JSONMap, s *suite.Suite, loader docloader.Loader, opts ...canonical.Opt) (bool, error) {
	if doc == nil {
		return false, fmt.Errorf("document is nil")
	}

	verifyData, err := createVerifyData(doc, opts...)
	if err != nil {
		return false, err
	}

	for _, p := range documentProofs(doc) {
		purpose, _ := p.String("proofPurpose")

		matched, err := s.MatchProof(ctx, p, doc, purpose, loader)
		if err != nil {
			return false, err
		}
		if !matched {
			continue
		}

		vm, err := s.GetVerificationMethod(ctx, p, loader)
		if err != nil {
			return false, err
		}

		return s.VerifySignature(ctx, verifyData, vm, p)
	}

	return false, ErrNoMatchingProof
}

// createVerifyData canonicalizes the document, excluding its proof, and
// digests the result.
func createVerifyData(doc jsonmap.JSONMap, opts ...canonical.Opt) ([]byte, error) {
	canonicalized, err := canonical.Canonicalize(doc.CopyWithout("proof"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize document: %w", err)
	}

	digest, err := canonical.Digest(canonicalized)
	if err != nil {
		return nil, fmt.Errorf("failed to compute digest: %w", err)
	}

	return digest, nil
}

// documentProofs returns the proofs attached to a document, accepting a
// single proof object or an array of them.
func documentProofs(doc jsonmap.JSONMap) []jsonmap.JSONMap {
	switch p := doc["proof"].(type) {
	case map[string]interface{}:
		return []jsonmap.JSONMap{jsonmap.JSONMap(p)}
	case jsonmap.JSONMap:
		return []jsonmap.JSONMap{p}
	case []interface{}:
		proofs := make([]jsonmap.JSONMap, 0, len(p))
		for _, entry := range p {
			if m, ok := entry.(map[string]interface{}); ok {
				proofs = append(proofs, jsonmap.JSONMap(m))
			}
		}
		return proofs
	default:
		return nil
	}
}

// attachProof adds a proof to a document, promoting an existing single
// proof to an array.
func attachProof(doc jsonmap.JSONMap, p jsonmap.JSONMap) {
	existing, ok := doc["proof"]
	if !ok {
		doc["proof"] = map[string]interface{}(p)
		return
	}

	if arr, isArray := existing.([]interface{}); isArray {
		doc["proof"] = append(arr, map[string]interface{}(p))
		return
	}

	doc["proof"] = []interface{}{existing, map[string]interface{}(p)}
}
