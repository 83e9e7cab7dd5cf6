package suite

import (
	"context"
	"encoding/base64"

	"github.com/pilacorp/go-ldproof-sdk/proof/common/jsonmap"
)

// VerifySignature checks the detached JWS carried by the proof against
// the pre-canonicalized verify data. A structurally valid signature that
// does not match yields (false, nil); malformed input yields a typed
// error. The signing input is rebuilt from the incoming encoded header
// segment verbatim, never from a re-serialized header.
func (s *Suite) VerifySignature(ctx context.Context, verifyData []byte, vm, p jsonmap.JSONMap) (bool, error) {
	jws, ok := p["jws"].(string)
	if !ok {
		return false, &FormatError{Reason: "proof does not contain a jws string"}
	}

	encodedHeader, encodedSignature, err := decodeJWS(jws)
	if err != nil {
		return false, err
	}
	if err := s.validateHeader(encodedHeader); err != nil {
		return false, err
	}

	verifier := s.verifier
	if verifier == nil {
		verifier, err = s.verifierFromMethod(vm)
		if err != nil {
			return false, err
		}
	}

	signature, err := base64.RawURLEncoding.DecodeString(encodedSignature)
	if err != nil {
		return false, &FormatError{Reason: "invalid base64url signature segment"}
	}

	return verifier.Verify(ctx, buildSigningInput(encodedHeader, verifyData), signature)
}

// verifierFromMethod derives a verifier from a verification method
// document through the suite's key adapter.
func (s *Suite) verifierFromMethod(vm jsonmap.JSONMap) (Verifier, error) {
	if s.adapter == nil {
		return nil, &ConfigurationError{Reason: "no verifier or key adapter configured"}
	}

	key, err := s.adapter.FromVerificationMethod(vm)
	if err != nil {
		return nil, err
	}

	verifier := key.Verifier()
	if verifier == nil {
		return nil, &ConfigurationError{Reason: "derived key has no verifier capability"}
	}

	return verifier, nil
}
