package suite

import (
	"context"

	"github.com/pilacorp/go-ldproof-sdk/proof/common/jsonmap"
)

// Sign signs the pre-canonicalized verify data and writes the resulting
// compact detached JWS into the jws field of the given proof. Exactly one
// field is added or overwritten; no other proof fields are touched. The
// mutated proof is returned. A signer failure propagates unchanged; this
// layer does not mask or retry it.
func (s *Suite) Sign(ctx context.Context, verifyData []byte, p jsonmap.JSONMap) (jsonmap.JSONMap, error) {
	if s.signer == nil {
		return nil, &ConfigurationError{Reason: "no signer configured"}
	}

	encodedHeader := s.encodeHeader()

	signature, err := s.signer.Sign(ctx, buildSigningInput(encodedHeader, verifyData))
	if err != nil {
		return nil, err
	}

	p["jws"] = encodeJWS(encodedHeader, signature)

	return p, nil
}
