package suite

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// jwsHeader is the protected header of a detached JWS as produced by this
// suite. Field order matches the serialized form {"alg":...,"b64":false,
// "crit":["b64"]}.
type jwsHeader struct {
	Alg  string   `json:"alg"`
	B64  bool     `json:"b64"`
	Crit []string `json:"crit"`
}

// jwsHeaderKeys is the exact number of parameters a valid header carries.
const jwsHeaderKeys = 3

// encodeHeader serializes the suite's protected header and base64url
// encodes it without padding. The header is fully suite-controlled; no
// caller-provided fields are ever merged.
func (s *Suite) encodeHeader() string {
	// Marshalling a fixed struct cannot fail.
	raw, _ := json.Marshal(jwsHeader{
		Alg:  s.alg,
		B64:  false,
		Crit: []string{"b64"},
	})

	return base64.RawURLEncoding.EncodeToString(raw)
}

// buildSigningInput assembles the bytes to sign or verify: the ASCII
// encoded header, a dot, then the raw verify data. The payload is not
// base64url encoded; this is the b64:false detached mode.
func buildSigningInput(encodedHeader string, verifyData []byte) []byte {
	input := make([]byte, 0, len(encodedHeader)+1+len(verifyData))
	input = append(input, encodedHeader...)
	input = append(input, '.')
	input = append(input, verifyData...)

	return input
}

// encodeJWS produces the compact serialization with an omitted payload
// segment: "<header>..<signature>".
func encodeJWS(encodedHeader string, signature []byte) string {
	return encodedHeader + ".." + base64.RawURLEncoding.EncodeToString(signature)
}

// decodeJWS splits a compact detached JWS into its encoded header and
// signature segments. The payload segment is never inspected.
func decodeJWS(jws string) (encodedHeader, encodedSignature string, err error) {
	if !strings.Contains(jws, ".") {
		return "", "", &FormatError{Reason: "jws is missing segment separators"}
	}

	parts := strings.Split(jws, ".")
	if len(parts) < 3 {
		return "", "", &FormatError{Reason: "jws must have three segments"}
	}

	return parts[0], parts[2], nil
}

// validateHeader decodes an untrusted header segment and checks it
// against the exact parameter set this suite produces: alg equal to the
// suite's algorithm, b64 exactly false, crit exactly ["b64"], and no
// other parameters. Every condition must hold; there is no partial-trust
// mode.
func (s *Suite) validateHeader(encodedHeader string) error {
	raw, err := base64.RawURLEncoding.DecodeString(encodedHeader)
	if err != nil {
		return &HeaderDecodeError{Reason: "invalid base64url encoding", Cause: err}
	}
	if !utf8.Valid(raw) {
		return &HeaderDecodeError{Reason: "header is not valid UTF-8"}
	}

	var parsed interface{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &HeaderDecodeError{Reason: "invalid JSON", Cause: err}
	}

	header, ok := parsed.(map[string]interface{})
	if !ok {
		return &HeaderDecodeError{Reason: "header is not a JSON object"}
	}

	alg, _ := header["alg"].(string)
	b64, b64IsBool := header["b64"].(bool)
	crit, _ := header["crit"].([]interface{})

	valid := alg == s.alg &&
		b64IsBool && !b64 &&
		len(crit) == 1 && crit[0] == "b64" &&
		len(header) == jwsHeaderKeys

	if !valid {
		return &HeaderValidationError{SuiteType: s.suiteType}
	}

	return nil
}
