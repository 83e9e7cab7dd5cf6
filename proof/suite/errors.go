package suite

import "fmt"

// ConfigurationError indicates a suite is missing a capability the
// requested operation needs, such as a signer or verifier.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("suite configuration error: %s", e.Reason)
}

// FormatError indicates a malformed or absent jws field on a proof.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid signature format: %s", e.Reason)
}

// HeaderDecodeError indicates the protected header segment could not be
// decoded: bad base64url, invalid UTF-8, or invalid JSON.
type HeaderDecodeError struct {
	Reason string
	Cause  error
}

func (e *HeaderDecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("could not parse JWS header: %s: %v", e.Reason, e.Cause)
	}

	return fmt.Sprintf("could not parse JWS header: %s", e.Reason)
}

func (e *HeaderDecodeError) Unwrap() error {
	return e.Cause
}

// HeaderValidationError indicates a decodable header whose parameters do
// not match the exact set the suite requires.
type HeaderValidationError struct {
	SuiteType string
}

func (e *HeaderValidationError) Error() string {
	return fmt.Sprintf("invalid JWS header parameters for suite %q", e.SuiteType)
}

// ContextError indicates a verification method that does not declare the
// JSON-LD context the suite requires.
type ContextError struct {
	ContextURL string
}

func (e *ContextError) Error() string {
	return fmt.Sprintf("verification method @context must include %q", e.ContextURL)
}

// KeyTypeError indicates a verification method of the wrong key type.
type KeyTypeError struct {
	Want string
	Got  string
}

func (e *KeyTypeError) Error() string {
	return fmt.Sprintf("invalid key type: want %q, got %q", e.Want, e.Got)
}

// RevokedKeyError indicates a verification method carrying a revoked
// property. Presence of the property is what matters, not its value.
type RevokedKeyError struct {
	ID string
}

func (e *RevokedKeyError) Error() string {
	return fmt.Sprintf("verification method %q has been revoked", e.ID)
}

// MissingVerificationMethodError indicates a proof with no verification
// method identifier to resolve.
type MissingVerificationMethodError struct{}

func (e *MissingVerificationMethodError) Error() string {
	return "no verificationMethod found in proof"
}
