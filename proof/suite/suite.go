// Package suite implements a detached-JWS linked data proof suite. The
// suite signs externally-canonicalized bytes and stores the result as a
// compact detached JWS in the jws field of a proof object. Canonicalization,
// document loading and proof-purpose evaluation are external collaborators;
// concrete algorithm suites supply the JWS alg label and key material.
package suite

import (
	"context"
	"time"

	"github.com/pilacorp/go-ldproof-sdk/proof/common/docloader"
	"github.com/pilacorp/go-ldproof-sdk/proof/common/jsonmap"
)

// Signer produces a raw signature over the given data. Implementations
// may suspend, for example when signing happens in a remote KMS.
type Signer interface {
	Sign(ctx context.Context, data []byte) ([]byte, error)
}

// Verifier checks a raw signature over the given data. A false result
// means the signature did not match; it is not an error.
type Verifier interface {
	Verify(ctx context.Context, data, signature []byte) (bool, error)
}

// Key is a handle on key material. A key always has an identifier and a
// public representation; Signer and Verifier return nil when the handle
// does not carry that capability.
type Key interface {
	KeyID() string

	// Public returns the public verification method document for the key.
	Public() jsonmap.JSONMap

	Signer() Signer
	Verifier() Verifier
}

// KeyAdapter converts an external verification method document into a
// usable key handle. This lets key-management systems supply verification
// without exposing raw key material.
type KeyAdapter interface {
	FromVerificationMethod(vm jsonmap.JSONMap) (Key, error)
}

// Matcher is the base proof-matching policy consulted by MatchProof
// before any key binding check.
type Matcher interface {
	Match(ctx context.Context, proof, document jsonmap.JSONMap, purpose string, loader docloader.Loader) (bool, error)
}

// SchemaValidator structurally validates a resolved verification method
// document before the suite's policy checks run.
type SchemaValidator interface {
	Validate(doc map[string]interface{}) error
}

// Suite is a configured detached-JWS proof suite. A Suite is immutable
// after construction and safe for concurrent use provided its signer,
// verifier and key adapter are.
type Suite struct {
	suiteType  string
	alg        string
	contextURL string
	keyType    string

	key      Key
	signer   Signer
	verifier Verifier
	adapter  KeyAdapter
	matcher  Matcher
	schema   SchemaValidator

	template jsonmap.JSONMap
	date     time.Time

	useNativeCanonize bool
}

// Opt configures a Suite.
type Opt func(*Suite)

// WithKey binds the suite to an explicit key handle. The key's signer and
// verifier are used unless explicit capabilities are also configured, and
// MatchProof additionally requires proofs to reference the key.
func WithKey(key Key) Opt {
	return func(s *Suite) {
		s.key = key
	}
}

// WithSigner sets an explicit signer capability.
func WithSigner(signer Signer) Opt {
	return func(s *Suite) {
		s.signer = signer
	}
}

// WithVerifier sets an explicit verifier capability.
func WithVerifier(verifier Verifier) Opt {
	return func(s *Suite) {
		s.verifier = verifier
	}
}

// WithKeyAdapter sets the factory used to derive keys from verification
// method documents during verification.
func WithKeyAdapter(adapter KeyAdapter) Opt {
	return func(s *Suite) {
		s.adapter = adapter
	}
}

// WithContextURL sets the JSON-LD context URL the suite's verification
// methods must declare.
func WithContextURL(contextURL string) Opt {
	return func(s *Suite) {
		s.contextURL = contextURL
	}
}

// WithKeyType sets the verification method type the suite requires.
func WithKeyType(keyType string) Opt {
	return func(s *Suite) {
		s.keyType = keyType
	}
}

// WithProofTemplate sets a JSON-LD fragment merged into produced proofs.
func WithProofTemplate(template jsonmap.JSONMap) Opt {
	return func(s *Suite) {
		s.template = template
	}
}

// WithDate fixes the created timestamp of produced proofs.
func WithDate(date time.Time) Opt {
	return func(s *Suite) {
		s.date = date
	}
}

// WithMatcher replaces the base proof-matching policy.
func WithMatcher(matcher Matcher) Opt {
	return func(s *Suite) {
		s.matcher = matcher
	}
}

// WithSchemaValidator enables structural validation of resolved
// verification method documents.
func WithSchemaValidator(validator SchemaValidator) Opt {
	return func(s *Suite) {
		s.schema = validator
	}
}

// WithNativeCanonize sets a flag passed through to outer canonicalization
// layers. The suite itself does not canonicalize.
func WithNativeCanonize(useNative bool) Opt {
	return func(s *Suite) {
		s.useNativeCanonize = useNative
	}
}

// New creates a proof suite with the given type identifier and fixed JWS
// algorithm label. A signer or verifier must be available, directly or
// through a key or key adapter, before Sign or VerifySignature is called;
// absence is reported there as a ConfigurationError.
func New(suiteType, alg string, opts ...Opt) *Suite {
	s := &Suite{
		suiteType: suiteType,
		alg:       alg,
	}
	for _, opt := range opts {
		opt(s)
	}

	// An explicit key supplies the capabilities it carries.
	if s.key != nil {
		if s.signer == nil {
			s.signer = s.key.Signer()
		}
		if s.verifier == nil {
			s.verifier = s.key.Verifier()
		}
	}

	if s.matcher == nil {
		s.matcher = TypeMatcher{ProofType: suiteType}
	}

	return s
}

// Type returns the suite's type identifier.
func (s *Suite) Type() string {
	return s.suiteType
}

// Alg returns the suite's JWS algorithm label.
func (s *Suite) Alg() string {
	return s.alg
}

// ContextURL returns the JSON-LD context URL required of verification
// methods.
func (s *Suite) ContextURL() string {
	return s.contextURL
}

// NativeCanonize reports the pass-through canonicalization flag.
func (s *Suite) NativeCanonize() bool {
	return s.useNativeCanonize
}

// NewProof builds a fresh proof object for this suite with the given
// proof purpose and verification method identifier, merging the suite's
// proof template when one is configured.
func (s *Suite) NewProof(purpose, verificationMethod string) jsonmap.JSONMap {
	created := s.date
	if created.IsZero() {
		created = time.Now().UTC()
	}

	p := jsonmap.JSONMap{
		"type":         s.suiteType,
		"created":      created.Format(time.RFC3339),
		"proofPurpose": purpose,
	}
	if verificationMethod != "" {
		p["verificationMethod"] = verificationMethod
	}
	if s.template != nil {
		p.Merge(s.template)
	}

	return p
}

// TypeMatcher is the default base proof-matching policy: a proof matches
// when its type equals the suite type.
type TypeMatcher struct {
	ProofType string
}

// Match implements Matcher.
func (m TypeMatcher) Match(_ context.Context, p, _ jsonmap.JSONMap, _ string, _ docloader.Loader) (bool, error) {
	proofType, _ := p.String("type")

	return proofType == m.ProofType, nil
}
