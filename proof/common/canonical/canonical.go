package canonical

import (
	"crypto/sha256"
	"fmt"

	"github.com/piprate/json-gold/ld"
)

// Opt represents an option for JSON-LD canonicalization.
type Opt func(*options)

type options struct {
	documentLoader ld.DocumentLoader
	algorithm      string
}

// WithDocumentLoader sets the document loader used to resolve remote
// JSON-LD contexts.
func WithDocumentLoader(loader ld.DocumentLoader) Opt {
	return func(o *options) {
		o.documentLoader = loader
	}
}

// WithAlgorithm sets the canonicalization algorithm.
func WithAlgorithm(alg string) Opt {
	return func(o *options) {
		o.algorithm = alg
	}
}

// defaultDocumentLoader is a shared caching loader to prevent repeated
// context fetches across function calls.
var defaultDocumentLoader ld.DocumentLoader

func init() {
	defaultDocumentLoader = ld.NewCachingDocumentLoader(ld.NewDefaultDocumentLoader(nil))
}

// Canonicalize normalizes a JSON-LD document to its canonical N-Quads
// form, URDNA2015 by default.
func Canonicalize(doc map[string]interface{}, opts ...Opt) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("failed to canonicalize document: document is nil")
	}

	o := &options{
		documentLoader: defaultDocumentLoader,
		algorithm:      ld.AlgorithmURDNA2015,
	}
	for _, opt := range opts {
		opt(o)
	}

	processor := ld.NewJsonLdProcessor()
	jsonldOptions := ld.NewJsonLdOptions("")
	jsonldOptions.Format = "application/n-quads"
	jsonldOptions.Algorithm = o.algorithm
	jsonldOptions.DocumentLoader = o.documentLoader

	canonicalized, err := processor.Normalize(doc, jsonldOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize document: %w", err)
	}

	return []byte(canonicalized.(string)), nil
}

// Digest computes the SHA-256 digest of the input data.
func Digest(data []byte) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("failed to compute digest: input data is nil")
	}

	hash := sha256.Sum256(data)

	return hash[:], nil
}
