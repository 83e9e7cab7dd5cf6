// Package ed25519signature2018 implements the Ed25519Signature2018 proof
// suite. Signatures use the EdDSA JWS algorithm over Ed25519 keys.
package ed25519signature2018

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pilacorp/go-ldproof-sdk/proof/common/jsonmap"
	"github.com/pilacorp/go-ldproof-sdk/proof/suite"
)

const (
	// SignatureType is the Ed25519Signature2018 type string.
	SignatureType = "Ed25519Signature2018"

	// Alg is the JWS algorithm label of this suite.
	Alg = "EdDSA"

	// KeyType is the verification method type this suite accepts.
	KeyType = "Ed25519VerificationKey2018"

	// ContextURL is the JSON-LD context verification methods must declare.
	ContextURL = "https://w3id.org/security/suites/ed25519-2018/v1"
)

// New creates an Ed25519Signature2018 proof suite.
func New(opts ...suite.Opt) *suite.Suite {
	base := []suite.Opt{
		suite.WithContextURL(ContextURL),
		suite.WithKeyType(KeyType),
		suite.WithKeyAdapter(KeyAdapter{}),
	}

	return suite.New(SignatureType, Alg, append(base, opts...)...)
}

// Key is an Ed25519 key handle.
type Key struct {
	id   string
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
}

// NewKey wraps an Ed25519 private key into a handle with signing and
// verification capabilities.
func NewKey(id string, priv ed25519.PrivateKey) *Key {
	return &Key{
		id:   id,
		priv: priv,
		pub:  priv.Public().(ed25519.PublicKey),
	}
}

// NewVerificationKey wraps an Ed25519 public key into a verify-only handle.
func NewVerificationKey(id string, pub ed25519.PublicKey) *Key {
	return &Key{id: id, pub: pub}
}

// GenerateKey creates a fresh Ed25519 key handle.
func GenerateKey(id string) (*Key, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ed25519 key: %w", err)
	}

	return NewKey(id, priv), nil
}

// KeyID returns the key identifier.
func (k *Key) KeyID() string {
	return k.id
}

// Public returns the public verification method document for the key.
func (k *Key) Public() jsonmap.JSONMap {
	return jsonmap.JSONMap{
		"@context":     ContextURL,
		"id":           k.id,
		"type":         KeyType,
		"publicKeyHex": "0x" + hex.EncodeToString(k.pub),
	}
}

// Signer returns the signing capability, or nil for a verify-only handle.
func (k *Key) Signer() suite.Signer {
	if k.priv == nil {
		return nil
	}

	return signer{priv: k.priv}
}

// Verifier returns the verification capability.
func (k *Key) Verifier() suite.Verifier {
	if k.pub == nil {
		return nil
	}

	return verifier{pub: k.pub}
}

type signer struct {
	priv ed25519.PrivateKey
}

// Sign signs the data with Ed25519. EdDSA is deterministic and signs the
// input directly without a separate digest step.
func (s signer) Sign(_ context.Context, data []byte) ([]byte, error) {
	return ed25519.Sign(s.priv, data), nil
}

type verifier struct {
	pub ed25519.PublicKey
}

// Verify checks an Ed25519 signature over the data.
func (v verifier) Verify(_ context.Context, data, signature []byte) (bool, error) {
	if len(v.pub) != ed25519.PublicKeySize {
		return false, fmt.Errorf("invalid ed25519 public key length: %d", len(v.pub))
	}

	return ed25519.Verify(v.pub, data, signature), nil
}

// KeyAdapter derives Ed25519 keys from verification method documents
// carrying a publicKeyHex entry.
type KeyAdapter struct{}

// FromVerificationMethod implements suite.KeyAdapter.
func (KeyAdapter) FromVerificationMethod(vm jsonmap.JSONMap) (suite.Key, error) {
	keyHex, ok := vm.String("publicKeyHex")
	if !ok {
		return nil, fmt.Errorf("verification method has no publicKeyHex")
	}

	pub, err := hex.DecodeString(strings.TrimPrefix(keyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to decode publicKeyHex: %w", err)
	}
	if len(pub) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("ed25519 public key must be %d bytes, got %d", ed25519.PublicKeySize, len(pub))
	}

	id, _ := vm.String("id")

	return NewVerificationKey(id, pub), nil
}
