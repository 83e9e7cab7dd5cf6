// Package rsasignature2018 implements the RsaSignature2018 proof suite.
// Signatures use the PS256 JWS algorithm: RSASSA-PSS over SHA-256.
package rsasignature2018

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/pilacorp/go-ldproof-sdk/proof/common/jsonmap"
	"github.com/pilacorp/go-ldproof-sdk/proof/suite"
)

const (
	// SignatureType is the RsaSignature2018 type string.
	SignatureType = "RsaSignature2018"

	// Alg is the JWS algorithm label of this suite.
	Alg = "PS256"

	// KeyType is the verification method type this suite accepts.
	KeyType = "RsaVerificationKey2018"

	// ContextURL is the JSON-LD context verification methods must declare.
	ContextURL = "https://w3id.org/security/suites/rsa-2018/v1"
)

// New creates an RsaSignature2018 proof suite.
func New(opts ...suite.Opt) *suite.Suite {
	base := []suite.Opt{
		suite.WithContextURL(ContextURL),
		suite.WithKeyType(KeyType),
		suite.WithKeyAdapter(KeyAdapter{}),
	}

	return suite.New(SignatureType, Alg, append(base, opts...)...)
}

// pssOptions fixes the salt length to the digest size, as PS256 requires.
var pssOptions = &rsa.PSSOptions{
	SaltLength: rsa.PSSSaltLengthEqualsHash,
	Hash:       crypto.SHA256,
}

// Key is an RSA key handle.
type Key struct {
	id   string
	priv *rsa.PrivateKey
	pub  *rsa.PublicKey
}

// NewKey wraps an RSA private key into a handle with signing and
// verification capabilities.
func NewKey(id string, priv *rsa.PrivateKey) *Key {
	return &Key{id: id, priv: priv, pub: &priv.PublicKey}
}

// NewVerificationKey wraps an RSA public key into a verify-only handle.
func NewVerificationKey(id string, pub *rsa.PublicKey) *Key {
	return &Key{id: id, pub: pub}
}

// KeyID returns the key identifier.
func (k *Key) KeyID() string {
	return k.id
}

// Public returns the public verification method document for the key,
// with the public key in PKIX PEM form.
func (k *Key) Public() jsonmap.JSONMap {
	// Marshalling an in-memory RSA public key cannot fail.
	der, _ := x509.MarshalPKIXPublicKey(k.pub)

	return jsonmap.JSONMap{
		"@context": ContextURL,
		"id":       k.id,
		"type":     KeyType,
		"publicKeyPem": string(pem.EncodeToMemory(&pem.Block{
			Type:  "PUBLIC KEY",
			Bytes: der,
		})),
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
	priv *rsa.PrivateKey
}

// Sign signs the SHA-256 digest of the data with RSASSA-PSS.
func (s signer) Sign(_ context.Context, data []byte) ([]byte, error) {
	hash := sha256.Sum256(data)

	sig, err := rsa.SignPSS(rand.Reader, s.priv, crypto.SHA256, hash[:], pssOptions)
	if err != nil {
		return nil, fmt.Errorf("rsa: sign error: %w", err)
	}

	return sig, nil
}

type verifier struct {
	pub *rsa.PublicKey
}

// Verify checks an RSASSA-PSS signature over the SHA-256 digest of the
// data.
func (v verifier) Verify(_ context.Context, data, signature []byte) (bool, error) {
	hash := sha256.Sum256(data)

	err := rsa.VerifyPSS(v.pub, crypto.SHA256, hash[:], signature, pssOptions)
	if err != nil {
		if errors.Is(err, rsa.ErrVerification) {
			return false, nil
		}
		return false, fmt.Errorf("rsa: verify error: %w", err)
	}

	return true, nil
}

// KeyAdapter derives RSA keys from verification method documents carrying
// a publicKeyPem entry.
type KeyAdapter struct{}

// FromVerificationMethod implements suite.KeyAdapter.
func (KeyAdapter) FromVerificationMethod(vm jsonmap.JSONMap) (suite.Key, error) {
	pemKey, ok := vm.String("publicKeyPem")
	if !ok {
		return nil, fmt.Errorf("verification method has no publicKeyPem")
	}

	block, _ := pem.Decode([]byte(pemKey))
	if block == nil {
		return nil, fmt.Errorf("failed to decode publicKeyPem")
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	pub, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("publicKeyPem is not an RSA key, got %T", parsed)
	}

	id, _ := vm.String("id")

	return NewVerificationKey(id, pub), nil
}
