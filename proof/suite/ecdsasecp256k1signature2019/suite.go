// Package ecdsasecp256k1signature2019 implements the
// EcdsaSecp256k1Signature2019 proof suite. Signatures use the ES256K JWS
// algorithm: ECDSA over the secp256k1 curve with a SHA-256 digest and a
// 64-byte r||s signature.
package ecdsasecp256k1signature2019

import (
	"context"
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/pilacorp/go-ldproof-sdk/proof/common/jsonmap"
	"github.com/pilacorp/go-ldproof-sdk/proof/suite"
)

const (
	// SignatureType is the EcdsaSecp256k1Signature2019 type string.
	SignatureType = "EcdsaSecp256k1Signature2019"

	// Alg is the JWS algorithm label of this suite.
	Alg = "ES256K"

	// KeyType is the verification method type this suite accepts.
	KeyType = "EcdsaSecp256k1VerificationKey2019"

	// ContextURL is the JSON-LD context verification methods must declare.
	ContextURL = "https://w3id.org/security/suites/secp256k1-2019/v1"
)

// signatureLength is the r||s signature size in bytes.
const signatureLength = 64

// New creates an EcdsaSecp256k1Signature2019 proof suite.
func New(opts ...suite.Opt) *suite.Suite {
	base := []suite.Opt{
		suite.WithContextURL(ContextURL),
		suite.WithKeyType(KeyType),
		suite.WithKeyAdapter(KeyAdapter{}),
	}

	return suite.New(SignatureType, Alg, append(base, opts...)...)
}

// Key is a secp256k1 key handle.
type Key struct {
	id   string
	priv *ecdsa.PrivateKey
	pub  *ecdsa.PublicKey
}

// NewKey parses a hex-encoded secp256k1 private key, with or without a 0x
// prefix, into a handle with signing and verification capabilities.
func NewKey(id, privKeyHex string) (*Key, error) {
	priv, err := ethcrypto.HexToECDSA(strings.TrimPrefix(privKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key hex: %w", err)
	}

	return &Key{id: id, priv: priv, pub: &priv.PublicKey}, nil
}

// NewVerificationKey parses a hex-encoded secp256k1 public key, compressed
// or uncompressed, into a verify-only handle.
func NewVerificationKey(id, pubKeyHex string) (*Key, error) {
	pub, err := parsePublicKey(pubKeyHex)
	if err != nil {
		return nil, err
	}

	return &Key{id: id, pub: pub}, nil
}

// KeyID returns the key identifier.
func (k *Key) KeyID() string {
	return k.id
}

// Public returns the public verification method document for the key,
// with the public key in compressed hex form.
func (k *Key) Public() jsonmap.JSONMap {
	return jsonmap.JSONMap{
		"@context":     ContextURL,
		"id":           k.id,
		"type":         KeyType,
		"publicKeyHex": "0x" + hex.EncodeToString(ethcrypto.CompressPubkey(k.pub)),
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
	priv *ecdsa.PrivateKey
}

// Sign signs the SHA-256 digest of the data, returning the 64-byte r||s
// signature without the recovery byte.
func (s signer) Sign(_ context.Context, data []byte) ([]byte, error) {
	hash := sha256.Sum256(data)

	sig, err := ethcrypto.Sign(hash[:], s.priv)
	if err != nil {
		return nil, fmt.Errorf("ecdsa: sign error: %w", err)
	}

	return sig[:signatureLength], nil
}

type verifier struct {
	pub *ecdsa.PublicKey
}

// Verify checks a 64-byte r||s signature over the SHA-256 digest of the
// data.
func (v verifier) Verify(_ context.Context, data, signature []byte) (bool, error) {
	if len(signature) != signatureLength {
		return false, nil
	}

	hash := sha256.Sum256(data)
	r := new(big.Int).SetBytes(signature[:32])
	sv := new(big.Int).SetBytes(signature[32:])

	return ecdsa.Verify(v.pub, hash[:], r, sv), nil
}

// KeyAdapter derives secp256k1 keys from verification method documents
// carrying a publicKeyHex entry.
type KeyAdapter struct{}

// FromVerificationMethod implements suite.KeyAdapter.
func (KeyAdapter) FromVerificationMethod(vm jsonmap.JSONMap) (suite.Key, error) {
	keyHex, ok := vm.String("publicKeyHex")
	if !ok {
		return nil, fmt.Errorf("verification method has no publicKeyHex")
	}

	id, _ := vm.String("id")

	return NewVerificationKey(id, keyHex)
}

// parsePublicKey decodes a hex public key, converting the compressed form
// to an uncompressed ECDSA key when needed.
func parsePublicKey(pubKeyHex string) (*ecdsa.PublicKey, error) {
	pubBytes, err := hex.DecodeString(strings.TrimPrefix(pubKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to decode public key hex: %w", err)
	}

	if len(pubBytes) == 33 && (pubBytes[0] == 0x02 || pubBytes[0] == 0x03) {
		parsed, err := btcec.ParsePubKey(pubBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse compressed public key: %w", err)
		}
		pubBytes = parsed.SerializeUncompressed()
	}

	pub, err := ethcrypto.UnmarshalPubkey(pubBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	return pub, nil
}
