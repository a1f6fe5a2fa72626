// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package crypto adapts the engine to the pluggable signature schemes
// named by consensus.signature (§6): ed25519, ed25519det, sha256dsa and
// empty (test mode). Hashing proper lives in takamaka.SHA256; this
// package is only about keys and signatures.
package crypto

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"golang.org/x/crypto/ed25519"
)

// Scheme names a signing algorithm, matching consensus.signature values.
type Scheme string

const (
	SchemeEd25519    Scheme = "ed25519"
	SchemeEd25519Det Scheme = "ed25519det"
	SchemeSha256Dsa  Scheme = "sha256dsa"
	SchemeEmpty      Scheme = "empty"
)

// Signer produces and verifies signatures for one scheme.
type Signer interface {
	Scheme() Scheme
	GenerateKeyPair() (publicKey, privateKey []byte, err error)
	Sign(privateKey, message []byte) ([]byte, error)
	Verify(publicKey, message, signature []byte) bool
	// EncodePublicKey/DecodePublicKey round-trip a public key for
	// base64/config storage (genesis public_key_of_gamete, §6).
	EncodePublicKey(publicKey []byte) string
	DecodePublicKey(encoded string) ([]byte, error)
}

// ForScheme resolves a Signer by name, as selected by consensus.signature.
func ForScheme(s Scheme) (Signer, error) {
	switch s {
	case SchemeEd25519:
		return ed25519Signer{deterministic: false}, nil
	case SchemeEd25519Det:
		return ed25519Signer{deterministic: true}, nil
	case SchemeSha256Dsa:
		return secp256k1Signer{}, nil
	case SchemeEmpty:
		return emptySigner{}, nil
	default:
		return nil, fmt.Errorf("crypto: unknown signature scheme %q", s)
	}
}

// emptySigner always verifies; it is selected by SchemeEmpty, for
// test-mode configurations.
type emptySigner struct{}

func (emptySigner) Scheme() Scheme { return SchemeEmpty }
func (emptySigner) GenerateKeyPair() ([]byte, []byte, error) {
	return nil, nil, nil
}
func (emptySigner) Sign(_, _ []byte) ([]byte, error) { return nil, nil }
func (emptySigner) Verify(_, _, _ []byte) bool       { return true }
func (emptySigner) EncodePublicKey(_ []byte) string  { return "" }
func (emptySigner) DecodePublicKey(_ string) ([]byte, error) { return nil, nil }

// secp256k1Signer implements the sha256dsa scheme: ECDSA over secp256k1
// with a SHA-256 digest, grounded on the teacher's own
// github.com/decred/dcrd/dcrec/secp256k1/v4 dependency.
type secp256k1Signer struct{}

func (secp256k1Signer) Scheme() Scheme { return SchemeSha256Dsa }

func (secp256k1Signer) GenerateKeyPair() ([]byte, []byte, error) {
	priv, err := ecdsa.GenerateKey(secp256k1.S256(), rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	pub := elliptic.Marshal(secp256k1.S256(), priv.X, priv.Y)
	return pub, priv.D.Bytes(), nil
}

func (secp256k1Signer) Sign(privateKey, message []byte) ([]byte, error) {
	priv := new(ecdsa.PrivateKey)
	priv.PublicKey.Curve = secp256k1.S256()
	priv.D = new(big.Int).SetBytes(privateKey)
	priv.PublicKey.X, priv.PublicKey.Y = secp256k1.S256().ScalarBaseMult(privateKey)
	digest := sha256.Sum256(message)
	r, s, err := ecdsa.Sign(rand.Reader, priv, digest[:])
	if err != nil {
		return nil, err
	}
	return append(r.Bytes(), s.Bytes()...), nil
}

func (secp256k1Signer) Verify(publicKey, message, signature []byte) bool {
	if len(signature) < 2 {
		return false
	}
	half := len(signature) / 2
	r := new(big.Int).SetBytes(signature[:half])
	s := new(big.Int).SetBytes(signature[half:])
	x, y := elliptic.Unmarshal(secp256k1.S256(), publicKey)
	if x == nil {
		return false
	}
	pub := &ecdsa.PublicKey{Curve: secp256k1.S256(), X: x, Y: y}
	digest := sha256.Sum256(message)
	return ecdsa.Verify(pub, digest[:], r, s)
}

func (secp256k1Signer) EncodePublicKey(publicKey []byte) string {
	return base64.StdEncoding.EncodeToString(publicKey)
}
func (secp256k1Signer) DecodePublicKey(encoded string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(encoded)
}

// ed25519Signer implements ed25519 and its deterministic variant
// (ed25519det), which re-derives the key pair from a fixed seed so that
// test genesis configurations are reproducible across runs.
type ed25519Signer struct {
	deterministic bool
}

func (s ed25519Signer) Scheme() Scheme {
	if s.deterministic {
		return SchemeEd25519Det
	}
	return SchemeEd25519
}

func (s ed25519Signer) GenerateKeyPair() ([]byte, []byte, error) {
	if s.deterministic {
		seed := make([]byte, ed25519.SeedSize)
		priv := ed25519.NewKeyFromSeed(seed)
		return priv.Public().(ed25519.PublicKey), priv, nil
	}
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	return pub, priv, err
}

func (ed25519Signer) Sign(privateKey, message []byte) ([]byte, error) {
	return ed25519.Sign(ed25519.PrivateKey(privateKey), message), nil
}

func (ed25519Signer) Verify(publicKey, message, signature []byte) bool {
	if len(publicKey) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(publicKey), message, signature)
}

func (ed25519Signer) EncodePublicKey(publicKey []byte) string {
	return base64.StdEncoding.EncodeToString(publicKey)
}
func (ed25519Signer) DecodePublicKey(encoded string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(encoded)
}
