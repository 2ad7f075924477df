package jwtx

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
)

// KeyPair is the Ed25519 signing material for one credential kind.
type KeyPair struct {
	KID     string
	Private ed25519.PrivateKey
	Public  ed25519.PublicKey
}

// GenerateKeyPair creates an ephemeral Ed25519 key pair. Tokens signed with
// it do not survive a restart, which is fine for dev and tests.
func GenerateKeyPair(kid string) (KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return KeyPair{}, fmt.Errorf("jwtx: generate key: %w", err)
	}
	return KeyPair{KID: kid, Private: priv, Public: pub}, nil
}

// LoadKeyPairPEM parses a PKCS8 Ed25519 private key from PEM bytes.
func LoadKeyPairPEM(kid string, pemKey []byte) (KeyPair, error) {
	block, _ := pem.Decode(pemKey)
	if block == nil {
		return KeyPair{}, errors.New("jwtx: invalid PEM for Ed25519 key")
	}
	if block.Type != "PRIVATE KEY" {
		return KeyPair{}, fmt.Errorf("jwtx: expected PRIVATE KEY, got %q (Ed25519 requires PKCS8)", block.Type)
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return KeyPair{}, fmt.Errorf("jwtx: parse PKCS8: %w", err)
	}

	priv, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return KeyPair{}, errors.New("jwtx: not an Ed25519 private key")
	}

	return KeyPair{
		KID:     kid,
		Private: priv,
		Public:  priv.Public().(ed25519.PublicKey),
	}, nil
}

// EncodePEM serialises the private key as PKCS8 PEM, the inverse of
// LoadKeyPairPEM. Used when persisting generated keys.
func (k KeyPair) EncodePEM() ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(k.Private)
	if err != nil {
		return nil, fmt.Errorf("jwtx: marshal PKCS8: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}

// validate sanity-checks the key material. Called once at codec
// construction so a misconfigured secret is fatal at startup.
func (k KeyPair) validate() error {
	if k.KID == "" {
		return errors.New("jwtx: key pair missing kid")
	}
	if len(k.Private) != ed25519.PrivateKeySize {
		return errors.New("jwtx: invalid Ed25519 private key size")
	}
	if len(k.Public) != ed25519.PublicKeySize {
		return errors.New("jwtx: invalid Ed25519 public key size")
	}
	return nil
}
