package oidc

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"

	"github.com/go-jose/go-jose/v4"
)

// KeyPair is an RSA signing key published as a one-key JWKS. It stands in for
// the identity provider in local setups and tests.
type KeyPair struct {
	id         string
	privateKey *rsa.PrivateKey
}

// GenerateKeyPair creates a new RSA-2048 key pair.
func GenerateKeyPair() (*KeyPair, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}

	// Derive a stable key ID from the public key
	hash := sha256.Sum256(key.PublicKey.N.Bytes())
	return &KeyPair{
		id:         base64.RawURLEncoding.EncodeToString(hash[:8]),
		privateKey: key,
	}, nil
}

func (kp *KeyPair) ID() string { return kp.id }

// JWKS returns the public half in the form an identity provider publishes it.
func (kp *KeyPair) JWKS() jose.JSONWebKeySet {
	return jose.JSONWebKeySet{Keys: []jose.JSONWebKey{{
		Key:       &kp.privateKey.PublicKey,
		KeyID:     kp.id,
		Algorithm: string(jose.RS256),
		Use:       "sig",
	}}}
}

// Sign serializes claims as a compact RS256 JWT.
func (kp *KeyPair) Sign(claims map[string]any) (string, error) {
	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.RS256, Key: jose.JSONWebKey{Key: kp.privateKey, KeyID: kp.id}},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	object, err := signer.Sign(payload)
	if err != nil {
		return "", err
	}
	return object.CompactSerialize()
}
