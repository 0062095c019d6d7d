package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// invitationTokenBytes yields a 32 character base64url token.
const invitationTokenBytes = 24

// GenerateRandomString produces a cryptographically random base64url string of n bytes.
func GenerateRandomString(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("random string length must be positive, got %d", n)
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateInvitationToken generates the URL-safe token shared with group members.
func GenerateInvitationToken() (string, error) {
	return GenerateRandomString(invitationTokenBytes)
}

// GenerateLockToken generates the owner value stored under a distributed lock key.
func GenerateLockToken() (string, error) {
	return GenerateRandomString(16)
}
