package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}

// GenerateInviteCode returns an organization invite code such as
// "3F9A-0C1D-77BE". Codes are compared case-insensitively.
func GenerateInviteCode() (string, error) {
	b, err := randomBytes(6)
	if err != nil {
		return "", err
	}
	code := strings.ToUpper(hex.EncodeToString(b))
	return code[0:4] + "-" + code[4:8] + "-" + code[8:12], nil
}

// NormalizeInviteCode trims and upper-cases a code typed by a user.
func NormalizeInviteCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// GenerateToken returns a random URL-safe bearer token and its storage hash.
func GenerateToken() (token, hash string, err error) {
	b, err := randomBytes(32)
	if err != nil {
		return "", "", err
	}
	token = base64.RawURLEncoding.EncodeToString(b)
	return token, HashToken(token), nil
}

// HashToken is the hex sha256 a token is stored and looked up by.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
