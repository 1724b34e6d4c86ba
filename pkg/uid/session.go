package uid

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// NewSessionToken generates a cryptographically secure random session
// token, 32 hex characters.
func NewSessionToken() (string, error) {
	bytes := make([]byte, 16) // 128 bits
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate session token: %v", err)
	}
	return hex.EncodeToString(bytes), nil
}
