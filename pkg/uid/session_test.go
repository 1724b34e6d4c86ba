package uid

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionToken(t *testing.T) {
	token, err := NewSessionToken()
	require.NoError(t, err)
	assert.Len(t, token, 32)

	_, err = hex.DecodeString(token)
	assert.NoError(t, err, "tokens are hex encoded")
}

func TestNewSessionTokenIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := NewSessionToken()
		require.NoError(t, err)
		require.False(t, seen[token], "token %q repeated", token)
		seen[token] = true
	}
}
