package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginTokenRoundTrip(t *testing.T) {
	tok, err := NewLoginToken("secret", 42, 168)
	require.NoError(t, err)

	id, err := ParseLoginToken("secret", tok)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)
}

func TestParseLoginTokenWrongSecret(t *testing.T) {
	tok, err := NewLoginToken("secret", 42, 168)
	require.NoError(t, err)

	_, err = ParseLoginToken("other", tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseLoginTokenExpired(t *testing.T) {
	tok, err := NewLoginToken("secret", 42, -1)
	require.NoError(t, err)

	_, err = ParseLoginToken("secret", tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseLoginTokenGarbage(t *testing.T) {
	_, err := ParseLoginToken("secret", "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
