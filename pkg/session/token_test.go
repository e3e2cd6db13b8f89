package session

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintVerifyRoundTrip(t *testing.T) {
	m := NewTokenManager([]byte("test-secret"), time.Hour)

	token, err := m.Mint("session-42")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	id, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "session-42", id)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	minter := NewTokenManager([]byte("secret-a"), time.Hour)
	verifier := NewTokenManager([]byte("secret-b"), time.Hour)

	token, err := minter.Mint("session-42")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadToken))
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := NewTokenManager([]byte("test-secret"), time.Hour)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := m.Verify(token)
		assert.True(t, errors.Is(err, ErrBadToken), "token %q", token)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := NewTokenManager([]byte("test-secret"), time.Hour)
	m.ttl = -time.Minute // backdate expiry

	token, err := m.Mint("session-42")
	require.NoError(t, err)

	_, err = m.Verify(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadToken))
}
