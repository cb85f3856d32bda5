package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerify(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	token, err := svc.Generate("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := NewService("secret-a", time.Hour).Generate("user-123")
	require.NoError(t, err)

	_, err = NewService("secret-b", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyExpired(t *testing.T) {
	// Negative TTL mints a token that is already past its expiry.
	token, err := NewService("test-secret", -time.Hour).Generate("user-123")
	require.NoError(t, err)

	_, err = NewService("test-secret", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyGarbage(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.Verify(token)
		assert.ErrorIs(t, err, ErrTokenInvalid, "token %q", token)
	}
}
