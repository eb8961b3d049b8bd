package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "round-trip-secret")

	token, err := GenerateAccessToken("abc-123", "a@b.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)
}

func TestParseAccessToken_Garbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "round-trip-secret")

	_, err := ParseAccessToken("definitely.not.ajwt")
	assert.Error(t, err)
}

func TestParseAccessToken_TamperedSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-one")
	token, err := GenerateAccessToken("abc-123", "a@b.com")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "secret-two")
	_, err = ParseAccessToken(token)
	assert.Error(t, err)
}
