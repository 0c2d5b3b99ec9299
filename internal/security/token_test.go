package security

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()

	tok, err := GenerateAccessToken("secret", "user-1", "admin", time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := ParseAccessToken(tok, "secret")
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "admin", claims.Role)
}

func TestParseAccessToken_Expired(t *testing.T) {
	t.Parallel()

	tok, err := GenerateAccessToken("secret", "user-1", "chauffeur", -time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken(tok, "secret")
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseAccessToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateAccessToken("right", "user-1", "admin", time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken(tok, "wrong")
	require.ErrorIs(t, err, ErrTokenInvalid)
	require.False(t, errors.Is(err, ErrTokenExpired))
}

func TestParseAccessToken_Malformed(t *testing.T) {
	t.Parallel()

	_, err := ParseAccessToken("not.a.jwt", "secret")
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestGenerateRefreshToken_Unique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		tok, err := GenerateRefreshToken(64)
		require.NoError(t, err)
		require.NotEmpty(t, tok)

		_, dup := seen[tok]
		require.False(t, dup, "duplicate refresh token generated")
		seen[tok] = struct{}{}
	}
}

func TestGenerateRefreshToken_DefaultLength(t *testing.T) {
	t.Parallel()

	tok, err := GenerateRefreshToken(0)
	require.NoError(t, err)
	// 64 random bytes base64-encoded without padding.
	require.Len(t, tok, 86)
}
