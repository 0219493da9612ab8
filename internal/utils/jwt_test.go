package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func parseClaims(t *testing.T, secret, raw string) jwt.MapClaims {
	t.Helper()
	tok, err := jwt.Parse(raw, func(tok *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, tok.Valid)
	claims, ok := tok.Claims.(jwt.MapClaims)
	require.True(t, ok)
	return claims
}

func TestNewSessionTokenClaims(t *testing.T) {
	st, err := NewSessionToken("test-secret", 42, "rehomer", 24)
	require.NoError(t, err)
	require.NotEmpty(t, st.Token)

	claims := parseClaims(t, "test-secret", st.Token)
	require.EqualValues(t, 42, claims["sub"])
	require.Equal(t, "rehomer", claims["role"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().UTC().Add(24*time.Hour), exp.Time, time.Minute)
	require.WithinDuration(t, st.Exp, exp.Time, time.Second)
}

func TestSessionTokenRejectsWrongSecret(t *testing.T) {
	st, err := NewSessionToken("secret-a", 1, "adopter", 24)
	require.NoError(t, err)

	_, err = jwt.Parse(st.Token, func(tok *jwt.Token) (interface{}, error) {
		return []byte("secret-b"), nil
	})
	require.Error(t, err)
}

func TestSessionTokenExpiry(t *testing.T) {
	// Zero TTL produces an already-expired token which parsing must reject.
	st, err := NewSessionToken("test-secret", 1, "adopter", 0)
	require.NoError(t, err)

	_, err = jwt.Parse(st.Token, func(tok *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	h, err := HashPassword("hunter2", 4)
	require.NoError(t, err)
	require.NotEqual(t, "hunter2", h)
	require.True(t, VerifyPassword(h, "hunter2"))
	require.False(t, VerifyPassword(h, "hunter3"))
}
