package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signTestToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend_secret_we_never_see"))
	require.NoError(t, err)

	return token
}

func TestJWTInspector_ExpiresAt(t *testing.T) {
	inspector := NewJWTInspector()
	exp := time.Now().Add(7 * 24 * time.Hour).Truncate(time.Second)

	token := signTestToken(t, jwt.MapClaims{"sub": "5", "exp": exp.Unix()})

	got, ok := inspector.ExpiresAt(token)
	assert.True(t, ok)
	assert.True(t, exp.Equal(got))
}

func TestJWTInspector_ExpiredTokenStillReadable(t *testing.T) {
	inspector := NewJWTInspector()
	exp := time.Now().Add(-time.Hour).Truncate(time.Second)

	got, ok := inspector.ExpiresAt(signTestToken(t, jwt.MapClaims{"exp": exp.Unix()}))

	assert.True(t, ok)
	assert.True(t, exp.Equal(got))
}

func TestJWTInspector_NoExpiry(t *testing.T) {
	inspector := NewJWTInspector()

	_, ok := inspector.ExpiresAt(signTestToken(t, jwt.MapClaims{"sub": "5"}))
	assert.False(t, ok)

	_, ok = inspector.ExpiresAt("opaque-token-value")
	assert.False(t, ok)

	_, ok = inspector.ExpiresAt("")
	assert.False(t, ok)
}
