package auth

import (
	"io"
	"log/slog"
	"testing"

	"barbershop/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenSealer_RoundTrip(t *testing.T) {
	sealer, err := newTokenSealer([]byte("test_storage_secret_key_for_sealing"))
	require.NoError(t, err)

	sealed, err := sealer.Seal("eyJhbGciOiJIUzI1NiJ9.payload.sig")
	require.NoError(t, err)
	assert.NotContains(t, sealed, "payload")

	again, err := sealer.Seal("eyJhbGciOiJIUzI1NiJ9.payload.sig")
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "fresh nonce per seal")

	opened, err := sealer.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "eyJhbGciOiJIUzI1NiJ9.payload.sig", opened)
}

func TestTokenSealer_RejectsTampering(t *testing.T) {
	sealer, err := newTokenSealer([]byte("test_storage_secret_key_for_sealing"))
	require.NoError(t, err)
	other, err := newTokenSealer([]byte("another_secret"))
	require.NoError(t, err)

	sealed, err := sealer.Seal("token")
	require.NoError(t, err)

	_, err = other.Open(sealed)
	assert.Error(t, err, "wrong key")

	tampered := []byte(sealed)
	mid := len(tampered) / 2
	if tampered[mid] == 'A' {
		tampered[mid] = 'B'
	} else {
		tampered[mid] = 'A'
	}
	_, err = sealer.Open(string(tampered))
	assert.Error(t, err)

	_, err = sealer.Open("short")
	assert.Error(t, err)

	_, err = sealer.Open("***")
	assert.Error(t, err)
}

func TestNewTokenSealer_EphemeralKey(t *testing.T) {
	sealer, err := NewTokenSealer(&config.Config{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	sealed, err := sealer.Seal("token")
	require.NoError(t, err)

	opened, err := sealer.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "token", opened)
}
