package service

import (
	"time"
)

// TokenInspector reads metadata from backend bearer tokens without trusting them.
type TokenInspector interface {
	// ExpiresAt returns the token's own expiry, if it carries one.
	ExpiresAt(token string) (time.Time, bool)
}

// TokenSealer encrypts bearer tokens before they are stored.
type TokenSealer interface {
	// Seal encrypts plaintext into an opaque printable string.
	Seal(plaintext string) (string, error)

	// Open reverses Seal; tampered input fails.
	Open(sealed string) (string, error)
}
