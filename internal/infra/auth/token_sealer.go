package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"log/slog"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"barbershop/config"
	"barbershop/internal/domain/service"
)

const sealerInfo = "barbershop client token v1"

// tokenSealer encrypts tokens with XChaCha20-Poly1305. Output is base64url(nonce || ciphertext).
type tokenSealer struct {
	key []byte
}

// NewTokenSealer derives the sealing key from secretKey.storage. Without a configured
// secret a random key is used, so sealed tokens do not survive a restart.
func NewTokenSealer(cfg *config.Config, logger *slog.Logger) (service.TokenSealer, error) {
	secret := []byte(cfg.SecretKey.Storage)
	if len(secret) == 0 {
		logger.Warn("secretKey.storage is empty; using an ephemeral token sealing key")

		secret = make([]byte, chacha20poly1305.KeySize)
		if _, err := rand.Read(secret); err != nil {
			return nil, errors.Wrap(err, "generating sealing key")
		}
	}

	return newTokenSealer(secret)
}

func newTokenSealer(secret []byte) (*tokenSealer, error) {
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(sealerInfo)), key); err != nil {
		return nil, errors.Wrap(err, "deriving sealing key")
	}

	return &tokenSealer{key: key}, nil
}

// Seal encrypts plaintext.
func (s *tokenSealer) Seal(plaintext string) (string, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return "", errors.WithStack(err)
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", errors.Wrap(err, "generating nonce")
	}

	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)

	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open decrypts a value produced by Seal.
func (s *tokenSealer) Open(sealed string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil {
		return "", errors.Wrap(err, "decoding sealed token")
	}

	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return "", errors.WithStack(err)
	}
	if len(raw) < aead.NonceSize()+aead.Overhead() {
		return "", errors.New("sealed token too short")
	}

	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", errors.Wrap(err, "opening sealed token")
	}

	return string(plaintext), nil
}
