package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"backend": map[string]any{
			"baseUrl": "https://example.test",
		},
		"session": map[string]any{
			"tokenTTL":        "720h",
			"authGracePeriod": "2s",
		},
		"reservation": map[string]any{
			"depositPercent": 50,
		},
		"secretKey": map[string]any{
			"storage": "",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "BACKEND_BASEURL", want: "backend.baseUrl"},
		{envKey: "SESSION_TOKENTTL", want: "session.tokenTTL"},
		{envKey: "SESSION_AUTHGRACEPERIOD", want: "session.authGracePeriod"},
		{envKey: "RESERVATION_DEPOSITPERCENT", want: "reservation.depositPercent"},
		{envKey: "SECRETKEY_STORAGE", want: "secretKey.storage"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.Backend.BaseURL = "https://api.example.test/api/v1/"

	cfg.ApplyDefaults()

	assert.Equal(t, "https://api.example.test/api/v1", cfg.Backend.BaseURL)
	assert.Equal(t, 30*24*time.Hour, cfg.Session.TokenTTL)
	assert.Equal(t, 12*time.Hour, cfg.Session.IncompleteRegistrationTTL)
	assert.Equal(t, 40, cfg.Reservation.DoubleSlotThresholdMinutes)
	assert.Equal(t, 50, cfg.Reservation.DepositPercent)
	assert.Equal(t, DefaultFridayAllowedSlots, cfg.Reservation.FridayAllowedSlots)
	assert.Equal(t, StorageProviderMemory, cfg.Storage.Provider)
	assert.Equal(t, defaultHistoryLimit, cfg.Reservation.HistoryPageLimit)
	assert.False(t, cfg.IsDevelopment())
}
