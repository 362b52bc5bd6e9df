package logs

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"barbershop/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ScrubsSecrets(t *testing.T) {
	cfg := &config.Config{}
	cfg.Env.Env = "production"
	cfg.Env.ServiceName = "barbershop-reservation"
	cfg.Env.Log.Level = "debug"

	var buf bytes.Buffer
	logger, err := newLogger(&buf, cfg)
	require.NoError(t, err)

	logger.Info("Client logged in",
		slog.String("token", "eyJhbGciOi"),
		slog.String("phone_number", "09121234567"),
		slog.Int64("user_id", 7),
	)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, redacted, line["token"])
	assert.Equal(t, "0912*****67", line["phone_number"])
	assert.EqualValues(t, 7, line["user_id"])
	assert.Equal(t, "barbershop-reservation", line["service"])
	assert.Equal(t, "production", line["env"])
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "WARN", want: slog.LevelWarn},
		{in: "", want: slog.LevelInfo},
		{in: "error", want: slog.LevelError},
		{in: "verbose", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLogLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "0912*****67", MaskPhone("09121234567"))
	assert.Equal(t, "****", MaskPhone("0912"))
	assert.Equal(t, "", MaskPhone(""))
}
