package storage

import (
	"context"
	"log/slog"

	"barbershop/config"
	"barbershop/internal/domain/repository"
	"barbershop/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// StorageParams holds dependencies for ClientStorage, injected by Fx
type StorageParams struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
	Sealer service.TokenSealer
}

// NewClientStorage creates a ClientStorage based on configuration. Tokens are always sealed.
func NewClientStorage(params StorageParams) (repository.ClientStorage, error) {
	cfg := params.Config.Storage
	logger := params.Logger

	var storage repository.ClientStorage

	switch cfg.Provider {
	case "", config.StorageProviderMemory:
		logger.Info("Using in-memory client storage")

		storage = NewMemoryStorage()

	case config.StorageProviderRedis:
		if params.Config.Redis == nil || params.Config.Redis.URL == "" {
			return nil, errors.New("redis url is required for redis storage provider")
		}

		client, err := NewRedisClient(params.Config.Redis.URL)
		if err != nil {
			return nil, err
		}
		logger.Info("Using Redis client storage",
			slog.String("addr", client.Options().Addr),
			slog.String("key_prefix", cfg.KeyPrefix),
		)

		// Register lifecycle hook to close the connection pool on shutdown
		params.Lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				logger.Info("Closing Redis client storage")

				return client.Close()
			},
		})

		storage = NewRedisStorage(client, cfg.KeyPrefix)

	default:
		return nil, errors.Errorf("unknown storage provider: %s", cfg.Provider)
	}

	return NewSealedStorage(storage, params.Sealer), nil
}

// Module provides the client storage FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewClientStorage),
)
