package storage

import (
	"context"
	"encoding/json"
	"time"

	"barbershop/internal/domain/entity"
	"barbershop/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const redisPingTimeout = 5 * time.Second

// NewRedisClient parses url, connects and pings before returning.
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "parsing redis URL")
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()

		return nil, errors.Wrap(err, "pinging redis")
	}

	return client, nil
}

// redisStorage keeps persisted client state as JSON values under prefix+clientID.
type redisStorage struct {
	client *redis.Client
	prefix string
}

// NewRedisStorage creates a Redis-backed ClientStorage.
func NewRedisStorage(client *redis.Client, prefix string) repository.ClientStorage {
	return &redisStorage{client: client, prefix: prefix}
}

func (s *redisStorage) key(clientID uuid.UUID) string {
	return s.prefix + clientID.String()
}

func (s *redisStorage) Load(ctx context.Context, clientID uuid.UUID) (*entity.PersistedClient, error) {
	data, err := s.client.Get(ctx, s.key(clientID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errors.WithStack(repository.ErrClientNotFound)
	}
	if err != nil {
		return nil, errors.Wrap(err, "loading client state")
	}

	var client entity.PersistedClient
	if err := json.Unmarshal(data, &client); err != nil {
		return nil, errors.Wrap(err, "decoding client state")
	}

	return &client, nil
}

func (s *redisStorage) Save(ctx context.Context, clientID uuid.UUID, client *entity.PersistedClient, ttl time.Duration) error {
	if client == nil {
		return errors.New("nil client state")
	}

	data, err := json.Marshal(client)
	if err != nil {
		return errors.Wrap(err, "encoding client state")
	}

	if err := s.client.Set(ctx, s.key(clientID), data, ttl).Err(); err != nil {
		return errors.Wrap(err, "saving client state")
	}

	return nil
}

func (s *redisStorage) Delete(ctx context.Context, clientID uuid.UUID) error {
	if err := s.client.Del(ctx, s.key(clientID)).Err(); err != nil {
		return errors.Wrap(err, "deleting client state")
	}

	return nil
}
