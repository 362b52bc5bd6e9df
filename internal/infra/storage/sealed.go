package storage

import (
	"context"
	"time"

	"barbershop/internal/domain/entity"
	"barbershop/internal/domain/repository"
	"barbershop/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// sealedStorage encrypts bearer tokens before handing state to the wrapped storage.
type sealedStorage struct {
	next   repository.ClientStorage
	sealer service.TokenSealer
}

// NewSealedStorage wraps next so that tokens are never stored in clear text.
func NewSealedStorage(next repository.ClientStorage, sealer service.TokenSealer) repository.ClientStorage {
	return &sealedStorage{next: next, sealer: sealer}
}

func (s *sealedStorage) Load(ctx context.Context, clientID uuid.UUID) (*entity.PersistedClient, error) {
	client, err := s.next.Load(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if client.Token, err = s.open(client.Token); err != nil {
		return nil, err
	}
	if client.Incomplete != nil {
		if client.Incomplete.Token, err = s.open(client.Incomplete.Token); err != nil {
			return nil, err
		}
	}

	return client, nil
}

func (s *sealedStorage) Save(ctx context.Context, clientID uuid.UUID, client *entity.PersistedClient, ttl time.Duration) error {
	if client == nil {
		return errors.New("nil client state")
	}

	sealed := clonePersisted(client)

	var err error
	if sealed.Token, err = s.seal(sealed.Token); err != nil {
		return err
	}
	if sealed.Incomplete != nil {
		if sealed.Incomplete.Token, err = s.seal(sealed.Incomplete.Token); err != nil {
			return err
		}
	}

	return s.next.Save(ctx, clientID, sealed, ttl)
}

func (s *sealedStorage) Delete(ctx context.Context, clientID uuid.UUID) error {
	return s.next.Delete(ctx, clientID)
}

func (s *sealedStorage) seal(token string) (string, error) {
	if token == "" {
		return "", nil
	}

	sealed, err := s.sealer.Seal(token)
	if err != nil {
		return "", errors.Wrap(err, "sealing token")
	}

	return sealed, nil
}

func (s *sealedStorage) open(sealed string) (string, error) {
	if sealed == "" {
		return "", nil
	}

	token, err := s.sealer.Open(sealed)
	if err != nil {
		return "", errors.Wrap(err, "opening token")
	}

	return token, nil
}
