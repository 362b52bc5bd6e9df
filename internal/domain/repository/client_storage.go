// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"time"

	"barbershop/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for client state persistence.
var (
	// ErrClientNotFound is returned when nothing is stored for a client.
	ErrClientNotFound = errors.New("client state not found")
)

// ClientStorage persists the part of a client's state that survives a restart:
// the bearer token and its expiry, the cached profile and the incomplete registration.
type ClientStorage interface {
	// Load returns the stored state of a client, or ErrClientNotFound.
	Load(ctx context.Context, clientID uuid.UUID) (*entity.PersistedClient, error)

	// Save stores the state of a client. A zero ttl keeps it until deleted.
	Save(ctx context.Context, clientID uuid.UUID, client *entity.PersistedClient, ttl time.Duration) error

	// Delete removes the stored state of a client. Deleting a missing client is not an error.
	Delete(ctx context.Context, clientID uuid.UUID) error
}
