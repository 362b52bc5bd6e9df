package usecase

import (
	"context"

	"github.com/google/uuid"
)

// Client is everything the service holds for one browser.
type Client struct {
	ID          uuid.UUID
	Auth        AuthStore
	Reservation ReservationStore
}

// ClientRegistry owns the per-client stores.
type ClientRegistry interface {
	// Get returns the client with id, creating and hydrating it on first use.
	Get(ctx context.Context, id uuid.UUID) *Client

	// Evict drops clients idle for longer than the configured TTL and returns how many were dropped.
	Evict(ctx context.Context) int

	Len() int
}
