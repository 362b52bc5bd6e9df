package impl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"barbershop/config"
	deliverycontext "barbershop/internal/delivery/context"
	"barbershop/internal/domain/lifecycle"
	"barbershop/internal/domain/repository"
	"barbershop/internal/domain/service"
	"barbershop/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// minSweepInterval bounds how often idle clients are looked for.
const minSweepInterval = time.Minute

type registryEntry struct {
	client   *usecase.Client
	lastSeen time.Time
}

// clientRegistry implements the ClientRegistry interface.
type clientRegistry struct {
	backend   service.BookingBackend
	storage   repository.ClientStorage
	inspector service.TokenInspector
	config    *config.Config
	logger    *slog.Logger
	now       func() time.Time

	mu      sync.Mutex
	clients map[uuid.UUID]*registryEntry

	hydrations sync.WaitGroup
}

// RegistryParams holds dependencies for the client registry.
type RegistryParams struct {
	fx.In

	Lc        fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
	Backend   service.BookingBackend
	Storage   repository.ClientStorage
	Inspector service.TokenInspector
}

// NewClientRegistry creates the registry and runs the idle sweep for the lifetime of the app.
func NewClientRegistry(p RegistryParams) usecase.ClientRegistry {
	registry := newClientRegistry(p.Backend, p.Storage, p.Inspector, p.Config, p.Logger, time.Now)

	idleTTL := p.Config.Session.ClientIdleTTL
	if idleTTL <= 0 {
		return registry
	}

	interval := max(idleTTL/2, minSweepInterval)
	stop := make(chan struct{})
	done := make(chan struct{})

	p.Lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)

				ticker := time.NewTicker(interval)
				defer ticker.Stop()

				for {
					select {
					case <-stop:
						return
					case <-ticker.C:
						registry.Evict(context.Background())
					}
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(stop)
			select {
			case <-done:
			case <-ctx.Done():
			}
			registry.hydrations.Wait()

			return nil
		},
	})

	return registry
}

func newClientRegistry(
	backend service.BookingBackend,
	storage repository.ClientStorage,
	inspector service.TokenInspector,
	cfg *config.Config,
	logger *slog.Logger,
	now func() time.Time,
) *clientRegistry {
	return &clientRegistry{
		backend:   backend,
		storage:   storage,
		inspector: inspector,
		config:    cfg,
		logger:    logger,
		now:       now,
		clients:   make(map[uuid.UUID]*registryEntry),
	}
}

// Get returns the client with id. A new client is hydrated from storage in the background;
// callers that need the restored session wait on Auth.Ready().
func (r *clientRegistry) Get(ctx context.Context, id uuid.UUID) *usecase.Client {
	r.mu.Lock()
	if entry, ok := r.clients[id]; ok {
		entry.lastSeen = r.now()
		r.mu.Unlock()

		return entry.client
	}

	logger := r.logger.With(slog.String("client_id", id.String()))
	auth := newAuthStore(id, r.backend, r.storage, r.inspector, r.config, logger, r.now)
	client := &usecase.Client{
		ID:          id,
		Auth:        auth,
		Reservation: newReservationStore(r.backend, RulesFromConfig(r.config), logger, r.now),
	}
	r.clients[id] = &registryEntry{client: client, lastSeen: r.now()}
	r.mu.Unlock()

	deliverycontext.GetLoggerOrDefault(ctx, logger).Debug("Client created")

	r.hydrations.Add(1)
	go func() {
		defer r.hydrations.Done()

		hydrateCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lifecycle.DefaultTimeout)
		defer cancel()

		auth.Hydrate(hydrateCtx)

		if _, ok := auth.Token(); ok {
			if err := auth.RefreshUserInfo(hydrateCtx); err != nil {
				logger.Warn("Background profile refresh failed", slog.Any("error", err))
			}
		}
	}()

	return client
}

// Evict drops clients idle for longer than the configured TTL.
func (r *clientRegistry) Evict(ctx context.Context) int {
	idleTTL := r.config.Session.ClientIdleTTL
	if idleTTL <= 0 {
		return 0
	}

	cutoff := r.now().Add(-idleTTL)

	r.mu.Lock()
	evicted := 0
	for id, entry := range r.clients {
		if entry.lastSeen.Before(cutoff) {
			delete(r.clients, id)
			evicted++
		}
	}
	remaining := len(r.clients)
	r.mu.Unlock()

	if evicted > 0 {
		deliverycontext.GetLoggerOrDefault(ctx, r.logger).Debug("Evicted idle clients",
			slog.Int("evicted", evicted),
			slog.Int("remaining", remaining),
		)
	}

	return evicted
}

func (r *clientRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.clients)
}
