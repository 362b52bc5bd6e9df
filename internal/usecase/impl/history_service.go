package impl

import (
	"context"
	"log/slog"

	"barbershop/config"
	deliverycontext "barbershop/internal/delivery/context"
	"barbershop/internal/domain/entity"
	domainerrors "barbershop/internal/domain/errors"
	"barbershop/internal/domain/service"
	"barbershop/internal/usecase"

	"github.com/pkg/errors"
)

const maxHistoryLimit = 100

// historyService implements the HistoryUsecase interface.
type historyService struct {
	backend      service.AppointmentAPI
	defaultLimit int
	logger       *slog.Logger
}

// NewHistoryService is the constructor for historyService.
func NewHistoryService(backend service.BookingBackend, cfg *config.Config, logger *slog.Logger) usecase.HistoryUsecase {
	return &historyService{
		backend:      backend,
		defaultLimit: cfg.Reservation.HistoryPageLimit,
		logger:       logger,
	}
}

func (srv *historyService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListAppointments returns one page of the customer's appointments.
func (srv *historyService) ListAppointments(ctx context.Context, token string, query usecase.HistoryQuery) (*entity.AppointmentPage, error) {
	if token == "" {
		return nil, errors.WithStack(domainerrors.ErrUnauthorized)
	}

	page := service.PageQuery{Skip: max(query.Skip, 0), Limit: query.Limit}
	if page.Limit <= 0 {
		page.Limit = srv.defaultLimit
	}
	page.Limit = min(page.Limit, maxHistoryLimit)

	srv.log(ctx).Debug("Listing appointments", slog.Int("skip", page.Skip), slog.Int("limit", page.Limit))

	list, err := srv.backend.ListMine(ctx, token, page)
	if err != nil {
		srv.log(ctx).Warn("Failed to list appointments", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list appointments")
	}

	return list, nil
}
