package usecase

import (
	"context"

	"barbershop/internal/domain/entity"
)

// HistoryQuery selects a page of the customer's appointments.
type HistoryQuery struct {
	Skip  int
	Limit int
}

// HistoryUsecase serves the customer's appointment history.
type HistoryUsecase interface {
	// ListAppointments returns one page; a zero limit uses the configured page size.
	ListAppointments(ctx context.Context, token string, query HistoryQuery) (*entity.AppointmentPage, error)
}
