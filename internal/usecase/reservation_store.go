package usecase

import (
	"context"

	"barbershop/internal/domain/entity"
)

// ReservationSnapshot is the read model of one client's booking.
type ReservationSnapshot struct {
	Barbers          []entity.Barber         `json:"barbers"`
	Services         []entity.Service        `json:"services"`
	TimeGroups       []entity.TimeGroupView  `json:"time_groups"`
	Selection        entity.BookingSelection `json:"selection"`
	Totals           entity.DerivedTotals    `json:"totals"`
	SelectedTimeText string                  `json:"selected_time_text,omitempty"`
	Payment          entity.PaymentFlow      `json:"payment"`
	UserInfo         *entity.UserInfo        `json:"user_info"`
	FormStep         entity.FormStep         `json:"form_step"`
	IsLoading        bool                    `json:"is_loading"`
}

// ReservationStore is the booking workflow of a single client.
type ReservationStore interface {
	Snapshot() ReservationSnapshot

	FetchBarbers(ctx context.Context) ([]entity.Barber, error)
	FetchServices(ctx context.Context) ([]entity.Service, error)

	// SetBarber selects a barber and forgets the chosen date, time and loaded slots.
	SetBarber(ctx context.Context, barberID int64) error

	// SetDate validates and selects a date, then reloads availability when a barber is chosen.
	// A failed reload leaves the slots empty and does not fail the call.
	SetDate(ctx context.Context, date string) error

	// SetTime selects a slot code; an empty code clears the choice.
	SetTime(ctx context.Context, code string) error

	// ToggleService adds or removes a service and reloads availability when a barber and date are chosen.
	ToggleService(ctx context.Context, serviceID int64) error

	// FetchTimeSlots loads availability for the selected barber and date. Responses of
	// superseded requests are discarded.
	FetchTimeSlots(ctx context.Context) ([]entity.TimeGroupView, error)

	// CheckSelection returns the error of the first booking step not yet completed, in form order.
	CheckSelection() error

	SetUserInfo(ctx context.Context, info entity.UserInfo)
	SetFormStep(ctx context.Context, step entity.FormStep)

	// CreateAppointmentAndPayment books the selection and starts the payment. A pending
	// slot conflict reloads availability and returns a SLOT_CONFLICT error.
	CreateAppointmentAndPayment(ctx context.Context, token string) (*entity.PaymentLink, error)

	// GetPaymentStatus polls an appointment's payment; zero uses the appointment created here.
	GetPaymentStatus(ctx context.Context, token string, appointmentID int64) (*entity.PaymentStatus, error)

	SetPaymentRefID(ctx context.Context, refID string)

	// Reset clears the selection, totals, customer and payment but keeps the catalogs.
	Reset(ctx context.Context)

	// ClearState is Reset that also stops any loading indicator.
	ClearState(ctx context.Context)
}
