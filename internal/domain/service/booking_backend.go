package service

import (
	"context"

	"barbershop/internal/domain/entity"
)

// AvailabilityQuery selects the slot calendar of one barber on one day.
type AvailabilityQuery struct {
	BarberID      int64
	Date          string // Gregorian YYYY-MM-DD
	TotalDuration int    // minutes
}

// PageQuery selects a page of a listing.
type PageQuery struct {
	Skip  int
	Limit int
}

// AuthAPI is the authentication part of the booking backend.
// Every method returns a domain AppError on failure.
type AuthAPI interface {
	// RequestOTP asks the backend to text a one-time code to phone.
	RequestOTP(ctx context.Context, phone string) (*entity.OTPChallenge, error)

	// VerifyOTP exchanges a one-time code for a bearer token.
	VerifyOTP(ctx context.Context, phone, code string) (*entity.TokenGrant, error)

	// GetMe returns the profile behind token.
	GetMe(ctx context.Context, token string) (*entity.User, error)

	// UpdateMe stores the customer's names.
	UpdateMe(ctx context.Context, token, firstName, lastName string) (*entity.User, error)

	// GetStatus returns the block and profile status behind token.
	GetStatus(ctx context.Context, token string) (*entity.UserStatus, error)

	// Logout invalidates token on the backend.
	Logout(ctx context.Context, token string) error
}

// CatalogAPI serves the public barber and service catalogs.
type CatalogAPI interface {
	ListBarbers(ctx context.Context) ([]entity.Barber, error)
	ListServices(ctx context.Context) ([]entity.Service, error)
}

// AppointmentAPI is the appointment part of the booking backend.
type AppointmentAPI interface {
	// Availability returns the grouped slot calendar sized to the total duration.
	Availability(ctx context.Context, query AvailabilityQuery) ([]entity.TimeGroup, error)

	// CreateAppointment books the slot; it may fail with a SLOT_CONFLICT kind.
	CreateAppointment(ctx context.Context, token string, req *entity.AppointmentRequest) (*entity.AppointmentCreated, error)

	// ListMine returns a page of the customer's appointments.
	ListMine(ctx context.Context, token string, page PageQuery) (*entity.AppointmentPage, error)
}

// PaymentAPI is the payment part of the booking backend.
type PaymentAPI interface {
	// CreatePayment starts a gateway payment for an appointment and returns the redirect.
	CreatePayment(ctx context.Context, token string, appointmentID int64) (*entity.PaymentLink, error)

	// PaymentStatus polls the payment state of an appointment.
	PaymentStatus(ctx context.Context, token string, appointmentID int64) (*entity.PaymentStatus, error)

	// AppointmentDetails looks up a confirmed booking by gateway reference.
	// A booking owned by someone else fails with the FORBIDDEN kind.
	AppointmentDetails(ctx context.Context, token, refID string) (*entity.AppointmentDetails, error)
}

// BookingBackend is the complete remote booking backend.
type BookingBackend interface {
	AuthAPI
	CatalogAPI
	AppointmentAPI
	PaymentAPI
}
