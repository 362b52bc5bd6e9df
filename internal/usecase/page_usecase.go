package usecase

import (
	"context"

	"barbershop/internal/domain/entity"
)

// Route paths a PageDecision may redirect to.
const (
	RouteReservation = "/reservation"
	RouteCheckout    = "/reservation/checkout"
	RouteSuccess     = "/reservation/success"
	RouteFailure     = "/reservation/failure"
)

// PageDecision is what a page should do after its guard ran: navigate, show a toast,
// render data, or a combination. An empty Redirect means stay.
type PageDecision struct {
	Redirect string         `json:"redirect,omitempty"`
	Notice   *entity.Notice `json:"notice,omitempty"`
	Data     any            `json:"data,omitempty"`
}

// ReservationPage is the data of the booking form page.
type ReservationPage struct {
	ShowBookingForm bool                `json:"show_booking_form"`
	Auth            AuthSnapshot        `json:"auth"`
	Reservation     ReservationSnapshot `json:"reservation"`
}

// CheckoutPage is the data of the customer details and payment page.
type CheckoutPage struct {
	UserInfo    entity.UserInfo     `json:"user_info"`
	Reservation ReservationSnapshot `json:"reservation"`
}

// PaymentRedirect is the data of a successful checkout submission.
type PaymentRedirect struct {
	PaymentURL    string `json:"payment_url"`
	Authority     string `json:"authority,omitempty"`
	AppointmentID *int64 `json:"appointment_id,omitempty"`
}

// SuccessPage is the data of a verified booking.
type SuccessPage struct {
	PaymentVerified bool                       `json:"payment_verified"`
	RefID           string                     `json:"ref_id"`
	Details         *entity.AppointmentDetails `json:"details,omitempty"`
	Reservation     ReservationSnapshot        `json:"reservation"`
}

// FailurePage is the data of the payment failure page.
type FailurePage struct {
	Error         string                `json:"error,omitempty"`
	PaymentStatus *entity.PaymentStatus `json:"payment_status,omitempty"`
	Reservation   ReservationSnapshot   `json:"reservation"`
}

// ProfilePage is the data of the customer profile page.
type ProfilePage struct {
	Auth         AuthSnapshot            `json:"auth"`
	Appointments *entity.AppointmentPage `json:"appointments,omitempty"`
}

// PageOrchestrator runs the route guards of the reservation pages for one client.
type PageOrchestrator interface {
	// EnterReservation resets the booking form. exact is true when /reservation itself was
	// requested rather than reached through a sub-route.
	EnterReservation(ctx context.Context, client *Client, exact bool) PageDecision

	// ContinueReservation validates the form in step order and moves on to checkout.
	ContinueReservation(ctx context.Context, client *Client) PageDecision

	// GuardCheckout sends unauthenticated clients and incomplete bookings back to /reservation.
	GuardCheckout(ctx context.Context, client *Client) PageDecision

	// SubmitCheckout books the selection and returns the payment gateway redirect.
	SubmitCheckout(ctx context.Context, client *Client) PageDecision

	// VerifySuccess confirms a payment by ref_id, or by the appointment created in this session.
	VerifySuccess(ctx context.Context, client *Client, refID string) PageDecision

	// Failure renders the failure page with the error carried in the URL.
	Failure(ctx context.Context, client *Client, message string) PageDecision

	// Profile renders the profile page and a page of the appointment history.
	Profile(ctx context.Context, client *Client, query HistoryQuery) PageDecision

	// ConfirmationQR encodes the booking behind refID as a PNG once its ownership is confirmed.
	ConfirmationQR(ctx context.Context, client *Client, refID string) ([]byte, error)
}
