package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"barbershop/internal/domain/entity"
)

const appointmentForbidden = "شما مجاز به مشاهده اطلاعات این نوبت نیستید"

// CreatePayment starts a gateway payment for an appointment and returns the redirect.
func (cl *client) CreatePayment(ctx context.Context, token string, appointmentID int64) (*entity.PaymentLink, error) {
	c := call{
		method:      http.MethodPost,
		path:        "/payments/create",
		token:       token,
		body:        map[string]int64{"appointment_id": appointmentID},
		fallback:    "خطا در ایجاد درخواست پرداخت",
		offline:     "خطا در ایجاد درخواست پرداخت",
		reservation: true,
	}

	var out entity.PaymentLink
	if err := cl.do(ctx, c, &out); err != nil {
		return nil, err
	}
	if out.PaymentURL == "" {
		return nil, rejected(http.StatusOK, out.Message, c)
	}

	return &out, nil
}

// PaymentStatus polls the payment state of an appointment.
func (cl *client) PaymentStatus(ctx context.Context, token string, appointmentID int64) (*entity.PaymentStatus, error) {
	var out entity.PaymentStatus
	err := cl.do(ctx, call{
		method:      http.MethodGet,
		path:        "/payments/status/" + strconv.FormatInt(appointmentID, 10),
		token:       token,
		fallback:    "خطا در دریافت وضعیت پرداخت",
		offline:     "خطا در دریافت وضعیت پرداخت",
		reservation: true,
	}, &out)
	if err != nil {
		return nil, err
	}

	return &out, nil
}

// AppointmentDetails looks up a confirmed booking by gateway reference.
func (cl *client) AppointmentDetails(ctx context.Context, token, refID string) (*entity.AppointmentDetails, error) {
	var out entity.AppointmentDetails
	err := cl.do(ctx, call{
		method:      http.MethodGet,
		path:        "/payments/appointment-details/" + url.PathEscape(refID),
		token:       token,
		fallback:    "خطا در دریافت جزئیات نوبت",
		offline:     "خطا در دریافت جزئیات نوبت",
		forbidden:   appointmentForbidden,
		reservation: true,
	}, &out)
	if err != nil {
		return nil, err
	}

	return &out, nil
}
