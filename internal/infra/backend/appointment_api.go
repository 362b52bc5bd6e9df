package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"barbershop/internal/domain/entity"
	"barbershop/internal/domain/service"
)

// Availability returns the grouped slot calendar sized to the total duration.
func (cl *client) Availability(ctx context.Context, query service.AvailabilityQuery) ([]entity.TimeGroup, error) {
	var out []entity.TimeGroup
	err := cl.do(ctx, call{
		method: http.MethodGet,
		path:   "/appointments/availability",
		query: url.Values{
			"barber_id":      {strconv.FormatInt(query.BarberID, 10)},
			"date":           {query.Date},
			"total_duration": {strconv.Itoa(query.TotalDuration)},
		},
		fallback:    "خطا در دریافت زمان‌های موجود",
		offline:     "خطا در دریافت زمان‌های موجود",
		reservation: true,
	}, &out)
	if err != nil {
		return nil, err
	}

	return out, nil
}

// CreateAppointment books the slot.
func (cl *client) CreateAppointment(ctx context.Context, token string, req *entity.AppointmentRequest) (*entity.AppointmentCreated, error) {
	c := call{
		method:      http.MethodPost,
		path:        "/appointments/",
		token:       token,
		body:        req,
		fallback:    "خطا در ثبت نوبت",
		offline:     "خطا در ثبت نوبت",
		reservation: true,
	}

	var out entity.AppointmentCreated
	if err := cl.do(ctx, c, &out); err != nil {
		return nil, err
	}
	if out.AppointmentID == 0 {
		return nil, rejected(http.StatusOK, out.Message, c)
	}

	return &out, nil
}

// ListMine returns a page of the customer's appointments.
func (cl *client) ListMine(ctx context.Context, token string, page service.PageQuery) (*entity.AppointmentPage, error) {
	var out entity.AppointmentPage
	err := cl.do(ctx, call{
		method: http.MethodGet,
		path:   "/appointments/my-appointments",
		query: url.Values{
			"skip":  {strconv.Itoa(page.Skip)},
			"limit": {strconv.Itoa(page.Limit)},
		},
		token:        token,
		fallback:     "خطا در دریافت لیست نوبت‌ها",
		offline:      "خطا در دریافت لیست نوبت‌ها",
		unauthorized: "لطفاً وارد حساب کاربری خود شوید",
	}, &out)
	if err != nil {
		return nil, err
	}

	return &out, nil
}
