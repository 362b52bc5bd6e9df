package backend

import (
	"context"
	"net/http"

	"barbershop/internal/domain/entity"
)

// ListBarbers returns the barber catalog.
func (cl *client) ListBarbers(ctx context.Context) ([]entity.Barber, error) {
	var out []entity.Barber
	err := cl.do(ctx, call{
		method:      http.MethodGet,
		path:        "/barbers/",
		fallback:    "خطا در دریافت لیست آرایشگرها",
		offline:     "خطا در دریافت لیست آرایشگرها",
		reservation: true,
	}, &out)
	if err != nil {
		return nil, err
	}

	return out, nil
}

// ListServices returns the service catalog.
func (cl *client) ListServices(ctx context.Context) ([]entity.Service, error) {
	var out []entity.Service
	err := cl.do(ctx, call{
		method:      http.MethodGet,
		path:        "/services/",
		fallback:    "خطا در دریافت لیست خدمات",
		offline:     "خطا در دریافت لیست خدمات",
		reservation: true,
	}, &out)
	if err != nil {
		return nil, err
	}

	return out, nil
}
