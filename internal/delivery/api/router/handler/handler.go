// Package handler contains the echo handlers of the reservation API.
package handler

import (
	"context"
	"net/http"
	"time"

	"barbershop/internal/delivery/api/middleware"
	"barbershop/internal/delivery/api/response"
	"barbershop/internal/delivery/api/validator"
	domainerrors "barbershop/internal/domain/errors"
	"barbershop/internal/errors"
	"barbershop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"})
}

func currentClient(c echo.Context) (*usecase.Client, error) {
	client, ok := middleware.GetClient(c)
	if !ok {
		return nil, errors.WithStack(domainerrors.ErrInternalError.WithDetails("client not resolved"))
	}

	return client, nil
}

// bindAndValidate binds the body, normalizes digits on the given fields and validates the result.
func bindAndValidate(c echo.Context, req any, digits ...*string) error {
	if err := bindBody(c, req); err != nil {
		return err
	}

	for _, field := range digits {
		*field = validator.NormalizeDigits(*field)
	}

	return c.Validate(req)
}

func bindBody(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("malformed request body"))
	}

	return nil
}

// awaitReady waits for a restored session, giving up after grace so a slow hydration
// reads as logged out instead of blocking the request.
func awaitReady(ctx context.Context, auth usecase.AuthStore, grace time.Duration) {
	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case <-auth.Ready():
	case <-timer.C:
	case <-ctx.Done():
	}
}
