package handler

import (
	"net/http"

	"barbershop/internal/delivery/api/response"
	"barbershop/internal/errors"

	"github.com/labstack/echo/v4"
)

// CatalogHandler serves the barber and service catalogs.
type CatalogHandler struct{}

// NewCatalogHandler is the constructor for CatalogHandler
func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// Barbers lists the barbers and caches them on the client's reservation.
func (h *CatalogHandler) Barbers(c echo.Context) error {
	client, err := currentClient(c)
	if err != nil {
		return err
	}

	barbers, err := client.Reservation.FetchBarbers(c.Request().Context())
	if err != nil {
		return errors.Wrap(err, "fetch barbers")
	}

	return response.Success(c, http.StatusOK, barbers)
}

// Services lists the services and caches them on the client's reservation.
func (h *CatalogHandler) Services(c echo.Context) error {
	client, err := currentClient(c)
	if err != nil {
		return err
	}

	services, err := client.Reservation.FetchServices(c.Request().Context())
	if err != nil {
		return errors.Wrap(err, "fetch services")
	}

	return response.Success(c, http.StatusOK, services)
}
