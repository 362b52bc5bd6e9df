package handler

import (
	"net/http"
	"strconv"

	"barbershop/internal/delivery/api/response"
	domainerrors "barbershop/internal/domain/errors"
	"barbershop/internal/errors"

	"github.com/labstack/echo/v4"
)

// ReservationHandler serves the booking form: barber, date, time and service selection.
type ReservationHandler struct{}

// NewReservationHandler is the constructor for ReservationHandler
func NewReservationHandler() *ReservationHandler {
	return &ReservationHandler{}
}

// SetBarberRequest represents the request body for choosing a barber
type SetBarberRequest struct {
	BarberID int64 `json:"barber_id" validate:"required,gt=0"`
}

// SetDateRequest represents the request body for choosing a date (YYYY-MM-DD)
type SetDateRequest struct {
	Date string `json:"date" validate:"required"`
}

// SetTimeRequest represents the request body for choosing a slot. An empty time clears it.
type SetTimeRequest struct {
	Time string `json:"time"`
}

// State returns the reservation snapshot.
func (h *ReservationHandler) State(c echo.Context) error {
	client, err := currentClient(c)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, client.Reservation.Snapshot())
}

// SetBarber selects a barber, clearing the chosen date and time.
func (h *ReservationHandler) SetBarber(c echo.Context) error {
	client, err := currentClient(c)
	if err != nil {
		return err
	}

	var req SetBarberRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := client.Reservation.SetBarber(c.Request().Context(), req.BarberID); err != nil {
		return errors.Wrap(err, "set barber")
	}

	return response.Success(c, http.StatusOK, client.Reservation.Snapshot())
}

// SetDate selects a date and loads its slots.
func (h *ReservationHandler) SetDate(c echo.Context) error {
	client, err := currentClient(c)
	if err != nil {
		return err
	}

	var req SetDateRequest
	if err := bindAndValidate(c, &req, &req.Date); err != nil {
		return err
	}

	if err := client.Reservation.SetDate(c.Request().Context(), req.Date); err != nil {
		return errors.Wrap(err, "set date")
	}

	return response.Success(c, http.StatusOK, client.Reservation.Snapshot())
}

// SetTime selects a slot by its code.
func (h *ReservationHandler) SetTime(c echo.Context) error {
	client, err := currentClient(c)
	if err != nil {
		return err
	}

	var req SetTimeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := client.Reservation.SetTime(c.Request().Context(), req.Time); err != nil {
		return errors.Wrap(err, "set time")
	}

	return response.Success(c, http.StatusOK, client.Reservation.Snapshot())
}

// ToggleService adds or removes a service from the booking.
func (h *ReservationHandler) ToggleService(c echo.Context) error {
	client, err := currentClient(c)
	if err != nil {
		return err
	}

	serviceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || serviceID <= 0 {
		return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("id: invalid service id"))
	}

	if err := client.Reservation.ToggleService(c.Request().Context(), serviceID); err != nil {
		return errors.Wrap(err, "toggle service")
	}

	return response.Success(c, http.StatusOK, client.Reservation.Snapshot())
}

// Slots reloads the time slots for the selected barber and date.
func (h *ReservationHandler) Slots(c echo.Context) error {
	client, err := currentClient(c)
	if err != nil {
		return err
	}

	groups, err := client.Reservation.FetchTimeSlots(c.Request().Context())
	if err != nil {
		return errors.Wrap(err, "fetch time slots")
	}

	return response.Success(c, http.StatusOK, groups)
}
