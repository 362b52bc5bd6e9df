package handler

import (
	"log/slog"
	"net/http"

	"barbershop/internal/delivery/api/response"
	deliverycontext "barbershop/internal/delivery/context"
	domainerrors "barbershop/internal/domain/errors"
	"barbershop/internal/errors"
	"barbershop/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// PageHandlerParams holds dependencies for PageHandler, injected by Fx.
type PageHandlerParams struct {
	fx.In

	Pages  usecase.PageOrchestrator
	Logger *slog.Logger
}

// PageHandler serves the page-level flows: entering the reservation page, checkout,
// payment result pages and the profile.
type PageHandler struct {
	pages  usecase.PageOrchestrator
	logger *slog.Logger
}

// NewPageHandler is the constructor for PageHandler
func NewPageHandler(params PageHandlerParams) *PageHandler {
	return &PageHandler{
		pages:  params.Pages,
		logger: params.Logger,
	}
}

// ProfileQuery represents the paging query of the profile page
type ProfileQuery struct {
	Skip  int
	Limit int
}

// Reservation enters the reservation page. exact=true keeps a guest on the page instead of
// sending them home.
func (h *PageHandler) Reservation(c echo.Context) error {
	client, err := currentClient(c)
	if err != nil {
		return err
	}

	var exact bool
	if err := echo.QueryParamsBinder(c).Bool("exact", &exact).BindError(); err != nil {
		return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("exact: must be a boolean"))
	}

	return response.Decision(c, h.pages.EnterReservation(c.Request().Context(), client, exact))
}

// Continue moves from the booking form to the user-info step.
func (h *PageHandler) Continue(c echo.Context) error {
	client, err := currentClient(c)
	if err != nil {
		return err
	}

	return response.Decision(c, h.pages.ContinueReservation(c.Request().Context(), client))
}

// Checkout renders the checkout page, or redirects when the booking is incomplete.
func (h *PageHandler) Checkout(c echo.Context) error {
	client, err := currentClient(c)
	if err != nil {
		return err
	}

	return response.Decision(c, h.pages.GuardCheckout(c.Request().Context(), client))
}

// SubmitCheckout creates the appointment and its payment.
func (h *PageHandler) SubmitCheckout(c echo.Context) error {
	client, err := currentClient(c)
	if err != nil {
		return err
	}

	decision := h.pages.SubmitCheckout(c.Request().Context(), client)
	if decision.Redirect != "" && decision.Notice != nil {
		deliverycontext.GetLoggerOrDefault(c.Request().Context(), h.logger).Info("Checkout did not reach the gateway",
			slog.String("redirect", decision.Redirect))
	}

	return response.Decision(c, decision)
}

// Success verifies the payment the gateway returned from.
func (h *PageHandler) Success(c echo.Context) error {
	client, err := currentClient(c)
	if err != nil {
		return err
	}

	return response.Decision(c, h.pages.VerifySuccess(c.Request().Context(), client, c.QueryParam("ref_id")))
}

// SuccessQR renders the confirmation QR code of a verified payment as PNG.
func (h *PageHandler) SuccessQR(c echo.Context) error {
	client, err := currentClient(c)
	if err != nil {
		return err
	}

	png, err := h.pages.ConfirmationQR(c.Request().Context(), client, c.QueryParam("ref_id"))
	if err != nil {
		return errors.Wrap(err, "confirmation qr")
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

// Failure renders the payment failure page.
func (h *PageHandler) Failure(c echo.Context) error {
	client, err := currentClient(c)
	if err != nil {
		return err
	}

	return response.Decision(c, h.pages.Failure(c.Request().Context(), client, c.QueryParam("error")))
}

// Profile renders the profile page with one page of the appointment history.
func (h *PageHandler) Profile(c echo.Context) error {
	client, err := currentClient(c)
	if err != nil {
		return err
	}

	var q ProfileQuery
	err = echo.QueryParamsBinder(c).
		Int("skip", &q.Skip).
		Int("limit", &q.Limit).
		BindError()
	if err != nil {
		return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("skip and limit must be integers"))
	}

	decision := h.pages.Profile(c.Request().Context(), client, usecase.HistoryQuery{Skip: q.Skip, Limit: q.Limit})

	return response.Decision(c, decision)
}
