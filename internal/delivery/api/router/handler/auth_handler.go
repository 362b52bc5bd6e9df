package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"barbershop/config"
	"barbershop/internal/delivery/api/response"
	"barbershop/internal/errors"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AuthHandlerParams holds dependencies for AuthHandler, injected by Fx.
type AuthHandlerParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// AuthHandler serves the login drawer: OTP request and verification, profile completion and logout.
type AuthHandler struct {
	gracePeriod time.Duration
	logger      *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler
func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		gracePeriod: params.Config.Session.AuthGracePeriod,
		logger:      params.Logger,
	}
}

// RequestOtpRequest represents the request body for requesting a login code
type RequestOtpRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,iranmobile"`
}

// VerifyOtpRequest represents the request body for verifying a login code.
// The phone number falls back to the one the code was sent to.
type VerifyOtpRequest struct {
	PhoneNumber string `json:"phone_number" validate:"omitempty,iranmobile"`
	Code        string `json:"code" validate:"required"`
}

// UpdateProfileRequest represents the request body for completing or editing the profile
type UpdateProfileRequest struct {
	FirstName string `json:"firstname" validate:"required,persianname"`
	LastName  string `json:"lastname" validate:"required,persianname"`
}

// State returns the session snapshot once any stored session has been restored.
func (h *AuthHandler) State(c echo.Context) error {
	client, err := currentClient(c)
	if err != nil {
		return err
	}

	awaitReady(c.Request().Context(), client.Auth, h.gracePeriod)

	return response.Success(c, http.StatusOK, client.Auth.Snapshot())
}

// OpenDrawer opens the login drawer at the step matching the session.
func (h *AuthHandler) OpenDrawer(c echo.Context) error {
	client, err := currentClient(c)
	if err != nil {
		return err
	}

	notice := client.Auth.OpenDrawer(c.Request().Context())

	return response.WithNotice(c, http.StatusOK, client.Auth.Snapshot(), notice)
}

// EditProfile opens the drawer on the profile form of a logged-in user.
func (h *AuthHandler) EditProfile(c echo.Context) error {
	client, err := currentClient(c)
	if err != nil {
		return err
	}

	if err := client.Auth.OpenEditProfile(c.Request().Context()); err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, client.Auth.Snapshot())
}

// CloseDrawer closes the drawer.
func (h *AuthHandler) CloseDrawer(c echo.Context) error {
	client, err := currentClient(c)
	if err != nil {
		return err
	}

	client.Auth.CloseDrawer(c.Request().Context())

	return response.Success(c, http.StatusOK, client.Auth.Snapshot())
}

// RequestOtp sends a login code to the given phone number.
func (h *AuthHandler) RequestOtp(c echo.Context) error {
	client, err := currentClient(c)
	if err != nil {
		return err
	}

	var req RequestOtpRequest
	if err := bindAndValidate(c, &req, &req.PhoneNumber); err != nil {
		return err
	}

	notice, err := client.Auth.RequestOtp(c.Request().Context(), req.PhoneNumber)
	if err != nil {
		return errors.Wrap(err, "request otp")
	}

	return response.WithNotice(c, http.StatusOK, client.Auth.Snapshot(), notice)
}

// VerifyOtp exchanges a login code for a session.
func (h *AuthHandler) VerifyOtp(c echo.Context) error {
	client, err := currentClient(c)
	if err != nil {
		return err
	}

	var req VerifyOtpRequest
	if err := bindAndValidate(c, &req, &req.PhoneNumber, &req.Code); err != nil {
		return err
	}

	notice, err := client.Auth.VerifyOtp(c.Request().Context(), req.PhoneNumber, req.Code)
	if err != nil {
		return errors.Wrap(err, "verify otp")
	}

	return response.WithNotice(c, http.StatusOK, client.Auth.Snapshot(), notice)
}

// UpdateProfile saves the user's names, completing registration when needed.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	client, err := currentClient(c)
	if err != nil {
		return err
	}

	var req UpdateProfileRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if err := c.Validate(&req); err != nil {
		return err
	}

	notice, err := client.Auth.UpdateUserInfo(c.Request().Context(), req.FirstName, req.LastName)
	if err != nil {
		return errors.Wrap(err, "update user info")
	}

	return response.WithNotice(c, http.StatusOK, client.Auth.Snapshot(), notice)
}

// Refresh reloads the profile from the backend.
func (h *AuthHandler) Refresh(c echo.Context) error {
	client, err := currentClient(c)
	if err != nil {
		return err
	}

	if err := client.Auth.RefreshUserInfo(c.Request().Context()); err != nil {
		return errors.Wrap(err, "refresh user info")
	}

	return response.Success(c, http.StatusOK, client.Auth.Snapshot())
}

// Logout ends the session. It always succeeds locally.
func (h *AuthHandler) Logout(c echo.Context) error {
	client, err := currentClient(c)
	if err != nil {
		return err
	}

	notice := client.Auth.Logout(c.Request().Context())

	return response.WithNotice(c, http.StatusOK, client.Auth.Snapshot(), notice)
}

// Incomplete reports whether a registration is still waiting for the user's names.
func (h *AuthHandler) Incomplete(c echo.Context) error {
	client, err := currentClient(c)
	if err != nil {
		return err
	}

	awaitReady(c.Request().Context(), client.Auth, h.gracePeriod)
	incomplete := client.Auth.CheckIncompleteRegistration(c.Request().Context())

	return response.Success(c, http.StatusOK, map[string]bool{"has_incomplete_registration": incomplete})
}

// Status returns the backend's account status for the logged-in user.
func (h *AuthHandler) Status(c echo.Context) error {
	client, err := currentClient(c)
	if err != nil {
		return err
	}

	status, err := client.Auth.Status(c.Request().Context())
	if err != nil {
		return errors.Wrap(err, "user status")
	}

	return response.Success(c, http.StatusOK, status)
}
