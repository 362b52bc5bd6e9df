// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"barbershop/internal/domain/entity"
)

// AuthSnapshot is the read model of one client's authentication state.
// The bearer token itself never leaves the service.
type AuthSnapshot struct {
	User                      *entity.User    `json:"user"`
	IsAuthenticated           bool            `json:"is_authenticated"`
	IsUserComplete            bool            `json:"is_user_complete"`
	TokenExpiresAt            *time.Time      `json:"token_expires_at,omitempty"`
	Step                      entity.AuthStep `json:"step"`
	DrawerOpen                bool            `json:"drawer_open"`
	PhoneNumber               string          `json:"phone_number,omitempty"`
	OTPExpiresAt              *time.Time      `json:"otp_expires_at,omitempty"`
	HasIncompleteRegistration bool            `json:"has_incomplete_registration"`
	IsLoading                 bool            `json:"is_loading"`
}

// AuthStore is the authentication state of a single client: the OTP login drawer, the
// session it produces and the incomplete registration that survives restarts.
// Actions return the notice the UI should show next to the error, if any.
type AuthStore interface {
	// Ready is closed once persisted state has been restored.
	Ready() <-chan struct{}

	// Hydrate restores persisted state. It runs once; later calls only wait for the first.
	Hydrate(ctx context.Context)

	// Snapshot returns the current state.
	Snapshot() AuthSnapshot

	// Token returns the bearer token of an authenticated, unexpired session.
	Token() (string, bool)

	RequestOtp(ctx context.Context, phone string) (*entity.Notice, error)
	VerifyOtp(ctx context.Context, phone, code string) (*entity.Notice, error)
	UpdateUserInfo(ctx context.Context, firstName, lastName string) (*entity.Notice, error)

	// Logout always succeeds locally; a backend failure is only logged.
	Logout(ctx context.Context) *entity.Notice

	// RefreshUserInfo re-fetches the profile. A rejected or blocked token logs the client out.
	RefreshUserInfo(ctx context.Context) error

	// CheckIncompleteRegistration reports whether an unexpired incomplete registration exists.
	CheckIncompleteRegistration(ctx context.Context) bool

	IsTokenExpired() bool
	IsOtpExpired() bool
	IsUserComplete() bool

	// OpenDrawer refuses with an info notice when the session is already complete.
	OpenDrawer(ctx context.Context) *entity.Notice
	OpenEditProfile(ctx context.Context) error
	CloseDrawer(ctx context.Context)

	// Status returns the backend's account status for the session.
	Status(ctx context.Context) (*entity.UserStatus, error)
}
