package entity

import "time"

// AuthStep is the current step of the login drawer.
type AuthStep string

const (
	AuthStepPhone    AuthStep = "phone"    // Asking for the mobile number.
	AuthStepOTP      AuthStep = "otp"      // Waiting for the one-time code.
	AuthStepRegister AuthStep = "register" // Profile completion after a first login.
	AuthStepEdit     AuthStep = "edit"     // Editing the name of a complete profile.
)

// OTPChallenge is the backend answer to an OTP request.
type OTPChallenge struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	ExpiresIn       int    `json:"expires_in"`                 // Code lifetime in seconds.
	DevelopmentCode string `json:"development_code,omitempty"` // Only sent by development backends.
}

// TokenGrant is the backend answer to a successful OTP verification.
type TokenGrant struct {
	AccessToken       string `json:"access_token"`
	TokenType         string `json:"token_type"`
	UserID            int64  `json:"user_id"`
	ExpiresAt         string `json:"expires_at"`
	IsProfileComplete bool   `json:"is_profile_complete"`
}

// Session is the authenticated state of a single client.
type Session struct {
	User            *User     // Cached profile; nil when logged out.
	Token           string    // Bearer token for the booking backend.
	TokenExpiresAt  time.Time // Local expiry of the token; zero means unknown (treated as expired).
	IsAuthenticated bool      // True iff both User and Token are present.
}

// IncompleteRegistration tracks a verified phone whose profile still lacks a name.
type IncompleteRegistration struct {
	PhoneNumber string    `json:"phone_number"`
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Expired reports whether the record is past its lifetime at now.
func (r *IncompleteRegistration) Expired(now time.Time) bool {
	return r == nil || now.After(r.ExpiresAt)
}

// PersistedClient is everything about a client that survives a restart.
type PersistedClient struct {
	Token           string                  `json:"token,omitempty"`
	TokenExpiresAt  time.Time               `json:"token_expires_at"`
	User            *User                   `json:"user,omitempty"`
	Incomplete      *IncompleteRegistration `json:"incomplete_registration,omitempty"`
	IsAuthenticated bool                    `json:"is_authenticated"`
}

// IsEmpty reports whether the record carries no state worth keeping.
func (p *PersistedClient) IsEmpty() bool {
	return p == nil || (p.Token == "" && p.User == nil && p.Incomplete == nil && !p.IsAuthenticated)
}
