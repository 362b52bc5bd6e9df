// Package authflow is the login drawer step machine (phone → otp → register | edit) and the
// session it produces, as pure transitions over an immutable State.
package authflow

import (
	"time"

	"barbershop/internal/domain/entity"
)

// State is one client's authentication snapshot.
type State struct {
	Session                   entity.Session
	Step                      entity.AuthStep
	DrawerOpen                bool
	PhoneNumber               string
	OTPExpiry                 time.Time // zero when no code is outstanding
	HasIncompleteRegistration bool
	Incomplete                *entity.IncompleteRegistration
	IsLoading                 bool
}

// Initial is the logged-out state with a closed drawer.
func Initial() State {
	return State{Step: entity.AuthStepPhone}
}

// IsTokenExpired is true iff now is past the stored expiry, or no expiry is stored.
func (s State) IsTokenExpired(now time.Time) bool {
	return s.Session.TokenExpiresAt.IsZero() || now.After(s.Session.TokenExpiresAt)
}

// IsOtpExpired is true iff now is past the OTP expiry, or no code was requested.
func (s State) IsOtpExpired(now time.Time) bool {
	return s.OTPExpiry.IsZero() || now.After(s.OTPExpiry)
}

// IsUserComplete reports whether the cached profile has both names.
func (s State) IsUserComplete() bool {
	return s.Session.User != nil && s.Session.User.IsComplete()
}

// Loading toggles the busy flag.
func (s State) Loading(loading bool) State {
	s.IsLoading = loading

	return s
}

// OTPRequested records the phone a code was sent to and when it stops being valid.
func (s State) OTPRequested(phone string, expiresIn time.Duration, now time.Time) State {
	s.PhoneNumber = phone
	s.OTPExpiry = now.Add(expiresIn)
	s.Step = entity.AuthStepOTP

	return s
}

// LoggedIn establishes the session after a verified code. A profile without both names
// keeps the drawer on the register step and records an incomplete registration.
func (s State) LoggedIn(user entity.User, token string, expiresAt, now time.Time, incompleteTTL time.Duration) State {
	s.Session = newSession(user, token, expiresAt)

	if !user.IsComplete() {
		phone := s.PhoneNumber
		if phone == "" {
			phone = user.PhoneNumber
		}

		s.Incomplete = &entity.IncompleteRegistration{
			PhoneNumber: phone,
			Token:       token,
			ExpiresAt:   now.Add(incompleteTTL),
		}
		s.HasIncompleteRegistration = true
		s.Step = entity.AuthStepRegister

		return s
	}

	s = s.FormReset()
	s.DrawerOpen = false
	s.Incomplete = nil
	s.HasIncompleteRegistration = false

	return s
}

// ProfileUpdated stores the saved profile, clears the incomplete registration and closes the drawer.
func (s State) ProfileUpdated(user entity.User) State {
	u := user
	s.Session.User = &u
	s.Session.IsAuthenticated = s.Session.Token != ""
	s.Incomplete = nil
	s.HasIncompleteRegistration = false
	s.DrawerOpen = false
	s = s.FormReset()

	return s
}

// ProfileRefreshed stores a re-fetched profile and re-derives the incomplete registration from it.
func (s State) ProfileRefreshed(user entity.User, now time.Time, incompleteTTL time.Duration) State {
	u := user
	s.Session.User = &u
	s.Session.IsAuthenticated = s.Session.Token != ""

	if user.IsComplete() {
		s.Incomplete = nil
		s.HasIncompleteRegistration = false

		return s
	}

	if s.Incomplete == nil || s.Incomplete.Expired(now) {
		s.Incomplete = &entity.IncompleteRegistration{
			PhoneNumber: user.PhoneNumber,
			Token:       s.Session.Token,
			ExpiresAt:   now.Add(incompleteTTL),
		}
	}
	s.HasIncompleteRegistration = true

	return s
}

// LoggedOut drops the session, the incomplete registration and the form, and closes the drawer.
func (s State) LoggedOut() State {
	return Initial()
}

// FormReset clears the phone, the OTP expiry and returns to the phone step.
func (s State) FormReset() State {
	s.PhoneNumber = ""
	s.OTPExpiry = time.Time{}
	s.Step = entity.AuthStepPhone

	return s
}

// CheckIncomplete validates the incomplete registration at now. An expired record is cleared.
// A valid record moves an authenticated client to the register step.
func (s State) CheckIncomplete(now time.Time) (State, bool) {
	if s.Incomplete == nil {
		s.HasIncompleteRegistration = false

		return s, false
	}

	if s.Incomplete.Expired(now) {
		s.Incomplete = nil
		s.HasIncompleteRegistration = false

		return s, false
	}

	s.HasIncompleteRegistration = true
	if s.Session.IsAuthenticated {
		s.Step = entity.AuthStepRegister
	}

	return s, true
}

// DrawerOpened opens the login drawer. It refuses (ok=false) for an already complete session.
func (s State) DrawerOpened() (State, bool) {
	if s.Session.IsAuthenticated && s.IsUserComplete() {
		return s, false
	}

	s.DrawerOpen = true
	if s.Session.IsAuthenticated && s.HasIncompleteRegistration {
		s.Step = entity.AuthStepRegister
	} else {
		s.Step = entity.AuthStepPhone
	}

	return s, true
}

// EditOpened opens the drawer on the profile edit step; only an authenticated client may edit.
func (s State) EditOpened() (State, bool) {
	if !s.Session.IsAuthenticated {
		return s, false
	}

	s.DrawerOpen = true
	s.Step = entity.AuthStepEdit

	return s, true
}

// DrawerClosed closes the drawer. The form is kept while a registration is still pending.
func (s State) DrawerClosed() State {
	s.DrawerOpen = false
	if !s.HasIncompleteRegistration {
		s = s.FormReset()
	}

	return s
}

// Hydrate restores persisted data. An expired token drops all auth data; an expired
// incomplete registration is discarded.
func (s State) Hydrate(p *entity.PersistedClient, now time.Time) State {
	if p.IsEmpty() {
		return s
	}

	if p.Incomplete != nil && !p.Incomplete.Expired(now) {
		incomplete := *p.Incomplete
		s.Incomplete = &incomplete
		s.HasIncompleteRegistration = true
	}

	if p.Token == "" || p.User == nil || p.TokenExpiresAt.IsZero() || now.After(p.TokenExpiresAt) {
		s.Session = entity.Session{}
		s.Incomplete = nil
		s.HasIncompleteRegistration = false

		return s
	}

	s.Session = newSession(*p.User, p.Token, p.TokenExpiresAt)

	return s
}

// Persisted projects the state onto what survives a restart.
func (s State) Persisted() *entity.PersistedClient {
	p := &entity.PersistedClient{
		Token:           s.Session.Token,
		TokenExpiresAt:  s.Session.TokenExpiresAt,
		IsAuthenticated: s.Session.IsAuthenticated,
	}
	if s.Session.User != nil {
		u := *s.Session.User
		p.User = &u
	}
	if s.Incomplete != nil {
		incomplete := *s.Incomplete
		p.Incomplete = &incomplete
	}

	return p
}

func newSession(user entity.User, token string, expiresAt time.Time) entity.Session {
	u := user

	return entity.Session{
		User:            &u,
		Token:           token,
		TokenExpiresAt:  expiresAt,
		IsAuthenticated: token != "",
	}
}
