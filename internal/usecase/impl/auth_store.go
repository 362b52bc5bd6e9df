// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"barbershop/config"
	deliverycontext "barbershop/internal/delivery/context"
	"barbershop/internal/domain/authflow"
	"barbershop/internal/domain/entity"
	domainerrors "barbershop/internal/domain/errors"
	"barbershop/internal/domain/repository"
	"barbershop/internal/domain/service"
	"barbershop/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// defaultOTPLifetime is used when the backend does not say how long a code lives.
const defaultOTPLifetime = 2 * time.Minute

// Messages that make a profile refresh end the session.
var logoutMessages = []string{"توکن معتبر نمی‌باشد", "مسدود"}

// authStore implements the AuthStore interface for one client.
type authStore struct {
	clientID  uuid.UUID
	backend   service.AuthAPI
	storage   repository.ClientStorage
	inspector service.TokenInspector
	limiter   *rate.Limiter
	logger    *slog.Logger
	now       func() time.Time

	tokenTTL      time.Duration
	incompleteTTL time.Duration
	development   bool

	mu    sync.Mutex
	state authflow.State

	hydrateOnce sync.Once
	ready       chan struct{}
}

// NewAuthStore is the constructor for the authentication store of clientID.
func NewAuthStore(
	clientID uuid.UUID,
	backend service.AuthAPI,
	storage repository.ClientStorage,
	inspector service.TokenInspector,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.AuthStore {
	return newAuthStore(clientID, backend, storage, inspector, cfg, logger, time.Now)
}

func newAuthStore(
	clientID uuid.UUID,
	backend service.AuthAPI,
	storage repository.ClientStorage,
	inspector service.TokenInspector,
	cfg *config.Config,
	logger *slog.Logger,
	now func() time.Time,
) *authStore {
	store := &authStore{
		clientID:      clientID,
		backend:       backend,
		storage:       storage,
		inspector:     inspector,
		logger:        logger,
		now:           now,
		tokenTTL:      cfg.Session.TokenTTL,
		incompleteTTL: cfg.Session.IncompleteRegistrationTTL,
		development:   cfg.IsDevelopment(),
		state:         authflow.Initial(),
		ready:         make(chan struct{}),
	}

	if n := cfg.Session.OTPRequestsPerHour; n > 0 {
		store.limiter = rate.NewLimiter(rate.Every(time.Hour/time.Duration(n)), n)
	}

	return store
}

// log returns a request-scoped logger if available, otherwise falls back to the store's logger.
func (s *authStore) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, s.logger)
}

func (s *authStore) current() authflow.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

func (s *authStore) update(fn func(authflow.State) authflow.State) authflow.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = fn(s.state)

	return s.state
}

func (s *authStore) setLoading(loading bool) {
	s.update(func(st authflow.State) authflow.State { return st.Loading(loading) })
}

// Ready is closed once Hydrate has finished.
func (s *authStore) Ready() <-chan struct{} {
	return s.ready
}

// Hydrate restores the persisted session of the client.
func (s *authStore) Hydrate(ctx context.Context) {
	s.hydrateOnce.Do(func() {
		defer close(s.ready)

		stored, err := s.storage.Load(ctx, s.clientID)
		if err != nil {
			if !errors.Is(err, repository.ErrClientNotFound) {
				s.log(ctx).Warn("Failed to load persisted client state", slog.Any("error", err))
			}

			return
		}

		now := s.now()
		st := s.update(func(st authflow.State) authflow.State { return st.Hydrate(stored, now) })

		if stored.Token != "" && !st.Session.IsAuthenticated {
			s.log(ctx).Debug("Persisted token expired, clearing auth data")
			s.persist(ctx, st)

			return
		}

		s.log(ctx).Debug("Client state restored",
			slog.Bool("authenticated", st.Session.IsAuthenticated),
			slog.Bool("incomplete_registration", st.HasIncompleteRegistration),
		)
	})
}

// Snapshot returns the current authentication state without the bearer token.
func (s *authStore) Snapshot() usecase.AuthSnapshot {
	st := s.current()

	snapshot := usecase.AuthSnapshot{
		IsAuthenticated:           st.Session.IsAuthenticated,
		IsUserComplete:            st.IsUserComplete(),
		Step:                      st.Step,
		DrawerOpen:                st.DrawerOpen,
		PhoneNumber:               st.PhoneNumber,
		HasIncompleteRegistration: st.HasIncompleteRegistration,
		IsLoading:                 st.IsLoading,
	}
	if st.Session.User != nil {
		user := *st.Session.User
		snapshot.User = &user
	}
	if !st.Session.TokenExpiresAt.IsZero() {
		expiresAt := st.Session.TokenExpiresAt
		snapshot.TokenExpiresAt = &expiresAt
	}
	if !st.OTPExpiry.IsZero() {
		otpExpiry := st.OTPExpiry
		snapshot.OTPExpiresAt = &otpExpiry
	}

	return snapshot
}

// Token returns the bearer token while the session is authenticated and unexpired.
func (s *authStore) Token() (string, bool) {
	st := s.current()
	if !st.Session.IsAuthenticated || st.Session.Token == "" || st.IsTokenExpired(s.now()) {
		return "", false
	}

	return st.Session.Token, true
}

// RequestOtp sends a one-time code to phone.
func (s *authStore) RequestOtp(ctx context.Context, phone string) (*entity.Notice, error) {
	now := s.now()
	if st := s.current(); st.PhoneNumber == phone && !st.IsOtpExpired(now) {
		return nil, errors.WithStack(domainerrors.ErrOtpNotExpired)
	}

	if s.limiter != nil && !s.limiter.AllowN(now, 1) {
		s.log(ctx).Warn("OTP request throttled")

		return nil, errors.WithStack(domainerrors.ErrRateLimited)
	}

	s.setLoading(true)
	defer s.setLoading(false)

	challenge, err := s.backend.RequestOTP(ctx, phone)
	if err != nil {
		s.log(ctx).Warn("OTP request failed", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to request otp")
	}

	lifetime := time.Duration(challenge.ExpiresIn) * time.Second
	if lifetime <= 0 {
		lifetime = defaultOTPLifetime
	}
	s.update(func(st authflow.State) authflow.State { return st.OTPRequested(phone, lifetime, now) })

	if s.development && challenge.DevelopmentCode != "" {
		return entity.NewNotice(entity.NoticeInfo, "کد تأیید (فقط در محیط توسعه): "+challenge.DevelopmentCode), nil
	}

	return entity.NewNotice(entity.NoticeSuccess, "کد تأیید با موفقیت ارسال شد"), nil
}

// VerifyOtp exchanges the code for a session. A profile without both names leaves the
// drawer on the register step.
func (s *authStore) VerifyOtp(ctx context.Context, phone, code string) (*entity.Notice, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, errors.WithStack(domainerrors.ErrOtpCodeRequired)
	}

	st := s.current()
	if st.IsOtpExpired(s.now()) {
		return nil, errors.WithStack(domainerrors.ErrOtpExpired)
	}
	if phone == "" {
		phone = st.PhoneNumber
	}

	s.setLoading(true)
	defer s.setLoading(false)

	grant, err := s.backend.VerifyOTP(ctx, phone, code)
	if err != nil {
		s.log(ctx).Warn("OTP verification failed", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to verify otp")
	}

	user, err := s.backend.GetMe(ctx, grant.AccessToken)
	if err != nil {
		s.log(ctx).Warn("Failed to load profile after login", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to get user info")
	}

	now := s.now()
	expiresAt := s.sessionExpiry(grant.AccessToken, now)
	st = s.update(func(st authflow.State) authflow.State {
		return st.LoggedIn(*user, grant.AccessToken, expiresAt, now, s.incompleteTTL)
	})
	s.persist(ctx, st)

	s.log(ctx).Info("Client logged in", slog.Int64("user_id", user.ID), slog.Bool("profile_complete", user.IsComplete()))

	if !user.IsComplete() {
		return nil, nil
	}

	return entity.NewNotice(entity.NoticeSuccess, "ورود با موفقیت انجام شد"), nil
}

// UpdateUserInfo saves the customer's names, completing a pending registration.
func (s *authStore) UpdateUserInfo(ctx context.Context, firstName, lastName string) (*entity.Notice, error) {
	st := s.current()
	if !st.Session.IsAuthenticated || st.Session.Token == "" {
		return nil, errors.WithStack(domainerrors.ErrNotLoggedIn)
	}

	firstName, lastName = strings.TrimSpace(firstName), strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return nil, errors.WithStack(domainerrors.ErrNameRequired)
	}

	editing := st.Step == entity.AuthStepEdit

	s.setLoading(true)
	defer s.setLoading(false)

	user, err := s.backend.UpdateMe(ctx, st.Session.Token, firstName, lastName)
	if err != nil {
		s.log(ctx).Warn("Profile update failed", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to update user info")
	}

	st = s.update(func(st authflow.State) authflow.State { return st.ProfileUpdated(*user) })
	s.persist(ctx, st)

	if editing {
		return entity.NewNotice(entity.NoticeSuccess, "اطلاعات شما با موفقیت به‌روزرسانی شد"), nil
	}

	return entity.NewNotice(entity.NoticeSuccess, "ثبت نام با موفقیت انجام شد"), nil
}

// Logout ends the session locally even when the backend call fails.
func (s *authStore) Logout(ctx context.Context) *entity.Notice {
	st := s.current()
	if st.Session.Token != "" {
		if err := s.backend.Logout(ctx, st.Session.Token); err != nil {
			s.log(ctx).Warn("Backend logout failed, clearing session anyway", slog.Any("error", err))
		}
	}

	s.update(func(st authflow.State) authflow.State { return st.LoggedOut() })
	if err := s.storage.Delete(ctx, s.clientID); err != nil {
		s.log(ctx).Error("Failed to delete persisted client state", slog.Any("error", err))
	}

	s.log(ctx).Info("Client logged out")

	return entity.NewNotice(entity.NoticeSuccess, "با موفقیت از حساب کاربری خود خارج شدید")
}

// RefreshUserInfo re-fetches the profile and re-derives the incomplete registration.
func (s *authStore) RefreshUserInfo(ctx context.Context) error {
	st := s.current()
	if st.Session.Token == "" {
		return errors.WithStack(domainerrors.ErrNotLoggedIn)
	}

	user, err := s.backend.GetMe(ctx, st.Session.Token)
	if err != nil {
		if sessionRevoked(err) {
			s.log(ctx).Info("Session rejected by backend, logging out", slog.Any("error", err))
			s.Logout(ctx)
		}

		return errors.Wrap(err, "failed to refresh user info")
	}

	now := s.now()
	st = s.update(func(st authflow.State) authflow.State {
		return st.ProfileRefreshed(*user, now, s.incompleteTTL)
	})
	s.persist(ctx, st)

	return nil
}

// CheckIncompleteRegistration validates the stored incomplete registration, clearing it once expired.
func (s *authStore) CheckIncompleteRegistration(ctx context.Context) bool {
	now := s.now()

	var (
		ok      bool
		expired bool
	)
	st := s.update(func(st authflow.State) authflow.State {
		had := st.Incomplete != nil
		st, ok = st.CheckIncomplete(now)
		expired = had && !ok

		return st
	})

	if expired {
		s.log(ctx).Debug("Incomplete registration expired")
		s.persist(ctx, st)
	}

	return ok
}

func (s *authStore) IsTokenExpired() bool {
	return s.current().IsTokenExpired(s.now())
}

func (s *authStore) IsOtpExpired() bool {
	return s.current().IsOtpExpired(s.now())
}

func (s *authStore) IsUserComplete() bool {
	return s.current().IsUserComplete()
}

// OpenDrawer opens the login drawer on the step the client should continue from.
func (s *authStore) OpenDrawer(ctx context.Context) *entity.Notice {
	s.CheckIncompleteRegistration(ctx)

	var opened bool
	s.update(func(st authflow.State) authflow.State {
		st, opened = st.DrawerOpened()

		return st
	})

	if !opened {
		return entity.NewNotice(entity.NoticeInfo, "شما قبلاً وارد حساب کاربری خود شده‌اید")
	}

	return nil
}

// OpenEditProfile opens the drawer on the name edit step.
func (s *authStore) OpenEditProfile(_ context.Context) error {
	var opened bool
	s.update(func(st authflow.State) authflow.State {
		st, opened = st.EditOpened()

		return st
	})

	if !opened {
		return errors.WithStack(domainerrors.ErrNotLoggedIn.WithMessage("برای ویرایش اطلاعات باید ابتدا وارد حساب کاربری خود شوید"))
	}

	return nil
}

func (s *authStore) CloseDrawer(_ context.Context) {
	s.update(func(st authflow.State) authflow.State { return st.DrawerClosed() })
}

// Status returns the backend's account status for the session.
func (s *authStore) Status(ctx context.Context) (*entity.UserStatus, error) {
	token, ok := s.Token()
	if !ok {
		return nil, errors.WithStack(domainerrors.ErrUnauthorized)
	}

	status, err := s.backend.GetStatus(ctx, token)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user status")
	}

	return status, nil
}

// sessionExpiry is the local token lifetime, capped by the token's own expiry when it has one.
func (s *authStore) sessionExpiry(token string, now time.Time) time.Time {
	expiresAt := now.Add(s.tokenTTL)
	if s.inspector == nil {
		return expiresAt
	}

	if exp, ok := s.inspector.ExpiresAt(token); ok && exp.Before(expiresAt) {
		return exp
	}

	return expiresAt
}

// persist stores what survives a restart; failures only cost the client a re-login.
func (s *authStore) persist(ctx context.Context, st authflow.State) {
	record := st.Persisted()
	ttl := retention(record, s.now())

	if record.IsEmpty() || ttl <= 0 {
		if err := s.storage.Delete(ctx, s.clientID); err != nil {
			s.log(ctx).Error("Failed to delete persisted client state", slog.Any("error", err))
		}

		return
	}

	if err := s.storage.Save(ctx, s.clientID, record, ttl); err != nil {
		s.log(ctx).Error("Failed to persist client state", slog.Any("error", err))
	}
}

// retention is how long record stays useful: until the later of the token and the
// incomplete registration expire.
func retention(record *entity.PersistedClient, now time.Time) time.Duration {
	until := record.TokenExpiresAt
	if record.Incomplete != nil && record.Incomplete.ExpiresAt.After(until) {
		until = record.Incomplete.ExpiresAt
	}

	return until.Sub(now)
}

func sessionRevoked(err error) bool {
	if errors.Is(err, domainerrors.ErrUnauthorized) || errors.Is(err, domainerrors.ErrForbidden) {
		return true
	}

	message := domainerrors.MessageOf(err)
	for _, m := range logoutMessages {
		if strings.Contains(message, m) {
			return true
		}
	}

	return false
}
