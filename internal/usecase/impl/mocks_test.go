package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"barbershop/config"
	"barbershop/internal/domain/authflow"
	"barbershop/internal/domain/entity"
	"barbershop/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// mockBackend is a testify mock of service.BookingBackend.
type mockBackend struct {
	mock.Mock
}

func newMockBackend(t *testing.T) *mockBackend {
	m := &mockBackend{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *mockBackend) RequestOTP(ctx context.Context, phone string) (*entity.OTPChallenge, error) {
	args := m.Called(ctx, phone)
	out, _ := args.Get(0).(*entity.OTPChallenge)

	return out, args.Error(1)
}

func (m *mockBackend) VerifyOTP(ctx context.Context, phone, code string) (*entity.TokenGrant, error) {
	args := m.Called(ctx, phone, code)
	out, _ := args.Get(0).(*entity.TokenGrant)

	return out, args.Error(1)
}

func (m *mockBackend) GetMe(ctx context.Context, token string) (*entity.User, error) {
	args := m.Called(ctx, token)
	out, _ := args.Get(0).(*entity.User)

	return out, args.Error(1)
}

func (m *mockBackend) UpdateMe(ctx context.Context, token, firstName, lastName string) (*entity.User, error) {
	args := m.Called(ctx, token, firstName, lastName)
	out, _ := args.Get(0).(*entity.User)

	return out, args.Error(1)
}

func (m *mockBackend) GetStatus(ctx context.Context, token string) (*entity.UserStatus, error) {
	args := m.Called(ctx, token)
	out, _ := args.Get(0).(*entity.UserStatus)

	return out, args.Error(1)
}

func (m *mockBackend) Logout(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockBackend) ListBarbers(ctx context.Context) ([]entity.Barber, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]entity.Barber)

	return out, args.Error(1)
}

func (m *mockBackend) ListServices(ctx context.Context) ([]entity.Service, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]entity.Service)

	return out, args.Error(1)
}

func (m *mockBackend) Availability(ctx context.Context, query service.AvailabilityQuery) ([]entity.TimeGroup, error) {
	args := m.Called(ctx, query)
	out, _ := args.Get(0).([]entity.TimeGroup)

	return out, args.Error(1)
}

func (m *mockBackend) CreateAppointment(ctx context.Context, token string, req *entity.AppointmentRequest) (*entity.AppointmentCreated, error) {
	args := m.Called(ctx, token, req)
	out, _ := args.Get(0).(*entity.AppointmentCreated)

	return out, args.Error(1)
}

func (m *mockBackend) ListMine(ctx context.Context, token string, page service.PageQuery) (*entity.AppointmentPage, error) {
	args := m.Called(ctx, token, page)
	out, _ := args.Get(0).(*entity.AppointmentPage)

	return out, args.Error(1)
}

func (m *mockBackend) CreatePayment(ctx context.Context, token string, appointmentID int64) (*entity.PaymentLink, error) {
	args := m.Called(ctx, token, appointmentID)
	out, _ := args.Get(0).(*entity.PaymentLink)

	return out, args.Error(1)
}

func (m *mockBackend) PaymentStatus(ctx context.Context, token string, appointmentID int64) (*entity.PaymentStatus, error) {
	args := m.Called(ctx, token, appointmentID)
	out, _ := args.Get(0).(*entity.PaymentStatus)

	return out, args.Error(1)
}

func (m *mockBackend) AppointmentDetails(ctx context.Context, token, refID string) (*entity.AppointmentDetails, error) {
	args := m.Called(ctx, token, refID)
	out, _ := args.Get(0).(*entity.AppointmentDetails)

	return out, args.Error(1)
}

// mockStorage is a testify mock of repository.ClientStorage.
type mockStorage struct {
	mock.Mock
}

func newMockStorage(t *testing.T) *mockStorage {
	m := &mockStorage{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *mockStorage) Load(ctx context.Context, clientID uuid.UUID) (*entity.PersistedClient, error) {
	args := m.Called(ctx, clientID)
	out, _ := args.Get(0).(*entity.PersistedClient)

	return out, args.Error(1)
}

func (m *mockStorage) Save(ctx context.Context, clientID uuid.UUID, client *entity.PersistedClient, ttl time.Duration) error {
	return m.Called(ctx, clientID, client, ttl).Error(0)
}

func (m *mockStorage) Delete(ctx context.Context, clientID uuid.UUID) error {
	return m.Called(ctx, clientID).Error(0)
}

// mockInspector is a testify mock of service.TokenInspector.
type mockInspector struct {
	mock.Mock
}

func (m *mockInspector) ExpiresAt(token string) (time.Time, bool) {
	args := m.Called(token)

	return args.Get(0).(time.Time), args.Bool(1)
}

// mockQRCode is a testify mock of service.QRCodeService.
type mockQRCode struct {
	mock.Mock
}

func (m *mockQRCode) GenerateBookingQR(refID string, appointmentID int64) ([]byte, error) {
	args := m.Called(refID, appointmentID)
	out, _ := args.Get(0).([]byte)

	return out, args.Error(1)
}

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Session = config.SessionConfig{
		TokenTTL:                  30 * 24 * time.Hour,
		IncompleteRegistrationTTL: 12 * time.Hour,
		ClientIdleTTL:             2 * time.Hour,
		AuthGracePeriod:           50 * time.Millisecond,
	}
	cfg.Reservation = config.ReservationConfig{
		DoubleSlotThresholdMinutes: 40,
		DepositPercent:             50,
		FridayAllowedSlots:         config.DefaultFridayAllowedSlots,
		HistoryPageLimit:           10,
	}

	return cfg
}

func completeUser() *entity.User {
	return &entity.User{ID: 5, FirstName: "علی", LastName: "رضایی", PhoneNumber: "09121234567"}
}

func catalog() []entity.Service {
	return []entity.Service{
		{ID: 1, Name: "اصلاح مو", Price: "100,000", Duration: "20"},
		{ID: 2, Name: "اصلاح ریش", Price: "150,000", Duration: "30"},
	}
}

func barbers() []entity.Barber {
	return []entity.Barber{{ID: 3, FirstName: "رضا", LastName: "خورشیدی", Available: true}}
}

func morningSlots() []entity.TimeGroup {
	return []entity.TimeGroup{{
		Label: "صبح",
		Slots: []entity.TimeSlot{
			{ID: "1", Time: "10-1030", Available: true, NextSlotAvailable: true},
			{ID: "2", Time: "1030-11", Available: true, NextSlotAvailable: true},
			{ID: "3", Time: "11-1130", Available: true},
		},
	}}
}

// markReady completes hydration without touching storage.
func markReady(store *authStore) {
	store.hydrateOnce.Do(func() { close(store.ready) })
}

// loggedIn returns a hydrated auth store holding a complete session with token "tok".
func loggedIn(backend service.AuthAPI, storage *mockStorage, clock *fakeClock) *authStore {
	store := newAuthStore(uuid.New(), backend, storage, nil, testConfig(), discardLogger(), clock.Now)
	store.state = authflow.Initial().LoggedIn(*completeUser(), "tok", clock.Now().Add(24*time.Hour), clock.Now(), 12*time.Hour)
	markReady(store)

	return store
}
