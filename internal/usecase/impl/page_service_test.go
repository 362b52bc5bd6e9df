package impl

import (
	"context"
	"net/url"
	"testing"
	"time"

	"barbershop/internal/domain/entity"
	domainerrors "barbershop/internal/domain/errors"
	"barbershop/internal/domain/reservation"
	"barbershop/internal/domain/service"
	"barbershop/internal/errors"
	"barbershop/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type pageFixtures struct {
	backend *mockBackend
	storage *mockStorage
	qrcode  *mockQRCode
	clock   *fakeClock
	auth    *authStore
	res     *reservationStore
	client  *usecase.Client
	srv     usecase.PageOrchestrator
}

func setupPage(t *testing.T, authenticated bool) *pageFixtures {
	t.Helper()

	f := &pageFixtures{
		backend: newMockBackend(t),
		storage: newMockStorage(t),
		qrcode:  &mockQRCode{},
		clock:   newFakeClock(),
	}
	cfg := testConfig()

	if authenticated {
		f.auth = loggedIn(f.backend, f.storage, f.clock)
	} else {
		f.auth = newAuthStore(uuid.New(), f.backend, f.storage, nil, cfg, discardLogger(), f.clock.Now)
	}
	f.res = newReservationStore(f.backend, RulesFromConfig(cfg), discardLogger(), f.clock.Now)
	f.client = &usecase.Client{ID: f.auth.clientID, Auth: f.auth, Reservation: f.res}

	f.srv = NewPageService(PageParams{
		Config:  cfg,
		Logger:  discardLogger(),
		Backend: f.backend,
		History: NewHistoryService(f.backend, cfg, discardLogger()),
		QRCode:  f.qrcode,
	})

	return f
}

// withAppointment records appointment 77 as created in this session.
func (f *pageFixtures) withAppointment() {
	f.res.dispatch(reservation.AppointmentCreated{AppointmentID: 77})
}

func TestPageService_VerifySuccess(t *testing.T) {
	ctx := context.Background()

	t.Run("by ref id", func(t *testing.T) {
		f := setupPage(t, true)
		details := &entity.AppointmentDetails{ID: 77, BarberName: "رضا خورشیدی", Date: "2026-10-19", Time: "10-1030"}
		f.backend.On("AppointmentDetails", mock.Anything, "tok", "ABC123").Return(details, nil).Once()

		decision := f.srv.VerifySuccess(ctx, f.client, "ABC123")

		assert.Empty(t, decision.Redirect)
		page, ok := decision.Data.(usecase.SuccessPage)
		require.True(t, ok)
		assert.True(t, page.PaymentVerified)
		assert.Equal(t, "ABC123", page.RefID)
		assert.Equal(t, details, page.Details)
		assert.Equal(t, "ABC123", page.Reservation.Payment.PaymentRefID)
	})

	t.Run("not logged in", func(t *testing.T) {
		f := setupPage(t, false)

		decision := f.srv.VerifySuccess(ctx, f.client, "ABC123")

		assert.Equal(t, usecase.RouteReservation, decision.Redirect)
		require.NotNil(t, decision.Notice)
		assert.Equal(t, msgLoginForDetails, decision.Notice.Message)
	})

	t.Run("someone else's appointment", func(t *testing.T) {
		f := setupPage(t, true)
		f.backend.On("AppointmentDetails", mock.Anything, "tok", "ABC123").
			Return(nil, domainerrors.NewBackendError(domainerrors.ErrForbidden, 403, "", nil)).Once()

		decision := f.srv.VerifySuccess(ctx, f.client, "ABC123")

		assert.Equal(t, usecase.RouteReservation, decision.Redirect)
		assert.Equal(t, msgNotYourAppointment, decision.Notice.Message)
		assert.Nil(t, decision.Data)
	})

	t.Run("details unavailable", func(t *testing.T) {
		f := setupPage(t, true)
		f.backend.On("AppointmentDetails", mock.Anything, "tok", "ABC123").
			Return(nil, domainerrors.NewBackendError(domainerrors.ErrBackend, 500, "", nil)).Once()

		decision := f.srv.VerifySuccess(ctx, f.client, "ABC123")

		assert.Equal(t, usecase.RouteFailure, decision.Redirect)
		assert.Equal(t, msgDetailsFailed, decision.Notice.Message)
	})

	t.Run("by payment status", func(t *testing.T) {
		f := setupPage(t, true)
		f.withAppointment()
		f.backend.On("PaymentStatus", mock.Anything, "tok", int64(77)).
			Return(&entity.PaymentStatus{AppointmentID: 77, Status: entity.PaymentPaid, RefID: "ABC123"}, nil).Once()
		f.backend.On("AppointmentDetails", mock.Anything, "tok", "ABC123").
			Return(&entity.AppointmentDetails{ID: 77}, nil).Once()

		decision := f.srv.VerifySuccess(ctx, f.client, "")

		page, ok := decision.Data.(usecase.SuccessPage)
		require.True(t, ok)
		assert.Equal(t, "ABC123", page.RefID)
		assert.Equal(t, entity.PaymentPaid, page.Reservation.Payment.PaymentStatus)
	})

	t.Run("payment not settled", func(t *testing.T) {
		f := setupPage(t, true)
		f.withAppointment()
		f.backend.On("PaymentStatus", mock.Anything, "tok", int64(77)).
			Return(&entity.PaymentStatus{AppointmentID: 77, Status: entity.PaymentPending}, nil).Once()

		decision := f.srv.VerifySuccess(ctx, f.client, "")

		assert.Equal(t, usecase.RouteFailure, decision.Redirect)
		assert.Equal(t, msgPaymentNotConfirmed, decision.Notice.Message)
	})

	t.Run("nothing to verify", func(t *testing.T) {
		f := setupPage(t, true)

		decision := f.srv.VerifySuccess(ctx, f.client, "")

		assert.Equal(t, usecase.RouteReservation, decision.Redirect)
		assert.Equal(t, msgPaymentNotFound, decision.Notice.Message)
	})
}

func TestPageService_SubmitCheckout(t *testing.T) {
	ctx := context.Background()

	t.Run("redirects to the gateway", func(t *testing.T) {
		f := setupPage(t, true)
		bookable(t, f.res, f.backend)

		f.backend.On("CreateAppointment", mock.Anything, "tok", mock.MatchedBy(func(req *entity.AppointmentRequest) bool {
			return req.CustomerName == "علی رضایی" && req.Phone == "09121234567"
		})).Return(&entity.AppointmentCreated{Success: true, AppointmentID: 77}, nil).Once()
		f.backend.On("CreatePayment", mock.Anything, "tok", int64(77)).
			Return(&entity.PaymentLink{Success: true, PaymentURL: "https://pay.example/start/A1", Authority: "A1"}, nil).Once()

		decision := f.srv.SubmitCheckout(ctx, f.client)

		assert.Equal(t, "https://pay.example/start/A1", decision.Redirect)
		assert.Equal(t, entity.NoticeInfo, decision.Notice.Level)
		redirect, ok := decision.Data.(usecase.PaymentRedirect)
		require.True(t, ok)
		require.NotNil(t, redirect.AppointmentID)
		assert.Equal(t, int64(77), *redirect.AppointmentID)
		assert.Equal(t, "A1", redirect.Authority)
	})

	t.Run("pending slot stays on the page", func(t *testing.T) {
		f := setupPage(t, true)
		bookable(t, f.res, f.backend)

		f.backend.On("CreateAppointment", mock.Anything, "tok", mock.Anything).
			Return(nil, domainerrors.NewBackendError(domainerrors.ErrSlotConflict, 400, "", nil)).Once()
		f.backend.On("Availability", mock.Anything, mock.Anything).Return(morningSlots(), nil).Once()

		decision := f.srv.SubmitCheckout(ctx, f.client)

		assert.Empty(t, decision.Redirect)
		assert.Equal(t, msgSlotPending, decision.Notice.Message)
		_, ok := decision.Data.(usecase.ReservationSnapshot)
		assert.True(t, ok)
	})

	t.Run("booking rule violation", func(t *testing.T) {
		f := setupPage(t, true)
		bookable(t, f.res, f.backend)

		f.backend.On("CreateAppointment", mock.Anything, "tok", mock.Anything).
			Return(nil, domainerrors.NewBackendError(domainerrors.ErrValidationFailed, 400, "شما یک نوبت فعال دارید", nil)).Once()

		decision := f.srv.SubmitCheckout(ctx, f.client)

		assert.Empty(t, decision.Redirect)
		assert.Equal(t, "شما یک نوبت فعال دارید", decision.Notice.Message)
	})

	t.Run("other failures go to the failure page", func(t *testing.T) {
		f := setupPage(t, true)
		bookable(t, f.res, f.backend)

		f.backend.On("CreateAppointment", mock.Anything, "tok", mock.Anything).
			Return(&entity.AppointmentCreated{Success: true, AppointmentID: 77}, nil).Once()
		f.backend.On("CreatePayment", mock.Anything, "tok", int64(77)).
			Return(nil, domainerrors.NewBackendError(domainerrors.ErrBackend, 502, "درگاه پرداخت در دسترس نیست", nil)).Once()

		decision := f.srv.SubmitCheckout(ctx, f.client)

		assert.Equal(t, usecase.RouteFailure+"?error="+url.QueryEscape("درگاه پرداخت در دسترس نیست"), decision.Redirect)
	})

	t.Run("missing payment link", func(t *testing.T) {
		f := setupPage(t, true)
		bookable(t, f.res, f.backend)

		f.backend.On("CreateAppointment", mock.Anything, "tok", mock.Anything).
			Return(&entity.AppointmentCreated{Success: true, AppointmentID: 77}, nil).Once()
		f.backend.On("CreatePayment", mock.Anything, "tok", int64(77)).
			Return(&entity.PaymentLink{Success: true}, nil).Once()

		decision := f.srv.SubmitCheckout(ctx, f.client)

		assert.Equal(t, usecase.RouteFailure+"?error="+url.QueryEscape(msgMissingPaymentLink), decision.Redirect)
	})
}

func TestPageService_GuardCheckout(t *testing.T) {
	ctx := context.Background()

	t.Run("incomplete selection", func(t *testing.T) {
		f := setupPage(t, true)

		decision := f.srv.GuardCheckout(ctx, f.client)

		assert.Equal(t, usecase.RouteReservation, decision.Redirect)
	})

	t.Run("attaches the customer", func(t *testing.T) {
		f := setupPage(t, true)
		bookable(t, f.res, f.backend)
		f.res.SetUserInfo(ctx, entity.UserInfo{Name: "someone else", Phone: "09000000000"})

		decision := f.srv.GuardCheckout(ctx, f.client)

		page, ok := decision.Data.(usecase.CheckoutPage)
		require.True(t, ok)
		assert.Equal(t, entity.UserInfo{Name: "علی رضایی", Phone: "09121234567"}, page.UserInfo)
		assert.Equal(t, &page.UserInfo, page.Reservation.UserInfo)
	})
}

func TestPageService_EnterReservation(t *testing.T) {
	ctx := context.Background()

	t.Run("guest sees the catalogs", func(t *testing.T) {
		f := setupPage(t, false)
		markReady(f.auth)
		f.backend.On("ListBarbers", mock.Anything).Return(barbers(), nil).Once()
		f.backend.On("ListServices", mock.Anything).Return(catalog(), nil).Once()

		decision := f.srv.EnterReservation(ctx, f.client, true)

		assert.Nil(t, decision.Notice)
		page, ok := decision.Data.(usecase.ReservationPage)
		require.True(t, ok)
		assert.False(t, page.ShowBookingForm)
		assert.Len(t, page.Reservation.Barbers, 1)
		assert.Len(t, page.Reservation.Services, 2)
		assert.Equal(t, entity.FormStepServices, page.Reservation.FormStep)
	})

	t.Run("catalog failure becomes a notice", func(t *testing.T) {
		f := setupPage(t, true)
		f.backend.On("ListBarbers", mock.Anything).
			Return(nil, domainerrors.NewBackendError(domainerrors.ErrBackendUnavailable, 0, "", nil)).Once()
		f.backend.On("ListServices", mock.Anything).Return(catalog(), nil).Once()

		decision := f.srv.EnterReservation(ctx, f.client, false)

		require.NotNil(t, decision.Notice)
		assert.Equal(t, domainerrors.ErrBackendUnavailable.Message(), decision.Notice.Message)
		page := decision.Data.(usecase.ReservationPage)
		assert.True(t, page.ShowBookingForm)
	})

	t.Run("pending registration opens the drawer", func(t *testing.T) {
		f := setupPage(t, true)
		now := f.clock.Now()
		f.auth.state = f.auth.state.LoggedIn(entity.User{ID: 5, PhoneNumber: "09121234567"}, "tok", now.Add(24*time.Hour), now, 12*time.Hour)
		f.backend.On("ListBarbers", mock.Anything).Return(barbers(), nil).Once()
		f.backend.On("ListServices", mock.Anything).Return(catalog(), nil).Once()

		decision := f.srv.EnterReservation(ctx, f.client, false)

		page := decision.Data.(usecase.ReservationPage)
		assert.True(t, page.Auth.DrawerOpen)
		assert.Equal(t, entity.AuthStepRegister, page.Auth.Step)
		assert.False(t, page.ShowBookingForm)
	})
}

func TestPageService_ContinueReservation(t *testing.T) {
	ctx := context.Background()

	t.Run("guest", func(t *testing.T) {
		f := setupPage(t, false)

		decision := f.srv.ContinueReservation(ctx, f.client)

		assert.Equal(t, msgLoginFirst, decision.Notice.Message)
	})

	t.Run("missing barber", func(t *testing.T) {
		f := setupPage(t, true)

		decision := f.srv.ContinueReservation(ctx, f.client)

		assert.Empty(t, decision.Redirect)
		assert.Equal(t, "آرایشگر مورد نظر را انتخاب کنید", decision.Notice.Message)
	})

	t.Run("complete", func(t *testing.T) {
		f := setupPage(t, true)
		bookable(t, f.res, f.backend)

		decision := f.srv.ContinueReservation(ctx, f.client)

		assert.Equal(t, usecase.RouteCheckout, decision.Redirect)
		assert.Equal(t, entity.FormStepUserInfo, f.res.Snapshot().FormStep)
	})
}

func TestPageService_Failure(t *testing.T) {
	ctx := context.Background()

	t.Run("error from the url", func(t *testing.T) {
		f := setupPage(t, true)

		decision := f.srv.Failure(ctx, f.client, "پرداخت لغو شد")

		page, ok := decision.Data.(usecase.FailurePage)
		require.True(t, ok)
		assert.Equal(t, "پرداخت لغو شد", page.Error)
	})

	t.Run("nothing booked", func(t *testing.T) {
		f := setupPage(t, true)

		decision := f.srv.Failure(ctx, f.client, "")

		assert.Equal(t, usecase.RouteReservation, decision.Redirect)
	})

	t.Run("polls the payment", func(t *testing.T) {
		f := setupPage(t, true)
		f.res.SetUserInfo(ctx, entity.UserInfo{Name: "علی رضایی", Phone: "09121234567"})
		f.withAppointment()
		f.backend.On("PaymentStatus", mock.Anything, "tok", int64(77)).
			Return(&entity.PaymentStatus{AppointmentID: 77, Status: entity.PaymentFailed}, nil).Once()

		decision := f.srv.Failure(ctx, f.client, "")

		page, ok := decision.Data.(usecase.FailurePage)
		require.True(t, ok)
		require.NotNil(t, page.PaymentStatus)
		assert.Equal(t, entity.PaymentFailed, page.PaymentStatus.Status)
		assert.Equal(t, entity.PaymentFailed, page.Reservation.Payment.PaymentStatus)
	})
}

func TestPageService_Profile(t *testing.T) {
	ctx := context.Background()
	f := setupPage(t, true)

	list := &entity.AppointmentPage{Total: 1, Appointments: []entity.AppointmentSummary{{ID: 77}}}
	f.backend.On("ListMine", mock.Anything, "tok", service.PageQuery{Skip: 10, Limit: 10}).Return(list, nil).Once()

	decision := f.srv.Profile(ctx, f.client, usecase.HistoryQuery{Skip: 10})

	assert.Nil(t, decision.Notice)
	page, ok := decision.Data.(usecase.ProfilePage)
	require.True(t, ok)
	assert.Equal(t, list, page.Appointments)
	assert.True(t, page.Auth.IsAuthenticated)
}

func TestPageService_ConfirmationQR(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing verified", func(t *testing.T) {
		f := setupPage(t, true)

		_, err := f.srv.ConfirmationQR(ctx, f.client, "")

		assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
	})

	t.Run("verified booking", func(t *testing.T) {
		f := setupPage(t, true)
		f.res.SetPaymentRefID(ctx, "ABC123")
		f.backend.On("AppointmentDetails", mock.Anything, "tok", "ABC123").Return(&entity.AppointmentDetails{ID: 77}, nil).Once()
		f.qrcode.On("GenerateBookingQR", "ABC123", int64(77)).Return([]byte("png"), nil).Once()

		png, err := f.srv.ConfirmationQR(ctx, f.client, "")

		require.NoError(t, err)
		assert.Equal(t, []byte("png"), png)
		f.qrcode.AssertExpectations(t)
	})

	t.Run("guest", func(t *testing.T) {
		f := setupPage(t, false)
		markReady(f.auth)

		_, err := f.srv.ConfirmationQR(ctx, f.client, "ABC123")

		assert.True(t, errors.Is(err, domainerrors.ErrUnauthorized))
	})
}
