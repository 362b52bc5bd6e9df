package impl

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"barbershop/config"
	deliverycontext "barbershop/internal/delivery/context"
	"barbershop/internal/domain/entity"
	domainerrors "barbershop/internal/domain/errors"
	"barbershop/internal/domain/service"
	"barbershop/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Toasts shown by the page guards.
const (
	msgLoginFirst          = "لطفاً ابتدا وارد حساب کاربری خود شوید"
	msgLoginForDetails     = "برای مشاهده جزئیات نوبت، وارد حساب کاربری خود شوید"
	msgPreparingPayment    = "در حال انتقال به درگاه پرداخت..."
	msgSlotPending         = "این نوبت در حال رزرو توسط شخص دیگری است. لطفاً منتظر بمانید یا نوبت دیگری انتخاب کنید."
	msgPaymentFailed       = "خطا در پردازش پرداخت"
	msgMissingPaymentLink  = "خطا در دریافت لینک پرداخت"
	msgNotYourAppointment  = "شما مجاز به مشاهده اطلاعات این نوبت نیستید"
	msgDetailsFailed       = "خطا در بررسی اطلاعات نوبت"
	msgStatusFailed        = "خطا در بررسی وضعیت پرداخت"
	msgPaymentNotConfirmed = "پرداخت شما تایید نشده است"
	msgOwnershipFailed     = "خطا در تایید مالکیت نوبت"
	msgPaymentNotFound     = "اطلاعات پرداخت یافت نشد"
)

// forbiddenHints mark a details failure as an ownership rejection.
var forbiddenHints = []string{"مجاز", "دسترسی", "Forbidden"}

// pageService implements the PageOrchestrator interface.
type pageService struct {
	payments    service.PaymentAPI
	history     usecase.HistoryUsecase
	qrcode      service.QRCodeService
	gracePeriod time.Duration
	logger      *slog.Logger
}

// PageParams holds dependencies for the page orchestrator.
type PageParams struct {
	fx.In

	Config  *config.Config
	Logger  *slog.Logger
	Backend service.BookingBackend
	History usecase.HistoryUsecase
	QRCode  service.QRCodeService
}

// NewPageService is the constructor for pageService.
func NewPageService(p PageParams) usecase.PageOrchestrator {
	return &pageService{
		payments:    p.Backend,
		history:     p.History,
		qrcode:      p.QRCode,
		gracePeriod: p.Config.Session.AuthGracePeriod,
		logger:      p.Logger,
	}
}

func (srv *pageService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// awaitAuth waits for the client's persisted session to be restored, at most for the grace period.
func (srv *pageService) awaitAuth(ctx context.Context, auth usecase.AuthStore) {
	timer := time.NewTimer(srv.gracePeriod)
	defer timer.Stop()

	select {
	case <-auth.Ready():
	case <-timer.C:
		srv.log(ctx).Debug("Auth state not restored within grace period")
	case <-ctx.Done():
	}
}

// EnterReservation resets the booking form and loads the catalogs.
func (srv *pageService) EnterReservation(ctx context.Context, client *usecase.Client, exact bool) usecase.PageDecision {
	res := client.Reservation

	res.Reset(ctx)
	if exact {
		res.ClearState(ctx)
	}
	res.SetFormStep(ctx, entity.FormStepServices)

	srv.awaitAuth(ctx, client.Auth)

	var notice *entity.Notice
	if client.Auth.CheckIncompleteRegistration(ctx) && client.Auth.Snapshot().IsAuthenticated {
		notice = client.Auth.OpenDrawer(ctx)
	}

	snapshot := res.Snapshot()
	if len(snapshot.Barbers) == 0 {
		if _, err := res.FetchBarbers(ctx); err != nil {
			notice = errorNotice(err)
		}
	}
	if len(snapshot.Services) == 0 {
		if _, err := res.FetchServices(ctx); err != nil {
			notice = errorNotice(err)
		}
	}

	auth := client.Auth.Snapshot()

	return usecase.PageDecision{
		Notice: notice,
		Data: usecase.ReservationPage{
			ShowBookingForm: auth.IsAuthenticated && auth.IsUserComplete,
			Auth:            auth,
			Reservation:     res.Snapshot(),
		},
	}
}

// ContinueReservation checks the form in step order before moving to checkout.
func (srv *pageService) ContinueReservation(ctx context.Context, client *usecase.Client) usecase.PageDecision {
	auth := client.Auth.Snapshot()
	if !auth.IsAuthenticated || !auth.IsUserComplete {
		return usecase.PageDecision{Notice: entity.NewNotice(entity.NoticeError, msgLoginFirst)}
	}

	if err := client.Reservation.CheckSelection(); err != nil {
		return usecase.PageDecision{
			Notice: errorNotice(err),
			Data:   client.Reservation.Snapshot(),
		}
	}

	client.Reservation.SetFormStep(ctx, entity.FormStepUserInfo)

	return usecase.PageDecision{Redirect: usecase.RouteCheckout}
}

// GuardCheckout admits only authenticated clients with a complete selection and
// attaches their identity to the booking.
func (srv *pageService) GuardCheckout(ctx context.Context, client *usecase.Client) usecase.PageDecision {
	srv.awaitAuth(ctx, client.Auth)

	auth := client.Auth.Snapshot()
	snapshot := client.Reservation.Snapshot()
	if !auth.IsAuthenticated || auth.User == nil || !snapshot.Selection.IsComplete() {
		return usecase.PageDecision{Redirect: usecase.RouteReservation}
	}

	info := entity.UserInfo{
		Name:  strings.TrimSpace(auth.User.FullName()),
		Phone: auth.User.PhoneNumber,
	}
	client.Reservation.SetUserInfo(ctx, info)

	return usecase.PageDecision{
		Data: usecase.CheckoutPage{
			UserInfo:    info,
			Reservation: client.Reservation.Snapshot(),
		},
	}
}

// SubmitCheckout books the selection. A pending slot keeps the client on the page with
// fresh availability; other booking errors go to the failure page.
func (srv *pageService) SubmitCheckout(ctx context.Context, client *usecase.Client) usecase.PageDecision {
	if guard := srv.GuardCheckout(ctx, client); guard.Redirect != "" {
		return guard
	}

	token, ok := client.Auth.Token()
	if !ok {
		return usecase.PageDecision{
			Redirect: usecase.RouteReservation,
			Notice:   entity.NewNotice(entity.NoticeError, msgLoginFirst),
		}
	}

	link, err := client.Reservation.CreateAppointmentAndPayment(ctx, token)
	if err != nil {
		return srv.checkoutFailed(ctx, client, err)
	}

	if link.PaymentURL == "" {
		return usecase.PageDecision{
			Redirect: failureRoute(msgMissingPaymentLink),
			Notice:   entity.NewNotice(entity.NoticeError, msgMissingPaymentLink),
		}
	}

	srv.log(ctx).Info("Redirecting to payment gateway", slog.String("authority", link.Authority))

	return usecase.PageDecision{
		Redirect: link.PaymentURL,
		Notice:   entity.NewNotice(entity.NoticeInfo, msgPreparingPayment),
		Data: usecase.PaymentRedirect{
			PaymentURL:    link.PaymentURL,
			Authority:     link.Authority,
			AppointmentID: client.Reservation.Snapshot().Payment.AppointmentID,
		},
	}
}

func (srv *pageService) checkoutFailed(ctx context.Context, client *usecase.Client, err error) usecase.PageDecision {
	if errors.Is(err, domainerrors.ErrSlotConflict) {
		return usecase.PageDecision{
			Notice: entity.NewNotice(entity.NoticeError, msgSlotPending),
			Data:   client.Reservation.Snapshot(),
		}
	}

	message := domainerrors.MessageOf(err)
	if strings.Contains(message, "نوبت") {
		return usecase.PageDecision{Notice: entity.NewNotice(entity.NoticeError, message)}
	}

	if message == "" {
		message = msgPaymentFailed
	}

	srv.log(ctx).Warn("Checkout failed", slog.Any("error", err))

	return usecase.PageDecision{
		Redirect: failureRoute(message),
		Notice:   entity.NewNotice(entity.NoticeError, message),
	}
}

// VerifySuccess accepts a booking only when its details can be fetched by the client:
// by the ref_id of the gateway redirect, or by the PAID status of the appointment created here.
func (srv *pageService) VerifySuccess(ctx context.Context, client *usecase.Client, refID string) usecase.PageDecision {
	srv.awaitAuth(ctx, client.Auth)

	token, ok := client.Auth.Token()
	if !ok {
		return usecase.PageDecision{
			Redirect: usecase.RouteReservation,
			Notice:   entity.NewNotice(entity.NoticeError, msgLoginForDetails),
		}
	}

	res := client.Reservation

	if refID != "" {
		res.SetPaymentRefID(ctx, refID)

		details, err := srv.payments.AppointmentDetails(ctx, token, refID)
		if err != nil {
			if isForbidden(err) {
				return usecase.PageDecision{
					Redirect: usecase.RouteReservation,
					Notice:   entity.NewNotice(entity.NoticeError, msgNotYourAppointment),
				}
			}

			srv.log(ctx).Warn("Failed to fetch appointment details", slog.String("ref_id", refID), slog.Any("error", err))

			return failed(msgDetailsFailed)
		}

		return srv.verified(refID, details, res)
	}

	appointmentID := res.Snapshot().Payment.AppointmentID
	if appointmentID == nil {
		return usecase.PageDecision{
			Redirect: usecase.RouteReservation,
			Notice:   entity.NewNotice(entity.NoticeError, msgPaymentNotFound),
		}
	}

	status, err := res.GetPaymentStatus(ctx, token, *appointmentID)
	if err != nil {
		return failed(msgStatusFailed)
	}
	if !status.IsSettled() {
		srv.log(ctx).Info("Payment not settled", slog.Int64("appointment_id", *appointmentID), slog.String("status", string(status.Status)))

		return failed(msgPaymentNotConfirmed)
	}

	details, err := srv.payments.AppointmentDetails(ctx, token, status.RefID)
	if err != nil {
		srv.log(ctx).Warn("Ownership check failed", slog.String("ref_id", status.RefID), slog.Any("error", err))

		return failed(msgOwnershipFailed)
	}
	res.SetPaymentRefID(ctx, status.RefID)

	return srv.verified(status.RefID, details, res)
}

func (srv *pageService) verified(refID string, details *entity.AppointmentDetails, res usecase.ReservationStore) usecase.PageDecision {
	return usecase.PageDecision{
		Data: usecase.SuccessPage{
			PaymentVerified: true,
			RefID:           refID,
			Details:         details,
			Reservation:     res.Snapshot(),
		},
	}
}

// Failure shows the failure page. Without an error in the URL it polls the payment of the
// appointment created here, and sends clients with nothing to show back to the form.
func (srv *pageService) Failure(ctx context.Context, client *usecase.Client, message string) usecase.PageDecision {
	srv.awaitAuth(ctx, client.Auth)

	snapshot := client.Reservation.Snapshot()
	page := usecase.FailurePage{Error: message, Reservation: snapshot}

	if message != "" {
		return usecase.PageDecision{Data: page}
	}

	if id := snapshot.Payment.AppointmentID; id != nil {
		if token, ok := client.Auth.Token(); ok {
			status, err := client.Reservation.GetPaymentStatus(ctx, token, *id)
			if err != nil {
				srv.log(ctx).Warn("Failed to poll payment on failure page", slog.Any("error", err))
			} else {
				page.PaymentStatus = status
			}
		}
	}

	if snapshot.UserInfo == nil {
		return usecase.PageDecision{Redirect: usecase.RouteReservation}
	}

	page.Reservation = client.Reservation.Snapshot()

	return usecase.PageDecision{Data: page}
}

// Profile shows the profile and, for an authenticated client, a page of its appointments.
func (srv *pageService) Profile(ctx context.Context, client *usecase.Client, query usecase.HistoryQuery) usecase.PageDecision {
	srv.awaitAuth(ctx, client.Auth)

	var notice *entity.Notice
	if client.Auth.Snapshot().IsAuthenticated && client.Auth.CheckIncompleteRegistration(ctx) {
		notice = client.Auth.OpenDrawer(ctx)
	}

	page := usecase.ProfilePage{}
	if token, ok := client.Auth.Token(); ok {
		list, err := srv.history.ListAppointments(ctx, token, query)
		if err != nil {
			notice = errorNotice(err)
		} else {
			page.Appointments = list
		}
	}
	page.Auth = client.Auth.Snapshot()

	return usecase.PageDecision{Notice: notice, Data: page}
}

// ConfirmationQR encodes the booking behind refID, or the one verified in this session.
func (srv *pageService) ConfirmationQR(ctx context.Context, client *usecase.Client, refID string) ([]byte, error) {
	if refID == "" {
		refID = client.Reservation.Snapshot().Payment.PaymentRefID
	}
	if refID == "" {
		return nil, errors.WithStack(domainerrors.ErrNotFound.WithMessage(msgPaymentNotFound))
	}

	srv.awaitAuth(ctx, client.Auth)

	token, ok := client.Auth.Token()
	if !ok {
		return nil, errors.WithStack(domainerrors.ErrUnauthorized.WithMessage(msgLoginForDetails))
	}

	details, err := srv.payments.AppointmentDetails(ctx, token, refID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to confirm appointment ownership")
	}

	png, err := srv.qrcode.GenerateBookingQR(refID, details.ID)
	if err != nil {
		srv.log(ctx).Error("Failed to generate booking QR code", slog.String("ref_id", refID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to generate booking qr code")
	}

	return png, nil
}

func failed(message string) usecase.PageDecision {
	return usecase.PageDecision{
		Redirect: usecase.RouteFailure,
		Notice:   entity.NewNotice(entity.NoticeError, message),
	}
}

func failureRoute(message string) string {
	return usecase.RouteFailure + "?error=" + url.QueryEscape(message)
}

func errorNotice(err error) *entity.Notice {
	return entity.NewNotice(entity.NoticeError, domainerrors.MessageOf(err))
}

func isForbidden(err error) bool {
	if errors.Is(err, domainerrors.ErrForbidden) {
		return true
	}

	var backendErr *domainerrors.BackendError
	if errors.As(err, &backendErr) && backendErr.StatusCode() == http.StatusForbidden {
		return true
	}

	message := domainerrors.MessageOf(err)
	for _, hint := range forbiddenHints {
		if strings.Contains(message, hint) {
			return true
		}
	}

	return false
}
