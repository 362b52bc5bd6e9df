package impl

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"barbershop/config"
	deliverycontext "barbershop/internal/delivery/context"
	"barbershop/internal/domain/entity"
	domainerrors "barbershop/internal/domain/errors"
	"barbershop/internal/domain/reservation"
	"barbershop/internal/domain/service"
	"barbershop/internal/domain/timeslot"
	"barbershop/internal/usecase"

	"github.com/pkg/errors"
)

// reservationStore implements the ReservationStore interface for one client.
// State changes go through reservation.Reduce under mu; backend calls run outside it.
type reservationStore struct {
	backend service.BookingBackend
	rules   reservation.Rules
	logger  *slog.Logger
	now     func() time.Time

	mu    sync.Mutex
	state reservation.State
}

// NewReservationStore is the constructor for a client's booking store.
func NewReservationStore(backend service.BookingBackend, rules reservation.Rules, logger *slog.Logger) usecase.ReservationStore {
	return newReservationStore(backend, rules, logger, time.Now)
}

func newReservationStore(backend service.BookingBackend, rules reservation.Rules, logger *slog.Logger, now func() time.Time) *reservationStore {
	return &reservationStore{
		backend: backend,
		rules:   rules,
		logger:  logger,
		now:     now,
		state:   reservation.Initial(),
	}
}

// RulesFromConfig builds the booking rules from the reservation configuration.
func RulesFromConfig(cfg *config.Config) reservation.Rules {
	return reservation.Rules{
		DoubleSlotThreshold: cfg.Reservation.DoubleSlotThresholdMinutes,
		DepositPercent:      cfg.Reservation.DepositPercent,
		FridayAllowedSlots:  slices.Clone(cfg.Reservation.FridayAllowedSlots),
		DisabledDates:       slices.Clone(cfg.Reservation.DisabledDates),
	}
}

func (s *reservationStore) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, s.logger)
}

func (s *reservationStore) current() reservation.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

func (s *reservationStore) dispatch(action reservation.Action) (reservation.State, []reservation.Effect) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var effects []reservation.Effect
	s.state, effects = reservation.Reduce(s.state, action, s.rules)

	return s.state, effects
}

// run performs the effects requested by a reduction. The selection change that
// requested them has already been applied, so a failed reload only leaves the
// slot list empty.
func (s *reservationStore) run(ctx context.Context, effects []reservation.Effect) {
	for _, effect := range effects {
		switch effect.(type) {
		case reservation.FetchSlots:
			_, _ = s.FetchTimeSlots(ctx)
		}
	}
}

// Snapshot returns the booking with slots annotated for the current selection.
func (s *reservationStore) Snapshot() usecase.ReservationSnapshot {
	return snapshotOf(s.current())
}

func snapshotOf(st reservation.State) usecase.ReservationSnapshot {
	needsDouble := st.Totals.NeedsDoubleSlot

	var selected, text string
	if st.Selection.Time != nil {
		selected = *st.Selection.Time

		slot, ok := timeslot.Find(st.TimeGroups, selected)
		if !ok {
			slot = entity.TimeSlot{Time: selected}
		}
		text = timeslot.Describe(slot, needsDouble)
	}

	selection := st.Selection
	selection.ServiceIDs = slices.Clone(st.Selection.ServiceIDs)

	snapshot := usecase.ReservationSnapshot{
		Barbers:          slices.Clone(st.Barbers),
		Services:         slices.Clone(st.Services),
		TimeGroups:       timeslot.Annotate(st.TimeGroups, needsDouble, selected),
		Selection:        selection,
		Totals:           st.Totals,
		SelectedTimeText: text,
		Payment:          st.Payment,
		FormStep:         st.FormStep,
		IsLoading:        st.IsLoading,
	}
	if st.UserInfo != nil {
		info := *st.UserInfo
		snapshot.UserInfo = &info
	}

	return snapshot
}

// FetchBarbers loads the barber catalog.
func (s *reservationStore) FetchBarbers(ctx context.Context) ([]entity.Barber, error) {
	s.dispatch(reservation.LoadingSet{Loading: true})
	defer s.dispatch(reservation.LoadingSet{Loading: false})

	barbers, err := s.backend.ListBarbers(ctx)
	if err != nil {
		s.log(ctx).Warn("Failed to fetch barbers", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to fetch barbers")
	}

	s.dispatch(reservation.BarbersLoaded{Barbers: barbers})

	return barbers, nil
}

// FetchServices loads the service catalog and recomputes totals against it.
func (s *reservationStore) FetchServices(ctx context.Context) ([]entity.Service, error) {
	s.dispatch(reservation.LoadingSet{Loading: true})
	defer s.dispatch(reservation.LoadingSet{Loading: false})

	services, err := s.backend.ListServices(ctx)
	if err != nil {
		s.log(ctx).Warn("Failed to fetch services", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to fetch services")
	}

	s.dispatch(reservation.ServicesLoaded{Services: services})

	return services, nil
}

// SetBarber selects a barber from the loaded catalog.
func (s *reservationStore) SetBarber(ctx context.Context, barberID int64) error {
	st := s.current()
	if len(st.Barbers) > 0 && !slices.ContainsFunc(st.Barbers, func(b entity.Barber) bool { return b.ID == barberID }) {
		return errors.WithStack(domainerrors.ErrValidationFailed.WithMessage("آرایشگر انتخاب شده یافت نشد"))
	}

	_, effects := s.dispatch(reservation.BarberSelected{BarberID: barberID})

	s.run(ctx, effects)

	return nil
}

// SetDate selects a bookable date and reloads availability.
func (s *reservationStore) SetDate(ctx context.Context, date string) error {
	if err := reservation.ValidateDate(date, s.now(), s.rules); err != nil {
		return err
	}

	_, effects := s.dispatch(reservation.DateSelected{Date: date})

	s.run(ctx, effects)

	return nil
}

// SetTime selects a slot of the loaded availability.
func (s *reservationStore) SetTime(_ context.Context, code string) error {
	if code != "" {
		if err := reservation.CheckTime(s.current(), code); err != nil {
			return err
		}
	}

	s.dispatch(reservation.TimeSelected{Time: code})

	return nil
}

// ToggleService adds or removes a service of the loaded catalog.
func (s *reservationStore) ToggleService(ctx context.Context, serviceID int64) error {
	st := s.current()
	if !st.Selection.HasService(serviceID) && len(st.Services) > 0 &&
		!slices.ContainsFunc(st.Services, func(svc entity.Service) bool { return svc.ID == serviceID }) {
		return errors.WithStack(domainerrors.ErrUnknownService)
	}

	_, effects := s.dispatch(reservation.ServiceToggled{ServiceID: serviceID})

	s.run(ctx, effects)

	return nil
}

// FetchTimeSlots loads availability for the selected barber and date.
func (s *reservationStore) FetchTimeSlots(ctx context.Context) ([]entity.TimeGroupView, error) {
	s.mu.Lock()
	sel := s.state.Selection
	if sel.BarberID == nil || sel.Date == nil {
		s.mu.Unlock()

		return nil, errors.WithStack(domainerrors.ErrBarberAndDateRequired)
	}

	query := service.AvailabilityQuery{
		BarberID:      *sel.BarberID,
		Date:          *sel.Date,
		TotalDuration: s.state.Totals.TotalDuration,
	}
	s.state, _ = reservation.Reduce(s.state, reservation.SlotsRequested{}, s.rules)
	generation := s.state.SlotGeneration
	s.mu.Unlock()

	groups, err := s.backend.Availability(ctx, query)
	if err != nil {
		s.dispatch(reservation.SlotsFailed{Generation: generation})
		s.log(ctx).Warn("Failed to fetch time slots",
			slog.Int64("barber_id", query.BarberID),
			slog.String("date", query.Date),
			slog.Any("error", err),
		)

		return nil, errors.Wrap(err, "failed to fetch time slots")
	}

	st, _ := s.dispatch(reservation.SlotsLoaded{Generation: generation, Groups: groups})
	if st.SlotGeneration != generation {
		s.log(ctx).Debug("Discarded stale time slots", slog.Uint64("generation", generation))
	}

	return snapshotOf(st).TimeGroups, nil
}

func (s *reservationStore) CheckSelection() error {
	return reservation.MissingStep(s.current())
}

func (s *reservationStore) SetUserInfo(_ context.Context, info entity.UserInfo) {
	s.dispatch(reservation.UserInfoSet{Info: info})
}

func (s *reservationStore) SetFormStep(_ context.Context, step entity.FormStep) {
	s.dispatch(reservation.FormStepSet{Step: step})
}

// CreateAppointmentAndPayment books the selection, then requests the payment redirect.
func (s *reservationStore) CreateAppointmentAndPayment(ctx context.Context, token string) (*entity.PaymentLink, error) {
	if token == "" {
		return nil, errors.WithStack(domainerrors.ErrNotLoggedIn)
	}

	st := s.current()
	sel := st.Selection
	if !sel.IsComplete() || st.UserInfo == nil {
		return nil, errors.WithStack(domainerrors.ErrIncompleteBooking)
	}

	req := &entity.AppointmentRequest{
		BarberID:      *sel.BarberID,
		Date:          *sel.Date,
		Time:          *sel.Time,
		CustomerName:  st.UserInfo.Name,
		Phone:         st.UserInfo.Phone,
		Services:      slices.Clone(sel.ServiceIDs),
		TotalPrice:    st.Totals.TotalPrice,
		TotalDuration: st.Totals.TotalDuration,
	}

	s.dispatch(reservation.LoadingSet{Loading: true})
	defer s.dispatch(reservation.LoadingSet{Loading: false})

	created, err := s.backend.CreateAppointment(ctx, token, req)
	if err != nil {
		return nil, s.bookingFailed(ctx, errors.Wrap(err, "failed to create appointment"))
	}
	s.dispatch(reservation.AppointmentCreated{AppointmentID: created.AppointmentID})

	s.log(ctx).Info("Appointment created",
		slog.Int64("appointment_id", created.AppointmentID),
		slog.Int64("barber_id", req.BarberID),
		slog.String("date", req.Date),
		slog.String("time", req.Time),
	)

	link, err := s.backend.CreatePayment(ctx, token, created.AppointmentID)
	if err != nil {
		return nil, s.bookingFailed(ctx, errors.Wrap(err, "failed to create payment"))
	}
	s.dispatch(reservation.PaymentLinkReady{URL: link.PaymentURL, Authority: link.Authority})

	return link, nil
}

// bookingFailed reloads availability when the slot turned out to be held by someone else.
func (s *reservationStore) bookingFailed(ctx context.Context, err error) error {
	if !errors.Is(err, domainerrors.ErrSlotConflict) {
		s.log(ctx).Warn("Booking failed", slog.Any("error", err))

		return err
	}

	s.log(ctx).Info("Slot is pending for another customer, refreshing availability")
	if _, fetchErr := s.FetchTimeSlots(ctx); fetchErr != nil {
		s.log(ctx).Warn("Failed to refresh time slots after conflict", slog.Any("error", fetchErr))
	}

	return err
}

// GetPaymentStatus polls the payment of an appointment and caches its state.
func (s *reservationStore) GetPaymentStatus(ctx context.Context, token string, appointmentID int64) (*entity.PaymentStatus, error) {
	if appointmentID == 0 {
		if id := s.current().Payment.AppointmentID; id != nil {
			appointmentID = *id
		}
	}
	if appointmentID == 0 {
		return nil, errors.WithStack(domainerrors.ErrNotFound.WithMessage("اطلاعات پرداخت یافت نشد"))
	}

	status, err := s.backend.PaymentStatus(ctx, token, appointmentID)
	if err != nil {
		s.log(ctx).Warn("Failed to get payment status", slog.Int64("appointment_id", appointmentID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to get payment status")
	}

	s.dispatch(reservation.PaymentStatusLoaded{Status: status.Status, RefID: status.RefID})

	return status, nil
}

func (s *reservationStore) SetPaymentRefID(_ context.Context, refID string) {
	s.dispatch(reservation.PaymentRefIDSet{RefID: refID})
}

func (s *reservationStore) Reset(_ context.Context) {
	s.dispatch(reservation.Reset{})
}

func (s *reservationStore) ClearState(_ context.Context) {
	s.dispatch(reservation.Cleared{})
}
