// Package reservation is the booking workflow as a pure reducer: a State snapshot,
// Actions that produce a new snapshot, and Effects the caller must run afterwards.
// Nothing in here performs I/O or reads the clock.
package reservation

import (
	"slices"

	"barbershop/internal/domain/entity"
	"barbershop/internal/domain/timeslot"
)

// Rules are the booking rules the reducer applies.
type Rules struct {
	DoubleSlotThreshold int      // total duration (minutes) above which two slots are needed
	DepositPercent      int      // share of the total price paid up front
	FridayAllowedSlots  []string // slot codes bookable on Fridays
	DisabledDates       []string // YYYY-MM-DD dates that cannot be booked
}

// State is an immutable snapshot of one client's booking.
type State struct {
	Barbers        []entity.Barber
	Services       []entity.Service
	TimeGroups     []entity.TimeGroup
	Selection      entity.BookingSelection
	Totals         entity.DerivedTotals
	Payment        entity.PaymentFlow
	UserInfo       *entity.UserInfo
	FormStep       entity.FormStep
	IsLoading      bool
	SlotGeneration uint64 // bumped for every slot fetch; older responses are dropped
}

// Initial returns the empty booking.
func Initial() State {
	return State{FormStep: entity.FormStepServices}
}

// Effect is follow-up work requested by a reduction.
type Effect interface {
	isEffect()
}

// FetchSlots asks for the availability of the selected barber and date to be reloaded.
type FetchSlots struct{}

func (FetchSlots) isEffect() {}

// Action is a state transition.
type Action interface {
	apply(s State, rules Rules) (State, []Effect)
}

// Reduce applies a to s. The returned state shares no mutable slices with s.
func Reduce(s State, a Action, rules Rules) (State, []Effect) {
	return a.apply(s, rules)
}

// ComputeTotals sums price and duration of the selected services. Unknown or
// unparsable services contribute nothing.
func ComputeTotals(serviceIDs []int64, catalog []entity.Service, rules Rules) entity.DerivedTotals {
	var totals entity.DerivedTotals
	for _, id := range serviceIDs {
		idx := slices.IndexFunc(catalog, func(s entity.Service) bool { return s.ID == id })
		if idx < 0 {
			continue
		}

		price, err := catalog[idx].PriceAmount()
		if err != nil {
			continue
		}
		duration, err := catalog[idx].DurationMinutes()
		if err != nil {
			continue
		}

		totals.TotalPrice += price
		totals.TotalDuration += duration
	}

	totals.DepositAmount = totals.TotalPrice * int64(rules.DepositPercent) / 100
	totals.NeedsDoubleSlot = totals.TotalDuration > rules.DoubleSlotThreshold

	return totals
}

// BarbersLoaded stores the barber catalog.
type BarbersLoaded struct{ Barbers []entity.Barber }

func (a BarbersLoaded) apply(s State, _ Rules) (State, []Effect) {
	s.Barbers = slices.Clone(a.Barbers)

	return s, nil
}

// ServicesLoaded stores the service catalog and recomputes totals against it.
type ServicesLoaded struct{ Services []entity.Service }

func (a ServicesLoaded) apply(s State, rules Rules) (State, []Effect) {
	s.Services = slices.Clone(a.Services)
	s.Totals = ComputeTotals(s.Selection.ServiceIDs, s.Services, rules)

	return s, nil
}

// BarberSelected picks a barber; date, time and loaded slots belong to the previous barber and are dropped.
type BarberSelected struct{ BarberID int64 }

func (a BarberSelected) apply(s State, _ Rules) (State, []Effect) {
	id := a.BarberID
	s.Selection.BarberID = &id
	s.Selection.Date = nil
	s.Selection.Time = nil
	s.TimeGroups = nil
	s.SlotGeneration++
	s.IsLoading = false

	return s, nil
}

// DateSelected picks a date, clears the time and requests fresh availability
// once a barber is selected.
type DateSelected struct{ Date string }

func (a DateSelected) apply(s State, _ Rules) (State, []Effect) {
	date := a.Date
	s.Selection.Date = &date
	s.Selection.Time = nil

	if s.Selection.BarberID == nil {
		return s, nil
	}

	return s, []Effect{FetchSlots{}}
}

// TimeSelected picks (or with an empty Time, clears) the slot.
type TimeSelected struct{ Time string }

func (a TimeSelected) apply(s State, _ Rules) (State, []Effect) {
	if a.Time == "" {
		s.Selection.Time = nil

		return s, nil
	}

	t := a.Time
	s.Selection.Time = &t

	return s, nil
}

// ServiceToggled adds or removes a service, recomputes totals and clears the time,
// since a different duration changes which slots are long enough.
type ServiceToggled struct{ ServiceID int64 }

func (a ServiceToggled) apply(s State, rules Rules) (State, []Effect) {
	ids := make([]int64, 0, len(s.Selection.ServiceIDs)+1)
	removed := false
	for _, id := range s.Selection.ServiceIDs {
		if id == a.ServiceID {
			removed = true

			continue
		}
		ids = append(ids, id)
	}
	if !removed {
		ids = append(ids, a.ServiceID)
	}

	s.Selection.ServiceIDs = ids
	s.Totals = ComputeTotals(ids, s.Services, rules)
	s.Selection.Time = nil

	if s.Selection.BarberID == nil || s.Selection.Date == nil {
		return s, nil
	}

	return s, []Effect{FetchSlots{}}
}

// SlotsRequested marks a new availability request as the current one.
type SlotsRequested struct{}

func (SlotsRequested) apply(s State, _ Rules) (State, []Effect) {
	s.SlotGeneration++
	s.IsLoading = true

	return s, nil
}

// SlotsLoaded delivers availability for the request stamped with Generation.
type SlotsLoaded struct {
	Generation uint64
	Groups     []entity.TimeGroup
}

func (a SlotsLoaded) apply(s State, rules Rules) (State, []Effect) {
	if a.Generation != s.SlotGeneration {
		return s, nil
	}

	groups := entity.CloneGroups(a.Groups)
	if s.Selection.Date != nil {
		if friday, err := timeslot.IsFriday(*s.Selection.Date); err == nil && friday {
			groups = timeslot.FilterAllowed(groups, rules.FridayAllowedSlots)
		}
	}

	s.TimeGroups = groups
	s.IsLoading = false
	if s.Selection.Time != nil {
		if _, ok := timeslot.Find(groups, *s.Selection.Time); !ok {
			s.Selection.Time = nil
		}
	}

	return s, nil
}

// SlotsFailed reports that the request stamped with Generation failed.
type SlotsFailed struct{ Generation uint64 }

func (a SlotsFailed) apply(s State, _ Rules) (State, []Effect) {
	if a.Generation != s.SlotGeneration {
		return s, nil
	}

	s.TimeGroups = []entity.TimeGroup{}
	s.IsLoading = false

	return s, nil
}

// UserInfoSet attaches the customer identity used for the appointment.
type UserInfoSet struct{ Info entity.UserInfo }

func (a UserInfoSet) apply(s State, _ Rules) (State, []Effect) {
	info := a.Info
	s.UserInfo = &info

	return s, nil
}

// FormStepSet switches the visible form step.
type FormStepSet struct{ Step entity.FormStep }

func (a FormStepSet) apply(s State, _ Rules) (State, []Effect) {
	s.FormStep = a.Step

	return s, nil
}

// LoadingSet toggles the busy flag.
type LoadingSet struct{ Loading bool }

func (a LoadingSet) apply(s State, _ Rules) (State, []Effect) {
	s.IsLoading = a.Loading

	return s, nil
}

// AppointmentCreated records the id of the appointment just created.
type AppointmentCreated struct{ AppointmentID int64 }

func (a AppointmentCreated) apply(s State, _ Rules) (State, []Effect) {
	id := a.AppointmentID
	s.Payment.AppointmentID = &id

	return s, nil
}

// PaymentLinkReady records the gateway redirect for the appointment.
type PaymentLinkReady struct {
	URL       string
	Authority string
}

func (a PaymentLinkReady) apply(s State, _ Rules) (State, []Effect) {
	s.Payment.PaymentURL = a.URL
	s.Payment.PaymentAuthority = a.Authority

	return s, nil
}

// PaymentStatusLoaded caches the polled payment state.
type PaymentStatusLoaded struct {
	Status entity.PaymentState
	RefID  string
}

func (a PaymentStatusLoaded) apply(s State, _ Rules) (State, []Effect) {
	s.Payment.PaymentStatus = a.Status
	s.Payment.PaymentRefID = a.RefID

	return s, nil
}

// PaymentRefIDSet records the gateway reference taken from a redirect URL.
type PaymentRefIDSet struct{ RefID string }

func (a PaymentRefIDSet) apply(s State, _ Rules) (State, []Effect) {
	s.Payment.PaymentRefID = a.RefID

	return s, nil
}

// Reset zeroes selection, totals, customer identity and payment data.
type Reset struct{}

func (Reset) apply(s State, _ Rules) (State, []Effect) {
	return cleared(s), nil
}

// Cleared is Reset plus dropping the busy flag; used on a fresh visit to the booking page.
type Cleared struct{}

func (Cleared) apply(s State, _ Rules) (State, []Effect) {
	s = cleared(s)
	s.IsLoading = false

	return s, nil
}

func cleared(s State) State {
	s.Selection = entity.BookingSelection{}
	s.Totals = entity.DerivedTotals{}
	s.UserInfo = nil
	s.Payment = entity.PaymentFlow{}

	return s
}
