package timeslot

import (
	"time"

	"barbershop/internal/domain/entity"

	"github.com/pkg/errors"
)

// DateLayout is the wire format of booking dates.
const DateLayout = "2006-01-02"

// Status labels shown next to each slot.
const (
	StatusBooked          = "رزرو شده"
	StatusPending         = "در حال رزرو"
	StatusPast            = "زمان گذشته"
	StatusNextSlotPending = "نوبت بعدی در حال رزرو"
	StatusUnavailable     = "غیرقابل انتخاب"
	StatusBookable        = "قابل رزرو"
)

// ParseDate parses a Gregorian YYYY-MM-DD booking date.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid date %q", date)
	}

	return t, nil
}

// IsFriday reports whether the booking date falls on a Friday.
func IsFriday(date string) (bool, error) {
	t, err := ParseDate(date)
	if err != nil {
		return false, err
	}

	return t.Weekday() == time.Friday, nil
}

// Status decides whether slot can start a booking and which label it gets.
// A slot that needs a following slot is only selectable when that slot is free;
// end-of-shift and before-rest slots are exempt from that requirement.
func Status(slot entity.TimeSlot, needsDouble bool) (bool, string) {
	switch {
	case slot.IsBooked:
		return false, StatusBooked
	case slot.IsPending:
		return false, StatusPending
	case slot.IsPast:
		return false, StatusPast
	case !slot.Available:
		return false, StatusUnavailable
	}

	if needsDouble && !slot.IsEndOfShift && !slot.IsBeforeRest {
		if slot.NextSlotPending {
			return false, StatusNextSlotPending
		}
		if !slot.NextSlotAvailable {
			return false, StatusUnavailable
		}
	}

	return true, StatusBookable
}

// FilterAllowed keeps only slots whose code is in allowed and drops groups left empty.
func FilterAllowed(groups []entity.TimeGroup, allowed []string) []entity.TimeGroup {
	set := make(map[string]struct{}, len(allowed))
	for _, code := range allowed {
		set[code] = struct{}{}
	}

	out := make([]entity.TimeGroup, 0, len(groups))
	for _, g := range groups {
		slots := make([]entity.TimeSlot, 0, len(g.Slots))
		for _, s := range g.Slots {
			if _, ok := set[s.Time]; ok {
				slots = append(slots, s)
			}
		}
		if len(slots) > 0 {
			out = append(out, entity.TimeGroup{Label: g.Label, Slots: slots})
		}
	}

	return out
}

// Find returns the slot with the given code.
func Find(groups []entity.TimeGroup, code string) (entity.TimeSlot, bool) {
	for _, g := range groups {
		for _, s := range g.Slots {
			if s.Time == code {
				return s, true
			}
		}
	}

	return entity.TimeSlot{}, false
}

// Annotate builds the display view of groups for the current booking.
func Annotate(groups []entity.TimeGroup, needsDouble bool, selected string) []entity.TimeGroupView {
	views := make([]entity.TimeGroupView, 0, len(groups))
	for _, g := range groups {
		view := entity.TimeGroupView{Label: g.Label, Slots: make([]entity.SlotView, 0, len(g.Slots))}
		for _, s := range g.Slots {
			selectable, status := Status(s, needsDouble)
			view.Slots = append(view.Slots, entity.SlotView{
				TimeSlot:   s,
				Selectable: selectable,
				Status:     status,
				Selected:   selected != "" && s.Time == selected,
			})
		}
		views = append(views, view)
	}

	return views
}
