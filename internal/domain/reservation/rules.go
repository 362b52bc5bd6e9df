package reservation

import (
	"slices"
	"time"

	domainerrors "barbershop/internal/domain/errors"
	"barbershop/internal/domain/timeslot"

	"github.com/pkg/errors"
)

// ValidateDate rejects malformed, disabled and past booking dates. today is the
// customer's current calendar day; only its date part is used.
func ValidateDate(date string, today time.Time, rules Rules) error {
	day, err := timeslot.ParseDate(date)
	if err != nil {
		return errors.Wrap(domainerrors.ErrInvalidDate, err.Error())
	}

	if slices.Contains(rules.DisabledDates, date) {
		return errors.WithStack(domainerrors.ErrDateDisabled)
	}

	y, m, d := today.Date()
	if day.Before(time.Date(y, m, d, 0, 0, 0, 0, time.UTC)) {
		return errors.WithStack(domainerrors.ErrDateInPast)
	}

	return nil
}

// CheckTime verifies that code names a slot the current booking may start at.
// Without loaded availability the choice is accepted as is.
func CheckTime(s State, code string) error {
	if len(s.TimeGroups) == 0 {
		return nil
	}

	slot, ok := timeslot.Find(s.TimeGroups, code)
	if !ok {
		return errors.WithStack(domainerrors.ErrTimeNotSelectable)
	}

	if selectable, status := timeslot.Status(slot, s.Totals.NeedsDoubleSlot); !selectable {
		return errors.WithStack(domainerrors.ErrTimeNotSelectable.WithDetails(status))
	}

	return nil
}

// MissingStep returns the error for the first booking step not yet completed, or nil.
func MissingStep(s State) error {
	switch {
	case s.Selection.BarberID == nil:
		return domainerrors.ErrIncompleteBooking.WithMessage("آرایشگر مورد نظر را انتخاب کنید")
	case len(s.Selection.ServiceIDs) == 0:
		return domainerrors.ErrIncompleteBooking.WithMessage("حداقل یک خدمت را انتخاب کنید")
	case s.Selection.Date == nil:
		return domainerrors.ErrIncompleteBooking.WithMessage("تاریخ مورد نظر را انتخاب کنید")
	case s.Selection.Time == nil:
		return domainerrors.ErrIncompleteBooking.WithMessage("ساعت مورد نظر را انتخاب کنید")
	}

	return nil
}
