// Package timeslot holds the calendar arithmetic of half-hour booking slots.
//
// Slot codes are "<start>-<end>" where each side is a minimal time encoding:
// "H"/"HH" for a full hour and "HMM"/"HHMM" otherwise ("10-1030", "1030-11").
// Parsing and formatting of that encoding happen only in this package; everything
// else works with TimeOfDay values.
package timeslot

import (
	"fmt"
	"strconv"
	"strings"

	"barbershop/internal/domain/entity"

	"github.com/pkg/errors"
)

// SlotLength is the length of one calendar slot in minutes.
const SlotLength = 30

// TimeOfDay is a wall-clock time as minutes since midnight.
type TimeOfDay int

// ParseTimeOfDay parses the minimal encoding ("9", "10", "930", "1030").
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 4 {
		return 0, errors.Errorf("invalid time %q", s)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, errors.Errorf("invalid time %q", s)
		}
	}

	hourPart, minutePart := s, ""
	if len(s) > 2 {
		hourPart, minutePart = s[:len(s)-2], s[len(s)-2:]
	}

	hour, err := strconv.Atoi(hourPart)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid hour in %q", s)
	}
	minute := 0
	if minutePart != "" {
		if minute, err = strconv.Atoi(minutePart); err != nil {
			return 0, errors.Wrapf(err, "invalid minute in %q", s)
		}
	}

	if hour > 24 || minute >= 60 || (hour == 24 && minute != 0) {
		return 0, errors.Errorf("time %q out of range", s)
	}

	return TimeOfDay(hour*60 + minute), nil
}

// Hour returns the hour component.
func (t TimeOfDay) Hour() int {
	return int(t) / 60
}

// Minute returns the minute component.
func (t TimeOfDay) Minute() int {
	return int(t) % 60
}

// Add returns t shifted by the given number of minutes, carrying into the hour.
func (t TimeOfDay) Add(minutes int) TimeOfDay {
	return TimeOfDay(int(t) + minutes)
}

// Code formats t in the minimal encoding; the minute suffix is omitted on the hour.
func (t TimeOfDay) Code() string {
	if t.Minute() == 0 {
		return strconv.Itoa(t.Hour())
	}

	return fmt.Sprintf("%d%02d", t.Hour(), t.Minute())
}

// Clock formats t as H:MM for display.
func (t TimeOfDay) Clock() string {
	return fmt.Sprintf("%d:%02d", t.Hour(), t.Minute())
}

// Range is one slot, from Start to End.
type Range struct {
	Start TimeOfDay
	End   TimeOfDay
}

// ParseRange parses a slot code such as "1030-11".
func ParseRange(code string) (Range, error) {
	start, end, ok := strings.Cut(strings.TrimSpace(code), "-")
	if !ok {
		return Range{}, errors.Errorf("invalid slot code %q", code)
	}

	s, err := ParseTimeOfDay(start)
	if err != nil {
		return Range{}, errors.Wrapf(err, "slot %q", code)
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		return Range{}, errors.Wrapf(err, "slot %q", code)
	}
	if e <= s {
		return Range{}, errors.Errorf("slot %q ends before it starts", code)
	}

	return Range{Start: s, End: e}, nil
}

// Code formats the range as a slot code.
func (r Range) Code() string {
	return r.Start.Code() + "-" + r.End.Code()
}

// Next is the half-hour slot that starts where r ends.
func (r Range) Next() Range {
	return Range{Start: r.End, End: r.End.Add(SlotLength)}
}

// Last slots of each half-day have no real successor; these stand in for it.
var virtualSuccessors = map[string]string{
	"13-1330": "1330-14",
	"21-2130": "2130-22",
}

// VirtualNext returns the stand-in successor of an end-of-shift slot.
func VirtualNext(code string) (string, bool) {
	next, ok := virtualSuccessors[code]

	return next, ok
}

// SecondSlot returns the code of the slot a double booking starting at slot also occupies.
func SecondSlot(slot entity.TimeSlot, needsDouble bool) (string, bool) {
	if !needsDouble || slot.IsBeforeRest {
		return "", false
	}

	if slot.IsEndOfShift {
		return VirtualNext(slot.Time)
	}

	r, err := ParseRange(slot.Time)
	if err != nil {
		return "", false
	}

	return r.Next().Code(), true
}

// Describe renders the selected time, e.g. "ساعت 10:30 و 11:00" for a double booking.
func Describe(slot entity.TimeSlot, needsDouble bool) string {
	first, err := ParseRange(slot.Time)
	if err != nil {
		return "ساعت " + slot.Time
	}

	text := "ساعت " + first.Start.Clock()
	if code, ok := SecondSlot(slot, needsDouble); ok {
		if second, err := ParseRange(code); err == nil {
			text += " و " + second.Start.Clock()
		}
	}

	return text
}
