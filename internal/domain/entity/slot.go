package entity

// TimeSlot is a half-hour calendar slot as served by the availability endpoint.
// Time is a slot code such as "10-1030" or "1030-11".
type TimeSlot struct {
	ID                string `json:"id"`
	Time              string `json:"time"`
	Available         bool   `json:"available"`
	IsPast            bool   `json:"is_past"`
	IsBooked          bool   `json:"is_booked"`
	IsPending         bool   `json:"is_pending"`
	NextSlotAvailable bool   `json:"next_slot_available"`
	NextSlotPending   bool   `json:"next_slot_pending"`
	IsBeforeRest      bool   `json:"is_before_rest,omitempty"`   // Last slot before a break; never paired with a following slot.
	IsEndOfShift      bool   `json:"is_end_of_shift,omitempty"` // Last slot of a half-day; paired with a virtual slot.
}

// TimeGroup is a labelled group of slots (morning, noon, evening, night).
type TimeGroup struct {
	Label string     `json:"label"`
	Slots []TimeSlot `json:"slots"`
}

// SlotView is a slot annotated for display against the current booking.
type SlotView struct {
	TimeSlot
	Selectable bool   `json:"selectable"`
	Status     string `json:"status"`
	Selected   bool   `json:"selected"`
}

// TimeGroupView is a labelled group of annotated slots.
type TimeGroupView struct {
	Label string     `json:"label"`
	Slots []SlotView `json:"slots"`
}

// CloneGroups deep-copies groups so snapshots never share slot slices with store state.
func CloneGroups(groups []TimeGroup) []TimeGroup {
	if groups == nil {
		return nil
	}

	out := make([]TimeGroup, len(groups))
	for i, g := range groups {
		out[i] = TimeGroup{Label: g.Label, Slots: append([]TimeSlot(nil), g.Slots...)}
	}

	return out
}
