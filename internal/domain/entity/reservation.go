package entity

// FormStep is the visible part of the booking form.
type FormStep string

const (
	FormStepServices FormStep = "services"
	FormStepUserInfo FormStep = "userInfo"
)

// BookingSelection is what the customer picked so far. Nil pointers mean "not chosen".
type BookingSelection struct {
	BarberID   *int64  `json:"barber_id"`
	Date       *string `json:"date"` // Gregorian YYYY-MM-DD
	Time       *string `json:"time"` // slot code
	ServiceIDs []int64 `json:"service_ids"`
}

// IsComplete reports whether barber, date, time and at least one service are chosen.
func (b BookingSelection) IsComplete() bool {
	return b.BarberID != nil && b.Date != nil && b.Time != nil && len(b.ServiceIDs) > 0
}

// HasService reports whether id is among the selected services.
func (b BookingSelection) HasService(id int64) bool {
	for _, s := range b.ServiceIDs {
		if s == id {
			return true
		}
	}

	return false
}

// DerivedTotals is computed from the selected services and the catalog.
type DerivedTotals struct {
	TotalPrice      int64 `json:"total_price"`
	TotalDuration   int   `json:"total_duration"`
	DepositAmount   int64 `json:"deposit_amount"`
	NeedsDoubleSlot bool  `json:"needs_double_slot"`
}

// PaymentFlow tracks the appointment and payment created for the current booking.
type PaymentFlow struct {
	AppointmentID    *int64       `json:"appointment_id"`
	PaymentURL       string       `json:"payment_url,omitempty"`
	PaymentAuthority string       `json:"payment_authority,omitempty"`
	PaymentRefID     string       `json:"payment_ref_id,omitempty"`
	PaymentStatus    PaymentState `json:"payment_status,omitempty"`
}

// UserInfo is the customer identity attached to an appointment.
type UserInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}
