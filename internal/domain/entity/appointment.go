package entity

// PaymentState is the backend payment lifecycle value.
type PaymentState string

const (
	PaymentPending PaymentState = "PENDING"
	PaymentPaid    PaymentState = "PAID"
	PaymentFailed  PaymentState = "FAILED"
)

// AppointmentRequest is the body of an appointment creation call.
type AppointmentRequest struct {
	BarberID      int64   `json:"barber_id"`
	Date          string  `json:"date"` // Gregorian YYYY-MM-DD
	Time          string  `json:"time"` // slot code
	CustomerName  string  `json:"customer_name"`
	Phone         string  `json:"phone"`
	Services      []int64 `json:"services"`
	TotalPrice    int64   `json:"total_price"`
	TotalDuration int     `json:"total_duration"`
}

// AppointmentCreated is the backend answer to an appointment creation call.
type AppointmentCreated struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	AppointmentID int64  `json:"appointment_id,omitempty"`
}

// PaymentLink is the backend answer to a payment creation call.
type PaymentLink struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	PaymentURL string `json:"payment_url,omitempty"`
	Authority  string `json:"authority,omitempty"`
}

// PaymentStatus is the payment state of an appointment.
type PaymentStatus struct {
	AppointmentID int64        `json:"appointment_id"`
	PaymentID     int64        `json:"payment_id"`
	Status        PaymentState `json:"status"`
	Amount        int64        `json:"amount"`
	RefID         string       `json:"ref_id,omitempty"`
	CreatedAt     string       `json:"created_at"`
	Message       string       `json:"message"`
}

// IsSettled reports whether the payment is PAID with a gateway reference.
func (p *PaymentStatus) IsSettled() bool {
	return p != nil && p.Status == PaymentPaid && p.RefID != ""
}

// AppointmentDetails is a confirmed booking looked up by payment reference.
type AppointmentDetails struct {
	ID            int64     `json:"id"`
	BarberID      int64     `json:"barber_id"`
	BarberName    string    `json:"barber_name"`
	CustomerName  string    `json:"customer_name"`
	Phone         string    `json:"phone"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	DoubleSlot    bool      `json:"double_slot"`
	SecondSlot    string    `json:"second_slot,omitempty"`
	TotalPrice    int64     `json:"total_price"`
	TotalDuration int       `json:"total_duration"`
	Services      []Service `json:"services"`
	Payment       struct {
		ID        int64  `json:"id"`
		Status    string `json:"status"`
		RefID     string `json:"ref_id"`
		CreatedAt string `json:"created_at"`
	} `json:"payment"`
}

// AppointmentSummary is one entry of the customer's appointment history.
type AppointmentSummary struct {
	ID            int64     `json:"id"`
	BarberID      int64     `json:"barber_id"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	TotalPrice    int64     `json:"total_price"`
	TotalDuration int       `json:"total_duration"`
	DepositAmount int64     `json:"deposit_amount,omitempty"`
	DoubleSlot    bool      `json:"double_slot"`
	SecondSlot    string    `json:"second_slot,omitempty"`
	IsBeforeRest  bool      `json:"is_before_rest"`
	IsEndOfShift  bool      `json:"is_end_of_shift"`
	CreatedAt     string    `json:"created_at"`
	Services      []Service `json:"services"`
	UserID        int64     `json:"user_id"`
	Barber        *Barber   `json:"barber,omitempty"`
	Payment       *struct {
		ID        int64  `json:"id"`
		Status    string `json:"status"`
		Amount    int64  `json:"amount"`
		RefID     string `json:"ref_id,omitempty"`
		CreatedAt string `json:"created_at"`
	} `json:"payment,omitempty"`
}

// AppointmentPage is one page of appointment history.
type AppointmentPage struct {
	Total        int                  `json:"total"`
	Appointments []AppointmentSummary `json:"appointments"`
}
