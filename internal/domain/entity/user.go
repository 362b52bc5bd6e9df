// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "strings"

// User is the customer profile as returned by the booking backend.
type User struct {
	ID                  int64   `json:"id"`                    // Backend user identifier.
	FirstName           string  `json:"firstname"`             // Empty until the customer completes registration.
	LastName            string  `json:"lastname"`              // Empty until the customer completes registration.
	PhoneNumber         string  `json:"phone_number"`          // Mobile number in 09xxxxxxxxx form.
	CreatedAt           string  `json:"created_at"`            // Account creation time as sent by the backend.
	LastLogin           string  `json:"last_login"`            // Last successful login as sent by the backend.
	IsBlocked           bool    `json:"is_blocked"`            // Set when the backend blocked the account (e.g. failed payments).
	BlockUntil          *string `json:"block_until"`           // End of the block period, if any.
	FailedPaymentsCount int     `json:"failed_payments_count"` // Number of abandoned or failed payments.
}

// IsComplete reports whether both first and last name are present.
func (u *User) IsComplete() bool {
	return u != nil && u.FirstName != "" && u.LastName != ""
}

// FullName joins first and last name the way the checkout form shows them.
func (u *User) FullName() string {
	if u == nil {
		return ""
	}

	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// UserStatus is the account status summary served by the backend.
type UserStatus struct {
	UserID                int64   `json:"user_id"`
	IsBlocked             bool    `json:"is_blocked"`
	BlockUntil            *string `json:"block_until"`
	HasPendingAppointment bool    `json:"has_pending_appointment"`
	FailedPaymentsCount   int     `json:"failed_payments_count"`
	IsProfileComplete     bool    `json:"is_profile_complete"`
	LastLogin             *string `json:"last_login"`
}
