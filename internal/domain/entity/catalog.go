package entity

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Barber is a member of staff that can be booked.
type Barber struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Specialty string `json:"specialty"`
	Available bool   `json:"available"`
}

// Service is a bookable service. Price and duration arrive as strings, the price with thousands separators.
type Service struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Price       string `json:"price"`    // e.g. "100,000" (Toman)
	Duration    string `json:"duration"` // minutes, e.g. "30"
	Description string `json:"description,omitempty"`
}

// PriceAmount parses the price string, ignoring thousands separators.
func (s Service) PriceAmount() (int64, error) {
	raw := strings.NewReplacer(",", "", "٬", "", " ", "").Replace(s.Price)
	amount, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parse price of service %d", s.ID)
	}

	return amount, nil
}

// DurationMinutes parses the duration string.
func (s Service) DurationMinutes() (int, error) {
	minutes, err := strconv.Atoi(strings.TrimSpace(s.Duration))
	if err != nil {
		return 0, errors.Wrapf(err, "parse duration of service %d", s.ID)
	}

	return minutes, nil
}
