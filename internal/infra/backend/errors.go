package backend

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	domainerrors "barbershop/internal/domain/errors"
)

// pendingKeywords identify a "slot is being booked by someone else" failure in backends
// that do not send a machine-readable code.
var pendingKeywords = []string{
	"در حال رزرو",
	"شخص دیگری",
	"منتظر بمانید",
	"نوبت دیگری",
	"انتخاب کنید",
	"پندینگ",
	"در دسترس نیست",
	"قبلاً رزرو شده",
	"pending",
}

// IsPending reports whether message reads like a pending-slot conflict (case-insensitive).
func IsPending(message string) bool {
	if message == "" {
		return false
	}

	lower := strings.ToLower(message)
	for _, keyword := range pendingKeywords {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			return true
		}
	}

	return false
}

// errorBody is the backend's error envelope. Detail is either a string or an object.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
	Code   string          `json:"code"`
}

// detailMessage renders the detail field: strings as is, anything else as compact JSON.
func (b errorBody) detailMessage() string {
	raw := strings.TrimSpace(string(b.Detail))
	if raw == "" || raw == "null" {
		return ""
	}

	var text string
	if err := json.Unmarshal(b.Detail, &text); err == nil {
		return text
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, b.Detail); err != nil {
		return raw
	}

	return compact.String()
}

// classify turns a non-2xx response into a BackendError of the matching kind.
func classify(status int, raw []byte, c call) *domainerrors.BackendError {
	var body errorBody
	_ = json.Unmarshal(raw, &body)

	if status == http.StatusForbidden {
		message := c.forbidden
		if message == "" {
			message = domainerrors.ErrForbidden.Message()
		}

		return domainerrors.NewBackendError(domainerrors.ErrForbidden, status, message, nil)
	}

	message := body.detailMessage()

	if status == http.StatusUnauthorized {
		if c.unauthorized != "" {
			message = c.unauthorized
		}

		return domainerrors.NewBackendError(domainerrors.ErrUnauthorized, status, message, nil)
	}

	if message == "" {
		message = c.fallback
	}

	if kind := kindOfCode(body.Code); kind != nil {
		if kind == domainerrors.ErrSlotConflict {
			message = domainerrors.ErrSlotConflict.Message()
		}

		return domainerrors.NewBackendError(kind, status, message, nil)
	}

	if c.reservation && IsPending(message) {
		return domainerrors.NewBackendError(domainerrors.ErrSlotConflict, status, domainerrors.ErrSlotConflict.Message(), nil)
	}

	return domainerrors.NewBackendError(kindOfStatus(status), status, message, nil)
}

// rejected classifies a 2xx answer whose body says success=false.
func rejected(status int, message string, c call) *domainerrors.BackendError {
	if message == "" {
		message = c.fallback
	}

	if c.reservation && IsPending(message) {
		return domainerrors.NewBackendError(domainerrors.ErrSlotConflict, status, domainerrors.ErrSlotConflict.Message(), nil)
	}

	return domainerrors.NewBackendError(domainerrors.ErrBackend, status, message, nil)
}

func kindOfCode(code string) *domainerrors.BaseError {
	switch code = strings.ToUpper(strings.TrimSpace(code)); {
	case code == "":
		return nil
	case code == domainerrors.CodeSlotConflict:
		return domainerrors.ErrSlotConflict
	case code == domainerrors.CodeForbidden:
		return domainerrors.ErrForbidden
	case strings.HasPrefix(code, "VALIDATION"):
		return domainerrors.ErrValidationFailed
	}

	return nil
}

func kindOfStatus(status int) *domainerrors.BaseError {
	switch status {
	case http.StatusNotFound:
		return domainerrors.ErrNotFound
	case http.StatusTooManyRequests:
		return domainerrors.ErrRateLimited
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domainerrors.ErrValidationFailed
	case http.StatusConflict:
		return domainerrors.ErrSlotConflict
	}

	return domainerrors.ErrBackend
}
