package errors

import (
	"net/http"
	"testing"

	"barbershop/internal/errors"

	"github.com/stretchr/testify/assert"
)

func TestBaseError_IsMatchesKind(t *testing.T) {
	reworded := ErrValidationFailed.WithMessage("شماره موبایل الزامی است")

	assert.True(t, errors.Is(reworded, ErrValidationFailed))
	assert.True(t, errors.Is(ErrInvalidPhoneNumber, ErrValidationFailed))
	assert.False(t, errors.Is(reworded, ErrSlotConflict))
	assert.Equal(t, "شماره موبایل الزامی است", reworded.Message())
}

func TestBackendError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewBackendError(ErrBackendUnavailable, 0, "", cause)

	assert.True(t, errors.Is(err, ErrBackendUnavailable))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, ErrBackendUnavailable.Message(), err.Message())
	assert.Equal(t, http.StatusServiceUnavailable, err.HTTPCode())
	assert.Equal(t, CodeBackendUnavailable, err.ErrorCode())

	conflict := NewBackendError(ErrSlotConflict, http.StatusBadRequest, "", nil)
	wrapped := errors.Wrap(conflict, "create appointment")
	assert.True(t, errors.Is(wrapped, ErrSlotConflict))

	appErr, ok := errors.AsType[AppError](wrapped)
	assert.True(t, ok)
	assert.Equal(t, CodeSlotConflict, appErr.ErrorCode())
	assert.Equal(t, http.StatusBadRequest, conflict.StatusCode())
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, ErrForbidden.Message(), MessageOf(errors.Wrap(ErrForbidden, "details")))
	assert.Equal(t, ErrBackendUnavailable.Message(), MessageOf(errors.New("boom")))
}
