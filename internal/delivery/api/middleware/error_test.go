package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"barbershop/internal/delivery/api/response"
	domainerrors "barbershop/internal/domain/errors"
	"barbershop/internal/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMiddleware_HandleHTTPError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{
			name:    "app error",
			err:     errors.Wrap(domainerrors.ErrDateInPast, "set date"),
			status:  http.StatusBadRequest,
			code:    domainerrors.CodeValidationFailed,
			message: domainerrors.ErrDateInPast.Message(),
		},
		{
			name:    "backend error keeps its message",
			err:     domainerrors.NewBackendError(domainerrors.ErrSlotConflict, http.StatusConflict, "این زمان قبلاً رزرو شده است", nil),
			status:  domainerrors.ErrSlotConflict.HTTPCode(),
			code:    domainerrors.CodeSlotConflict,
			message: "این زمان قبلاً رزرو شده است",
		},
		{
			name:    "echo error",
			err:     echo.NewHTTPError(http.StatusMethodNotAllowed),
			status:  http.StatusMethodNotAllowed,
			code:    "HTTP_ERROR",
			message: http.StatusText(http.StatusMethodNotAllowed),
		},
		{
			name:    "unknown error is hidden",
			err:     errors.New("pq: connection refused"),
			status:  http.StatusInternalServerError,
			code:    domainerrors.CodeInternalError,
			message: domainerrors.ErrInternalError.Message(),
		},
	}

	m := NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			m.HandleHTTPError(tt.err, c)

			assert.Equal(t, tt.status, rec.Code)

			var body response.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.Equal(t, tt.message, body.Error.Message)
		})
	}
}

func TestErrorMiddleware_SkipsCommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, c.String(http.StatusOK, "done"))

	NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))).HandleHTTPError(errors.New("late"), c)

	assert.Equal(t, "done", rec.Body.String())
}
