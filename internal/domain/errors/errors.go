package errors

import (
	"net/http"

	"barbershop/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// Error kinds shared by the stores, the backend client and the delivery layer.
const (
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeSlotConflict       = "SLOT_CONFLICT"
	CodeForbidden          = "FORBIDDEN"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeIncompleteBooking  = "INCOMPLETE_BOOKING"
	CodeBackendError       = "BACKEND_ERROR"
	CodeBackendUnavailable = "BACKEND_UNAVAILABLE"
	CodeRateLimited        = "RATE_LIMITED"
	CodeNotFound           = "NOT_FOUND"
	CodeInternalError      = "INTERNAL_ERROR"
)

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// Is matches any BaseError of the same kind, so a re-worded copy still satisfies errors.Is.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return t.errorCode == e.errorCode
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// WithMessage returns a copy of the error kind carrying a different user-facing message
func (e *BaseError) WithMessage(message string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   message,
		details:   e.details,
	}
}

// Predefined error types
var (
	// Validation-related errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		CodeValidationFailed,
		"اطلاعات وارد شده معتبر نیست",
		"",
	)

	ErrInvalidPhoneNumber = NewBaseError(
		http.StatusBadRequest,
		CodeValidationFailed,
		"شماره موبایل وارد شده معتبر نیست",
		"",
	)

	ErrNameRequired = NewBaseError(
		http.StatusBadRequest,
		CodeValidationFailed,
		"لطفاً نام و نام خانوادگی را وارد کنید",
		"",
	)

	ErrNameNotPersian = NewBaseError(
		http.StatusBadRequest,
		CodeValidationFailed,
		"لطفاً نام و نام خانوادگی را با حروف فارسی وارد کنید",
		"",
	)

	ErrOtpCodeRequired = NewBaseError(
		http.StatusBadRequest,
		CodeValidationFailed,
		"لطفاً کد تأیید را وارد کنید",
		"",
	)

	ErrOtpExpired = NewBaseError(
		http.StatusBadRequest,
		CodeValidationFailed,
		"کد تأیید منقضی شده است. لطفاً دوباره درخواست کد کنید",
		"",
	)

	ErrOtpNotExpired = NewBaseError(
		http.StatusBadRequest,
		CodeValidationFailed,
		"کد تأیید هنوز معتبر است. لطفاً تا پایان زمان آن صبر کنید",
		"",
	)

	ErrInvalidDate = NewBaseError(
		http.StatusBadRequest,
		CodeValidationFailed,
		"تاریخ انتخاب شده معتبر نیست",
		"",
	)

	ErrDateDisabled = NewBaseError(
		http.StatusBadRequest,
		CodeValidationFailed,
		"امکان رزرو در این تاریخ وجود ندارد",
		"",
	)

	ErrDateInPast = NewBaseError(
		http.StatusBadRequest,
		CodeValidationFailed,
		"امکان انتخاب تاریخ گذشته وجود ندارد",
		"",
	)

	ErrBarberAndDateRequired = NewBaseError(
		http.StatusBadRequest,
		CodeValidationFailed,
		"لطفا آرایشگر و تاریخ را انتخاب کنید",
		"",
	)

	ErrTimeNotSelectable = NewBaseError(
		http.StatusBadRequest,
		CodeValidationFailed,
		"این ساعت قابل انتخاب نیست",
		"",
	)

	ErrUnknownService = NewBaseError(
		http.StatusBadRequest,
		CodeValidationFailed,
		"خدمت انتخاب شده یافت نشد",
		"",
	)

	// Booking errors
	ErrIncompleteBooking = NewBaseError(
		http.StatusUnprocessableEntity,
		CodeIncompleteBooking,
		"اطلاعات نوبت کامل نیست",
		"",
	)

	ErrSlotConflict = NewBaseError(
		http.StatusConflict,
		CodeSlotConflict,
		"این نوبت در حال رزرو توسط شخص دیگری می‌باشد. لطفاً منتظر بمانید یا نوبت دیگری انتخاب کنید",
		"",
	)

	// Authentication and authorization errors
	ErrUnauthorized = NewBaseError(
		http.StatusUnauthorized,
		CodeUnauthorized,
		"لطفاً وارد حساب کاربری خود شوید",
		"",
	)

	ErrNotLoggedIn = NewBaseError(
		http.StatusUnauthorized,
		CodeUnauthorized,
		"شما وارد حساب کاربری نشده‌اید",
		"",
	)

	ErrForbidden = NewBaseError(
		http.StatusForbidden,
		CodeForbidden,
		"شما مجاز به دسترسی به این اطلاعات نیستید",
		"",
	)

	ErrAppointmentForbidden = NewBaseError(
		http.StatusForbidden,
		CodeForbidden,
		"شما مجاز به مشاهده اطلاعات این نوبت نیستید",
		"",
	)

	ErrRateLimited = NewBaseError(
		http.StatusTooManyRequests,
		CodeRateLimited,
		"تعداد درخواست‌ها بیش از حد مجاز است. لطفاً کمی بعد دوباره تلاش کنید",
		"",
	)

	// Backend errors
	ErrBackend = NewBaseError(
		http.StatusBadGateway,
		CodeBackendError,
		"خطا در برقراری ارتباط با سرور",
		"",
	)

	ErrBackendUnavailable = NewBaseError(
		http.StatusServiceUnavailable,
		CodeBackendUnavailable,
		"خطا در برقراری ارتباط با سرور. لطفا بعدا تلاش کنید.",
		"",
	)

	// General errors
	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		CodeNotFound,
		"اطلاعات مورد نظر یافت نشد",
		"",
	)

	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		CodeInternalError,
		"خطای داخلی سرور",
		"",
	)
)

// BackendError is a failure reported by the booking backend, classified into one of the error kinds above.
type BackendError struct {
	kind       *BaseError
	message    string
	statusCode int
	cause      error
}

// NewBackendError creates a classified backend error. An empty message falls back to the kind's message.
func NewBackendError(kind *BaseError, statusCode int, message string, cause error) *BackendError {
	if message == "" {
		message = kind.message
	}

	return &BackendError{
		kind:       kind,
		message:    message,
		statusCode: statusCode,
		cause:      cause,
	}
}

// Error implements the error interface
func (e *BackendError) Error() string {
	if e.cause != nil {
		return errors.Wrap(e.cause, e.message).Error()
	}

	return e.message
}

// Unwrap exposes the transport-level cause, if any
func (e *BackendError) Unwrap() error {
	return e.cause
}

// Is reports whether target is the error kind this backend error was classified as.
func (e *BackendError) Is(target error) bool {
	return e.kind.Is(target)
}

// HTTPCode returns the HTTP status code
func (e *BackendError) HTTPCode() int {
	return e.kind.HTTPCode()
}

// ErrorCode returns the business error code
func (e *BackendError) ErrorCode() string {
	return e.kind.ErrorCode()
}

// Message returns the user-friendly error message
func (e *BackendError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BackendError) Details() string {
	return ""
}

// StatusCode returns the HTTP status the backend answered with; zero for transport failures.
func (e *BackendError) StatusCode() int {
	return e.statusCode
}

// MessageOf returns the user-facing message carried by err, or the generic connectivity message.
func MessageOf(err error) string {
	if appErr, ok := errors.AsType[AppError](err); ok {
		return appErr.Message()
	}

	return ErrBackendUnavailable.Message()
}
