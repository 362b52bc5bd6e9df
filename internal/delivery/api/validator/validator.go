// Package validator plugs go-playground/validator into echo and registers the
// customer-facing input rules.
package validator

import (
	"reflect"
	"regexp"
	"strings"
	"unicode"

	domainerrors "barbershop/internal/domain/errors"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var mobilePattern = regexp.MustCompile(`^09\d{9}$`)

// nameSymbols are the non-letter characters accepted in a Persian name.
const nameSymbols = " .،؛:()-\u200c"

var digitReplacer = strings.NewReplacer(
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
	"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
)

// CustomValidator implements echo.Validator.
type CustomValidator struct {
	validate *validator.Validate
}

// New creates the request validator with the iranmobile and persianname rules.
func New() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	// Registration only fails for an empty tag or a nil func.
	_ = v.RegisterValidation("iranmobile", func(fl validator.FieldLevel) bool {
		return IsMobile(fl.Field().String())
	})
	_ = v.RegisterValidation("persianname", func(fl validator.FieldLevel) bool {
		return IsPersianName(fl.Field().String())
	})

	return &CustomValidator{validate: v}
}

// Validate checks i and reports the first violation as a domain error with a Persian message.
func (cv *CustomValidator) Validate(i any) error {
	err := cv.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return errors.WithStack(violation(fieldErrs[0]))
	}

	return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails(err.Error()))
}

func violation(fe validator.FieldError) *domainerrors.BaseError {
	switch {
	case fe.Tag() == "iranmobile", fe.Field() == "phone_number":
		return domainerrors.ErrInvalidPhoneNumber
	case fe.Tag() == "persianname":
		return domainerrors.ErrNameNotPersian
	case fe.Field() == "firstname", fe.Field() == "lastname":
		return domainerrors.ErrNameRequired
	case fe.Field() == "code":
		return domainerrors.ErrOtpCodeRequired
	}

	return domainerrors.ErrValidationFailed.WithDetails(fe.Field() + ": " + fe.Tag())
}

// NormalizeDigits trims s and rewrites Persian and Arabic-Indic digits as ASCII.
func NormalizeDigits(s string) string {
	return digitReplacer.Replace(strings.TrimSpace(s))
}

// IsMobile reports whether phone is an Iranian mobile number (09 followed by nine digits).
func IsMobile(phone string) bool {
	return mobilePattern.MatchString(NormalizeDigits(phone))
}

// IsPersianName reports whether name is written in Arabic script letters and a few separators.
func IsPersianName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}

	for _, r := range name {
		if unicode.Is(unicode.Arabic, r) && unicode.IsLetter(r) {
			continue
		}
		if unicode.Is(unicode.Mn, r) || strings.ContainsRune(nameSymbols, r) {
			continue
		}

		return false
	}

	return true
}
