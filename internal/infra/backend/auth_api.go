package backend

import (
	"context"
	"net/http"

	"barbershop/internal/domain/entity"
)

// RequestOTP asks the backend to text a one-time code to phone.
func (cl *client) RequestOTP(ctx context.Context, phone string) (*entity.OTPChallenge, error) {
	var out entity.OTPChallenge
	err := cl.do(ctx, call{
		method:   http.MethodPost,
		path:     "/user-auth/request-otp",
		body:     map[string]string{"phone_number": phone},
		fallback: "خطا در درخواست کد تأیید",
	}, &out)
	if err != nil {
		return nil, err
	}

	return &out, nil
}

// VerifyOTP exchanges a one-time code for a bearer token.
func (cl *client) VerifyOTP(ctx context.Context, phone, code string) (*entity.TokenGrant, error) {
	var out entity.TokenGrant
	err := cl.do(ctx, call{
		method:   http.MethodPost,
		path:     "/user-auth/verify-otp",
		body:     map[string]string{"phone_number": phone, "code": code},
		fallback: "خطا در تأیید کد",
	}, &out)
	if err != nil {
		return nil, err
	}

	return &out, nil
}

// GetMe returns the profile behind token.
func (cl *client) GetMe(ctx context.Context, token string) (*entity.User, error) {
	var out entity.User
	err := cl.do(ctx, call{
		method:   http.MethodGet,
		path:     "/users/me",
		token:    token,
		fallback: "خطا در دریافت اطلاعات کاربر",
	}, &out)
	if err != nil {
		return nil, err
	}

	return &out, nil
}

// UpdateMe stores the customer's names.
func (cl *client) UpdateMe(ctx context.Context, token, firstName, lastName string) (*entity.User, error) {
	var out entity.User
	err := cl.do(ctx, call{
		method:   http.MethodPut,
		path:     "/users/me",
		token:    token,
		body:     map[string]string{"firstname": firstName, "lastname": lastName},
		fallback: "خطا در به‌روزرسانی اطلاعات کاربر",
	}, &out)
	if err != nil {
		return nil, err
	}

	return &out, nil
}

// GetStatus returns the block and profile status behind token.
func (cl *client) GetStatus(ctx context.Context, token string) (*entity.UserStatus, error) {
	var out entity.UserStatus
	err := cl.do(ctx, call{
		method:   http.MethodGet,
		path:     "/users/status",
		token:    token,
		fallback: "خطا در دریافت وضعیت کاربر",
	}, &out)
	if err != nil {
		return nil, err
	}

	return &out, nil
}

// Logout invalidates token on the backend.
func (cl *client) Logout(ctx context.Context, token string) error {
	return cl.do(ctx, call{
		method:   http.MethodPost,
		path:     "/user-auth/logout",
		token:    token,
		fallback: "خطا در خروج از حساب کاربری",
	}, nil)
}
