package domain

import (
	"errors"
	"fmt"
)

// Authentication errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrAlreadyVerified    = errors.New("account already verified")
	ErrMissingFields      = errors.New("missing required fields")
)

// OTP errors
var (
	ErrOTPExpired     = errors.New("otp has expired")
	ErrOTPInvalid     = errors.New("invalid otp code")
	ErrOTPResendLimit = errors.New("otp resend limit exceeded")
)

// Token errors. Apart from ErrTokenMissing the texts are returned in 401 bodies.
var (
	ErrTokenMissing         = errors.New("token missing")
	ErrTokenInvalid         = errors.New("invalid signature")
	ErrTokenExpired         = errors.New("jwt expired")
	ErrTokenMalformed       = errors.New("jwt malformed")
	ErrMissingSigningSecret = errors.New("missing JWT signing secret")
)

// Lock errors
var (
	ErrUserLocked = errors.New("user record is being modified by another request")
)

// ResendLimitError reports how long the caller has to wait before another
// code can be issued. It matches ErrOTPResendLimit under errors.Is.
type ResendLimitError struct {
	RetryAfter int64 // seconds
}

func (e *ResendLimitError) Error() string {
	return fmt.Sprintf("%s: retry in %ds", ErrOTPResendLimit, e.RetryAfter)
}

func (e *ResendLimitError) Unwrap() error {
	return ErrOTPResendLimit
}

// RetryAfter extracts the wait in seconds from a resend limit error, or 0
// when the error carries none.
func RetryAfter(err error) int64 {
	var limit *ResendLimitError
	if errors.As(err, &limit) {
		return limit.RetryAfter
	}
	return 0
}
