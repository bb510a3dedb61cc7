package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors surfaced by the authentication core. Every failure a caller
// can observe maps to exactly one of these plus an API code (see CodeOf).
var (
	// Generic
	ErrInternal       = errors.New("internal server error")
	ErrInvalidRequest = errors.New("invalid request")
	ErrValidation     = errors.New("request failed validation")
	ErrUnauthorized   = errors.New("not authorized")

	// Login state machine
	ErrBadCredentials    = errors.New("invalid email or password")
	ErrMustResetPassword = errors.New("no password on file, reset email sent")
	ErrSoftLockout       = errors.New("account temporarily locked")
	ErrHardLockout       = errors.New("account locked")
	ErrNoCustomer        = errors.New("account no longer exists")

	// Accounts
	ErrCustomerNotFound = errors.New("customer not found")
	ErrEmailExists      = errors.New("email already in use")

	// Password reset
	ErrInvalidResetCode = errors.New("invalid password reset code")
	ErrExpiredResetCode = errors.New("password reset code expired")

	// Tokens
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")

	// Rate limiting
	ErrRateLimitExceeded = errors.New("too many requests")
)

// NewValidationError wraps a validator failure so it classifies as a 400.
func NewValidationError(cause error) error {
	return fmt.Errorf("%w: %v", ErrValidation, cause)
}

// CodeOf returns the stable API error code for a domain error. Unknown errors
// report as InternalError.
func CodeOf(err error) string {
	switch {
	case errors.Is(err, ErrBadCredentials):
		return "BadCredentials"
	case errors.Is(err, ErrMustResetPassword):
		return "MustResetPassword"
	case errors.Is(err, ErrSoftLockout):
		return "SoftLockout"
	case errors.Is(err, ErrHardLockout):
		return "HardLockout"
	case errors.Is(err, ErrNoCustomer):
		return "NoCustomer"
	case errors.Is(err, ErrEmailExists):
		return "EmailInUse"
	case errors.Is(err, ErrInvalidResetCode):
		return "InvalidResetCode"
	case errors.Is(err, ErrExpiredResetCode):
		return "ExpiredResetCode"
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidRequest):
		return "InvalidRequest"
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidToken), errors.Is(err, ErrExpiredToken):
		return "Unauthorized"
	case errors.Is(err, ErrCustomerNotFound):
		return "NotFound"
	case errors.Is(err, ErrRateLimitExceeded):
		return "RateLimitExceeded"
	default:
		return "InternalError"
	}
}

// HTTPStatusOf maps a domain error to a response status. Authentication and
// lockout failures all share 401; the specific reason lives in the body code
// only, so the status itself leaks nothing beyond allow/deny.
func HTTPStatusOf(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrBadCredentials),
		errors.Is(err, ErrMustResetPassword),
		errors.Is(err, ErrSoftLockout),
		errors.Is(err, ErrHardLockout),
		errors.Is(err, ErrNoCustomer),
		errors.Is(err, ErrInvalidResetCode),
		errors.Is(err, ErrExpiredResetCode),
		errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrEmailExists):
		return http.StatusConflict
	case errors.Is(err, ErrCustomerNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrRateLimitExceeded):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// MessageOf returns the user-facing message for a domain error without
// exposing wrapped internal detail.
func MessageOf(err error) string {
	for _, sentinel := range []error{
		ErrBadCredentials, ErrMustResetPassword, ErrSoftLockout, ErrHardLockout,
		ErrNoCustomer, ErrEmailExists, ErrInvalidResetCode, ErrExpiredResetCode,
		ErrValidation, ErrInvalidRequest, ErrUnauthorized, ErrInvalidToken,
		ErrExpiredToken, ErrCustomerNotFound, ErrRateLimitExceeded,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return ErrInternal.Error()
}

// IsUnauthorized reports whether err is an authentication or lockout failure.
func IsUnauthorized(err error) bool {
	return HTTPStatusOf(err) == http.StatusUnauthorized
}

// IsBadRequest reports whether err is a malformed-input failure.
func IsBadRequest(err error) bool {
	return HTTPStatusOf(err) == http.StatusBadRequest
}
