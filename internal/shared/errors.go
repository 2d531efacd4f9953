package shared

import (
	"errors"
	"fmt"
)

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Session errors
	ErrValidation          = fmt.Errorf("validation failed")
	ErrPasswordMismatch    = fmt.Errorf("passwords do not match")
	ErrPasswordTooWeak     = fmt.Errorf("password too weak")
	ErrTermsNotAccepted    = fmt.Errorf("terms not accepted")
	ErrNotAuthenticated    = fmt.Errorf("not authenticated")
	ErrAuthInProgress      = fmt.Errorf("authentication already in progress")
	ErrUnsupportedProvider = fmt.Errorf("unsupported login provider")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrMovieNotFound      = fmt.Errorf("movie not found")
	ErrRateLimited        = fmt.Errorf("rate limit exceeded")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)

// UserMessage returns the message shown to a person for err.
//
// Errors outside the session/collection taxonomy fall back to err.Error().
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTermsNotAccepted):
		return "Please accept the terms and conditions"
	case errors.Is(err, ErrPasswordMismatch):
		return "Passwords do not match"
	case errors.Is(err, ErrPasswordTooWeak):
		return "Password must be at least 6 characters long"
	case errors.Is(err, ErrAuthInProgress):
		return "Please wait, signing you in..."
	case errors.Is(err, ErrUnsupportedProvider):
		return "That login provider is not supported"
	case errors.Is(err, ErrValidation):
		return "Please enter valid credentials"
	case errors.Is(err, ErrNotAuthenticated):
		return "Please login to continue"
	default:
		return err.Error()
	}
}
