package common

import "errors"

// Sentinel errors shared between services and the CLI. Callers should use
// errors.Is to match these values.
var (
	// Session lifecycle errors.
	ErrNoSession = errors.New("no active session")

	// Validation errors raised before any network call.
	ErrInvalidFileType = errors.New("unsupported file type")
	ErrInvalidOTP      = errors.New("verification code must be 6 digits")
	ErrUploadInFlight  = errors.New("another upload is in progress")
	ErrResendNotReady  = errors.New("resend not available yet")
)
