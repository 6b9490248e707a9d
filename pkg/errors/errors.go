package errors

import (
	"errors"
	"fmt"
)

// Sentinels for domain errors.
var (
	ErrNotFound       = errors.New("not found")
	ErrValidation     = errors.New("validation error")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrUnavailable    = errors.New("service unavailable")
	ErrUpstream       = errors.New("upstream request failed")
	ErrMisconfigured  = errors.New("server misconfigured")
	ErrNotImplemented = errors.New("not implemented")
)

// UpstreamError carries a non-success response from the vendor API.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.Status, e.Message)
}

// Unwrap lets callers match UpstreamError against ErrUpstream.
func (e *UpstreamError) Unwrap() error {
	return ErrUpstream
}

// Is reports whether err is one of the sentinels.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Wrap adds context to an error.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
