package service

import "errors"

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrListingUnavailable = errors.New("listing not available")
	ErrInvalidSignature   = errors.New("invalid signature")
	ErrPaymentsDisabled   = errors.New("payments disabled")
	ErrStorage            = errors.New("storage failure")
)

// statusError keeps a caller facing message while matching one of the sentinels.
type statusError struct {
	kind error
	msg  string
}

func (e *statusError) Error() string { return e.msg }
func (e *statusError) Unwrap() error { return e.kind }

func newError(kind error, msg string) error {
	return &statusError{kind: kind, msg: msg}
}

var (
	errUnauthorized    = newError(ErrUnauthorized, "Unauthorized.")
	errMissingFields   = newError(ErrInvalidInput, "Missing required fields.")
	errListingNotFound = newError(ErrNotFound, "Listing not found.")
	errMediaNotFound   = newError(ErrNotFound, "Media not found.")
)
