package bookings

import "errors"

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrAccessDenied    = errors.New("booking belongs to another user")
)
