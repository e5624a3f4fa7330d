package locks

import (
	"errors"
	"fmt"
)

var (
	ErrTripNotFound      = errors.New("trip not found")
	ErrNoSeatsRequested  = errors.New("no seats requested")
	ErrTooManySeats      = errors.New("too many seats requested")
	ErrSeatsUnavailable  = errors.New("some seats are unavailable")
	ErrUnknownSeats      = errors.New("unknown seat numbers")
	ErrLockExpired       = errors.New("lock is expired")
	ErrLockOwnerMismatch = errors.New("lock owner mismatch")
	ErrBookingConflict   = errors.New("booking reference already used")
)

// SeatsUnavailableError carries the exact seat numbers that conflicted so the
// client can adjust its selection. Unwraps to ErrSeatsUnavailable.
type SeatsUnavailableError struct {
	Seats []string
}

func (e SeatsUnavailableError) Error() string {
	return fmt.Sprintf("some or all seats are unavailable: %v", e.Seats)
}

func (e SeatsUnavailableError) Unwrap() error { return ErrSeatsUnavailable }

// UnknownSeatsError names requested seats outside the trip's layout.
// Unwraps to ErrUnknownSeats.
type UnknownSeatsError struct {
	Seats []string
}

func (e UnknownSeatsError) Error() string {
	return fmt.Sprintf("seats not in trip layout: %v", e.Seats)
}

func (e UnknownSeatsError) Unwrap() error { return ErrUnknownSeats }
