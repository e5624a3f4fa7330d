package trips

import "errors"

var (
	ErrTripNotFound = errors.New("trip not found")
	ErrTripExists   = errors.New("trip already exists")
	ErrInvalidTrip  = errors.New("invalid trip")
)
