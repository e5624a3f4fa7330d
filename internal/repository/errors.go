package repository

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrTripNotFound = errors.New("trip not found")
)
