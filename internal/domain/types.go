package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SeatState is the persisted state of a single seat row.
type SeatState string

const (
	SeatAvailable SeatState = "available"
	SeatLocked    SeatState = "locked"
	SeatBooked    SeatState = "booked"
)

// SeatStatus is the derived, client-facing view of a seat. Raw lock metadata
// never leaves the server; callers only ever see AVAILABLE or UNAVAILABLE.
type SeatStatus string

const (
	StatusAvailable   SeatStatus = "AVAILABLE"
	StatusUnavailable SeatStatus = "UNAVAILABLE"
)

// Default bus layout: 12 rows (A-L), 4 seats per row in a 2x2 configuration.
const (
	DefaultRows        = 12
	DefaultSeatsPerRow = 4
)

type Trip struct {
	ID            int64
	Source        string
	Destination   string
	TravelDate    time.Time
	DepartureTime string // "15:04"
	ArrivalTime   string
	BusNumber     string
	Rows          int
	SeatsPerRow   int
	FareCents     int64
	CreatedAt     time.Time
}

// Seat is one physical seat of one trip. HolderID and LockExpiresAt are set
// only while the seat is locked; BookingID only once it is booked.
type Seat struct {
	TripID        int64
	Number        string
	State         SeatState
	HolderID      *int64
	LockExpiresAt *time.Time
	BookingID     *uuid.UUID
}

// LockHold is the granted claim returned to a locking caller. The expiry is
// echoed back so the client can tell when its own hold goes stale.
type LockHold struct {
	TripID    int64
	HolderID  int64
	Seats     []string
	ExpiresAt time.Time
}

type Booking struct {
	ID          uuid.UUID
	Reference   string
	TripID      int64
	UserID      int64
	Seats       []string
	AmountCents int64
	CreatedAt   time.Time
}

// SeatView is one cell of the seat matrix returned by the trip read path.
type SeatView struct {
	Number    string
	Row       string
	Column    int
	Status    SeatStatus
	HeldByYou bool
}

type TripCounts struct {
	Available int64
	Locked    int64
	Booked    int64
	Total     int64
}

// RowLabel returns the label for a zero-based row index: "A" for 0, "B" for 1.
func RowLabel(row int) string {
	return string(rune('A' + row))
}

// SeatNumber builds a seat number from a zero-based row index and a 1-based
// column: SeatNumber(0, 1) == "A1".
func SeatNumber(row, col int) string {
	return fmt.Sprintf("%s%d", RowLabel(row), col)
}

// SeatNumbers returns every seat number of a layout in row-major order.
func SeatNumbers(rows, seatsPerRow int) []string {
	out := make([]string, 0, rows*seatsPerRow)
	for r := 0; r < rows; r++ {
		for c := 1; c <= seatsPerRow; c++ {
			out = append(out, SeatNumber(r, c))
		}
	}
	return out
}

// ParseSeatNumber splits a seat number like "C3" into its row label and
// column and reports whether it belongs to the given layout.
func ParseSeatNumber(num string, rows, seatsPerRow int) (row string, col int, ok bool) {
	if len(num) < 2 {
		return "", 0, false
	}
	r := num[0]
	if r < 'A' || int(r-'A') >= rows {
		return "", 0, false
	}
	for _, ch := range num[1:] {
		if ch < '0' || ch > '9' {
			return "", 0, false
		}
		col = col*10 + int(ch-'0')
	}
	if col < 1 || col > seatsPerRow {
		return "", 0, false
	}
	return string(r), col, true
}

// LiveLockedBy reports whether the seat holds a non-expired lock owned by
// holderID at the given instant.
func (s Seat) LiveLockedBy(holderID int64, now time.Time) bool {
	return s.State == SeatLocked &&
		s.HolderID != nil && *s.HolderID == holderID &&
		s.LockExpiresAt != nil && s.LockExpiresAt.After(now)
}

// LockExpired reports whether the seat carries a lock whose expiry has passed.
func (s Seat) LockExpired(now time.Time) bool {
	return s.State == SeatLocked &&
		(s.LockExpiresAt == nil || !s.LockExpiresAt.After(now))
}

// ViewFor derives the client-facing status of a seat for a given requester.
// Booked seats and seats live-locked by another holder are UNAVAILABLE;
// everything else, including expired locks and the requester's own live
// locks, reads AVAILABLE. holderID 0 means an anonymous requester.
func (s Seat) ViewFor(holderID int64, now time.Time) (SeatStatus, bool) {
	switch s.State {
	case SeatBooked:
		return StatusUnavailable, false
	case SeatLocked:
		if s.LockExpired(now) {
			return StatusAvailable, false
		}
		if holderID != 0 && s.LiveLockedBy(holderID, now) {
			return StatusAvailable, true
		}
		return StatusUnavailable, false
	default:
		return StatusAvailable, false
	}
}
