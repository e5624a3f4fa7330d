package domain

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	ErrLockExpired       = errors.New("lock expired")
	ErrLockOwnerMismatch = errors.New("lock owner mismatch")
)

// SeatsUnavailableError names the exact seats that caused a lock request to
// fail, so the caller can adjust its selection instead of retrying blindly.
type SeatsUnavailableError struct {
	Seats []string
}

func (e SeatsUnavailableError) Error() string {
	return fmt.Sprintf("seats unavailable: %v", e.Seats)
}

// UnknownSeatsError names requested seat numbers outside the trip's layout.
type UnknownSeatsError struct {
	Seats []string
}

func (e UnknownSeatsError) Error() string {
	return fmt.Sprintf("unknown seats: %v", e.Seats)
}

// LockPlan is the set of row mutations a lock request resolves to. All
// mutations of one plan are applied in a single transaction or not at all.
type LockPlan struct {
	// Lock receives LOCKED(holder, ExpiresAt). Includes renewals of the
	// holder's own live locks.
	Lock []string
	// Release returns to AVAILABLE: seats the holder currently has locked on
	// the trip but did not include in this request. Lock requests carry the
	// caller's full current selection, so a dropped seat is a deselection.
	Release []string

	ExpiresAt time.Time
}

// PlanLock decides the outcome of a lock request against a snapshot of seat
// rows. The snapshot must contain at least every requested seat plus every
// seat currently locked by the holder on the trip.
//
// Expired locks are treated as available at the point of use: a seat whose
// lock has lapsed is grantable regardless of who held it. The whole request
// fails with SeatsUnavailableError if any requested seat is booked or
// live-locked by another holder; no partial grants.
func PlanLock(
	snapshot []Seat,
	requested []string,
	holderID int64,
	now time.Time,
	ttl time.Duration,
) (LockPlan, error) {
	byNumber := make(map[string]Seat, len(snapshot))
	for _, s := range snapshot {
		byNumber[s.Number] = s
	}

	var unknown []string
	for _, num := range requested {
		if _, ok := byNumber[num]; !ok {
			unknown = append(unknown, num)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return LockPlan{}, UnknownSeatsError{Seats: unknown}
	}

	reqSet := make(map[string]struct{}, len(requested))
	for _, num := range requested {
		reqSet[num] = struct{}{}
	}

	var conflicts []string
	plan := LockPlan{ExpiresAt: now.Add(ttl)}

	// Repeated seat numbers collapse to one mutation, so len(plan.Lock)
	// matches the rows the UPDATE will touch.
	seen := make(map[string]struct{}, len(requested))

	for _, num := range requested {
		if _, dup := seen[num]; dup {
			continue
		}
		seen[num] = struct{}{}

		seat := byNumber[num]
		switch {
		case seat.State == SeatBooked:
			conflicts = append(conflicts, num)
		case seat.State == SeatLocked && !seat.LockExpired(now) && !seat.LiveLockedBy(holderID, now):
			conflicts = append(conflicts, num)
		default:
			plan.Lock = append(plan.Lock, num)
		}
	}

	if len(conflicts) > 0 {
		sort.Strings(conflicts)
		return LockPlan{}, SeatsUnavailableError{Seats: conflicts}
	}

	for _, s := range snapshot {
		if _, ok := reqSet[s.Number]; ok {
			continue
		}
		if s.LiveLockedBy(holderID, now) {
			plan.Release = append(plan.Release, s.Number)
		}
	}

	sort.Strings(plan.Lock)
	sort.Strings(plan.Release)

	return plan, nil
}

// PlanRelease returns the requested seats that are actually locked by the
// holder. Seats the holder never held are skipped silently; a release must
// not leak conflict information about other holders' seats.
func PlanRelease(snapshot []Seat, requested []string, holderID int64) []string {
	byNumber := make(map[string]Seat, len(snapshot))
	for _, s := range snapshot {
		byNumber[s.Number] = s
	}

	var out []string
	for _, num := range requested {
		seat, ok := byNumber[num]
		if !ok {
			continue
		}
		if seat.State == SeatLocked && seat.HolderID != nil && *seat.HolderID == holderID {
			out = append(out, num)
		}
	}

	sort.Strings(out)

	return out
}

// PlanCommit checks that every requested seat may transition
// LOCKED(holder) -> BOOKED right now.
//
// A live lock owned by another holder, or a seat already booked, fails with
// ErrLockOwnerMismatch; an expired or missing lock fails with ErrLockExpired.
// Either way the caller must re-lock before retrying payment.
func PlanCommit(snapshot []Seat, requested []string, holderID int64, now time.Time) error {
	byNumber := make(map[string]Seat, len(snapshot))
	for _, s := range snapshot {
		byNumber[s.Number] = s
	}

	for _, num := range requested {
		seat, ok := byNumber[num]
		if !ok {
			return fmt.Errorf("seat %s: %w", num, ErrLockExpired)
		}
		switch {
		case seat.State == SeatBooked:
			return fmt.Errorf("seat %s already booked: %w", num, ErrLockOwnerMismatch)
		case seat.LiveLockedBy(holderID, now):
			// ok
		case seat.State == SeatLocked && !seat.LockExpired(now):
			return fmt.Errorf("seat %s: %w", num, ErrLockOwnerMismatch)
		default:
			return fmt.Errorf("seat %s: %w", num, ErrLockExpired)
		}
	}

	return nil
}
