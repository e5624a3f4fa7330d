package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func availableSeat(num string) Seat {
	return Seat{TripID: 1, Number: num, State: SeatAvailable}
}

func lockedSeat(num string, holderID int64, expiresAt time.Time) Seat {
	return Seat{
		TripID:        1,
		Number:        num,
		State:         SeatLocked,
		HolderID:      &holderID,
		LockExpiresAt: &expiresAt,
	}
}

func bookedSeat(num string) Seat {
	return Seat{TripID: 1, Number: num, State: SeatBooked}
}

func TestPlanLock_GrantsAllAvailable(t *testing.T) {
	snapshot := []Seat{
		availableSeat("A1"),
		availableSeat("A2"),
		availableSeat("B1"),
	}

	plan, err := PlanLock(snapshot, []string{"A2", "A1"}, 7, testNow, 10*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, []string{"A1", "A2"}, plan.Lock)
	assert.Empty(t, plan.Release)
	assert.Equal(t, testNow.Add(10*time.Minute), plan.ExpiresAt)
}

func TestPlanLock_AllOrNothingOnConflict(t *testing.T) {
	snapshot := []Seat{
		availableSeat("A1"),
		lockedSeat("A2", 99, testNow.Add(5*time.Minute)),
		bookedSeat("A3"),
	}

	_, err := PlanLock(snapshot, []string{"A1", "A2", "A3"}, 7, testNow, 10*time.Minute)
	require.Error(t, err)

	var unavailable SeatsUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, []string{"A2", "A3"}, unavailable.Seats)
}

func TestPlanLock_ExpiredForeignLockIsGrantable(t *testing.T) {
	snapshot := []Seat{
		lockedSeat("A1", 99, testNow.Add(-time.Second)),
	}

	plan, err := PlanLock(snapshot, []string{"A1"}, 7, testNow, 10*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, []string{"A1"}, plan.Lock)
}

func TestPlanLock_LockAtExactExpiryInstantIsGrantable(t *testing.T) {
	// A lock expiring exactly now is no longer live.
	snapshot := []Seat{
		lockedSeat("A1", 99, testNow),
	}

	plan, err := PlanLock(snapshot, []string{"A1"}, 7, testNow, 10*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, []string{"A1"}, plan.Lock)
}

func TestPlanLock_RenewalRefreshesAndReleasesDropped(t *testing.T) {
	// Holder 7 holds A1 and A2; the new request keeps A1 and adds B1, so A2
	// is a deselection and must be released.
	snapshot := []Seat{
		lockedSeat("A1", 7, testNow.Add(2*time.Minute)),
		lockedSeat("A2", 7, testNow.Add(2*time.Minute)),
		availableSeat("B1"),
	}

	plan, err := PlanLock(snapshot, []string{"A1", "B1"}, 7, testNow, 10*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, []string{"A1", "B1"}, plan.Lock)
	assert.Equal(t, []string{"A2"}, plan.Release)
	assert.Equal(t, testNow.Add(10*time.Minute), plan.ExpiresAt)
}

func TestPlanLock_ExpiredOwnLockIsNotADeselection(t *testing.T) {
	snapshot := []Seat{
		lockedSeat("A1", 7, testNow.Add(-time.Minute)),
		availableSeat("B1"),
	}

	plan, err := PlanLock(snapshot, []string{"B1"}, 7, testNow, 10*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, []string{"B1"}, plan.Lock)
	assert.Empty(t, plan.Release)
}

func TestPlanLock_DuplicateSeatsCollapse(t *testing.T) {
	snapshot := []Seat{
		availableSeat("A1"),
		availableSeat("A2"),
	}

	plan, err := PlanLock(snapshot, []string{"A1", "A1", "A2"}, 7, testNow, 10*time.Minute)
	require.NoError(t, err)

	// One mutation per distinct seat, so the plan length matches the rows
	// the UPDATE will touch.
	assert.Equal(t, []string{"A1", "A2"}, plan.Lock)
}

func TestPlanLock_UnknownSeats(t *testing.T) {
	snapshot := []Seat{availableSeat("A1")}

	_, err := PlanLock(snapshot, []string{"A1", "Z9"}, 7, testNow, 10*time.Minute)
	require.Error(t, err)

	var unknown UnknownSeatsError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, []string{"Z9"}, unknown.Seats)
}

func TestPlanRelease_OnlyOwnLockedSeats(t *testing.T) {
	snapshot := []Seat{
		lockedSeat("A1", 7, testNow.Add(time.Minute)),
		lockedSeat("A2", 99, testNow.Add(time.Minute)),
		bookedSeat("A3"),
		availableSeat("A4"),
	}

	out := PlanRelease(snapshot, []string{"A1", "A2", "A3", "A4", "Z9"}, 7)

	assert.Equal(t, []string{"A1"}, out)
}

func TestPlanRelease_ExpiredOwnLockStillReleasable(t *testing.T) {
	snapshot := []Seat{
		lockedSeat("A1", 7, testNow.Add(-time.Minute)),
	}

	out := PlanRelease(snapshot, []string{"A1"}, 7)

	assert.Equal(t, []string{"A1"}, out)
}

func TestPlanCommit_OwnLiveLock(t *testing.T) {
	snapshot := []Seat{
		lockedSeat("A1", 7, testNow.Add(time.Minute)),
		lockedSeat("A2", 7, testNow.Add(time.Minute)),
	}

	err := PlanCommit(snapshot, []string{"A1", "A2"}, 7, testNow)

	assert.NoError(t, err)
}

func TestPlanCommit_ExpiredLock(t *testing.T) {
	snapshot := []Seat{
		lockedSeat("A1", 7, testNow.Add(-time.Second)),
	}

	err := PlanCommit(snapshot, []string{"A1"}, 7, testNow)

	assert.ErrorIs(t, err, ErrLockExpired)
}

func TestPlanCommit_ForeignLiveLock(t *testing.T) {
	snapshot := []Seat{
		lockedSeat("A1", 99, testNow.Add(time.Minute)),
	}

	err := PlanCommit(snapshot, []string{"A1"}, 7, testNow)

	assert.ErrorIs(t, err, ErrLockOwnerMismatch)
}

func TestPlanCommit_AlreadyBooked(t *testing.T) {
	snapshot := []Seat{bookedSeat("A1")}

	err := PlanCommit(snapshot, []string{"A1"}, 7, testNow)

	assert.ErrorIs(t, err, ErrLockOwnerMismatch)
}

func TestPlanCommit_MissingOrAvailableSeat(t *testing.T) {
	snapshot := []Seat{availableSeat("A1")}

	assert.ErrorIs(t, PlanCommit(snapshot, []string{"A1"}, 7, testNow), ErrLockExpired)
	assert.ErrorIs(t, PlanCommit(snapshot, []string{"B1"}, 7, testNow), ErrLockExpired)
}
