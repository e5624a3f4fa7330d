package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatNumbering(t *testing.T) {
	assert.Equal(t, "A", RowLabel(0))
	assert.Equal(t, "L", RowLabel(11))
	assert.Equal(t, "A1", SeatNumber(0, 1))
	assert.Equal(t, "L4", SeatNumber(11, 4))

	nums := SeatNumbers(DefaultRows, DefaultSeatsPerRow)
	require.Len(t, nums, 48)
	assert.Equal(t, "A1", nums[0])
	assert.Equal(t, "A4", nums[3])
	assert.Equal(t, "B1", nums[4])
	assert.Equal(t, "L4", nums[47])
}

func TestParseSeatNumber(t *testing.T) {
	row, col, ok := ParseSeatNumber("C3", DefaultRows, DefaultSeatsPerRow)
	require.True(t, ok)
	assert.Equal(t, "C", row)
	assert.Equal(t, 3, col)

	for _, bad := range []string{"", "A", "A0", "A5", "M1", "a1", "A1x", "1A"} {
		_, _, ok := ParseSeatNumber(bad, DefaultRows, DefaultSeatsPerRow)
		assert.False(t, ok, "expected %q to be rejected", bad)
	}

	// Layouts narrower than the default reject seats beyond their edge.
	_, _, ok = ParseSeatNumber("C3", 2, 4)
	assert.False(t, ok)
}

func TestViewFor(t *testing.T) {
	holder := int64(7)
	other := int64(99)
	live := testNow.Add(time.Minute)
	lapsed := testNow.Add(-time.Minute)

	tests := []struct {
		name      string
		seat      Seat
		holderID  int64
		status    SeatStatus
		heldByYou bool
	}{
		{"available", availableSeat("A1"), holder, StatusAvailable, false},
		{"booked", bookedSeat("A1"), holder, StatusUnavailable, false},
		{"own live lock", lockedSeat("A1", holder, live), holder, StatusAvailable, true},
		{"foreign live lock", lockedSeat("A1", other, live), holder, StatusUnavailable, false},
		{"expired lock", lockedSeat("A1", other, lapsed), holder, StatusAvailable, false},
		{"own lock seen anonymously", lockedSeat("A1", holder, live), 0, StatusUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, heldByYou := tt.seat.ViewFor(tt.holderID, testNow)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.heldByYou, heldByYou)
		})
	}
}

func TestBuildSeatMatrix(t *testing.T) {
	trip := Trip{ID: 1, Rows: 2, SeatsPerRow: 2}
	seats := []Seat{
		bookedSeat("A1"),
		lockedSeat("B2", 7, testNow.Add(time.Minute)),
		// A2 and B1 missing from the snapshot on purpose.
	}

	matrix := BuildSeatMatrix(trip, seats, 7, testNow)

	require.Len(t, matrix, 2)
	require.Len(t, matrix[0], 2)
	require.Len(t, matrix[1], 2)

	assert.Equal(t, "A1", matrix[0][0].Number)
	assert.Equal(t, StatusUnavailable, matrix[0][0].Status)

	// missing rows read available
	assert.Equal(t, StatusAvailable, matrix[0][1].Status)
	assert.Equal(t, StatusAvailable, matrix[1][0].Status)

	assert.Equal(t, "B2", matrix[1][1].Number)
	assert.Equal(t, StatusAvailable, matrix[1][1].Status)
	assert.True(t, matrix[1][1].HeldByYou)

	assert.Equal(t, "B", matrix[1][1].Row)
	assert.Equal(t, 2, matrix[1][1].Column)
}

func TestCountAvailable(t *testing.T) {
	seats := []Seat{
		availableSeat("A1"),
		bookedSeat("A2"),
		lockedSeat("A3", 7, testNow.Add(time.Minute)),
		lockedSeat("A4", 7, testNow.Add(-time.Minute)),
	}

	// Counted anonymously: the live lock is unavailable even to its holder.
	assert.Equal(t, 2, CountAvailable(seats, testNow))
}
