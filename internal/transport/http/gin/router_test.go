package httpgin

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelorn/busline/internal/domain"
	"github.com/avelorn/busline/internal/service/bookings"
	"github.com/avelorn/busline/internal/service/locks"
	"github.com/avelorn/busline/internal/service/trips"
)

func TestRespondErr(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"trip not found (locks)", fmt.Errorf("op:%w", locks.ErrTripNotFound), http.StatusNotFound},
		{"trip not found (trips)", fmt.Errorf("op:%w", trips.ErrTripNotFound), http.StatusNotFound},
		{"no seats", fmt.Errorf("op:%w", locks.ErrNoSeatsRequested), http.StatusBadRequest},
		{"too many seats", fmt.Errorf("op:%w", locks.ErrTooManySeats), http.StatusBadRequest},
		{"lock expired", fmt.Errorf("op:%w", locks.ErrLockExpired), http.StatusConflict},
		{"owner mismatch", fmt.Errorf("op:%w", locks.ErrLockOwnerMismatch), http.StatusConflict},
		{"booking conflict", fmt.Errorf("op:%w", locks.ErrBookingConflict), http.StatusConflict},
		{"trip exists", fmt.Errorf("op:%w", trips.ErrTripExists), http.StatusConflict},
		{"invalid trip", fmt.Errorf("op:%w", trips.ErrInvalidTrip), http.StatusBadRequest},
		{"booking not found", fmt.Errorf("op:%w", bookings.ErrBookingNotFound), http.StatusNotFound},
		{"foreign booking reads as not found", fmt.Errorf("op:%w", bookings.ErrAccessDenied), http.StatusNotFound},
		{"unexpected", fmt.Errorf("op: boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondErr(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRespondErr_NamesConflictingSeats(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondErr(c, fmt.Errorf("op:%w", locks.SeatsUnavailableError{Seats: []string{"A1", "B2"}}))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"seats unavailable","seats":["A1","B2"]}`, w.Body.String())
}

func TestRespondErr_NamesUnknownSeats(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondErr(c, fmt.Errorf("op:%w", locks.UnknownSeatsError{Seats: []string{"Z9"}}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"unknown seat numbers","seats":["Z9"]}`, w.Body.String())
}

func TestToTripResponse(t *testing.T) {
	trip := domain.Trip{
		ID:            1,
		Source:        "Springfield",
		Destination:   "Shelbyville",
		TravelDate:    time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		DepartureTime: "08:30",
		ArrivalTime:   "11:00",
		BusNumber:     "BL-7",
		Rows:          1,
		SeatsPerRow:   2,
		FareCents:     1250,
	}
	matrix := [][]domain.SeatView{{
		{Number: "A1", Row: "A", Column: 1, Status: domain.StatusAvailable},
		{Number: "A2", Row: "A", Column: 2, Status: domain.StatusUnavailable},
	}}

	resp := toTripResponse(trip, matrix, 1)

	assert.Equal(t, "2025-07-01", resp.TravelDate)
	assert.Equal(t, 1, resp.AvailableSeats)
	require.Len(t, resp.SeatMatrix, 1)
	require.Len(t, resp.SeatMatrix[0], 2)
	assert.Equal(t, "AVAILABLE", resp.SeatMatrix[0][0].Status)
	assert.Equal(t, "UNAVAILABLE", resp.SeatMatrix[0][1].Status)
}
