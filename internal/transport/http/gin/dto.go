package httpgin

import (
	"time"

	"github.com/avelorn/busline/internal/domain"
)

type LockSeatsRequest struct {
	TripID int64    `json:"trip_id" binding:"required"`
	Seats  []string `json:"seats" binding:"required,min=1,dive,required"`
}

type LockSeatsResponse struct {
	LockedSeats   []string  `json:"locked_seats"`
	LockExpiresAt time.Time `json:"lock_expires_at"`
}

type ReleaseSeatsRequest struct {
	TripID int64    `json:"trip_id" binding:"required"`
	Seats  []string `json:"seats" binding:"required,min=1,dive,required"`
}

type PaymentCallbackRequest struct {
	Status           string   `json:"status" binding:"required"`
	BookingReference string   `json:"booking_reference" binding:"required"`
	TripID           int64    `json:"trip_id" binding:"required"`
	UserID           int64    `json:"user_id" binding:"required"`
	Seats            []string `json:"seats" binding:"required,min=1,dive,required"`
	AmountCents      int64    `json:"amount_cents" binding:"required,gt=0"`
}

type CreateTripRequest struct {
	Source        string `json:"source" binding:"required"`
	Destination   string `json:"destination" binding:"required"`
	TravelDate    string `json:"travel_date" binding:"required"` // "2006-01-02"
	DepartureTime string `json:"departure_time" binding:"required"`
	ArrivalTime   string `json:"arrival_time" binding:"required"`
	BusNumber     string `json:"bus_number" binding:"required"`
	Rows          int    `json:"rows"`
	SeatsPerRow   int    `json:"seats_per_row"`
	FareCents     int64  `json:"fare_cents" binding:"required,gt=0"`
}

type ErrorResponse struct {
	Error string   `json:"error"`
	Seats []string `json:"seats,omitempty"`
}

type SeatViewResponse struct {
	Number    string `json:"number"`
	Row       string `json:"row"`
	Column    int    `json:"column"`
	Status    string `json:"status"`
	HeldByYou bool   `json:"held_by_you,omitempty"`
}

type TripResponse struct {
	ID             int64               `json:"id"`
	Source         string              `json:"source"`
	Destination    string              `json:"destination"`
	TravelDate     string              `json:"travel_date"`
	DepartureTime  string              `json:"departure_time"`
	ArrivalTime    string              `json:"arrival_time"`
	BusNumber      string              `json:"bus_number"`
	TotalRows      int                 `json:"total_rows"`
	SeatsPerRow    int                 `json:"seats_per_row"`
	FareCents      int64               `json:"fare_cents"`
	AvailableSeats int                 `json:"available_seats"`
	SeatMatrix     [][]SeatViewResponse `json:"seat_matrix,omitempty"`
}

type AvailabilityResponse struct {
	TripID    int64 `json:"trip_id"`
	Available int64 `json:"available"`
	Locked    int64 `json:"locked"`
	Booked    int64 `json:"booked"`
	Total     int64 `json:"total"`
}

type BookingResponse struct {
	BookingID   string   `json:"booking_id"`
	Reference   string   `json:"reference"`
	TripID      int64    `json:"trip_id"`
	Seats       []string `json:"seats"`
	AmountCents int64    `json:"amount_cents"`
	CreatedAt   string   `json:"created_at"`
}

type CreateTripResponse struct {
	TripID int64 `json:"trip_id"`
}

func toTripResponse(trip domain.Trip, matrix [][]domain.SeatView, available int) TripResponse {
	resp := TripResponse{
		ID:             trip.ID,
		Source:         trip.Source,
		Destination:    trip.Destination,
		TravelDate:     trip.TravelDate.Format("2006-01-02"),
		DepartureTime:  trip.DepartureTime,
		ArrivalTime:    trip.ArrivalTime,
		BusNumber:      trip.BusNumber,
		TotalRows:      trip.Rows,
		SeatsPerRow:    trip.SeatsPerRow,
		FareCents:      trip.FareCents,
		AvailableSeats: available,
	}

	for _, row := range matrix {
		out := make([]SeatViewResponse, 0, len(row))
		for _, sv := range row {
			out = append(out, SeatViewResponse{
				Number:    sv.Number,
				Row:       sv.Row,
				Column:    sv.Column,
				Status:    string(sv.Status),
				HeldByYou: sv.HeldByYou,
			})
		}
		resp.SeatMatrix = append(resp.SeatMatrix, out)
	}

	return resp
}

func toBookingResponse(b domain.Booking) BookingResponse {
	return BookingResponse{
		BookingID:   b.ID.String(),
		Reference:   b.Reference,
		TripID:      b.TripID,
		Seats:       b.Seats,
		AmountCents: b.AmountCents,
		CreatedAt:   b.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func parseDateOnly(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
