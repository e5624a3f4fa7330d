package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avelorn/busline/internal/domain"
)

type BookingRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *BookingRepo) With(db DB) *BookingRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *BookingRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// GetByReference retrieves a booking with its seats by booking reference.
//
// Returns:
//   - *domain.Booking: the booking when found.
//   - error: repository.ErrNotFound if the booking is not found.
func (r *BookingRepo) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	const op = "postgres.BookingRepo.GetByReference"

	db := r.handle()

	var b domain.Booking
	err := db.QueryRow(ctx,
		`SELECT id, booking_reference, trip_id, user_id, amount_cents, created_at
       	 FROM bookings WHERE booking_reference = $1`,
		reference,
	).Scan(&b.ID, &b.Reference, &b.TripID, &b.UserID, &b.AmountCents, &b.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	rows, err := db.Query(ctx,
		`SELECT seat_number
       	 FROM seats
      	 WHERE booking_id = $1
      	 ORDER BY seat_number`,
		b.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	for rows.Next() {
		var num string
		if err := rows.Scan(&num); err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}
		b.Seats = append(b.Seats, num)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &b, nil
}
