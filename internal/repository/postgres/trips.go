package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avelorn/busline/internal/domain"
)

type TripRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *TripRepo) With(db DB) *TripRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *TripRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// Get retrieves a trip by its ID.
//
// Returns:
//   - *domain.Trip: the trip when found.
//   - error: repository.ErrNotFound if the trip is not found.
func (r *TripRepo) Get(ctx context.Context, id int64) (*domain.Trip, error) {
	const op = "postgres.TripRepo.Get"

	db := r.handle()

	var t domain.Trip
	err := db.QueryRow(ctx,
		`SELECT id, source, destination, travel_date, departure_time, arrival_time,
            	bus_number, total_rows, seats_per_row, fare_cents, created_at
       	 FROM trips WHERE id = $1`,
		id,
	).Scan(
		&t.ID,
		&t.Source,
		&t.Destination,
		&t.TravelDate,
		&t.DepartureTime,
		&t.ArrivalTime,
		&t.BusNumber,
		&t.Rows,
		&t.SeatsPerRow,
		&t.FareCents,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return &t, nil
}

// Create inserts a trip and every seat of its layout as available, in one
// transaction. Trips are immutable once published; seat rows live for as
// long as the trip does.
//
// Returns:
//   - int64: the created trip ID.
//   - error: repository.ErrConflict if a trip for the same bus and date
//     already exists.
func (r *TripRepo) Create(ctx context.Context, trip domain.Trip) (int64, error) {
	const op = "postgres.TripRepo.Create"

	if r.db != nil {
		id, err := r.createCore(ctx, r.db, trip)
		if err != nil {
			return 0, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}
		return id, nil
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.Serializable,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return 0, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer tx.Rollback(ctx)

	id, err := r.createCore(ctx, tx, trip)
	if err != nil {
		return 0, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return id, nil
}

// CountsByState counts seats by state for a trip. Expired locks count as
// available, the same way the read and transition paths treat them, so a
// seat never drops out of the totals between expiry and the next sweep. The
// figures feed a short-TTL cache and are advisory only.
func (r *TripRepo) CountsByState(ctx context.Context, tripID int64) (*domain.TripCounts, error) {
	const op = "postgres.TripRepo.CountsByState"

	db := r.handle()

	var tc domain.TripCounts
	err := db.QueryRow(ctx,
		`SELECT
       	 	COALESCE(SUM(CASE WHEN state = 'available'
       	 	                    OR (state = 'locked' AND lock_expires_at <= now())
       	 	             THEN 1 ELSE 0 END), 0),
    	 	COALESCE(SUM(CASE WHEN state = 'locked' AND lock_expires_at > now() THEN 1 ELSE 0 END), 0),
       	 	COALESCE(SUM(CASE WHEN state = 'booked' THEN 1 ELSE 0 END), 0)
     	 FROM seats
     	 WHERE trip_id = $1`,
		tripID,
	).Scan(&tc.Available, &tc.Locked, &tc.Booked)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	tc.Total = tc.Available + tc.Locked + tc.Booked

	return &tc, nil
}

func (r *TripRepo) createCore(ctx context.Context, db DB, trip domain.Trip) (int64, error) {
	if trip.Rows <= 0 {
		trip.Rows = domain.DefaultRows
	}
	if trip.SeatsPerRow <= 0 {
		trip.SeatsPerRow = domain.DefaultSeatsPerRow
	}

	var id int64
	if err := db.QueryRow(ctx,
		`INSERT INTO trips(source, destination, travel_date, departure_time, arrival_time,
                       	   bus_number, total_rows, seats_per_row, fare_cents)
       	 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
      	 RETURNING id`,
		trip.Source,
		trip.Destination,
		trip.TravelDate,
		trip.DepartureTime,
		trip.ArrivalTime,
		trip.BusNumber,
		trip.Rows,
		trip.SeatsPerRow,
		trip.FareCents,
	).Scan(&id); err != nil {
		return 0, err
	}

	batch := &pgx.Batch{}
	for _, num := range domain.SeatNumbers(trip.Rows, trip.SeatsPerRow) {
		batch.Queue(
			`INSERT INTO seats(trip_id, seat_number, state)
         	 VALUES ($1, $2, 'available')
       		 ON CONFLICT (trip_id, seat_number) DO NOTHING`,
			id, num,
		)
	}
	if err := db.SendBatch(ctx, batch).Close(); err != nil {
		return 0, err
	}

	return id, nil
}
