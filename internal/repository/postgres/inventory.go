package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avelorn/busline/internal/domain"
	"github.com/avelorn/busline/internal/repository"
)

// InventoryRepo is the authoritative owner of seat state. Every mutation goes
// through one of its transition cores inside a serializable transaction with
// the affected rows locked, so no other code path can interleave a write.
type InventoryRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *InventoryRepo) With(db DB) *InventoryRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *InventoryRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// SeatMatrix reads the current state of every seat of a trip, lazily flipping
// seats whose lock has visibly expired back to available before returning.
//
// Returns:
//   - []domain.Seat: all seat rows in seat-number order.
//   - error: repository.ErrTripNotFound if the trip id is unknown.
func (r *InventoryRepo) SeatMatrix(ctx context.Context, tripID int64) ([]domain.Seat, error) {
	const op = "postgres.InventoryRepo.SeatMatrix"

	if r.db != nil {
		seats, err := r.seatMatrixCore(ctx, r.db, tripID)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}
		return seats, nil
	}

	var seats []domain.Seat
	err := r.runTx(ctx, func(ctx context.Context, tx DB) error {
		var err error
		seats, err = r.seatMatrixCore(ctx, tx, tripID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return seats, nil
}

// LockSeats atomically grants LOCKED(holder, now+ttl) for the full seat set.
//
// Returns:
//   - time.Time: the granted expiry instant.
//   - error: repository.ErrTripNotFound, domain.UnknownSeatsError, or
//     domain.SeatsUnavailableError naming the conflicting seats. On any
//     error no seat of the request is locked.
func (r *InventoryRepo) LockSeats(
	ctx context.Context,
	tripID int64,
	seatNumbers []string,
	holderID int64,
	ttl time.Duration,
) (time.Time, error) {
	const op = "postgres.InventoryRepo.LockSeats"

	var expiry time.Time

	run := func(ctx context.Context, db DB) error {
		var err error
		expiry, err = r.lockSeatsCore(ctx, db, tripID, seatNumbers, holderID, ttl)
		return err
	}

	var err error
	if r.db != nil {
		err = run(ctx, r.db)
	} else {
		err = r.runTx(ctx, run)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return expiry, nil
}

// ReleaseSeats transitions LOCKED(holder) -> AVAILABLE for the given seats.
// Seats not locked by the holder are skipped silently.
func (r *InventoryRepo) ReleaseSeats(
	ctx context.Context,
	tripID int64,
	seatNumbers []string,
	holderID int64,
) error {
	const op = "postgres.InventoryRepo.ReleaseSeats"

	run := func(ctx context.Context, db DB) error {
		return r.releaseSeatsCore(ctx, db, tripID, seatNumbers, holderID)
	}

	var err error
	if r.db != nil {
		err = run(ctx, r.db)
	} else {
		err = r.runTx(ctx, run)
	}
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return nil
}

// CommitSeats converts the holder's live lock on the given seats into a
// permanent booking.
//
// Returns:
//   - *domain.Booking: the created booking.
//   - error: domain.ErrLockExpired or domain.ErrLockOwnerMismatch if any
//     seat's lock is lapsed or foreign; repository.ErrConflict if the booking
//     reference was already used. No seat state changes on error.
func (r *InventoryRepo) CommitSeats(
	ctx context.Context,
	tripID int64,
	seatNumbers []string,
	holderID int64,
	reference string,
	amountCents int64,
) (*domain.Booking, error) {
	const op = "postgres.InventoryRepo.CommitSeats"

	var booking *domain.Booking

	run := func(ctx context.Context, db DB) error {
		var err error
		booking, err = r.commitSeatsCore(ctx, db, tripID, seatNumbers, holderID, reference, amountCents)
		return err
	}

	var err error
	if r.db != nil {
		err = run(ctx, r.db)
	} else {
		err = r.runTx(ctx, run)
	}
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return booking, nil
}

// SweepExpired reclaims every seat on any trip whose lock expiry has passed.
//
// Returns:
//   - int64: the number of seats released.
func (r *InventoryRepo) SweepExpired(ctx context.Context) (int64, error) {
	const op = "postgres.InventoryRepo.SweepExpired"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE seats
        	SET state = 'available', holder_id = NULL, lock_expires_at = NULL
      	 WHERE state = 'locked' AND lock_expires_at <= now()`,
	)
	if err != nil {
		return 0, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return tag.RowsAffected(), nil
}

func (r *InventoryRepo) runTx(ctx context.Context, fn func(ctx context.Context, tx DB) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.Serializable,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return err
	}

	defer tx.Rollback(ctx)

	if err := fn(ctx, tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *InventoryRepo) seatMatrixCore(ctx context.Context, db DB, tripID int64) ([]domain.Seat, error) {
	if _, _, err := tripLayout(ctx, db, tripID); err != nil {
		return nil, err
	}

	if _, err := db.Exec(ctx,
		`UPDATE seats
        	SET state = 'available', holder_id = NULL, lock_expires_at = NULL
      	 WHERE trip_id = $1
        	AND state = 'locked'
        	AND lock_expires_at <= now()`,
		tripID,
	); err != nil {
		return nil, err
	}

	rows, err := db.Query(ctx,
		`SELECT trip_id, seat_number, state, holder_id, lock_expires_at, booking_id
       	 FROM seats
      	 WHERE trip_id = $1
      	 ORDER BY seat_number`,
		tripID,
	)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	return scanSeats(rows)
}

func (r *InventoryRepo) lockSeatsCore(
	ctx context.Context,
	db DB,
	tripID int64,
	seatNumbers []string,
	holderID int64,
	ttl time.Duration,
) (time.Time, error) {
	layoutRows, perRow, err := tripLayout(ctx, db, tripID)
	if err != nil {
		return time.Time{}, err
	}

	var unknown []string
	for _, num := range seatNumbers {
		if _, _, ok := domain.ParseSeatNumber(num, layoutRows, perRow); !ok {
			unknown = append(unknown, num)
		}
	}
	if len(unknown) > 0 {
		return time.Time{}, domain.UnknownSeatsError{Seats: unknown}
	}

	// Row locks are taken in seat-number order so concurrent overlapping
	// requests cannot deadlock each other.
	snapshot, err := lockSnapshot(ctx, db,
		`SELECT trip_id, seat_number, state, holder_id, lock_expires_at, booking_id
       	 FROM seats
      	 WHERE trip_id = $1
        	AND (seat_number = ANY($2) OR (state = 'locked' AND holder_id = $3))
      	 ORDER BY seat_number
        FOR UPDATE`,
		tripID, seatNumbers, holderID,
	)
	if err != nil {
		return time.Time{}, err
	}

	plan, err := domain.PlanLock(snapshot, seatNumbers, holderID, time.Now(), ttl)
	if err != nil {
		return time.Time{}, err
	}

	tag, err := db.Exec(ctx,
		`UPDATE seats
        	SET state = 'locked', holder_id = $3, lock_expires_at = $4
      	 WHERE trip_id = $1 AND seat_number = ANY($2)`,
		tripID, plan.Lock, holderID, plan.ExpiresAt,
	)
	if err != nil {
		return time.Time{}, err
	}

	if int(tag.RowsAffected()) != len(plan.Lock) {
		return time.Time{}, repository.ErrConflict
	}

	if len(plan.Release) > 0 {
		if _, err := db.Exec(ctx,
			`UPDATE seats
            	SET state = 'available', holder_id = NULL, lock_expires_at = NULL
          	 WHERE trip_id = $1 AND seat_number = ANY($2) AND holder_id = $3`,
			tripID, plan.Release, holderID,
		); err != nil {
			return time.Time{}, err
		}
	}

	return plan.ExpiresAt, nil
}

func (r *InventoryRepo) releaseSeatsCore(
	ctx context.Context,
	db DB,
	tripID int64,
	seatNumbers []string,
	holderID int64,
) error {
	if _, _, err := tripLayout(ctx, db, tripID); err != nil {
		return err
	}

	snapshot, err := lockSnapshot(ctx, db,
		`SELECT trip_id, seat_number, state, holder_id, lock_expires_at, booking_id
       	 FROM seats
      	 WHERE trip_id = $1 AND seat_number = ANY($2)
      	 ORDER BY seat_number
        FOR UPDATE`,
		tripID, seatNumbers,
	)
	if err != nil {
		return err
	}

	release := domain.PlanRelease(snapshot, seatNumbers, holderID)
	if len(release) == 0 {
		return nil
	}

	_, err = db.Exec(ctx,
		`UPDATE seats
        	SET state = 'available', holder_id = NULL, lock_expires_at = NULL
      	 WHERE trip_id = $1
        	AND seat_number = ANY($2)
        	AND state = 'locked'
        	AND holder_id = $3`,
		tripID, release, holderID,
	)

	return err
}

func (r *InventoryRepo) commitSeatsCore(
	ctx context.Context,
	db DB,
	tripID int64,
	seatNumbers []string,
	holderID int64,
	reference string,
	amountCents int64,
) (*domain.Booking, error) {
	if _, _, err := tripLayout(ctx, db, tripID); err != nil {
		return nil, err
	}

	snapshot, err := lockSnapshot(ctx, db,
		`SELECT trip_id, seat_number, state, holder_id, lock_expires_at, booking_id
       	 FROM seats
      	 WHERE trip_id = $1 AND seat_number = ANY($2)
      	 ORDER BY seat_number
        FOR UPDATE`,
		tripID, seatNumbers,
	)
	if err != nil {
		return nil, err
	}

	if err := domain.PlanCommit(snapshot, seatNumbers, holderID, time.Now()); err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		ID:          uuid.New(),
		Reference:   reference,
		TripID:      tripID,
		UserID:      holderID,
		Seats:       append([]string(nil), seatNumbers...),
		AmountCents: amountCents,
		CreatedAt:   time.Now(),
	}

	if err := db.QueryRow(ctx,
		`INSERT INTO bookings(id, booking_reference, trip_id, user_id, seat_count, amount_cents)
       	 VALUES ($1, $2, $3, $4, $5, $6)
      	 RETURNING created_at`,
		booking.ID, booking.Reference, tripID, holderID, len(seatNumbers), amountCents,
	).Scan(&booking.CreatedAt); err != nil {
		return nil, err
	}

	tag, err := db.Exec(ctx,
		`UPDATE seats
        	SET state = 'booked', booking_id = $3, holder_id = NULL, lock_expires_at = NULL
      	 WHERE trip_id = $1
        	AND seat_number = ANY($2)
        	AND state = 'locked'`,
		tripID, seatNumbers, booking.ID,
	)
	if err != nil {
		return nil, err
	}

	if int(tag.RowsAffected()) != len(seatNumbers) {
		return nil, repository.ErrConflict
	}

	return booking, nil
}

func tripLayout(ctx context.Context, db DB, tripID int64) (rows, seatsPerRow int, err error) {
	err = db.QueryRow(ctx,
		`SELECT total_rows, seats_per_row FROM trips WHERE id = $1`,
		tripID,
	).Scan(&rows, &seatsPerRow)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, repository.ErrTripNotFound
		}
		return 0, 0, err
	}

	return rows, seatsPerRow, nil
}

func lockSnapshot(ctx context.Context, db DB, sql string, args ...any) ([]domain.Seat, error) {
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	return scanSeats(rows)
}

func scanSeats(rows pgx.Rows) ([]domain.Seat, error) {
	var out []domain.Seat
	for rows.Next() {
		var s domain.Seat
		var state string

		if err := rows.Scan(
			&s.TripID,
			&s.Number,
			&state,
			&s.HolderID,
			&s.LockExpiresAt,
			&s.BookingID,
		); err != nil {
			return nil, err
		}

		s.State = domain.SeatState(state)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
