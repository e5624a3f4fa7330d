package locks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avelorn/busline/internal/domain"
	redisx "github.com/avelorn/busline/internal/redis"
	"github.com/avelorn/busline/internal/repository"
	postgresrepo "github.com/avelorn/busline/internal/repository/postgres"
	redisrepo "github.com/avelorn/busline/internal/repository/redis"
	"github.com/avelorn/busline/internal/uow"
)

// txAttempts bounds retries of the atomic transition on transient
// serialization failures before surfacing a generic failure.
const txAttempts = 3

type Config struct {
	LockTTL  time.Duration
	MaxSeats int
}

// Service is the Lock Manager: the only entry point for acquiring,
// releasing, and committing temporary seat holds. Every mutation funnels
// into the inventory store's atomic transition cores.
type Service struct {
	store   *postgresrepo.Store
	cache   *redisrepo.Cache
	pubsub  *redisx.TripsPubSub
	limiter *redisrepo.SlidingWindowLimiter
	uow     *uow.UoW
	cfg     Config
}

func New(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisx.TripsPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	cfg Config,
) *Service {
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 10 * time.Minute
	}

	if cfg.MaxSeats <= 0 {
		cfg.MaxSeats = 6
	}

	return &Service{
		store:   store,
		cache:   cache,
		pubsub:  pubsub,
		limiter: limiter,
		uow:     uow.NewUoW(store),
		cfg:     cfg,
	}
}

// LockSeats grants a time-bounded hold on the full seat set, all seats or
// none. Re-locking by the same holder before expiry refreshes the expiry;
// seats the holder held on the trip but dropped from the request are
// released in the same transaction.
//
// Parameters:
//   - ctx: request-scoped context.
//   - tripID: trip the seats belong to.
//   - seatNumbers: the caller's full current selection, e.g. ["A1", "A2"].
//   - holderID: authenticated holder identity; never taken from request
//     bodies.
//   - rlKey: rate-limiter key, empty to skip limiting.
//
// Returns:
//   - *domain.LockHold: the granted hold with its expiry instant.
//   - error: locks.SeatsUnavailableError naming conflicting seats,
//     locks.ErrTripNotFound, locks.ErrTooManySeats, locks.UnknownSeatsError.
func (s *Service) LockSeats(
	ctx context.Context,
	tripID int64,
	seatNumbers []string,
	holderID int64,
	rlKey string,
) (*domain.LockHold, error) {
	const op = "service.locks.LockSeats"

	if len(seatNumbers) == 0 {
		return nil, fmt.Errorf("%s:%w", op, ErrNoSeatsRequested)
	}

	seatNumbers = dedupeSeats(seatNumbers)

	if len(seatNumbers) > s.cfg.MaxSeats {
		return nil, fmt.Errorf("%s:%w", op, ErrTooManySeats)
	}

	if s.limiter != nil && rlKey != "" {
		ok, _, retry, err := s.limiter.Allow(ctx, rlKey)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}
		if !ok {
			return nil, fmt.Errorf("%s: rate limited, retry in %s", op, retry)
		}
	}

	var expiry time.Time

	err := s.withRetry(ctx, func(ctx context.Context) error {
		return s.uow.Do(ctx, func(
			ctx context.Context,
			tx postgresrepo.DB,
			after func(uow.AfterCommit),
		) error {
			exp, err := s.store.Inventory().
				With(tx).
				LockSeats(ctx, tripID, seatNumbers, holderID, s.cfg.LockTTL)
			if err != nil {
				return translateErr(op, err)
			}

			expiry = exp

			after(func(ctx context.Context) {
				_ = s.cache.InvalidateTrip(ctx, tripID)
				_ = s.pubsub.PublishTripChanged(ctx, tripID)
			})

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return &domain.LockHold{
		TripID:    tripID,
		HolderID:  holderID,
		Seats:     seatNumbers,
		ExpiresAt: expiry,
	}, nil
}

// ReleaseSeats returns the holder's locked seats to available. Seats the
// holder does not hold are skipped without error; a release never leaks
// conflict information about other holders.
func (s *Service) ReleaseSeats(
	ctx context.Context,
	tripID int64,
	seatNumbers []string,
	holderID int64,
) error {
	const op = "service.locks.ReleaseSeats"

	if len(seatNumbers) == 0 {
		return fmt.Errorf("%s:%w", op, ErrNoSeatsRequested)
	}

	seatNumbers = dedupeSeats(seatNumbers)

	return s.withRetry(ctx, func(ctx context.Context) error {
		return s.uow.Do(ctx, func(
			ctx context.Context,
			tx postgresrepo.DB,
			after func(uow.AfterCommit),
		) error {
			err := s.store.Inventory().
				With(tx).
				ReleaseSeats(ctx, tripID, seatNumbers, holderID)
			if err != nil {
				return translateErr(op, err)
			}

			after(func(ctx context.Context) {
				_ = s.cache.InvalidateTrip(ctx, tripID)
				_ = s.pubsub.PublishTripChanged(ctx, tripID)
			})

			return nil
		})
	})
}

// CommitBooking converts a live hold into a permanent booking. It is invoked
// from the payment callback after a successful settlement.
//
// Returns:
//   - *domain.Booking: the created booking.
//   - error: locks.ErrLockExpired if the hold lapsed before commit,
//     locks.ErrLockOwnerMismatch if the lock belongs to someone else (an
//     integrity error, logged upstream, never silently retried),
//     locks.ErrBookingConflict if the reference was already used.
func (s *Service) CommitBooking(
	ctx context.Context,
	tripID int64,
	seatNumbers []string,
	holderID int64,
	reference string,
	amountCents int64,
) (*domain.Booking, error) {
	const op = "service.locks.CommitBooking"

	if len(seatNumbers) == 0 {
		return nil, fmt.Errorf("%s:%w", op, ErrNoSeatsRequested)
	}

	seatNumbers = dedupeSeats(seatNumbers)

	if amountCents <= 0 {
		return nil, fmt.Errorf("%s: amount must be positive", op)
	}

	var booking *domain.Booking

	err := s.withRetry(ctx, func(ctx context.Context) error {
		return s.uow.Do(ctx, func(
			ctx context.Context,
			tx postgresrepo.DB,
			after func(uow.AfterCommit),
		) error {
			b, err := s.store.Inventory().
				With(tx).
				CommitSeats(ctx, tripID, seatNumbers, holderID, reference, amountCents)
			if err != nil {
				return translateErr(op, err)
			}

			booking = b

			after(func(ctx context.Context) {
				_ = s.cache.InvalidateTrip(ctx, tripID)
				_ = s.pubsub.PublishTripChanged(ctx, tripID)
			})

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return booking, nil
}

// SweepExpired reclaims every lapsed lock across all trips. Housekeeping
// only: the read and transition paths already treat expired locks as
// available at point of use.
//
// Returns:
//   - int64: the number of seats released.
func (s *Service) SweepExpired(ctx context.Context) (int64, error) {
	const op = "service.locks.SweepExpired"

	released, err := s.store.Inventory().SweepExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s:%w", op, err)
	}

	return released, nil
}

// withRetry re-runs fn on transient serialization failures, up to
// txAttempts, with a short linear backoff. Domain outcomes (conflicts,
// expiries) are never retried.
func (s *Service) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error

	for attempt := 1; attempt <= txAttempts; attempt++ {
		err = fn(ctx)
		if err == nil || !postgresrepo.IsRetryable(err) {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * 25 * time.Millisecond):
		}
	}

	return err
}

// dedupeSeats drops repeated seat numbers, keeping first-seen order. The
// repository cores compare RowsAffected against the requested count, so the
// count must reflect distinct seats.
func dedupeSeats(nums []string) []string {
	seen := make(map[string]struct{}, len(nums))

	out := make([]string, 0, len(nums))
	for _, num := range nums {
		if _, dup := seen[num]; dup {
			continue
		}
		seen[num] = struct{}{}
		out = append(out, num)
	}

	return out
}

func translateErr(op string, err error) error {
	var unavailable domain.SeatsUnavailableError
	if errors.As(err, &unavailable) {
		return fmt.Errorf("%s:%w", op, SeatsUnavailableError{Seats: unavailable.Seats})
	}

	var unknown domain.UnknownSeatsError
	if errors.As(err, &unknown) {
		return fmt.Errorf("%s:%w", op, UnknownSeatsError{Seats: unknown.Seats})
	}

	switch {
	case errors.Is(err, repository.ErrTripNotFound):
		return fmt.Errorf("%s:%w", op, ErrTripNotFound)
	case errors.Is(err, domain.ErrLockExpired):
		return fmt.Errorf("%s:%w", op, ErrLockExpired)
	case errors.Is(err, domain.ErrLockOwnerMismatch):
		return fmt.Errorf("%s:%w", op, ErrLockOwnerMismatch)
	case errors.Is(err, repository.ErrConflict):
		return fmt.Errorf("%s:%w", op, ErrBookingConflict)
	}

	return fmt.Errorf("%s:%w", op, err)
}
