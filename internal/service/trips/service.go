package trips

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avelorn/busline/internal/domain"
	"github.com/avelorn/busline/internal/repository"
	postgresrepo "github.com/avelorn/busline/internal/repository/postgres"
	redisrepo "github.com/avelorn/busline/internal/repository/redis"
)

type Config struct {
	SummaryTTL      time.Duration
	SeatMapTTL      time.Duration
	AvailabilityTTL time.Duration
}

// Service is the trip read path plus trip publishing. Reads go through a
// short-lived cache of the raw seat snapshot; the per-requester view is
// derived after the cache, so one cached snapshot serves every caller.
type Service struct {
	store *postgresrepo.Store
	cache *redisrepo.Cache
	cfg   Config
}

// TripDetails is a trip with its derived seat matrix for one requester.
type TripDetails struct {
	Trip           domain.Trip
	Matrix         [][]domain.SeatView
	AvailableSeats int
}

func New(store *postgresrepo.Store, cache *redisrepo.Cache, cfg Config) *Service {
	if cfg.SummaryTTL <= 0 {
		cfg.SummaryTTL = time.Minute
	}

	if cfg.SeatMapTTL <= 0 {
		cfg.SeatMapTTL = 3 * time.Second
	}

	if cfg.AvailabilityTTL <= 0 {
		cfg.AvailabilityTTL = 5 * time.Second
	}

	return &Service{store: store, cache: cache, cfg: cfg}
}

// GetTrip returns the trip metadata without the seat matrix.
func (s *Service) GetTrip(ctx context.Context, tripID int64) (*domain.Trip, error) {
	const op = "service.trips.GetTrip"

	trip, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisrepo.KeyTripSummary(tripID),
		s.cfg.SummaryTTL,
		func(ctx context.Context) (domain.Trip, error) {
			t, err := s.store.Trips().Get(ctx, tripID)
			if err != nil {
				return domain.Trip{}, err
			}
			return *t, nil
		},
	)
	if err != nil {
		return nil, translateErr(op, err)
	}

	return &trip, nil
}

// Details returns the trip with its full seat matrix, statuses derived for
// holderID (0 for anonymous). The raw snapshot is cached briefly and shared
// across requesters; derivation happens after the cache, per call.
func (s *Service) Details(ctx context.Context, tripID, holderID int64) (*TripDetails, error) {
	const op = "service.trips.Details"

	trip, err := s.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	seats, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisrepo.KeyTripSeatMap(tripID),
		s.cfg.SeatMapTTL,
		func(ctx context.Context) ([]domain.Seat, error) {
			return s.store.Inventory().SeatMatrix(ctx, tripID)
		},
	)
	if err != nil {
		return nil, translateErr(op, err)
	}

	now := time.Now()

	return &TripDetails{
		Trip:           *trip,
		Matrix:         domain.BuildSeatMatrix(*trip, seats, holderID, now),
		AvailableSeats: domain.CountAvailable(seats, now),
	}, nil
}

// Availability returns cached seat counts by state. Advisory figures for
// list views; the matrix in Details is the authoritative picture.
func (s *Service) Availability(ctx context.Context, tripID int64) (*domain.TripCounts, error) {
	const op = "service.trips.Availability"

	counts, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisrepo.KeyTripAvailability(tripID),
		s.cfg.AvailabilityTTL,
		func(ctx context.Context) (domain.TripCounts, error) {
			if _, err := s.store.Trips().Get(ctx, tripID); err != nil {
				return domain.TripCounts{}, err
			}

			tc, err := s.store.Trips().CountsByState(ctx, tripID)
			if err != nil {
				return domain.TripCounts{}, err
			}

			return *tc, nil
		},
	)
	if err != nil {
		return nil, translateErr(op, err)
	}

	return &counts, nil
}

// PublishTrip creates a trip with its full seat layout. Zero layout fields
// fall back to the standard 12-row 2x2 coach.
func (s *Service) PublishTrip(ctx context.Context, trip domain.Trip) (*domain.Trip, error) {
	const op = "service.trips.PublishTrip"

	if trip.Source == "" || trip.Destination == "" || trip.BusNumber == "" {
		return nil, fmt.Errorf("%s:%w", op, ErrInvalidTrip)
	}

	if trip.FareCents <= 0 {
		return nil, fmt.Errorf("%s:%w", op, ErrInvalidTrip)
	}

	id, err := s.store.Trips().Create(ctx, trip)
	if err != nil {
		return nil, translateErr(op, err)
	}

	created, err := s.store.Trips().Get(ctx, id)
	if err != nil {
		return nil, translateErr(op, err)
	}

	return created, nil
}

func translateErr(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, repository.ErrTripNotFound):
		return fmt.Errorf("%s:%w", op, ErrTripNotFound)
	case errors.Is(err, repository.ErrConflict):
		return fmt.Errorf("%s:%w", op, ErrTripExists)
	}

	return fmt.Errorf("%s:%w", op, err)
}
