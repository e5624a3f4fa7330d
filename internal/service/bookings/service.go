package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/avelorn/busline/internal/domain"
	"github.com/avelorn/busline/internal/repository"
	postgresrepo "github.com/avelorn/busline/internal/repository/postgres"
)

// Service is the booking read path. Bookings are written exclusively by the
// lock commit; this service only looks them up afterwards.
type Service struct {
	store *postgresrepo.Store
}

func New(store *postgresrepo.Store) *Service {
	return &Service{store: store}
}

// GetByReference looks up a booking by its reference for the given user.
// Only the payer can read their booking; lookups by anyone else report
// not-found-shaped ErrAccessDenied upstream, never the booking contents.
func (s *Service) GetByReference(
	ctx context.Context,
	reference string,
	userID int64,
) (*domain.Booking, error) {
	const op = "service.bookings.GetByReference"

	b, err := s.store.Bookings().GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrBookingNotFound)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if b.UserID != userID {
		return nil, fmt.Errorf("%s:%w", op, ErrAccessDenied)
	}

	return b, nil
}
