package service

import (
	redisx "github.com/avelorn/busline/internal/redis"
	postgresrepo "github.com/avelorn/busline/internal/repository/postgres"
	redisrepo "github.com/avelorn/busline/internal/repository/redis"
	"github.com/avelorn/busline/internal/service/bookings"
	"github.com/avelorn/busline/internal/service/locks"
	"github.com/avelorn/busline/internal/service/trips"
)

type Config struct {
	Locks locks.Config
	Trips trips.Config
}

// Services bundles the application services behind one constructor so the
// composition root wires dependencies exactly once.
type Services struct {
	Locks    *locks.Service
	Trips    *trips.Service
	Bookings *bookings.Service
}

func NewServices(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisx.TripsPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	cfg Config,
) *Services {
	return &Services{
		Locks:    locks.New(store, cache, pubsub, limiter, cfg.Locks),
		Trips:    trips.New(store, cache, cfg.Trips),
		Bookings: bookings.New(store),
	}
}
