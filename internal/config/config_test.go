package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("POSTGRES_USER", "busline")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "busline")
	t.Setenv("JWT_SECRET", "test-jwt-secret")
	t.Setenv("PAYMENT_WEBHOOK_SECRET", "test-webhook-secret")
}

func TestNew_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, "disable", cfg.Postgres.SSLMode)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)

	assert.Equal(t, 10*time.Minute, cfg.App.LockTTL)
	assert.Equal(t, 30*time.Second, cfg.App.SweepInterval)
	assert.Equal(t, 6, cfg.App.MaxSeatsPerLock)
}

func TestNew_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LOCK_TTL", "5m")
	t.Setenv("SWEEP_INTERVAL", "10s")
	t.Setenv("MAX_SEATS_PER_LOCK", "4")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, cfg.App.LockTTL)
	assert.Equal(t, 10*time.Second, cfg.App.SweepInterval)
	assert.Equal(t, 4, cfg.App.MaxSeatsPerLock)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestNew_MissingSecrets(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET", "")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestNew_InvalidDurations(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LOCK_TTL", "soon")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOCK_TTL")
}

func TestNew_InvalidMaxSeats(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MAX_SEATS_PER_LOCK", "0")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_SEATS_PER_LOCK")
}
