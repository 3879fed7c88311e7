package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parking/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_POSTGRES_WRITE_HOST", "primary")
	t.Setenv("BOOKING_MAX_DURATION_MINUTES", "240")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "primary", cfg.DB.Postgres.Write.Host)
	assert.Equal(t, "5432", cfg.DB.Postgres.Write.Port)
	assert.Equal(t, "disable", cfg.DB.Postgres.Write.SSLMode)
	assert.InDelta(t, 10, cfg.Booking.GracePeriodMinutes, 0)
	assert.InDelta(t, 240, cfg.Booking.MaxDurationMinutes, 0)
	assert.Equal(t, 3000, cfg.Booking.SlotLockTimeoutMs)
	assert.True(t, cfg.Booking.ReconcileOnRequest)
	assert.Equal(t, "parking.booking.events", cfg.Kafka.Topic.BookingEvents)
	assert.Equal(t, 2000, cfg.Kafka.PublishTimeoutMs)
}

func TestLoad_RejectsInvalid(t *testing.T) {
	t.Setenv("BOOKING_GRACE_PERIOD_MINUTES", "0")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BOOKING_GRACE_PERIOD_MINUTES")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *config.Config {
		var cfg config.Config
		cfg.Booking.GracePeriodMinutes = 10
		cfg.Booking.SlotLockTimeoutMs = 3000

		return &cfg
	}

	tests := []struct {
		name    string
		mutate  func(cfg *config.Config)
		wantErr string
	}{
		{name: "valid", mutate: func(_ *config.Config) {}},
		{
			name:    "negative duration ceiling",
			mutate:  func(cfg *config.Config) { cfg.Booking.MaxDurationMinutes = -1 },
			wantErr: "BOOKING_MAX_DURATION_MINUTES",
		},
		{
			name:    "no lock timeout",
			mutate:  func(cfg *config.Config) { cfg.Booking.SlotLockTimeoutMs = 0 },
			wantErr: "BOOKING_SLOT_LOCK_TIMEOUT_MS",
		},
		{
			name: "reconciler without interval",
			mutate: func(cfg *config.Config) {
				cfg.Reconciler.Enable = true
				cfg.Reconciler.IntervalSeconds = 0
			},
			wantErr: "RECONCILER_INTERVAL_SECONDS",
		},
		{
			name:    "kafka without brokers",
			mutate:  func(cfg *config.Config) { cfg.Kafka.Enable = true },
			wantErr: "KAFKA_BROKERS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
