package model_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"parking/internal/domains/booking/model"
)

var bookedAt = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func TestBooking_Due(t *testing.T) {
	arrivedAt := bookedAt.Add(2 * time.Minute)

	tests := []struct {
		name     string
		booking  model.Booking
		now      time.Time
		wantTo   string
		wantDue  bool
		gracePer float64
	}{
		{
			name:     "active within grace",
			booking:  model.Booking{BookedAt: bookedAt, DurationMinutes: 60, Status: model.StatusActive},
			now:      bookedAt.Add(10 * time.Minute),
			gracePer: 10,
		},
		{
			name:     "active past grace",
			booking:  model.Booking{BookedAt: bookedAt, DurationMinutes: 60, Status: model.StatusActive},
			now:      bookedAt.Add(11 * time.Minute),
			gracePer: 10,
			wantTo:   model.StatusNoShow,
			wantDue:  true,
		},
		{
			name:     "active past expiry is still a no-show",
			booking:  model.Booking{BookedAt: bookedAt, DurationMinutes: 5, Status: model.StatusActive},
			now:      bookedAt.Add(30 * time.Minute),
			gracePer: 10,
			wantTo:   model.StatusNoShow,
			wantDue:  true,
		},
		{
			name:     "arrived past grace",
			booking:  model.Booking{BookedAt: bookedAt, DurationMinutes: 60, Status: model.StatusArrived, ArrivedAt: &arrivedAt},
			now:      bookedAt.Add(30 * time.Minute),
			gracePer: 10,
		},
		{
			name:     "arrived at expiry",
			booking:  model.Booking{BookedAt: bookedAt, DurationMinutes: 60, Status: model.StatusArrived, ArrivedAt: &arrivedAt},
			now:      bookedAt.Add(60 * time.Minute),
			gracePer: 10,
		},
		{
			name:     "arrived past expiry",
			booking:  model.Booking{BookedAt: bookedAt, DurationMinutes: 60, Status: model.StatusArrived, ArrivedAt: &arrivedAt},
			now:      bookedAt.Add(61 * time.Minute),
			gracePer: 10,
			wantTo:   model.StatusExpired,
			wantDue:  true,
		},
		{
			name:     "fractional duration",
			booking:  model.Booking{BookedAt: bookedAt, DurationMinutes: 0.5, Status: model.StatusArrived, ArrivedAt: &bookedAt},
			now:      bookedAt.Add(31 * time.Second),
			gracePer: 10,
			wantTo:   model.StatusExpired,
			wantDue:  true,
		},
		{
			name:     "arrived with a duration beyond time.Duration",
			booking:  model.Booking{BookedAt: bookedAt, DurationMinutes: 1e9, Status: model.StatusArrived, ArrivedAt: &arrivedAt},
			now:      bookedAt.Add(2 * time.Minute),
			gracePer: 10,
		},
		{
			name:     "terminal is never due",
			booking:  model.Booking{BookedAt: bookedAt, DurationMinutes: 1, Status: model.StatusCancelled},
			now:      bookedAt.Add(24 * time.Hour),
			gracePer: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			to, due := tt.booking.Due(tt.now, tt.gracePer)

			assert.Equal(t, tt.wantDue, due)
			assert.Equal(t, tt.wantTo, to)
		})
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{model.StatusActive, model.StatusArrived, true},
		{model.StatusActive, model.StatusCancelled, true},
		{model.StatusActive, model.StatusNoShow, true},
		{model.StatusActive, model.StatusExpired, true},
		{model.StatusArrived, model.StatusExpired, true},
		{model.StatusArrived, model.StatusCancelled, true},
		{model.StatusArrived, model.StatusNoShow, false},
		{model.StatusArrived, model.StatusActive, false},
		{model.StatusCancelled, model.StatusActive, false},
		{model.StatusNoShow, model.StatusArrived, false},
		{model.StatusExpired, model.StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.want, model.CanTransition(tt.from, tt.to))
		})
	}
}

func TestMinutes_Saturates(t *testing.T) {
	assert.Equal(t, time.Duration(math.MaxInt64), model.Minutes(1e9))
	assert.Equal(t, time.Duration(math.MinInt64), model.Minutes(-1e9))
	assert.Equal(t, time.Duration(model.MaxDurationMinutes)*time.Minute, model.Minutes(model.MaxDurationMinutes))

	b := model.Booking{BookedAt: bookedAt, DurationMinutes: 1e9}
	assert.True(t, b.ExpiryTime().After(bookedAt))
}

func TestBooking_Times(t *testing.T) {
	b := model.Booking{BookedAt: bookedAt, DurationMinutes: 45}

	assert.Equal(t, bookedAt.Add(45*time.Minute), b.ExpiryTime())
	assert.Equal(t, bookedAt.Add(10*time.Minute), b.GraceTime(10))
	assert.Equal(t, 90*time.Second, model.Minutes(1.5))
	assert.False(t, b.HasArrived())
	assert.True(t, model.IsVehicleType(model.VehicleTuktuk))
	assert.False(t, model.IsVehicleType("SPACESHIP"))
}
