package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parking/shared/failure"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantKind failure.Kind
		sentinel error
	}{
		{name: "bad request", err: failure.BadRequest(errors.New("m")), wantCode: http.StatusBadRequest, wantKind: failure.KindInvalidInput, sentinel: failure.ErrInvalidInput},
		{name: "bad request from string", err: failure.BadRequestFromString("m"), wantCode: http.StatusBadRequest, wantKind: failure.KindInvalidInput, sentinel: failure.ErrInvalidInput},
		{name: "unauthorized", err: failure.Unauthorized("m"), wantCode: http.StatusUnauthorized, wantKind: failure.KindUnauthorized},
		{name: "not found", err: failure.NotFound("m"), wantCode: http.StatusNotFound, wantKind: failure.KindNotFound, sentinel: failure.ErrNotFound},
		{name: "already booked", err: failure.AlreadyBooked("m"), wantCode: http.StatusConflict, wantKind: failure.KindAlreadyBooked, sentinel: failure.ErrAlreadyBooked},
		{name: "slot unavailable", err: failure.SlotUnavailable("m"), wantCode: http.StatusConflict, wantKind: failure.KindSlotUnavailable, sentinel: failure.ErrSlotUnavailable},
		{name: "invalid transition", err: failure.InvalidTransition("m"), wantCode: http.StatusConflict, wantKind: failure.KindInvalidTransition, sentinel: failure.ErrInvalidTransition},
		{name: "stale state", err: failure.StaleState("m"), wantCode: http.StatusConflict, wantKind: failure.KindStaleState, sentinel: failure.ErrStaleState},
		{name: "limit exceeded", err: failure.LimitExceeded("m"), wantCode: http.StatusUnprocessableEntity, wantKind: failure.KindLimitExceeded, sentinel: failure.ErrLimitExceeded},
		{name: "unavailable", err: failure.Unavailable(errors.New("m")), wantCode: http.StatusServiceUnavailable, wantKind: failure.KindUnavailable, sentinel: failure.ErrUnavailable},
		{name: "forbidden", err: failure.ForbiddenError, wantCode: http.StatusForbidden, wantKind: failure.KindForbidden, sentinel: failure.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, tt.err)

			assert.Equal(t, tt.wantCode, failure.GetCode(tt.err))
			assert.Equal(t, tt.wantKind, failure.GetKind(tt.err))

			if tt.sentinel != nil {
				assert.ErrorIs(t, tt.err, tt.sentinel)
				assert.ErrorIs(t, fmt.Errorf("wrapped: %w", tt.err), tt.sentinel)
			}
		})
	}
}

func TestNilPassesThrough(t *testing.T) {
	assert.NoError(t, failure.BadRequest(nil))
	assert.NoError(t, failure.Unavailable(nil))
}

func TestFailure_Is(t *testing.T) {
	err := failure.StaleState("booking moved on")

	assert.Equal(t, "booking moved on", err.Error())
	assert.ErrorIs(t, err, failure.ErrStaleState)
	assert.NotErrorIs(t, err, failure.ErrInvalidTransition)
	assert.NotErrorIs(t, err, &failure.Failure{})
	assert.NotErrorIs(t, err, errors.New("booking moved on"))
}

func TestUnavailable_HidesCause(t *testing.T) {
	cause := errors.New(`pq: password authentication failed for user "parking_rw"`)
	err := failure.Unavailable(fmt.Errorf("failed to get booking: %w", cause))

	assert.NotContains(t, err.Error(), "pq:")
	assert.NotContains(t, err.Error(), "parking_rw")
	assert.ErrorIs(t, err, failure.ErrUnavailable)
	assert.ErrorIs(t, err, cause)
}

func TestForeignErrors(t *testing.T) {
	err := errors.New("connection reset")

	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	assert.Equal(t, failure.KindInternal, failure.GetKind(err))
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(&failure.Failure{Kind: failure.KindNotFound}))
}
