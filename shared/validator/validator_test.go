package validator_test

import (
	"strings"
	"testing"

	val "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parking/shared/failure"
	"parking/shared/validator"
)

type extendRequest struct {
	ExtraMinutes float64 `json:"extra_minutes" validate:"gt=0"`
	Reason       string  `json:"reason,omitempty" validate:"omitempty,max=10"`
	Channel      string  `json:"channel"          validate:"required,oneof=app sms"`
	Internal     string  `json:"-"`
}

type trimmedRequest struct {
	Plate string `json:"plate" validate:"required"`
}

func (r *trimmedRequest) Normalize() {
	r.Plate = strings.TrimSpace(r.Plate)
}

func TestValidateStruct_Normalizes(t *testing.T) {
	blank := trimmedRequest{Plate: "   "}
	assert.ErrorIs(t, validator.ValidateStruct(&blank), failure.ErrInvalidInput)

	padded := trimmedRequest{Plate: " KDA 123A\t"}
	require.NoError(t, validator.ValidateStruct(&padded))
	assert.Equal(t, "KDA 123A", padded.Plate)

	decoded := trimmedRequest{}
	require.NoError(t, validator.Validate(strings.NewReader(`{"plate":"  KDA 123A "}`), &decoded))
	assert.Equal(t, "KDA 123A", decoded.Plate)
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		data    extendRequest
		wantMsg string
	}{
		{
			name: "valid",
			data: extendRequest{ExtraMinutes: 15, Channel: "app"},
		},
		{
			name:    "json names in messages",
			data:    extendRequest{ExtraMinutes: 0, Channel: "app"},
			wantMsg: "extra_minutes must be greater than 0",
		},
		{
			name:    "every violation reported",
			data:    extendRequest{ExtraMinutes: 15, Reason: "far too long a reason"},
			wantMsg: "reason must be at most 10; channel is required",
		},
		{
			name:    "oneof",
			data:    extendRequest{ExtraMinutes: 15, Channel: "fax"},
			wantMsg: "channel must be one of app sms",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.data)

			if tt.wantMsg == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, failure.ErrInvalidInput)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestValidateVar(t *testing.T) {
	tests := []struct {
		name    string
		field   any
		tag     string
		wantErr bool
	}{
		{name: "uuid", field: "0b6f3c1e-3f0a-4c55-9a8e-2f1c7d9b6a10", tag: "required,uuid"},
		{name: "not a uuid", field: "booking-1", tag: "required,uuid", wantErr: true},
		{name: "empty", field: "", tag: "required", wantErr: true},
		{name: "in range", field: 30, tag: "gt=0,lte=240"},
		{name: "out of range", field: 300, tag: "gt=0,lte=240", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.field, tt.tag)

			if tt.wantErr {
				assert.ErrorIs(t, err, failure.ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"extra_minutes":15,"channel":"sms"}`},
		{name: "rule violation", body: `{"extra_minutes":-1,"channel":"sms"}`, wantErr: true},
		{name: "malformed", body: `{"extra_minutes":}`, wantErr: true},
		{name: "wrong type", body: `{"extra_minutes":"soon","channel":"sms"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data extendRequest

			err := validator.Validate(strings.NewReader(tt.body), &data)

			if tt.wantErr {
				assert.ErrorIs(t, err, failure.ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRegister(t *testing.T) {
	validator.Register("even", "{field} must be even", func(fl val.FieldLevel) bool {
		return fl.Field().Int()%2 == 0
	})

	type payload struct {
		Count int `json:"count" validate:"even"`
	}

	assert.NoError(t, validator.ValidateStruct(&payload{Count: 4}))

	err := validator.ValidateStruct(&payload{Count: 3})
	require.Error(t, err)
	assert.Equal(t, "count must be even", err.Error())
}

func TestRegister_PanicsOnEmptyTag(t *testing.T) {
	assert.Panics(t, func() {
		validator.Register("", "", func(val.FieldLevel) bool { return true })
	})
}
