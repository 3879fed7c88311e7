package dto_test

import (
	"testing"
	"time"

	"parking/internal/domains/booking/model"
	"parking/internal/domains/booking/model/dto"
	"parking/shared/constant"
	"parking/shared/failure"
	"parking/shared/timezone"
	"parking/shared/validator"

	"github.com/stretchr/testify/assert"
)

func TestCreateBookingRequest_ToModel(t *testing.T) {
	now := timezone.Now()
	req := dto.CreateBookingRequest{
		SlotID:          "slot-1",
		VehicleType:     model.VehicleTaxi,
		VehicleReg:      "KCB 001Z",
		PhoneNumber:     "254711000000",
		DurationMinutes: 45,
	}

	booking := req.ToModel("user-1", now)

	assert.NotEmpty(t, booking.ID, "expected ID to be generated")
	assert.Equal(t, "user-1", booking.UserID)
	assert.Equal(t, req.SlotID, booking.SlotID)
	assert.Equal(t, now, booking.BookedAt)
	assert.InDelta(t, 45, booking.DurationMinutes, 0)
	assert.Equal(t, model.StatusActive, booking.Status)
	assert.Equal(t, model.PaymentPending, booking.PaymentStatus)
	assert.Nil(t, booking.ArrivedAt)
	assert.Equal(t, "user-1", booking.CreatedBy)
}

func TestCreateBookingRequest_Validation(t *testing.T) {
	valid := dto.CreateBookingRequest{
		SlotID:          "slot-1",
		VehicleType:     model.VehiclePrivate,
		VehicleReg:      "KDA 123A",
		PhoneNumber:     "254700000000",
		DurationMinutes: 30,
	}

	tests := []struct {
		name    string
		mutate  func(r *dto.CreateBookingRequest)
		wantErr bool
	}{
		{name: "valid", mutate: func(_ *dto.CreateBookingRequest) {}},
		{name: "fractional duration", mutate: func(r *dto.CreateBookingRequest) { r.DurationMinutes = 0.5 }},
		{name: "zero duration", mutate: func(r *dto.CreateBookingRequest) { r.DurationMinutes = 0 }, wantErr: true},
		{name: "negative duration", mutate: func(r *dto.CreateBookingRequest) { r.DurationMinutes = -5 }, wantErr: true},
		{name: "unknown vehicle", mutate: func(r *dto.CreateBookingRequest) { r.VehicleType = "HOVERCRAFT" }, wantErr: true},
		{name: "missing slot", mutate: func(r *dto.CreateBookingRequest) { r.SlotID = "" }, wantErr: true},
		{name: "missing phone", mutate: func(r *dto.CreateBookingRequest) { r.PhoneNumber = "" }, wantErr: true},
		{name: "blank registration", mutate: func(r *dto.CreateBookingRequest) { r.VehicleReg = "  \t " }, wantErr: true},
		{name: "blank phone", mutate: func(r *dto.CreateBookingRequest) { r.PhoneNumber = "   " }, wantErr: true},
		{name: "padded vehicle type", mutate: func(r *dto.CreateBookingRequest) { r.VehicleType = " PRIVATE " }},
		{name: "one year", mutate: func(r *dto.CreateBookingRequest) { r.DurationMinutes = model.MaxDurationMinutes }},
		{name: "beyond one year", mutate: func(r *dto.CreateBookingRequest) { r.DurationMinutes = 1e9 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			err := validator.ValidateStruct(&req)

			if tt.wantErr {
				assert.ErrorIs(t, err, failure.ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateBookingRequest_Normalize(t *testing.T) {
	req := dto.CreateBookingRequest{
		SlotID:          " slot-1 ",
		VehicleType:     "TAXI\n",
		VehicleReg:      "  KCB 001Z",
		PhoneNumber:     "254711000000 ",
		DurationMinutes: 30,
	}

	assert.NoError(t, validator.ValidateStruct(&req))
	assert.Equal(t, "slot-1", req.SlotID)
	assert.Equal(t, model.VehicleTaxi, req.VehicleType)
	assert.Equal(t, "KCB 001Z", req.VehicleReg)
	assert.Equal(t, "254711000000", req.PhoneNumber)
}

func TestExtendBookingRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		minutes float64
		wantErr bool
	}{
		{name: "fifteen minutes", minutes: 15},
		{name: "zero", minutes: 0, wantErr: true},
		{name: "beyond one year", minutes: model.MaxDurationMinutes + 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := dto.ExtendBookingRequest{ExtraMinutes: tt.minutes}

			err := validator.ValidateStruct(&req)

			if tt.wantErr {
				assert.ErrorIs(t, err, failure.ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStatusResponse_FromModel(t *testing.T) {
	bookedAt := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	arrivedAt := bookedAt.Add(3 * time.Minute)

	booking := model.Booking{
		ID:              "booking-1",
		SlotID:          "slot-1",
		BookedAt:        bookedAt,
		DurationMinutes: 30,
		ArrivedAt:       &arrivedAt,
		Status:          model.StatusArrived,
	}

	var res dto.StatusResponse
	res.FromModel(booking, 10)

	assert.True(t, res.HasBooking)
	assert.Equal(t, booking.ID, res.BookingID)
	assert.Equal(t, model.StatusArrived, res.Status)
	assert.Equal(t, timezone.Format(bookedAt.Add(30*time.Minute), constant.DateFormat), res.ExpiryTimestamp)
	assert.Equal(t, timezone.Format(bookedAt.Add(10*time.Minute), constant.DateFormat), res.GraceTimestamp)
	assert.Equal(t, timezone.Format(arrivedAt, constant.DateFormat), res.ArrivedAt)
}

func TestGetBookingsResponse_FromModels(t *testing.T) {
	bookings := []model.Booking{
		{ID: "a", Status: model.StatusActive, DurationMinutes: 10},
		{ID: "b", Status: model.StatusNoShow, DurationMinutes: 20},
	}

	var res dto.GetBookingsResponse
	res.FromModels(bookings, 12, 5, 10)

	assert.Len(t, res.Bookings, 2)
	assert.Equal(t, 12, res.TotalData)
	assert.Equal(t, 3, res.TotalPage)
	assert.Equal(t, "b", res.Bookings[1].ID)
	assert.Empty(t, res.Bookings[0].ArrivedAt)
}
