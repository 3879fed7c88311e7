package dto

import (
	"parking/internal/domains/booking/model"
	"parking/shared"
	"parking/shared/constant"
	gDto "parking/shared/dto"
	gModel "parking/shared/model"
	"parking/shared/timezone"
	"parking/shared/validator"
	"strings"
	"time"

	val "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

func init() {
	validator.Register("vehicletype", "{field} must be one of "+strings.Join(model.VehicleTypes, " "),
		func(fl val.FieldLevel) bool {
			return model.IsVehicleType(fl.Field().String())
		})
}

type CreateBookingRequest struct {
	SlotID          string  `json:"slot_id"          validate:"required"`
	VehicleType     string  `json:"vehicle_type"     validate:"required,vehicletype"`
	VehicleReg      string  `json:"vehicle_reg"      validate:"required,max=20"`
	PhoneNumber     string  `json:"phone_number"     validate:"required,max=20"`
	DurationMinutes float64 `json:"duration_minutes" validate:"gt=0,lte=525600"`
}

// Normalize trims the free-text fields so whitespace alone fails the required rules.
func (c *CreateBookingRequest) Normalize() {
	c.SlotID = strings.TrimSpace(c.SlotID)
	c.VehicleType = strings.TrimSpace(c.VehicleType)
	c.VehicleReg = strings.TrimSpace(c.VehicleReg)
	c.PhoneNumber = strings.TrimSpace(c.PhoneNumber)
}

func (c *CreateBookingRequest) ToModel(userID string, now time.Time) model.Booking {
	return model.Booking{
		ID:              uuid.NewString(),
		UserID:          userID,
		SlotID:          c.SlotID,
		VehicleType:     c.VehicleType,
		VehicleReg:      c.VehicleReg,
		PhoneNumber:     c.PhoneNumber,
		BookedAt:        now,
		DurationMinutes: c.DurationMinutes,
		Status:          model.StatusActive,
		PaymentStatus:   model.PaymentPending,
		Metadata:        gModel.NewMetadata(userID, now),
	}
}

type ExtendBookingRequest struct {
	ExtraMinutes float64 `json:"extra_minutes" validate:"gt=0,lte=525600"`
}

type BookingResponse struct {
	ID              string  `json:"id"`
	UserID          string  `json:"user_id"`
	SlotID          string  `json:"slot_id"`
	VehicleType     string  `json:"vehicle_type"`
	VehicleReg      string  `json:"vehicle_reg"`
	PhoneNumber     string  `json:"phone_number"`
	BookedAt        string  `json:"booked_at"`
	DurationMinutes float64 `json:"duration_minutes"`
	ArrivedAt       string  `json:"arrived_at,omitempty"`
	ExpiryTime      string  `json:"expiry_time"`
	GraceTime       string  `json:"grace_time"`
	Status          string  `json:"status"`
	AmountDue       float64 `json:"amount_due"`
	AmountPaid      float64 `json:"amount_paid"`
	PaymentStatus   string  `json:"payment_status"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking, gracePeriodMinutes float64) {
	r.ID = model.ID
	r.UserID = model.UserID
	r.SlotID = model.SlotID
	r.VehicleType = model.VehicleType
	r.VehicleReg = model.VehicleReg
	r.PhoneNumber = model.PhoneNumber
	r.BookedAt = timezone.Format(model.BookedAt, constant.DateFormat)
	r.DurationMinutes = model.DurationMinutes
	r.ExpiryTime = timezone.Format(model.ExpiryTime(), constant.DateFormat)
	r.GraceTime = timezone.Format(model.GraceTime(gracePeriodMinutes), constant.DateFormat)
	r.Status = model.Status
	r.AmountDue = model.AmountDue
	r.AmountPaid = model.AmountPaid
	r.PaymentStatus = model.PaymentStatus

	if model.ArrivedAt != nil {
		r.ArrivedAt = timezone.Format(*model.ArrivedAt, constant.DateFormat)
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int, gracePeriodMinutes float64) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod, gracePeriodMinutes)
	}
}

// StatusResponse answers "do I hold a booking right now". Only HasBooking is set when the
// caller holds none.
type StatusResponse struct {
	HasBooking      bool   `json:"has_booking"`
	BookingID       string `json:"booking_id,omitempty"`
	SlotID          string `json:"slot_id,omitempty"`
	Status          string `json:"status,omitempty"`
	ArrivedAt       string `json:"arrived_at,omitempty"`
	ExpiryTimestamp string `json:"expiry_timestamp,omitempty"`
	GraceTimestamp  string `json:"grace_timestamp,omitempty"`
}

func (r *StatusResponse) FromModel(model model.Booking, gracePeriodMinutes float64) {
	r.HasBooking = true
	r.BookingID = model.ID
	r.SlotID = model.SlotID
	r.Status = model.Status
	r.ExpiryTimestamp = timezone.Format(model.ExpiryTime(), constant.DateFormat)
	r.GraceTimestamp = timezone.Format(model.GraceTime(gracePeriodMinutes), constant.DateFormat)

	if model.ArrivedAt != nil {
		r.ArrivedAt = timezone.Format(*model.ArrivedAt, constant.DateFormat)
	}
}

type ArrivalResponse struct {
	ArrivedAt string `json:"arrived_at"`
	Status    string `json:"status"`
}

type ExtendResponse struct {
	ExpiryTimestamp string `json:"expiry_timestamp"`
}

type ReconcileResponse struct {
	Expired int `json:"expired"`
	NoShow  int `json:"no_show"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}
