package model

import (
	"math"
	"parking/shared/model"
	"slices"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID              = "id"
	FieldUserID          = "user_id"
	FieldSlotID          = "slot_id"
	FieldVehicleType     = "vehicle_type"
	FieldBookedAt        = "booked_at"
	FieldDurationMinutes = "duration_minutes"
	FieldArrivedAt       = "arrived_at"
	FieldStatus          = "status"
)

const (
	StatusActive    = "active"
	StatusArrived   = "arrived"
	StatusExpired   = "expired"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

const (
	VehiclePrivate   = "PRIVATE"
	VehiclePickup    = "PICKUP"
	VehicleMotorbike = "MOTORBIKE"
	VehicleTuktuk    = "TUKTUK"
	VehicleCanter    = "CANTER"
	VehicleTaxi      = "TAXI"
	VehicleLorry     = "LORRY"
	VehicleMinibus   = "MINIBUS"
	VehicleTrailer   = "TRAILER"
)

const (
	// MaxDurationMinutes bounds the total duration of a booking, one year, whether or not a lower
	// ceiling is configured.
	MaxDurationMinutes = 525600

	// MaxUserIDLength is the width of bookings.user_id.
	MaxUserIDLength = 64
)

// LiveStatuses are the statuses that hold a slot.
var LiveStatuses = []string{StatusActive, StatusArrived}

var VehicleTypes = []string{
	VehiclePrivate, VehiclePickup, VehicleMotorbike, VehicleTuktuk, VehicleCanter,
	VehicleTaxi, VehicleLorry, VehicleMinibus, VehicleTrailer,
}

// transitions lists every allowed edge. Terminal statuses have no entry.
var transitions = map[string][]string{
	StatusActive:  {StatusArrived, StatusCancelled, StatusNoShow, StatusExpired},
	StatusArrived: {StatusExpired, StatusCancelled},
}

func IsVehicleType(vehicleType string) bool {
	return slices.Contains(VehicleTypes, vehicleType)
}

func IsLive(status string) bool {
	return slices.Contains(LiveStatuses, status)
}

func IsTerminal(status string) bool {
	return !IsLive(status)
}

func CanTransition(from, to string) bool {
	return slices.Contains(transitions[from], to)
}

type Booking struct {
	ID                string     `db:"id"`
	UserID            string     `db:"user_id"`
	SlotID            string     `db:"slot_id"`
	VehicleType       string     `db:"vehicle_type"`
	VehicleReg        string     `db:"vehicle_reg"`
	PhoneNumber       string     `db:"phone_number"`
	BookedAt          time.Time  `db:"booked_at"`
	DurationMinutes   float64    `db:"duration_minutes"`
	ArrivedAt         *time.Time `db:"arrived_at"`
	Status            string     `db:"status"`
	AmountDue         float64    `db:"amount_due"`
	AmountPaid        float64    `db:"amount_paid"`
	PaymentStatus     string     `db:"payment_status"`
	MerchantRequestID *string    `db:"merchant_request_id"`
	CheckoutRequestID *string    `db:"checkout_request_id"`
	model.Metadata
}

// Minutes converts fractional minutes to a duration with sub-second precision. Values beyond
// the range of time.Duration saturate instead of wrapping.
func Minutes(minutes float64) time.Duration {
	d := minutes * float64(time.Minute)

	switch {
	case d >= math.MaxInt64:
		return time.Duration(math.MaxInt64)
	case d <= math.MinInt64:
		return time.Duration(math.MinInt64)
	}

	return time.Duration(d)
}

// ExpiryTime is the end of the reserved window.
func (b Booking) ExpiryTime() time.Time {
	return b.BookedAt.Add(Minutes(b.DurationMinutes))
}

// GraceTime is the arrival deadline. It does not depend on the requested duration.
func (b Booking) GraceTime(gracePeriodMinutes float64) time.Time {
	return b.BookedAt.Add(Minutes(gracePeriodMinutes))
}

func (b Booking) HasArrived() bool {
	return b.ArrivedAt != nil
}

// Due reports the terminal status a live booking must move to at now, or false when it is still
// within its window. An arrived booking is judged only against its expiry, a booking that never
// arrived only against its grace deadline.
func (b Booking) Due(now time.Time, gracePeriodMinutes float64) (string, bool) {
	if !IsLive(b.Status) {
		return "", false
	}

	if b.HasArrived() {
		if now.After(b.ExpiryTime()) {
			return StatusExpired, true
		}

		return "", false
	}

	if now.After(b.GraceTime(gracePeriodMinutes)) {
		return StatusNoShow, true
	}

	return "", false
}

// Transition is a compare-and-swap status change: it applies only while the stored status is
// still From.
type Transition struct {
	BookingID string
	From      string
	To        string
	ArrivedAt *time.Time
	At        time.Time
	By        string
}
