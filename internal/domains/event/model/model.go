package model

import "time"

const (
	TableName  = "booking_events"
	EntityName = "booking_event"

	FieldID        = "id"
	FieldBookingID = "booking_id"
	FieldEventType = "event_type"
	FieldCreatedAt = "created_at"
)

const (
	TypeArrived   = "arrived"
	TypeExtended  = "extended"
	TypeCancelled = "cancelled"
	TypeExpired   = "expired"
	TypeNoShow    = "no_show"
)

// BookingEvent is append-only. Rows are never updated or deleted.
type BookingEvent struct {
	ID        string    `db:"id"`
	BookingID string    `db:"booking_id"`
	EventType string    `db:"event_type"`
	Note      string    `db:"note"`
	CreatedAt time.Time `db:"created_at"`
}
