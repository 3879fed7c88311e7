package dto

import (
	"parking/internal/domains/event/model"
	"parking/shared/constant"
	"parking/shared/timezone"
)

type EventResponse struct {
	ID        string `json:"id"`
	BookingID string `json:"booking_id"`
	EventType string `json:"event_type"`
	Note      string `json:"note"`
	CreatedAt string `json:"created_at"`
}

func (r *EventResponse) FromModel(model model.BookingEvent) {
	r.ID = model.ID
	r.BookingID = model.BookingID
	r.EventType = model.EventType
	r.Note = model.Note
	r.CreatedAt = timezone.Format(model.CreatedAt, constant.DateFormat)
}

type GetEventsResponse struct {
	Events []EventResponse `json:"events"`
}

func (r *GetEventsResponse) FromModels(models []model.BookingEvent) {
	r.Events = make([]EventResponse, len(models))
	for i, mod := range models {
		r.Events[i].FromModel(mod)
	}
}

// Published is the payload fanned out to reporting consumers for every recorded event.
type Published struct {
	ID        string `json:"id"`
	BookingID string `json:"booking_id"`
	EventType string `json:"event_type"`
	Note      string `json:"note"`
	CreatedAt string `json:"created_at"`
}

func (p *Published) FromModel(model model.BookingEvent) {
	p.ID = model.ID
	p.BookingID = model.BookingID
	p.EventType = model.EventType
	p.Note = model.Note
	p.CreatedAt = model.CreatedAt.UTC().Format(constant.DateFormat)
}
