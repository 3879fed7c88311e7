package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"parking/config"
	"parking/infras/kafka"
	"parking/infras/otel"
	"parking/internal/domains/event/model"
	"parking/internal/domains/event/model/dto"
	"parking/internal/domains/event/repository"
	"parking/shared/constant"
	"parking/shared/failure"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	// headerEventType lets consumers filter without decoding the payload.
	headerEventType = "event_type"

	defaultPublishTimeout = 2 * time.Second
)

// Recorder keeps the audit trail of lifecycle transitions. The trail is diagnostic: callers log
// Append failures and carry on.
type Recorder interface {
	Append(ctx context.Context, bookingID, eventType, note string, at time.Time) (model.BookingEvent, error)
	History(ctx context.Context, bookingID string) (dto.GetEventsResponse, error)
}

type serviceImpl struct {
	repo     repository.BookingEvent
	producer kafka.Client
	cfg      *config.Config
	otel     otel.Otel
}

func New(repo repository.BookingEvent, producer kafka.Client, cfg *config.Config, otel otel.Otel) Recorder {
	return &serviceImpl{
		repo:     repo,
		producer: producer,
		cfg:      cfg,
		otel:     otel,
	}
}

func (s *serviceImpl) Append(ctx context.Context, bookingID, eventType, note string, at time.Time) (res model.BookingEvent, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Append")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	res = model.BookingEvent{
		ID:        uuid.NewString(),
		BookingID: bookingID,
		EventType: eventType,
		Note:      note,
		CreatedAt: at,
	}

	if err = s.repo.Insert(ctx, res); err != nil {
		log.Error().Err(err).Str("booking_id", bookingID).Str("event_type", eventType).Msg("failed to append booking event")

		return res, failure.Unavailable(fmt.Errorf("failed to append booking event: %w", err)) // nolint:wrapcheck
	}

	s.publish(ctx, res)

	return res, nil
}

func (s *serviceImpl) publish(ctx context.Context, event model.BookingEvent) {
	if !s.cfg.Kafka.Enable || s.producer == nil {
		return
	}

	payload := dto.Published{}
	payload.FromModel(event)

	ctx, cancel := context.WithTimeout(ctx, s.publishTimeout())
	defer cancel()

	err := s.producer.SendMessages(ctx, s.cfg.Kafka.Topic.BookingEvents, kafka.Message{
		Key:     event.BookingID,
		Value:   payload,
		Headers: map[string]string{headerEventType: event.EventType},
	})
	if err != nil {
		log.Error().Err(err).Str("booking_id", event.BookingID).Msg("failed to publish booking event")
	}
}

// publishTimeout bounds how long a transition waits on the broker.
func (s *serviceImpl) publishTimeout() time.Duration {
	if ms := s.cfg.Kafka.PublishTimeoutMs; ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}

	return defaultPublishTimeout
}

func (s *serviceImpl) History(ctx context.Context, bookingID string) (res dto.GetEventsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".History")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	events, err := s.repo.GetByBooking(ctx, bookingID)
	if err != nil {
		log.Error().Err(err).Str("booking_id", bookingID).Msg("failed to get booking events")

		return res, failure.Unavailable(fmt.Errorf("failed to get booking events: %w", err)) // nolint:wrapcheck
	}

	res.FromModels(events)

	return res, nil
}
