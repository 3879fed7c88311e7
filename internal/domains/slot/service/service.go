package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Slot=MockSlotService

import (
	"context"
	"fmt"
	"parking/infras/otel"
	"parking/internal/domains/slot/model"
	"parking/internal/domains/slot/model/dto"
	"parking/internal/domains/slot/repository"
	"parking/shared/constant"
	"parking/shared/failure"

	"github.com/rs/zerolog/log"
)

type Slot interface {
	Get(ctx context.Context, id string) (dto.SlotResponse, error)
	Nearby(ctx context.Context, ids []string) (dto.GetSlotsResponse, error)
}

type serviceImpl struct {
	repo repository.Slot
	otel otel.Otel
}

func New(repo repository.Slot, otel otel.Otel) Slot {
	return &serviceImpl{
		repo: repo,
		otel: otel,
	}
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.SlotResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".slot.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	slot, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("slot_id", id).Msg("failed to get slot")

		return res, failure.Unavailable(fmt.Errorf("failed to get slot: %w", err)) // nolint:wrapcheck
	}

	if slot.ID == constant.Empty {
		return res, failure.NotFound("slot not found") // nolint:wrapcheck
	}

	res.FromModel(slot)

	return res, nil
}

// Nearby resolves the candidate ids supplied by the geospatial lookup. The result keeps the
// order of ids, which is the proximity order, and silently drops ids that are not registered.
func (s *serviceImpl) Nearby(ctx context.Context, ids []string) (res dto.GetSlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".slot.Nearby")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	slots, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		log.Error().Err(err).Msg("failed to get nearby slots")

		return res, failure.Unavailable(fmt.Errorf("failed to get nearby slots: %w", err)) // nolint:wrapcheck
	}

	byID := make(map[string]model.Slot, len(slots))
	for _, slot := range slots {
		byID[slot.ID] = slot
	}

	ordered := make([]model.Slot, 0, len(slots))
	for _, id := range ids {
		if slot, ok := byID[id]; ok {
			ordered = append(ordered, slot)
			delete(byID, id)
		}
	}

	res.FromModels(ordered)

	return res, nil
}
