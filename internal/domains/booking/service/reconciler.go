package service

//go:generate go run go.uber.org/mock/mockgen -source=./reconciler.go -destination=../mocks/reconciler_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"parking/config"
	"parking/infras/otel"
	"parking/infras/postgres"
	"parking/internal/domains/booking/model"
	"parking/internal/domains/booking/model/dto"
	"parking/internal/domains/booking/repository"
	eventService "parking/internal/domains/event/service"
	slotRepo "parking/internal/domains/slot/repository"
	"parking/shared/cache"
	"parking/shared/constant"
	"parking/shared/failure"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	outcomeApplied = "applied"
	outcomeSkipped = "skipped"
	outcomeFailed  = "failed"
)

// Reconciler moves every overdue live booking to its terminal status and frees the slot. It is
// safe to run concurrently with itself and with user transitions: each move is a compare-and-swap,
// so a booking is finished exactly once.
type Reconciler interface {
	Reconcile(ctx context.Context, now time.Time) (dto.ReconcileResponse, error)
}

type reconcilerImpl struct {
	engine   *serviceImpl
	repo     repository.Booking
	recorder eventService.Recorder
	cfg      *config.Config
	otel     otel.Otel
}

func NewReconciler(
	repo repository.Booking,
	slotRepo slotRepo.Slot,
	tx postgres.Transactor,
	recorder eventService.Recorder,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Reconciler {
	return &reconcilerImpl{
		engine: &serviceImpl{
			repo:     repo,
			slotRepo: slotRepo,
			tx:       tx,
			recorder: recorder,
			cfg:      cfg,
			cache:    cache,
			otel:     otel,
		},
		repo:     repo,
		recorder: recorder,
		cfg:      cfg,
		otel:     otel,
	}
}

func (r *reconcilerImpl) Reconcile(ctx context.Context, now time.Time) (res dto.ReconcileResponse, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reconcile")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	started := time.Now()

	live, err := r.repo.FindAllLive(ctx)
	if err != nil {
		reconcileDuration.WithLabelValues(outcomeFailed).Observe(time.Since(started).Seconds())
		log.Error().Err(err).Msg("failed to load live bookings")

		return res, storageFault("failed to load live bookings", err)
	}

	grace := gracePeriod(r.cfg)

	for _, booking := range live {
		to, due := booking.Due(now, grace)
		if !due {
			continue
		}

		err := r.engine.release(ctx, booking, to, constant.ActorSystem, now)

		switch {
		case errors.Is(err, failure.ErrStaleState):
			res.Skipped++
			reconcileOutcomes.WithLabelValues(outcomeSkipped).Inc()

			continue
		case err != nil:
			res.Failed++
			reconcileOutcomes.WithLabelValues(outcomeFailed).Inc()
			log.Error().Err(err).Str("booking_id", booking.ID).Str("to", to).Msg("failed to reconcile booking")

			continue
		}

		switch to {
		case model.StatusExpired:
			res.Expired++
		case model.StatusNoShow:
			res.NoShow++
		}

		reconcileOutcomes.WithLabelValues(outcomeApplied).Inc()
		transitionsTotal.WithLabelValues(to).Inc()
		r.engine.record(ctx, booking.ID, to, note(booking, to, grace), now)
	}

	if res.Expired+res.NoShow > 0 {
		r.engine.invalidate(ctx)

		log.Info().Int("expired", res.Expired).Int("no_show", res.NoShow).Int("skipped", res.Skipped).Msg("reconciled overdue bookings")
	}

	reconcileDuration.WithLabelValues(outcomeApplied).Observe(time.Since(started).Seconds())
	scope.SetAttributes(map[string]any{
		"reconcile.expired": res.Expired,
		"reconcile.no_show": res.NoShow,
		"reconcile.skipped": res.Skipped,
		"reconcile.failed":  res.Failed,
	})

	return res, nil
}

func note(booking model.Booking, to string, grace float64) string {
	if to == model.StatusNoShow {
		return fmt.Sprintf("no arrival by %s", booking.GraceTime(grace).UTC().Format(constant.DateFormat))
	}

	return fmt.Sprintf("duration of %g minutes elapsed", booking.DurationMinutes)
}
