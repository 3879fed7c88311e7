package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Booking=MockBookingService

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
	eventModel "parking/internal/domains/event/model"
	eventDto "parking/internal/domains/event/model/dto"
	eventService "parking/internal/domains/event/service"
	slotModel "parking/internal/domains/slot/model"
	slotRepo "parking/internal/domains/slot/repository"
	"parking/shared"
	"parking/shared/cache"
	"parking/shared/constant"
	gDto "parking/shared/dto"
	"parking/shared/failure"
	"parking/shared/validator"
	"slices"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	cacheLiveBookings   = "booking:live"
	cacheNoShowBookings = "booking:noshow"

	defaultGracePeriodMinutes = 10
)

// Booking is the lifecycle engine. Every operation takes the evaluation time explicitly; the
// engine never reads the clock.
type Booking interface {
	Create(ctx context.Context, userID string, req dto.CreateBookingRequest, now time.Time) (model.Booking, error)
	MarkArrived(ctx context.Context, bookingID, userID string, now time.Time) (model.Booking, error)
	Extend(ctx context.Context, bookingID, userID string, extraMinutes float64, now time.Time) (time.Time, error)
	ExtendCurrent(ctx context.Context, userID string, extraMinutes float64, now time.Time) (time.Time, error)
	Cancel(ctx context.Context, userID string, now time.Time) error
	Status(ctx context.Context, userID string) (dto.StatusResponse, error)
	ListLive(ctx context.Context, role string, params gDto.QueryParams) (dto.GetBookingsResponse, error)
	ListNoShow(ctx context.Context, role string, params gDto.QueryParams) (dto.GetBookingsResponse, error)
	Events(ctx context.Context, role, bookingID string) (eventDto.GetEventsResponse, error)
	GracePeriodMinutes() float64
}

type serviceImpl struct {
	repo     repository.Booking
	slotRepo slotRepo.Slot
	tx       postgres.Transactor
	recorder eventService.Recorder
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(
	repo repository.Booking,
	slotRepo slotRepo.Slot,
	tx postgres.Transactor,
	recorder eventService.Recorder,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:     repo,
		slotRepo: slotRepo,
		tx:       tx,
		recorder: recorder,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

func (s *serviceImpl) GracePeriodMinutes() float64 {
	return gracePeriod(s.cfg)
}

func (s *serviceImpl) Create(ctx context.Context, userID string, req dto.CreateBookingRequest, now time.Time) (res model.Booking, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err // nolint:wrapcheck
	}

	if userID == constant.Empty || len(userID) > model.MaxUserIDLength {
		return res, failure.BadRequestFromString(fmt.Sprintf("user id must be 1 to %d characters", model.MaxUserIDLength)) // nolint:wrapcheck
	}

	if ceiling := durationCeiling(s.cfg); req.DurationMinutes > ceiling {
		return res, failure.LimitExceeded(fmt.Sprintf("duration cannot exceed %g minutes", ceiling)) // nolint:wrapcheck
	}

	held, err := s.repo.FindLiveByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to check live booking of user")

		return res, storageFault("failed to check live booking of user", err)
	}

	if held.ID != constant.Empty {
		return res, failure.AlreadyBooked("driver has already reserved slot " + held.SlotID) // nolint:wrapcheck
	}

	booking := req.ToModel(userID, now)

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		slot, err := s.slotRepo.AcquireForUpdate(ctx, booking.SlotID)
		if errors.Is(err, failure.ErrNotFound) {
			return failure.SlotUnavailable("slot does not exist") // nolint:wrapcheck
		}

		if err != nil {
			return err // nolint:wrapcheck
		}

		if !slot.IsAvailable() {
			return failure.SlotUnavailable("slot is not available") // nolint:wrapcheck
		}

		live, err := s.repo.FindLiveBySlot(ctx, booking.SlotID)
		if err != nil {
			return err // nolint:wrapcheck
		}

		if live.ID != constant.Empty {
			return failure.SlotUnavailable("slot is already booked") // nolint:wrapcheck
		}

		// Re-checked under the lock: a parallel request of the same driver on another slot may
		// have committed since the first check.
		held, err := s.repo.FindLiveByUser(ctx, userID)
		if err != nil {
			return err // nolint:wrapcheck
		}

		if held.ID != constant.Empty {
			return failure.AlreadyBooked("driver has already reserved slot " + held.SlotID) // nolint:wrapcheck
		}

		if err := s.repo.Insert(ctx, booking); err != nil {
			return err // nolint:wrapcheck
		}

		return s.slotRepo.SetStatus(ctx, booking.SlotID, slotModel.StatusOccupied) // nolint:wrapcheck
	})
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("slot_id", req.SlotID).Msg("failed to create booking")

		return res, storageFault("failed to create booking", err)
	}

	transitionsTotal.WithLabelValues(model.StatusActive).Inc()
	s.invalidate(ctx)

	return booking, nil
}

func (s *serviceImpl) MarkArrived(ctx context.Context, bookingID, userID string, now time.Time) (res model.Booking, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MarkArrived")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.owned(ctx, bookingID, userID)
	if err != nil {
		return res, err
	}

	if booking.Status == model.StatusArrived {
		return booking, nil
	}

	if booking.Status != model.StatusActive {
		return res, failure.InvalidTransition("booking is " + booking.Status) // nolint:wrapcheck
	}

	if now.After(booking.GraceTime(s.GracePeriodMinutes())) {
		return res, failure.InvalidTransition("arrival window has closed") // nolint:wrapcheck
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		err := s.repo.UpdateStatus(ctx, model.Transition{
			BookingID: booking.ID,
			From:      model.StatusActive,
			To:        model.StatusArrived,
			ArrivedAt: &now,
			At:        now,
			By:        userID,
		})
		if err != nil {
			return err // nolint:wrapcheck
		}

		return s.slotRepo.SetStatus(ctx, booking.SlotID, slotModel.StatusOccupied) // nolint:wrapcheck
	})

	if errors.Is(err, failure.ErrStaleState) {
		current, readErr := s.owned(ctx, bookingID, userID)
		if readErr != nil {
			return res, readErr
		}

		if current.Status == model.StatusArrived {
			return current, nil
		}

		return res, failure.InvalidTransition("booking is " + current.Status) // nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Str("booking_id", bookingID).Msg("failed to mark booking arrived")

		return res, storageFault("failed to mark booking arrived", err)
	}

	booking.Status = model.StatusArrived
	booking.ArrivedAt = &now

	transitionsTotal.WithLabelValues(model.StatusArrived).Inc()
	s.record(ctx, booking.ID, eventModel.TypeArrived, "driver confirmed arrival", now)
	s.invalidate(ctx)

	return booking, nil
}

func (s *serviceImpl) ExtendCurrent(ctx context.Context, userID string, extraMinutes float64, now time.Time) (res time.Time, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ExtendCurrent")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if extraMinutes <= 0 {
		return res, failure.BadRequestFromString("extra_minutes must be greater than 0") // nolint:wrapcheck
	}

	live, err := s.repo.FindLiveByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to find live booking of user")

		return res, storageFault("failed to find live booking of user", err)
	}

	if live.ID == constant.Empty {
		return res, failure.NotFound("no active booking") // nolint:wrapcheck
	}

	return s.Extend(ctx, live.ID, userID, extraMinutes, now)
}

// Extend lengthens a live booking and returns the new expiry. A booking whose deadline has
// already passed at now is treated as finished even if the reconciler has not run yet.
func (s *serviceImpl) Extend(ctx context.Context, bookingID, userID string, extraMinutes float64, now time.Time) (res time.Time, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Extend")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if extraMinutes <= 0 {
		return res, failure.BadRequestFromString("extra_minutes must be greater than 0") // nolint:wrapcheck
	}

	booking, err := s.owned(ctx, bookingID, userID)
	if err != nil {
		return res, err
	}

	if model.IsTerminal(booking.Status) {
		return res, failure.InvalidTransition("booking is " + booking.Status) // nolint:wrapcheck
	}

	if due, ok := booking.Due(now, s.GracePeriodMinutes()); ok {
		return res, failure.InvalidTransition("booking has lapsed as " + due) // nolint:wrapcheck
	}

	duration, err := s.repo.ExtendDuration(ctx, booking.ID, extraMinutes, durationCeiling(s.cfg), now)
	if err != nil {
		log.Error().Err(err).Str("booking_id", bookingID).Msg("failed to extend booking")

		return res, storageFault("failed to extend booking", err)
	}

	booking.DurationMinutes = duration
	res = booking.ExpiryTime()

	s.record(ctx, booking.ID, eventModel.TypeExtended, fmt.Sprintf("extended by %g minutes", extraMinutes), now)
	s.invalidate(ctx)

	return res, nil
}

// Cancel frees the caller's live booking. Holding none is not an error, and losing the race to
// the reconciler means the booking is already finished.
func (s *serviceImpl) Cancel(ctx context.Context, userID string, now time.Time) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	live, err := s.repo.FindLiveByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to find live booking of user")

		return storageFault("failed to find live booking of user", err)
	}

	if live.ID == constant.Empty {
		return nil
	}

	err = s.release(ctx, live, model.StatusCancelled, userID, now)
	if errors.Is(err, failure.ErrStaleState) {
		log.Info().Str("booking_id", live.ID).Msg("booking finished before cancellation")

		return nil
	}

	if err != nil {
		log.Error().Err(err).Str("booking_id", live.ID).Msg("failed to cancel booking")

		return storageFault("failed to cancel booking", err)
	}

	transitionsTotal.WithLabelValues(model.StatusCancelled).Inc()
	s.record(ctx, live.ID, eventModel.TypeCancelled, "cancelled by driver", now)
	s.invalidate(ctx)

	return nil
}

func (s *serviceImpl) Status(ctx context.Context, userID string) (res dto.StatusResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Status")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	live, err := s.repo.FindLiveByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to find live booking of user")

		return res, storageFault("failed to find live booking of user", err)
	}

	if live.ID == constant.Empty {
		return res, nil
	}

	res.FromModel(live, s.GracePeriodMinutes())

	return res, nil
}

func (s *serviceImpl) ListLive(ctx context.Context, role string, params gDto.QueryParams) (dto.GetBookingsResponse, error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListLive")
	defer scope.End()

	return s.list(ctx, role, params, cacheLiveBookings, model.LiveStatuses...)
}

func (s *serviceImpl) ListNoShow(ctx context.Context, role string, params gDto.QueryParams) (dto.GetBookingsResponse, error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListNoShow")
	defer scope.End()

	return s.list(ctx, role, params, cacheNoShowBookings, model.StatusNoShow)
}

func (s *serviceImpl) Events(ctx context.Context, role, bookingID string) (res eventDto.GetEventsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Events")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !isStaff(role) {
		return res, failure.ForbiddenError
	}

	return s.recorder.History(ctx, bookingID) //nolint:wrapcheck
}

func (s *serviceImpl) list(ctx context.Context, role string, params gDto.QueryParams, cachePrefix string, statuses ...string) (res dto.GetBookingsResponse, err error) {
	if !isStaff(role) {
		return res, failure.ForbiddenError
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cachePrefix, params, gDto.FilterGroup{})

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	bookings, total, err := s.repo.FindByStatuses(ctx, params, statuses...)
	if err != nil {
		log.Error().Err(err).Strs("statuses", statuses).Msg("failed to list bookings")

		return res, storageFault("failed to list bookings", err)
	}

	res.FromModels(bookings, total, params.Limit, s.GracePeriodMinutes())

	if err := s.cache.Save(ctx, cacheKey, res, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Msg("failed to save bookings to cache")
	}

	return res, nil
}

// owned loads a booking that must belong to userID.
func (s *serviceImpl) owned(ctx context.Context, bookingID, userID string) (model.Booking, error) {
	booking, err := s.repo.GetByIDAndUser(ctx, bookingID, userID)
	if err != nil {
		log.Error().Err(err).Str("booking_id", bookingID).Msg("failed to get booking")

		return booking, storageFault("failed to get booking", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

// release moves a live booking to a terminal status and frees its slot in one transaction.
func (s *serviceImpl) release(ctx context.Context, booking model.Booking, to, by string, now time.Time) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error { // nolint:wrapcheck
		err := s.repo.UpdateStatus(ctx, model.Transition{
			BookingID: booking.ID,
			From:      booking.Status,
			To:        to,
			At:        now,
			By:        by,
		})
		if err != nil {
			return err // nolint:wrapcheck
		}

		return s.slotRepo.SetStatus(ctx, booking.SlotID, slotModel.StatusAvailable) // nolint:wrapcheck
	})
}

// record appends to the audit trail after commit. Failures never undo the transition.
func (s *serviceImpl) record(ctx context.Context, bookingID, eventType, note string, at time.Time) {
	if _, err := s.recorder.Append(ctx, bookingID, eventType, note, at); err != nil {
		log.Error().Err(err).Str("booking_id", bookingID).Str("event_type", eventType).Msg("failed to record booking event")
	}
}

// invalidate drops the staff list caches. It runs inline after commit. A list read that loaded
// rows before the commit can still save them afterwards, so a staff list may lag one transition
// for at most CACHE_TTL.
func (s *serviceImpl) invalidate(ctx context.Context) {
	c := context.WithoutCancel(ctx)

	shared.InvalidateCaches(c, s.cache, cacheLiveBookings)
	shared.InvalidateCaches(c, s.cache, cacheNoShowBookings)
}

func isStaff(role string) bool {
	return slices.Contains([]string{constant.RoleStaff, constant.RoleAdmin}, role)
}

func gracePeriod(cfg *config.Config) float64 {
	if cfg.Booking.GracePeriodMinutes > 0 {
		return cfg.Booking.GracePeriodMinutes
	}

	return defaultGracePeriodMinutes
}

// durationCeiling is the configured ceiling, never above MaxDurationMinutes. A ceiling of zero
// leaves only the hard bound.
func durationCeiling(cfg *config.Config) float64 {
	if ceiling := cfg.Booking.MaxDurationMinutes; ceiling > 0 && ceiling < model.MaxDurationMinutes {
		return ceiling
	}

	return model.MaxDurationMinutes
}

// storageFault keeps domain failures as they are and reports anything else as unavailability.
func storageFault(msg string, err error) error {
	var fail *failure.Failure
	if errors.As(err, &fail) {
		return err
	}

	return failure.Unavailable(fmt.Errorf("%s: %w", msg, err)) // nolint:wrapcheck
}
