package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"parking/infras/otel"
	"parking/infras/postgres"
	"parking/internal/domains/booking/model"
	"parking/shared"
	"parking/shared/constant"
	gDto "parking/shared/dto"
	"parking/shared/failure"
	"parking/shared/logger"
	gRepo "parking/shared/repository"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	constraintLiveSlot = "bookings_live_slot_idx"
	constraintLiveUser = "bookings_live_user_idx"

	argExpectedStatus = "expected_status"
)

var sortable = []string{model.FieldBookedAt, model.FieldDurationMinutes, model.FieldSlotID, model.FieldStatus}

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	GetByIDAndUser(ctx context.Context, id, userID string) (model.Booking, error)
	FindLiveByUser(ctx context.Context, userID string) (model.Booking, error)
	FindLiveBySlot(ctx context.Context, slotID string) (model.Booking, error)
	FindAllLive(ctx context.Context) ([]model.Booking, error)
	FindByStatuses(ctx context.Context, params gDto.QueryParams, statuses ...string) ([]model.Booking, int, error)
	UpdateStatus(ctx context.Context, transition model.Transition) error
	ExtendDuration(ctx context.Context, id string, extraMinutes, ceilingMinutes float64, at time.Time) (float64, error)
}

type rowQueryer interface {
	QueryRowxContext(ctx context.Context, query string, args ...any) *sqlx.Row
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// Insert relies on the partial unique indexes over live bookings as the last line of defence
// against double booking.
func (r *repositoryImpl) Insert(ctx context.Context, booking model.Booking) error {
	err := r.Repository.Insert(ctx, booking)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == constant.PqErrorCodeUniqueViolation {
		switch pqErr.Constraint {
		case constraintLiveUser:
			return failure.AlreadyBooked("driver has already reserved a slot") //nolint:wrapcheck
		case constraintLiveSlot:
			return failure.SlotUnavailable("slot is already booked") //nolint:wrapcheck
		}
	}

	return err //nolint:wrapcheck
}

func (r *repositoryImpl) GetByIDAndUser(ctx context.Context, id, userID string) (model.Booking, error) {
	filter := gDto.And(
		gDto.Eq(model.TableName, model.FieldID, id),
		gDto.Eq(model.TableName, model.FieldUserID, userID),
	)

	return r.Get(ctx, filter) //nolint:wrapcheck
}

func (r *repositoryImpl) FindLiveByUser(ctx context.Context, userID string) (model.Booking, error) {
	return r.Get(ctx, liveFilter(gDto.Eq(model.TableName, model.FieldUserID, userID))) //nolint:wrapcheck
}

func (r *repositoryImpl) FindLiveBySlot(ctx context.Context, slotID string) (model.Booking, error) {
	return r.Get(ctx, liveFilter(gDto.Eq(model.TableName, model.FieldSlotID, slotID))) //nolint:wrapcheck
}

func (r *repositoryImpl) FindAllLive(ctx context.Context) ([]model.Booking, error) {
	params := gDto.QueryParams{
		SortBy:  model.TableName + "." + model.FieldBookedAt,
		SortDir: gDto.SortDirAsc,
	}

	return r.GetAll(ctx, params, liveFilter()) //nolint:wrapcheck
}

func (r *repositoryImpl) FindByStatuses(ctx context.Context, params gDto.QueryParams, statuses ...string) ([]model.Booking, int, error) {
	filter := statusFilter(statuses...)

	total, err := r.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	params.Sanitize(model.TableName, model.FieldBookedAt, sortable...)

	bookings, err := r.GetAll(ctx, params, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get bookings: %w", err)
	}

	return bookings, total, nil
}

// UpdateStatus applies the transition only while the stored status still equals From and reports
// a lost race as StaleState. Payment fields are never touched.
func (r *repositoryImpl) UpdateStatus(ctx context.Context, transition model.Transition) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.UpdateStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !model.CanTransition(transition.From, transition.To) {
		return failure.InvalidTransition(fmt.Sprintf("cannot move booking from %s to %s", transition.From, transition.To)) //nolint:wrapcheck
	}

	fields := map[string]any{
		model.FieldStatus:        transition.To,
		constant.FieldModifiedAt: transition.At,
		constant.FieldModifiedBy: cmp.Or(transition.By, constant.ActorSystem),
	}

	if transition.ArrivedAt != nil {
		fields[model.FieldArrivedAt] = *transition.ArrivedAt
	}

	expected := gDto.Eq(model.TableName, model.FieldStatus, transition.From)
	expected.ArgName = argExpectedStatus

	filter := gDto.And(shared.FilterByID(transition.BookingID, model.FieldID, model.TableName), expected)

	affected, err := r.UpdateCount(ctx, fields, filter)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	if affected == 0 {
		return failure.StaleState("booking changed since it was read") //nolint:wrapcheck
	}

	return nil
}

// ExtendDuration adds extraMinutes to a live booking in one statement. A ceiling of zero or less
// disables the limit. When nothing is updated the current row is read back to tell the caller why.
func (r *repositoryImpl) ExtendDuration(ctx context.Context, id string, extraMinutes, ceilingMinutes float64, at time.Time) (duration float64, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.ExtendDuration")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	query := fmt.Sprintf(`UPDATE %[1]s SET %[2]s = %[2]s + $2::double precision, %[3]s = $4
		WHERE %[4]s = $1 AND %[5]s IN ('%[6]s', '%[7]s')
		AND ($3::double precision <= 0 OR %[2]s + $2::double precision <= $3::double precision)
		RETURNING %[2]s`,
		model.TableName, model.FieldDurationMinutes, constant.FieldModifiedAt, model.FieldID,
		model.FieldStatus, model.StatusActive, model.StatusArrived)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = r.queryer(ctx).QueryRowxContext(ctx, query, id, extraMinutes, ceilingMinutes, at).Scan(&duration)
	if err == nil {
		return duration, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to extend booking: %w", err)
	}

	current, err := r.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		return 0, fmt.Errorf("failed to read booking after extend: %w", err)
	}

	switch {
	case current.ID == constant.Empty:
		return 0, failure.NotFound("booking not found") //nolint:wrapcheck
	case model.IsTerminal(current.Status):
		return 0, failure.InvalidTransition("booking is " + current.Status) //nolint:wrapcheck
	default:
		return 0, failure.LimitExceeded(fmt.Sprintf("total duration cannot exceed %g minutes", ceilingMinutes)) //nolint:wrapcheck
	}
}

func (r *repositoryImpl) queryer(ctx context.Context) rowQueryer {
	if tx, ok := postgres.TxFromContext(ctx); ok {
		return tx
	}

	return r.db.Write
}

func statusFilter(statuses ...string) gDto.FilterGroup {
	return gDto.And(gDto.In(model.TableName, model.FieldStatus, statuses))
}

func liveFilter(extra ...gDto.Filter) gDto.FilterGroup {
	filter := statusFilter(model.LiveStatuses...)

	for _, f := range extra {
		filter.Filters = append(filter.Filters, f)
	}

	return filter
}
