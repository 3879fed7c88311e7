package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"parking/config"
	"parking/infras/otel"
	"parking/infras/postgres"
	"parking/internal/domains/slot/model"
	"parking/shared"
	"parking/shared/constant"
	gDto "parking/shared/dto"
	"parking/shared/failure"
	"parking/shared/logger"
	"parking/shared/timezone"
	gRepo "parking/shared/repository"

	"github.com/lib/pq"
)

var errNoTransaction = errors.New("slot lock requires an open transaction")

type Slot interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Slot, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Slot, error)
	GetByID(ctx context.Context, id string) (model.Slot, error)
	GetByIDs(ctx context.Context, ids []string) ([]model.Slot, error)
	SetStatus(ctx context.Context, id, status string) error
	AcquireForUpdate(ctx context.Context, id string) (model.Slot, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Slot]
	db   *postgres.Connection
	cfg  *config.Config
	otel otel.Otel
}

func New(db *postgres.Connection, cfg *config.Config, otel otel.Otel) Slot {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Slot](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		cfg:        cfg,
		otel:       otel,
	}
}

// GetByID returns the zero Slot when id is unknown.
func (r *repositoryImpl) GetByID(ctx context.Context, id string) (model.Slot, error) {
	return r.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName)) //nolint:wrapcheck
}

func (r *repositoryImpl) GetByIDs(ctx context.Context, ids []string) ([]model.Slot, error) {
	if len(ids) == 0 {
		return []model.Slot{}, nil
	}

	return r.GetAll(ctx, gDto.QueryParams{}, gDto.And(gDto.In(model.TableName, model.FieldID, ids))) //nolint:wrapcheck
}

func (r *repositoryImpl) SetStatus(ctx context.Context, id, status string) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".slot.SetStatus")
	defer scope.End()

	affected, err := r.UpdateCount(ctx, map[string]any{
		model.FieldStatus:        status,
		constant.FieldModifiedAt: timezone.Now(),
	}, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		scope.TraceError(err)

		return fmt.Errorf("failed to set slot status: %w", err)
	}

	if affected == 0 {
		return failure.NotFound("slot not found") //nolint:wrapcheck
	}

	return nil
}

// AcquireForUpdate locks the slot row until the transaction carried by ctx ends. The wait for
// a competing holder is bounded by the configured lock timeout, after which the slot is reported
// unavailable.
func (r *repositoryImpl) AcquireForUpdate(ctx context.Context, id string) (slot model.Slot, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".slot.AcquireForUpdate")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	tx, ok := postgres.TxFromContext(ctx)
	if !ok {
		return slot, errNoTransaction
	}

	lockTimeout := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.cfg.Booking.SlotLockTimeoutMs)
	if _, err = tx.ExecContext(ctx, lockTimeout); err != nil {
		logger.ErrorWithStack(err)

		return slot, fmt.Errorf("failed to set lock timeout: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s.%s = $1 FOR UPDATE",
		r.SelectColumns(), model.TableName, model.TableName, model.FieldID)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = tx.GetContext(ctx, &slot, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return slot, failure.NotFound("slot not found") //nolint:wrapcheck
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == constant.PqErrorCodeLockNotAvailable {
		return slot, failure.SlotUnavailable("slot is being booked by someone else, try again") //nolint:wrapcheck
	}

	if err != nil {
		logger.ErrorWithStack(err)

		return slot, fmt.Errorf("failed to lock slot: %w", err)
	}

	return slot, nil
}
