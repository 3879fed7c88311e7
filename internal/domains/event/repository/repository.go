package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"parking/infras/otel"
	"parking/infras/postgres"
	"parking/internal/domains/event/model"
	gDto "parking/shared/dto"
	gRepo "parking/shared/repository"
)

type BookingEvent interface {
	Insert(ctx context.Context, model model.BookingEvent) error
	GetByBooking(ctx context.Context, bookingID string) ([]model.BookingEvent, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.BookingEvent]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) BookingEvent {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.BookingEvent](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// GetByBooking lists the trail of a booking oldest first.
func (r *repositoryImpl) GetByBooking(ctx context.Context, bookingID string) ([]model.BookingEvent, error) {
	filter := gDto.And(gDto.Eq(model.TableName, model.FieldBookingID, bookingID))

	params := gDto.QueryParams{
		SortBy:  model.TableName + "." + model.FieldCreatedAt,
		SortDir: gDto.SortDirAsc,
	}

	return r.GetAll(ctx, params, filter) //nolint:wrapcheck
}
