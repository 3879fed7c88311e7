package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parking/config"
	"parking/infras/otel/mocks"
	"parking/infras/postgres"
	"parking/internal/domains/slot/model"
	"parking/internal/domains/slot/repository"
	"parking/shared/constant"
	"parking/shared/failure"
)

const lockSQL = `SELECT (.+) FROM parking_slots WHERE parking_slots\.id = \$1 FOR UPDATE`

func newRepository(t *testing.T) (repository.Slot, postgres.Transactor, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	conn := &postgres.Connection{
		Read:  sqlx.NewDb(db, "postgres"),
		Write: sqlx.NewDb(db, "postgres"),
	}

	cfg := &config.Config{}
	cfg.Booking.SlotLockTimeoutMs = 250

	return repository.New(conn, cfg, mocks.NewOtel()), postgres.NewTransactor(conn), mock
}

func TestRepository_AcquireForUpdate(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantSlot  model.Slot
		wantErr   bool
		sentinel  error
	}{
		{
			name: "locked",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(lockSQL).
					WithArgs("S1").
					WillReturnRows(sqlmock.NewRows([]string{"id", "slot_no", "status"}).AddRow("S1", "A-01", model.StatusAvailable))
				mock.ExpectCommit()
			},
			wantSlot: model.Slot{ID: "S1", SlotNo: "A-01", Status: model.StatusAvailable},
		},
		{
			name: "lock wait timed out",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(lockSQL).
					WithArgs("S1").
					WillReturnError(&pq.Error{Code: constant.PqErrorCodeLockNotAvailable, Message: "canceling statement due to lock timeout"})
				mock.ExpectRollback()
			},
			wantErr:  true,
			sentinel: failure.ErrSlotUnavailable,
		},
		{
			name: "unknown slot",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(lockSQL).
					WithArgs("S1").
					WillReturnRows(sqlmock.NewRows([]string{"id", "slot_no", "status"}))
				mock.ExpectRollback()
			},
			wantErr:  true,
			sentinel: failure.ErrNotFound,
		},
		{
			name: "other driver error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(lockSQL).WillReturnError(errors.New("server closed the connection unexpectedly"))
				mock.ExpectRollback()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, tx, mock := newRepository(t)

			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta("SET LOCAL lock_timeout = '250ms'")).WillReturnResult(sqlmock.NewResult(0, 0))
			tt.setupMock(mock)

			var slot model.Slot

			err := tx.WithinTx(context.Background(), func(ctx context.Context) error {
				var err error
				slot, err = repo.AcquireForUpdate(ctx, "S1")

				return err
			})

			switch {
			case !tt.wantErr:
				require.NoError(t, err)
				assert.Equal(t, tt.wantSlot, slot)
			case tt.sentinel != nil:
				assert.ErrorIs(t, err, tt.sentinel)
			default:
				require.Error(t, err)
				assert.Equal(t, failure.KindInternal, failure.GetKind(err))
			}

			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_AcquireForUpdate_RequiresTransaction(t *testing.T) {
	repo, _, mock := newRepository(t)

	_, err := repo.AcquireForUpdate(context.Background(), "S1")

	require.ErrorIs(t, err, repository.ErrNoTransaction)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SetStatus(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		sentinel error
	}{
		{name: "updated", affected: 1},
		{name: "unknown slot", affected: 0, sentinel: failure.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, _, mock := newRepository(t)

			mock.ExpectExec(`UPDATE parking_slots SET modified_at = \$1, status = \$2 WHERE \(parking_slots\.id = \$3\)`).
				WithArgs(sqlmock.AnyArg(), model.StatusOccupied, "S1").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err := repo.SetStatus(context.Background(), "S1", model.StatusOccupied)

			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			} else {
				require.NoError(t, err)
			}

			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
