package booking_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	otelMocks "parking/infras/otel/mocks"
	"parking/internal/domains/booking/mocks"
	"parking/internal/domains/booking/model"
	"parking/internal/domains/booking/model/dto"
	"parking/internal/handlers/booking"
	"parking/shared/constant"
	"parking/shared/failure"
	"parking/shared/timezone"
)

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Kind    string          `json:"kind"`
	Message string          `json:"message"`
}

func newRouter(svc *mocks.MockBookingService, reconciler *mocks.MockReconciler, role string) http.Handler {
	handler := booking.New(svc, reconciler, otelMocks.NewOtel())

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), constant.ContextKeyUserID, "user-1")
			ctx = context.WithValue(ctx, constant.ContextKeyUserRole, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	handler.Router(router)

	return router
}

func serve(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

	return rec, env
}

func TestHandler_CreateBooking(t *testing.T) {
	bookedAt := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		body      string
		setupMock func(svc *mocks.MockBookingService)
		wantCode  int
		wantKind  string
	}{
		{
			name: "created",
			body: `{"slot_id":"S","vehicle_type":"PRIVATE","vehicle_reg":"KDA 123A","phone_number":"254700000000","duration_minutes":30}`,
			setupMock: func(svc *mocks.MockBookingService) {
				svc.EXPECT().Create(gomock.Any(), "user-1", gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "b1", SlotID: "S", BookedAt: bookedAt, DurationMinutes: 30, Status: model.StatusActive}, nil)
				svc.EXPECT().GracePeriodMinutes().Return(float64(10))
			},
			wantCode: http.StatusCreated,
		},
		{
			name:      "unknown vehicle type",
			body:      `{"slot_id":"S","vehicle_type":"BOAT","vehicle_reg":"KDA 123A","phone_number":"254700000000","duration_minutes":30}`,
			setupMock: func(_ *mocks.MockBookingService) {},
			wantCode:  http.StatusBadRequest,
			wantKind:  string(failure.KindInvalidInput),
		},
		{
			name:      "malformed body",
			body:      `{"slot_id":`,
			setupMock: func(_ *mocks.MockBookingService) {},
			wantCode:  http.StatusBadRequest,
			wantKind:  string(failure.KindInvalidInput),
		},
		{
			name: "slot taken",
			body: `{"slot_id":"S","vehicle_type":"TAXI","vehicle_reg":"KDA 123A","phone_number":"254700000000","duration_minutes":30}`,
			setupMock: func(svc *mocks.MockBookingService) {
				svc.EXPECT().Create(gomock.Any(), "user-1", gomock.Any(), gomock.Any()).
					Return(model.Booking{}, failure.SlotUnavailable("slot is already booked"))
			},
			wantCode: http.StatusConflict,
			wantKind: string(failure.KindSlotUnavailable),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc := mocks.NewMockBookingService(ctrl)
			tt.setupMock(svc)

			rec, env := serve(t, newRouter(svc, mocks.NewMockReconciler(ctrl), constant.RoleUser), http.MethodPost, "/bookings/", tt.body)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantKind, env.Kind)

			if tt.wantCode == http.StatusCreated {
				var res dto.BookingResponse
				require.NoError(t, json.Unmarshal(env.Data, &res))

				assert.Equal(t, "b1", res.ID)
				assert.Equal(t, model.StatusActive, res.Status)
			}
		})
	}
}

func TestHandler_MarkArrived(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	arrivedAt := time.Date(2026, 3, 2, 8, 2, 0, 0, time.UTC)
	svc := mocks.NewMockBookingService(ctrl)

	svc.EXPECT().MarkArrived(gomock.Any(), "b1", "user-1", gomock.Any()).
		Return(model.Booking{ID: "b1", Status: model.StatusArrived, ArrivedAt: &arrivedAt}, nil)
	svc.EXPECT().MarkArrived(gomock.Any(), "b2", "user-1", gomock.Any()).
		Return(model.Booking{}, failure.InvalidTransition("arrival window has closed"))

	router := newRouter(svc, mocks.NewMockReconciler(ctrl), constant.RoleUser)

	rec, env := serve(t, router, http.MethodPost, "/bookings/b1/arrive", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var res dto.ArrivalResponse
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, model.StatusArrived, res.Status)
	assert.NotEmpty(t, res.ArrivedAt)

	rec, env = serve(t, router, http.MethodPost, "/bookings/b2/arrive", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, string(failure.KindInvalidTransition), env.Kind)
}

func TestHandler_ExtendAndCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	now := time.Date(2026, 3, 2, 8, 20, 0, 0, time.UTC)
	expiry := now.Add(25 * time.Minute)
	atNow := gomock.Cond(func(at time.Time) bool { return at.Equal(now) })

	restore := timezone.SetClock(func() time.Time { return now })
	defer restore()

	svc := mocks.NewMockBookingService(ctrl)

	svc.EXPECT().ExtendCurrent(gomock.Any(), "user-1", float64(15), atNow).Return(expiry, nil)
	svc.EXPECT().Cancel(gomock.Any(), "user-1", atNow).Return(nil)

	router := newRouter(svc, mocks.NewMockReconciler(ctrl), constant.RoleUser)

	rec, env := serve(t, router, http.MethodPost, "/bookings/current/extend", `{"extra_minutes":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(failure.KindInvalidInput), env.Kind)

	rec, env = serve(t, router, http.MethodPost, "/bookings/current/extend", `{"extra_minutes":15}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	var res dto.ExtendResponse
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.NotEmpty(t, res.ExpiryTimestamp)

	rec, env = serve(t, router, http.MethodDelete, "/bookings/current", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, env.Message)
}

func TestHandler_GetBookingStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mocks.NewMockBookingService(ctrl)
	svc.EXPECT().Status(gomock.Any(), "user-1").Return(dto.StatusResponse{}, nil)

	rec, env := serve(t, newRouter(svc, mocks.NewMockReconciler(ctrl), constant.RoleUser), http.MethodGet, "/bookings/current", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"has_booking":false}`, string(env.Data))
}

func TestHandler_GetBookingStatus_StorageFaultIsGeneric(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cause := errors.New(`pq: password authentication failed for user "parking_rw" host=10.0.3.7`)

	svc := mocks.NewMockBookingService(ctrl)
	svc.EXPECT().Status(gomock.Any(), "user-1").
		Return(dto.StatusResponse{}, failure.Unavailable(fmt.Errorf("failed to find live booking of user: %w", cause)))

	rec, env := serve(t, newRouter(svc, mocks.NewMockReconciler(ctrl), constant.RoleUser), http.MethodGet, "/bookings/current", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, string(failure.KindUnavailable), env.Kind)
	assert.NotEmpty(t, env.Error)
	assert.NotContains(t, rec.Body.String(), "pq:")
	assert.NotContains(t, rec.Body.String(), "parking_rw")
	assert.NotContains(t, rec.Body.String(), "10.0.3.7")
}

func TestHandler_Reconcile(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		wantCode int
	}{
		{name: "driver is forbidden", role: constant.RoleUser, wantCode: http.StatusForbidden},
		{name: "staff may sweep", role: constant.RoleStaff, wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			reconciler := mocks.NewMockReconciler(ctrl)
			if tt.wantCode == http.StatusOK {
				reconciler.EXPECT().Reconcile(gomock.Any(), gomock.Any()).Return(dto.ReconcileResponse{NoShow: 2}, nil)
			}

			rec, env := serve(t, newRouter(mocks.NewMockBookingService(ctrl), reconciler, tt.role), http.MethodPost, "/bookings/reconcile", "")
			assert.Equal(t, tt.wantCode, rec.Code)

			if tt.wantCode == http.StatusOK {
				assert.JSONEq(t, `{"expired":0,"no_show":2,"skipped":0,"failed":0}`, string(env.Data))
			}
		})
	}
}

func TestHandler_ListLiveBookings(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mocks.NewMockBookingService(ctrl)
	svc.EXPECT().ListLive(gomock.Any(), constant.RoleStaff, gomock.Any()).
		Return(dto.GetBookingsResponse{Bookings: []dto.BookingResponse{{ID: "b1"}}, TotalData: 1, TotalPage: 1}, nil)

	rec, env := serve(t, newRouter(svc, mocks.NewMockReconciler(ctrl), constant.RoleStaff), http.MethodGet, "/bookings/live?page=1&limit=10", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var res dto.GetBookingsResponse
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, 1, res.TotalData)
}
