package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"parking/config"
	"parking/infras/jwt"
	"parking/infras/otel/mocks"
	bookingMocks "parking/internal/domains/booking/mocks"
	"parking/internal/domains/booking/model/dto"
	"parking/permissions"
	"parking/shared/cache"
	"parking/shared/constant"
	"parking/shared/timezone"
	"parking/transport/http/middleware"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "parking"
	cfg.App.APIKey = "internal-key"
	cfg.JWT.AccessSecret = "secret"
	cfg.JWT.AccessExpireMin = 15

	return cfg
}

// newAuthRouter mounts two routes behind APIKey, Auth and RBAC. The handlers echo the role they saw.
func newAuthRouter(cfg *config.Config) http.Handler {
	authRole := middleware.NewAuthRoleMiddleware(jwt.New(cfg), mocks.NewOtel(), permissions.Get(), cfg)

	echo := func(w http.ResponseWriter, r *http.Request) {
		role, _ := r.Context().Value(constant.ContextKeyUserRole).(string)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(role))
	}

	router := chi.NewRouter()
	router.Route("/v1", func(r chi.Router) {
		r.Use(authRole.APIKey)
		r.Use(authRole.Auth)
		r.Use(authRole.RBAC)

		r.Get("/bookings/current", echo)
		r.Get("/bookings/live", echo)
	})

	return router
}

func TestAuthRole(t *testing.T) {
	cfg := testConfig()
	router := newAuthRouter(cfg)
	issuer := jwt.New(cfg)

	userToken, err := issuer.GenerateAccessToken("user-1", constant.RoleUser)
	require.NoError(t, err)

	staffToken, err := issuer.GenerateAccessToken("staff-1", constant.RoleStaff)
	require.NoError(t, err)

	tests := []struct {
		name     string
		path     string
		headers  map[string]string
		wantCode int
		wantBody string
	}{
		{name: "missing token", path: "/v1/bookings/current", wantCode: http.StatusUnauthorized},
		{
			name:     "malformed header",
			path:     "/v1/bookings/current",
			headers:  map[string]string{constant.RequestHeaderAuthorization: "Token abc"},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "invalid token",
			path:     "/v1/bookings/current",
			headers:  map[string]string{constant.RequestHeaderAuthorization: "Bearer abc.def.ghi"},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "driver on own route",
			path:     "/v1/bookings/current",
			headers:  map[string]string{constant.RequestHeaderAuthorization: "Bearer " + userToken},
			wantCode: http.StatusOK,
			wantBody: constant.RoleUser,
		},
		{
			name:     "driver on staff route",
			path:     "/v1/bookings/live",
			headers:  map[string]string{constant.RequestHeaderAuthorization: "Bearer " + userToken},
			wantCode: http.StatusForbidden,
		},
		{
			name:     "staff on staff route",
			path:     "/v1/bookings/live",
			headers:  map[string]string{constant.RequestHeaderAuthorization: "Bearer " + staffToken},
			wantCode: http.StatusOK,
			wantBody: constant.RoleStaff,
		},
		{
			name:     "internal api key",
			path:     "/v1/bookings/live",
			headers:  map[string]string{constant.RequestHeaderAPIKey: "internal-key"},
			wantCode: http.StatusOK,
		},
		{
			name:     "wrong api key",
			path:     "/v1/bookings/live",
			headers:  map[string]string{constant.RequestHeaderAPIKey: "guess"},
			wantCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)

			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestReconcileFirst(t *testing.T) {
	tests := []struct {
		name      string
		enabled   bool
		setupMock func(m *bookingMocks.MockReconciler)
	}{
		{
			name:    "sweeps before the handler",
			enabled: true,
			setupMock: func(m *bookingMocks.MockReconciler) {
				m.EXPECT().Reconcile(gomock.Any(), gomock.Any()).Return(dto.ReconcileResponse{Expired: 1}, nil)
			},
		},
		{
			name:    "failed sweep does not block the request",
			enabled: true,
			setupMock: func(m *bookingMocks.MockReconciler) {
				m.EXPECT().Reconcile(gomock.Any(), gomock.Any()).Return(dto.ReconcileResponse{}, errors.New("database down"))
			},
		},
		{
			name:      "disabled",
			enabled:   false,
			setupMock: func(_ *bookingMocks.MockReconciler) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			reconciler := bookingMocks.NewMockReconciler(ctrl)
			tt.setupMock(reconciler)

			cfg := testConfig()
			cfg.Booking.ReconcileOnRequest = tt.enabled

			called := false
			handler := middleware.NewReconcileMiddleware(reconciler, cfg, mocks.NewOtel()).
				ReconcileFirst(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					called = true
					w.WriteHeader(http.StatusNoContent)
				}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/bookings/current", nil))

			assert.True(t, called)
			assert.Equal(t, http.StatusNoContent, rec.Code)
		})
	}
}

func TestRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := testConfig()
	cfg.App.RateLimiter.Enable = true
	cfg.App.RateLimiter.MaxRequests = 2
	cfg.App.RateLimiter.WindowSeconds = 60

	restore := timezone.SetClock(func() time.Time { return time.Date(2026, 3, 2, 8, 0, 15, 0, time.UTC) })
	t.Cleanup(restore)

	app := middleware.NewAppMiddleware(mocks.NewOtel(), cfg, cache.NewRedisCache(client, mocks.NewOtel()))
	handler := app.RateLimit()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/v1/slots", nil)
		req.Header.Set(constant.RequestHeaderForwardedFor, ip+", 10.0.0.1")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		return rec
	}

	first := send("192.0.2.1")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get(constant.RequestHeaderRateLimitRemaining))

	assert.Equal(t, http.StatusOK, send("192.0.2.1").Code)
	limited := send("192.0.2.1")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "45", limited.Header().Get("Retry-After"))
	assert.Equal(t, "0", limited.Header().Get(constant.RequestHeaderRateLimitRemaining))
	assert.Equal(t, http.StatusOK, send("192.0.2.2").Code)

	mr.FastForward(61 * time.Second)

	assert.Equal(t, http.StatusOK, send("192.0.2.1").Code)
}

func TestTracing_PassesThrough(t *testing.T) {
	app := middleware.NewAppMiddleware(mocks.NewOtel(), testConfig(), nil)

	router := chi.NewRouter()
	router.Use(app.Tracing)
	router.Get("/v1/slots/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/slots/abc", nil).WithContext(context.Background()))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
