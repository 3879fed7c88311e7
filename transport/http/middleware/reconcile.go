package middleware

import (
	"net/http"
	"parking/config"
	"parking/infras/otel"
	"parking/internal/domains/booking/service"
	"parking/shared/constant"
	"parking/shared/timezone"

	"github.com/rs/zerolog/log"
)

type Reconcile interface {
	ReconcileFirst(next http.Handler) http.Handler
}

type reconcileImpl struct {
	reconciler service.Reconciler
	cfg        *config.Config
	otel       otel.Otel
}

func NewReconcileMiddleware(reconciler service.Reconciler, cfg *config.Config, otel otel.Otel) Reconcile {
	return &reconcileImpl{
		reconciler: reconciler,
		cfg:        cfg,
		otel:       otel,
	}
}

// ReconcileFirst sweeps overdue bookings before the request is handled, so every read and
// transition sees lifecycle state as of now. A failed sweep is logged and the request proceeds.
func (m *reconcileImpl) ReconcileFirst(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if !m.cfg.Booking.ReconcileOnRequest {
			next.ServeHTTP(writer, request)

			return
		}

		ctx, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "reconcile.middleware")

		res, err := m.reconciler.Reconcile(ctx, timezone.Now())
		if err != nil {
			scope.TraceError(err)
			log.Warn().Err(err).Str("path", request.URL.Path).Msg("reconcile before request failed")
		} else {
			scope.SetAttributes(map[string]any{
				"reconcile.expired": res.Expired,
				"reconcile.no_show": res.NoShow,
			})
		}

		scope.End()

		next.ServeHTTP(writer, request)
	})
}
