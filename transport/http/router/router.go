package router

import (
	"parking/internal/handlers/booking"
	"parking/internal/handlers/slot"
	"parking/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Booking booking.Handler
	Slot    slot.Handler
}

type Middlewares struct {
	App       middleware.AppMiddleware
	AuthRole  middleware.AuthRole
	Reconcile middleware.Reconcile
}

type Router struct {
	DomainHandlers DomainHandlers
	Middlewares    Middlewares
}

// SetupRoutes mounts the versioned API. Requests are traced and rate limited first, then
// authenticated, then overdue bookings are reconciled before the handler sees the state.
func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.Middlewares.App.Tracing)
		routerGroup.Use(r.Middlewares.App.RateLimit())
		routerGroup.Use(r.Middlewares.AuthRole.APIKey)
		routerGroup.Use(r.Middlewares.AuthRole.Auth)
		routerGroup.Use(r.Middlewares.AuthRole.RBAC)
		routerGroup.Use(r.Middlewares.Reconcile.ReconcileFirst)

		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Slot.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, middlewares Middlewares) Router {
	return Router{
		DomainHandlers: domainHandlers,
		Middlewares:    middlewares,
	}
}
