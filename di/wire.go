//go:build wireinject
// +build wireinject

package di

import (
	"parking/config"
	"parking/infras/jwt"
	"parking/infras/kafka"
	"parking/infras/otel"
	"parking/infras/postgres"
	"parking/infras/redis"
	"parking/internal/worker"
	"parking/permissions"
	"parking/shared/cache"
	"parking/transport/http"
	"parking/transport/http/middleware"
	"parking/transport/http/router"

	bookingRepository "parking/internal/domains/booking/repository"
	bookingService "parking/internal/domains/booking/service"
	eventRepository "parking/internal/domains/event/repository"
	eventService "parking/internal/domains/event/service"
	slotRepository "parking/internal/domains/slot/repository"
	slotService "parking/internal/domains/slot/service"
	bookingHandler "parking/internal/handlers/booking"
	slotHandler "parking/internal/handlers/slot"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	postgres.NewTransactor,
	wire.Bind(new(http.HealthChecker), new(*postgres.Connection)),
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
	middleware.NewReconcileMiddleware,
	wire.Struct(new(router.Middlewares), "*"),
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var slotDomain = wire.NewSet(
	slotRepository.New,
	slotService.New,
)

var eventDomain = wire.NewSet(
	eventRepository.New,
	eventService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
	bookingService.NewReconciler,
)

var domains = wire.NewSet(
	slotDomain,
	eventDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	bookingHandler.New,
	slotHandler.New,
	router.New,
)

var workers = wire.NewSet(
	worker.NewReconciler,
)

func InitializeService() *Application {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		workers,
		http.New,
		wire.Struct(new(Application), "*"),
	)

	return &Application{}
}
