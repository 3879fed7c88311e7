package handler

import (
	"net/http"
	"parking/config"
	"parking/di"
	"parking/shared/logger"
	"sync"
)

var (
	app     *di.Application
	appOnce sync.Once
)

func application() *di.Application {
	appOnce.Do(func() {
		logger.InitLogger()

		cfg := config.Get()
		cfg.Booking.ReconcileOnRequest = true

		logger.SetLogLevel(cfg)

		app = di.InitializeService()
	})

	return app
}

// Handler serves the API on a serverless runtime. No background worker runs there, so every
// request reconciles overdue bookings before it is handled. Warm invocations reuse the wired
// application and its connection pools.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	application().HTTP.ServeHTTP(w, r)
}
