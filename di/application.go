package di

import (
	"parking/internal/worker"
	"parking/transport/http"
)

// Application bundles the long-running parts of the service.
type Application struct {
	HTTP       *http.HTTP
	Reconciler *worker.Reconciler
}
