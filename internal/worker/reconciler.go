package worker

import (
	"context"
	"errors"
	"parking/config"
	"parking/infras/otel"
	"parking/internal/domains/booking/service"
	"parking/shared/constant"
	"parking/shared/timezone"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultIntervalSeconds = 30

var ErrAlreadyRunning = errors.New("reconciler worker already running")

// Stats is a snapshot of the work done since Start.
type Stats struct {
	Sweeps       int64
	Expired      int64
	NoShow       int64
	Failed       int64
	LastSweepAt  time.Time
	LastSweepErr string
}

// Reconciler sweeps overdue bookings on a fixed interval so lifecycle state converges even when
// no request arrives.
type Reconciler struct {
	reconciler service.Reconciler
	interval   time.Duration
	otel       otel.Otel
	now        func() time.Time

	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
	stats   Stats
}

func NewReconciler(reconciler service.Reconciler, cfg *config.Config, otel otel.Otel) *Reconciler {
	seconds := cfg.Reconciler.IntervalSeconds
	if seconds <= 0 {
		seconds = defaultIntervalSeconds
	}

	return &Reconciler{
		reconciler: reconciler,
		interval:   time.Duration(seconds) * time.Second,
		otel:       otel,
		now:        timezone.Now,
	}
}

// WithInterval overrides the sweep interval. It must be called before Start.
func (w *Reconciler) WithInterval(interval time.Duration) *Reconciler {
	w.interval = interval

	return w
}

// WithClock overrides the time source handed to each sweep. It must be called before Start.
func (w *Reconciler) WithClock(now func() time.Time) *Reconciler {
	w.now = now

	return w
}

func (w *Reconciler) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return ErrAlreadyRunning
	}

	w.running = true
	w.stopCh = make(chan struct{})

	log.Info().Dur("interval", w.interval).Msg("Starting reconciler worker")

	w.wg.Add(1)

	go w.loop(ctx)

	return nil
}

func (w *Reconciler) Stop() {
	w.mu.Lock()

	if !w.running {
		w.mu.Unlock()

		return
	}

	w.running = false
	close(w.stopCh)
	w.mu.Unlock()

	w.wg.Wait()

	log.Info().Msg("Reconciler worker stopped")
}

func (w *Reconciler) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.stats
}

func (w *Reconciler) loop(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *Reconciler) sweep(ctx context.Context) {
	ctx, scope := w.otel.NewScope(ctx, constant.OtelWorkerScopeName, constant.OtelWorkerScopeName+".reconciler.sweep")
	defer scope.End()

	now := w.now()
	res, err := w.reconciler.Reconcile(ctx, now)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.stats.Sweeps++
	w.stats.LastSweepAt = now

	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("reconciler sweep failed")

		w.stats.LastSweepErr = err.Error()

		return
	}

	w.stats.LastSweepErr = ""
	w.stats.Expired += int64(res.Expired)
	w.stats.NoShow += int64(res.NoShow)
	w.stats.Failed += int64(res.Failed)
}
