package timezone

import (
	"parking/config"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	appLocation = time.UTC

	clockMu sync.RWMutex
	clock   = time.Now
)

func init() {
	appLocation = load(config.Get().App.Timezone)
}

func load(name string) *time.Location {
	if name == "" {
		log.Warn().Msg("no timezone configured, using UTC")

		return time.UTC
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("failed to load timezone, falling back to UTC")

		return time.UTC
	}

	log.Info().Str("timezone", loc.String()).Msg("application timezone initialized")

	return loc
}

// SetClock replaces the source of Now and returns a func restoring the previous one.
func SetClock(now func() time.Time) (restore func()) {
	clockMu.Lock()
	defer clockMu.Unlock()

	previous := clock
	clock = now

	return func() {
		clockMu.Lock()
		defer clockMu.Unlock()

		clock = previous
	}
}

// Now returns the current instant in the application timezone.
func Now() time.Time {
	clockMu.RLock()
	defer clockMu.RUnlock()

	return clock().In(appLocation)
}

func ToAppTime(t time.Time) time.Time {
	return t.In(appLocation)
}

func GetLocation() *time.Location {
	return appLocation
}

func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}
