package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Database is one postgres endpoint. The primary and the replica are configured separately.
type Database struct {
	Host     string `envconfig:"HOST"`
	Port     string `default:"5432"    envconfig:"PORT"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"`
	Timezone string `envconfig:"TIMEZONE"`
	SSLMode  string `default:"disable" envconfig:"SSL_MODE"`
}

type Config struct {
	Server struct {
		Env      string `default:"development" envconfig:"ENV"`
		LogLevel string `envconfig:"LOG_LEVEL"`
		Port     string `default:"8080"        envconfig:"PORT"`
		Host     string `envconfig:"HOST"`
		Shutdown struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name     string `default:"parking" envconfig:"APP_NAME"`
		Timezone string `envconfig:"TIMEZONE"`
		APIKey   string `envconfig:"API_KEY"`
		CORS     struct {
			Enable           bool     `envconfig:"ENABLE"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable        bool `envconfig:"ENABLE"`
			MaxRequests   int  `default:"60" envconfig:"MAX_REQUESTS"`
			WindowSeconds int  `default:"60" envconfig:"WINDOW_SECONDS"`
		} `envconfig:"RATE_LIMITER"`
	} `envconfig:"APP"`

	Cache struct {
		TTL   int `envconfig:"TTL"`
		Redis struct {
			Primary struct {
				Host     string `envconfig:"HOST"`
				Port     string `default:"6379" envconfig:"PORT"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB"`
			} `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
	} `envconfig:"CACHE"`

	JWT struct {
		AccessSecret    string `envconfig:"ACCESS_SECRET"`
		AccessExpireMin int    `default:"15" envconfig:"ACCESS_EXPIRE_MIN"`
	} `envconfig:"JWT"`

	DB struct {
		Postgres struct {
			Prefix         string   `envconfig:"PREFIX"`
			MaxRetry       int      `default:"3" envconfig:"MAX_RETRY"`
			RetryWaitTime  int      `default:"2" envconfig:"RETRY_WAIT_TIME"`
			MigrationTable string   `default:"schema_migrations" envconfig:"MIGRATION_TABLE"`
			AutoMigrate    bool     `envconfig:"AUTO_MIGRATE"`
			Read           Database `envconfig:"READ"`
			Write          Database `envconfig:"WRITE"`
			Pool           struct {
				MaxOpen            int `default:"10"  envconfig:"MAX_OPEN"`
				MaxIdle            int `default:"10"  envconfig:"MAX_IDLE"`
				MaxLifetimeSeconds int `default:"300" envconfig:"MAX_LIFETIME_SECONDS"`
			} `envconfig:"POOL"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	Booking struct {
		GracePeriodMinutes float64 `default:"10"   envconfig:"GRACE_PERIOD_MINUTES"`
		MaxDurationMinutes float64 `envconfig:"MAX_DURATION_MINUTES"`
		SlotLockTimeoutMs  int     `default:"3000" envconfig:"SLOT_LOCK_TIMEOUT_MS"`
		ReconcileOnRequest bool    `default:"true" envconfig:"RECONCILE_ON_REQUEST"`
	} `envconfig:"BOOKING"`

	Reconciler struct {
		Enable          bool `envconfig:"ENABLE"`
		IntervalSeconds int  `default:"30" envconfig:"INTERVAL_SECONDS"`
	} `envconfig:"RECONCILER"`

	Kafka struct {
		Enable  bool     `envconfig:"ENABLE"`
		Brokers []string `envconfig:"BROKERS"`
		SASL    struct {
			Username string `envconfig:"USERNAME"`
			Password string `envconfig:"PASSWORD"`
		} `envconfig:"SASL"`
		Topic struct {
			BookingEvents string `default:"parking.booking.events" envconfig:"BOOKING_EVENTS"`
		} `envconfig:"TOPIC"`
		PublishTimeoutMs int `default:"2000" envconfig:"PUBLISH_TIMEOUT_MS"`
	} `envconfig:"KAFKA"`

	External struct {
		Otel struct {
			Endpoint string `envconfig:"ENDPOINT"`
		} `envconfig:"OTEL"`
	}
}

// Validate rejects settings the booking lifecycle cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Booking.GracePeriodMinutes <= 0 {
		errs = append(errs, errors.New("BOOKING_GRACE_PERIOD_MINUTES must be positive"))
	}

	if c.Booking.MaxDurationMinutes < 0 {
		errs = append(errs, errors.New("BOOKING_MAX_DURATION_MINUTES must not be negative"))
	}

	if c.Booking.SlotLockTimeoutMs <= 0 {
		errs = append(errs, errors.New("BOOKING_SLOT_LOCK_TIMEOUT_MS must be positive"))
	}

	if c.Reconciler.Enable && c.Reconciler.IntervalSeconds <= 0 {
		errs = append(errs, errors.New("RECONCILER_INTERVAL_SECONDS must be positive"))
	}

	if c.Kafka.Enable && len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLE is set"))
	}

	return errors.Join(errs...)
}

// Load reads the process environment, after a best-effort .env, into a fresh Config.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Debug().Err(err).Msg("no .env file, using process environment")
	}

	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

var (
	conf    *Config
	once    sync.Once
	loadErr error
)

func Init() error {
	once.Do(func() {
		conf, loadErr = Load()
		if loadErr == nil {
			log.Info().Str("env", conf.Server.Env).Msg("Service configuration initialized successfully")
		}
	})

	return loadErr
}

// Get returns the process-wide configuration and exits when it cannot be loaded.
func Get() *Config {
	if err := Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize configuration")
	}

	return conf
}
