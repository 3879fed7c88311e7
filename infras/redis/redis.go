package redis

import (
	"context"
	"net"
	"parking/config"
	"time"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	dialTimeout = 5 * time.Second
	pingTimeout = 3 * time.Second
)

// Options maps the primary cache settings onto a client configuration.
func Options(cfg *config.Config) *goRedis.Options {
	primary := cfg.Cache.Redis.Primary

	return &goRedis.Options{
		Addr:        net.JoinHostPort(primary.Host, primary.Port),
		Password:    primary.Password,
		DB:          primary.DB,
		ClientName:  cfg.App.Name,
		DialTimeout: dialTimeout,
	}
}

// New connects to the primary cache and exits the process when it is unreachable, since the
// booking lists and the rate limiter both depend on it.
func New(cfg *config.Config) *goRedis.Client {
	opts := Options(cfg)
	client := goRedis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", opts.Addr).Msg("failed to connect to redis")
	}

	log.Info().
		Int("db", opts.DB).
		Str("addr", opts.Addr).
		Msg("connected to redis")

	return client
}
