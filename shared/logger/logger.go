package logger

import (
	"context"
	"os"
	"parking/config"
	"parking/shared/constant"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}

	log.Logger = log.Output(output)
	log.Trace().Msg("Zerolog initialized.")
}

// ErrorWithStack logs err with the stack of the caller attached.
func ErrorWithStack(err error) {
	log.Error().Stack().Err(errors.WithStack(err)).Send()
}

// FromContext returns the global logger tagged with the request id and the caller, when the
// request carries them.
func FromContext(ctx context.Context) *zerolog.Logger {
	logCtx := log.Logger.With()

	if requestID := chiMiddleware.GetReqID(ctx); requestID != "" {
		logCtx = logCtx.Str("request_id", requestID)
	}

	if userID, ok := ctx.Value(constant.ContextKeyUserID).(string); ok && userID != "" {
		logCtx = logCtx.Str("user_id", userID)
	}

	logger := logCtx.Logger()

	return &logger
}

// SetLogLevel applies the configured level. Production switches to plain JSON lines for the log
// shipper.
func SetLogLevel(config *config.Config) {
	if config.Server.Env == constant.ServerEnvProduction {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Str("app", config.App.Name).Logger()
	}

	level, err := zerolog.ParseLevel(config.Server.LogLevel)
	if err != nil || config.Server.LogLevel == "" {
		level = zerolog.TraceLevel
		log.Trace().Str("loglevel", level.String()).Msg("Environment has no log level set up, using default.")
	} else {
		log.Trace().Str("loglevel", level.String()).Msg("Desired log level detected.")
	}

	zerolog.SetGlobalLevel(level)
}
