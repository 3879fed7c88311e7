package main

import (
	"context"
	"parking/config"
	"parking/di"
	"parking/helper"
	"parking/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Parking Booking API
// @version 1.0
// @description Slot booking lifecycle: reserve, arrive, extend, cancel, and automatic expiry.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
	}

	app := di.InitializeService()

	if cfg.Reconciler.Enable {
		if err := app.Reconciler.Start(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("Failed to start reconciler worker")
		}

		defer app.Reconciler.Stop()
	}

	app.HTTP.Serve()
}
