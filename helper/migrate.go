package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net/url"
	"parking/config"
	"parking/infras/postgres"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

type Action string

const (
	ActionUp      Action = "up"
	ActionDown    Action = "down"
	ActionStepUp  Action = "step-up"
	ActionDrop    Action = "drop"
	ActionVersion Action = "version"

	migrationsSource = "file://migrations/postgres"
)

var ErrUnknownAction = errors.New("unknown migration action")

// connectionString targets the write database. Migrations never run against the replica.
func connectionString(cfg *config.Config) string {
	pg := cfg.DB.Postgres

	dsn := postgres.DSN(postgres.NewEndpoint("migrate", pg.Prefix, pg.Write), cfg.App.Name)

	return dsn + "&x-migrations-table=" + url.QueryEscape(pg.MigrationTable)
}

func getConnection(cfg *config.Config) (*migrate.Migrate, error) {
	mig, err := migrate.New(migrationsSource, connectionString(cfg))
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return mig, nil
}

// Runner applies one migration action to the write database holding slots, bookings and their
// event trail.
func Runner(config *config.Config, action Action) error {
	mig, err := getConnection(config)
	if err != nil {
		return err
	}

	defer mig.Close()

	switch action {
	case ActionUp:
		err = mig.Up()
	case ActionDown:
		err = mig.Steps(-1)
	case ActionStepUp:
		err = mig.Steps(1)
	case ActionDrop:
		err = mig.Down()
	case ActionVersion:
		version, dirty, verErr := mig.Version()
		if verErr != nil && !errors.Is(verErr, migrate.ErrNilVersion) {
			return fmt.Errorf("error reading migration version: %w", verErr)
		}

		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Current database migration version")

		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running %s migration: %w", action, err)
	}

	log.Info().Str("action", string(action)).Msg("Database migration completed successfully")

	return nil
}

func Up(config *config.Config) error {
	return Runner(config, ActionUp)
}
