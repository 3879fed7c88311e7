package postgres

//nolint:revive
import (
	"context"
	"fmt"
	"net"
	"net/url"
	"parking/config"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const driverName = "postgres"

// Connection holds the primary used for writes and the replica used for plain reads.
// Statements inside a transaction always go to the primary.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// Endpoint is one side of the read/write split.
type Endpoint struct {
	Role     string
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	Timezone string
	SSLMode  string
}

// NewEndpoint names one configured database for the given role. The shared prefix lets several
// environments live on one server.
func NewEndpoint(role, prefix string, db config.Database) Endpoint {
	return Endpoint{
		Role:     role,
		Host:     db.Host,
		Port:     db.Port,
		Username: db.Username,
		Password: db.Password,
		Name:     prefix + db.Name,
		Timezone: db.Timezone,
		SSLMode:  db.SSLMode,
	}
}

func New(cfg *config.Config) *Connection {
	pg := cfg.DB.Postgres

	return &Connection{
		Read:  Connect(NewEndpoint("read", pg.Prefix, pg.Read), cfg),
		Write: Connect(NewEndpoint("write", pg.Prefix, pg.Write), cfg),
	}
}

// DSN renders a lib/pq connection URL. The application name shows up in pg_stat_activity.
func DSN(endpoint Endpoint, appName string) string {
	query := url.Values{}
	query.Set("sslmode", endpoint.SSLMode)

	if appName != "" {
		query.Set("application_name", appName+"-"+endpoint.Role)
	}

	if endpoint.Timezone != "" {
		query.Set("timezone", endpoint.Timezone)
	}

	dsn := url.URL{
		Scheme:   driverName,
		User:     url.UserPassword(endpoint.Username, endpoint.Password),
		Host:     net.JoinHostPort(endpoint.Host, endpoint.Port),
		Path:     endpoint.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

// Connect retries until the database answers or MaxRetry attempts are spent, then returns nil.
func Connect(endpoint Endpoint, cfg *config.Config) *sqlx.DB {
	pg := cfg.DB.Postgres
	dsn := DSN(endpoint, cfg.App.Name)

	for attempt := range max(pg.MaxRetry, 1) {
		db, err := sqlx.Connect(driverName, dsn)
		if err == nil {
			db.SetMaxOpenConns(pg.Pool.MaxOpen)
			db.SetMaxIdleConns(pg.Pool.MaxIdle)
			db.SetConnMaxLifetime(time.Duration(pg.Pool.MaxLifetimeSeconds) * time.Second)

			log.Info().
				Str("role", endpoint.Role).
				Str("host", endpoint.Host).
				Str("dbName", endpoint.Name).
				Msg("connected to database")

			return db
		}

		log.Error().
			Err(err).
			Str("role", endpoint.Role).
			Str("host", endpoint.Host).
			Str("dbName", endpoint.Name).
			Int("attempt", attempt+1).
			Msg("failed connecting to database, retrying")

		time.Sleep(time.Duration(pg.RetryWaitTime) * time.Second)
	}

	return nil
}

// Ping checks both sides of the split.
func (c *Connection) Ping(ctx context.Context) error {
	for role, db := range map[string]*sqlx.DB{"write": c.Write, "read": c.Read} {
		if db == nil {
			return fmt.Errorf("%s database is not connected", role)
		}

		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("failed to ping %s database: %w", role, err)
		}
	}

	return nil
}
