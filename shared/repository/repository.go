package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"parking/infras/otel"
	"parking/infras/postgres"
	"parking/shared/constant"
	"parking/shared/dto"
	"parking/shared/logger"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ErrRequiredFilter guards writes that would otherwise touch every row.
var ErrRequiredFilter = errors.New("required filter")

var queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "parking_db_query_duration_seconds",
	Help:    "Latency of repository queries by entity, operation and outcome.",
	Buckets: prometheus.DefBuckets,
}, []string{"entity", "operation", "outcome"})

type column struct {
	name  string
	table string
	alias string
}

// field is the name the column is scanned into.
func (c column) field() string {
	if c.alias != "" {
		return c.alias
	}

	return c.name
}

func (c column) expr() string {
	switch {
	case c.table == "":
		return c.name
	case c.alias != "":
		return fmt.Sprintf("%s.%s AS %s", c.table, c.name, c.alias)
	default:
		return fmt.Sprintf("%s.%s", c.table, c.name)
	}
}

type execer interface {
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
}

type preparer interface {
	PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
}

// Repository maps T onto one table through its db tags. A field tagged table:"x" is read from a
// joined table and never inserted; column:"y" selects y under the db tag as alias. When T has a
// GetJoinQuery method its result is appended after FROM.
type Repository[T any] struct {
	db            *postgres.Connection
	otel          otel.Otel
	table         string
	entity        string
	primaryColumn string
	columns       []column
	join          string
	InsertColumns []string
}

type joiner interface {
	GetJoinQuery() string
}

func NewRepository[T any](entityName, tableName, primaryColumn string, dbConnection *postgres.Connection, otl otel.Otel) Repository[T] {
	var zero T

	columns, insertColumns := getColumns(tableName, reflect.TypeOf(zero))

	join := ""
	if j, ok := any(zero).(joiner); ok {
		join = j.GetJoinQuery()
	}

	return Repository[T]{
		db:            dbConnection,
		otel:          otl,
		table:         tableName,
		entity:        entityName,
		primaryColumn: primaryColumn,
		columns:       columns,
		join:          join,
		InsertColumns: insertColumns,
	}
}

// run opens a span for one operation, records its query and latency, and logs a failure.
func (repo *Repository[T]) run(ctx context.Context, operation, query string, fn func(ctx context.Context) error) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entity, operation))
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	started := time.Now()
	err := fn(ctx)

	outcome := "ok"
	if err != nil {
		outcome = "error"

		logger.ErrorWithStack(err)
		scope.TraceError(err)
	}

	queryDuration.WithLabelValues(repo.entity, operation, outcome).Observe(time.Since(started).Seconds())

	return err
}

func (repo *Repository[T]) insertQuery() string {
	placeholders := make([]string, 0, len(repo.InsertColumns))
	for _, col := range repo.InsertColumns {
		placeholders = append(placeholders, ":"+col)
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", repo.table, strings.Join(repo.InsertColumns, ", "), strings.Join(placeholders, ", "))
}

// Insert writes one row, inside the transaction carried by ctx when there is one.
func (repo *Repository[T]) Insert(ctx context.Context, model T) error {
	query := repo.insertQuery()

	err := repo.run(ctx, "Insert", query, func(ctx context.Context) error {
		_, err := repo.writer(ctx).NamedExecContext(ctx, query, model)

		return err //nolint:wrapcheck
	})
	if err != nil {
		return fmt.Errorf("failed to insert data (%s): %w", repo.entity, err)
	}

	return nil
}

// Get returns the first matching row, or the zero T when nothing matches.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	var model T

	where, args := buildWhereClause(filter)
	query := fmt.Sprintf("SELECT %s FROM %s %s %s", repo.selectList(columns...), repo.table, repo.join, where)

	err := repo.run(ctx, "Get", query, func(ctx context.Context) error {
		err := repo.namedQuery(ctx, query, func(stmt *sqlx.NamedStmt) error {
			return stmt.GetContext(ctx, &model, args) //nolint:wrapcheck
		})
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}

		return err
	})
	if err != nil {
		return model, fmt.Errorf("failed to get data (%s): %w", repo.entity, err)
	}

	return model, nil
}

// GetAll returns a page of matching rows. Sort columns must already be sanitized by the caller.
func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	var models []T

	where, args := buildWhereClause(filter)
	query := strings.Join(slices.DeleteFunc([]string{
		fmt.Sprintf("SELECT %s FROM %s", repo.selectList(columns...), repo.table),
		repo.join,
		where,
		ordering(params),
		pagination(params, args),
	}, func(part string) bool { return part == "" }), " ")

	err := repo.run(ctx, "GetAll", query, func(ctx context.Context) error {
		return repo.namedQuery(ctx, query, func(stmt *sqlx.NamedStmt) error {
			return stmt.SelectContext(ctx, &models, args) //nolint:wrapcheck
		})
	})
	if err != nil {
		return models, fmt.Errorf("failed to get all data (%s): %w", repo.entity, err)
	}

	return models, nil
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	var count int

	where, args := buildWhereClause(filter)
	query := fmt.Sprintf("SELECT COUNT(%s.%s) FROM %s %s %s", repo.table, repo.primaryColumn, repo.table, repo.join, where)

	err := repo.run(ctx, "Count", query, func(ctx context.Context) error {
		return repo.namedQuery(ctx, query, func(stmt *sqlx.NamedStmt) error {
			return stmt.GetContext(ctx, &count, args) //nolint:wrapcheck
		})
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count data (%s): %w", repo.entity, err)
	}

	return count, nil
}

// UpdateCount sets the columns in mod on every row matching filter and reports how many matched.
// Compare-and-swap writes put the expected current value in the filter and treat zero as a lost
// race.
func (repo *Repository[T]) UpdateCount(ctx context.Context, mod map[string]any, filter dto.FilterGroup) (int64, error) {
	where, args := buildWhereClause(filter)
	if where == "" {
		return 0, ErrRequiredFilter
	}

	query := updateQuery(repo.table, mod, where)
	maps.Copy(args, mod)

	var affected int64

	err := repo.run(ctx, "UpdateCount", query, func(ctx context.Context) error {
		result, err := repo.writer(ctx).NamedExecContext(ctx, query, args)
		if err != nil {
			return err //nolint:wrapcheck
		}

		affected, err = result.RowsAffected()

		return err //nolint:wrapcheck
	})
	if err != nil {
		return 0, fmt.Errorf("failed to update data (%s): %w", repo.entity, err)
	}

	return affected, nil
}

func (repo *Repository[T]) namedQuery(ctx context.Context, query string, fn func(stmt *sqlx.NamedStmt) error) error {
	stmt, err := repo.reader(ctx).PrepareNamedContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	return fn(stmt)
}

// writer returns the transaction carried by ctx, or the write pool.
func (repo *Repository[T]) writer(ctx context.Context) execer {
	if tx, ok := postgres.TxFromContext(ctx); ok {
		return tx
	}

	return repo.db.Write
}

// reader returns the transaction carried by ctx so reads see uncommitted writes of the same
// unit of work, or the read pool.
func (repo *Repository[T]) reader(ctx context.Context) preparer {
	if tx, ok := postgres.TxFromContext(ctx); ok {
		return tx
	}

	return repo.db.Read
}

func (repo *Repository[T]) Table() string {
	return repo.table
}

// SelectColumns returns the column list used by Get and GetAll, for hand-written queries.
func (repo *Repository[T]) SelectColumns() string {
	return repo.selectList()
}

// selectList renders the projection. only names db tags, so a joined column is picked by its alias.
func (repo *Repository[T]) selectList(only ...string) string {
	exprs := make([]string, 0, len(repo.columns))

	for _, col := range repo.columns {
		if len(only) > 0 && !slices.Contains(only, col.field()) {
			continue
		}

		exprs = append(exprs, col.expr())
	}

	return strings.Join(exprs, ", ")
}

func buildWhereClause(filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == "" {
		return "", map[string]any{}
	}

	return "WHERE " + where, args
}

func updateQuery(table string, mod map[string]any, where string) string {
	sets := make([]string, 0, len(mod))
	for _, col := range slices.Sorted(maps.Keys(mod)) {
		sets = append(sets, fmt.Sprintf("%s = :%s", col, col))
	}

	return fmt.Sprintf("UPDATE %s SET %s %s", table, strings.Join(sets, ", "), where)
}

func ordering(params dto.QueryParams) string {
	if params.SortBy == "" || params.SortDir == "" {
		return ""
	}

	return fmt.Sprintf("ORDER BY %s %s", params.SortBy, params.SortDir)
}

// pagination adds its bind values to args.
func pagination(params dto.QueryParams, args map[string]any) string {
	if params.Limit <= 0 {
		return ""
	}

	args["limit"] = params.Limit

	if params.Page <= 0 {
		return "LIMIT :limit"
	}

	args["offset"] = (params.Page - 1) * params.Limit

	return "LIMIT :limit OFFSET :offset"
}

func getColumns(table string, reflectType reflect.Type) (columns []column, insertColumns []string) {
	for i := range reflectType.NumField() {
		field := reflectType.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			embedded, embeddedInsert := getColumns(table, field.Type)
			columns = append(columns, embedded...)
			insertColumns = append(insertColumns, embeddedInsert...)

			continue
		}

		dbTag := field.Tag.Get("db")
		if dbTag == "" || dbTag == "-" {
			continue
		}

		source := field.Tag.Get("table")
		if source == "" {
			source = table
		}

		if source == table {
			insertColumns = append(insertColumns, dbTag)
		}

		if name := field.Tag.Get("column"); name != "" {
			columns = append(columns, column{name: name, table: source, alias: dbTag})
		} else {
			columns = append(columns, column{name: dbTag, table: source})
		}
	}

	return columns, insertColumns
}
