package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

const ObjectivesSchema = `
	CREATE TABLE IF NOT EXISTS objectives (
		id VARCHAR(64) PRIMARY KEY,
		user_id VARCHAR(64) NOT NULL,
		title VARCHAR(255) NOT NULL DEFAULT '',
		category VARCHAR(32) NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'Pending',
		initial_value DOUBLE PRECISION NULL,
		current_value DOUBLE PRECISION NULL,
		target_value DOUBLE PRECISION NULL,
		is_lower_better BOOLEAN NOT NULL DEFAULT FALSE,
		end_date TIMESTAMP NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
`

const ProgressEntriesSchema = `
	CREATE TABLE IF NOT EXISTS progress_entries (
		id VARCHAR(64) PRIMARY KEY,
		objective_id VARCHAR(64) NOT NULL REFERENCES objectives(id) ON DELETE CASCADE,
		value DOUBLE PRECISION NOT NULL,
		entry_date TIMESTAMP NOT NULL
	);
`

const ObjectivesUserIndex = `CREATE INDEX IF NOT EXISTS idx_objectives_user ON objectives (user_id);`

const EntriesObjectiveIndex = `CREATE INDEX IF NOT EXISTS idx_progress_entries_objective ON progress_entries (objective_id, entry_date);`

var bootQueries = []string{
	ObjectivesSchema,
	ProgressEntriesSchema,
	ObjectivesUserIndex,
	EntriesObjectiveIndex,
}

type Settings struct {
	Driver string
	DSN    string
}

// DB wraps the connection pool together with the SQL dialect it speaks.
type DB struct {
	*sql.DB
	driver string
}

func NewDB(ctx context.Context, settings Settings) (*DB, error) {
	var (
		db  *sql.DB
		err error
	)

	switch settings.Driver {
	case DriverSQLite, "":
		db, err = openSQLite(settings.DSN)
	case DriverPostgres, "postgres":
		db, err = openPostgres(settings.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", settings.Driver)
	}
	if err != nil {
		return nil, err
	}

	for _, query := range bootQueries {
		if _, err := db.ExecContext(ctx, query); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to run boot query: %w", err)
		}
	}

	return Wrap(db, settings.Driver), nil
}

// Wrap adopts an already opened pool, used by tests running against sqlmock.
func Wrap(db *sql.DB, driver string) *DB {
	if driver == "postgres" {
		driver = DriverPostgres
	}
	if driver == "" {
		driver = DriverSQLite
	}
	return &DB{DB: db, driver: driver}
}

func (d *DB) Driver() string {
	return d.driver
}

// Rebind rewrites `?` placeholders into the positional form Postgres expects.
func (d *DB) Rebind(query string) string {
	if d.driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func openSQLite(dsn string) (*sql.DB, error) {
	if dsn == "" {
		dsn = ":memory:"
	}

	db, err := sql.Open(DriverSQLite, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// every connection to :memory: is a separate database
	if dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL: %w", err)
		}
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

func openPostgres(dsn string) (*sql.DB, error) {
	config, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	db := stdlib.OpenDB(*config)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return db, nil
}
