package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("store: not found")

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite3"
)

// DB wraps the sql handle together with the dialect it speaks.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Open connects to the database named by url. postgresql:// URLs go to
// lib/pq; everything else is treated as a SQLite path or DSN. A sqlite:///
// prefix (as seen in legacy deployment configs) is stripped.
func Open(url string) (*DB, error) {
	if strings.HasPrefix(url, "postgresql://") || strings.HasPrefix(url, "postgres://") {
		db, err := sql.Open("postgres", url)
		if err != nil {
			return nil, err
		}
		db.SetConnMaxLifetime(5 * time.Minute)
		return &DB{DB: db, Dialect: DialectPostgres}, nil
	}

	dsn := url
	if rest, ok := strings.CutPrefix(dsn, "sqlite:///"); ok {
		dsn = rest
	} else if rest, ok := strings.CutPrefix(dsn, "sqlite://"); ok {
		dsn = rest
	}
	dsn = withForeignKeys(dsn)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	return &DB{DB: db, Dialect: DialectSQLite}, nil
}

// Foreign keys are off by default in SQLite and must be enabled per
// connection, so it has to go through the DSN rather than a PRAGMA.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS users (
	id            BIGSERIAL PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	email         TEXT,
	created_at    TIMESTAMPTZ NOT NULL,
	last_login    TIMESTAMPTZ
);
CREATE TABLE IF NOT EXISTS tasks (
	id          BIGSERIAL PRIMARY KEY,
	uuid        TEXT NOT NULL UNIQUE,
	user_id     BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	title       TEXT NOT NULL,
	description TEXT,
	due_iso     TEXT,
	done        BOOLEAN NOT NULL DEFAULT FALSE,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tasks_user_id ON tasks(user_id);
CREATE INDEX IF NOT EXISTS idx_tasks_done ON tasks(done);
CREATE INDEX IF NOT EXISTS idx_tasks_due_iso ON tasks(due_iso);
`

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS users (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	email         TEXT,
	created_at    DATETIME NOT NULL,
	last_login    DATETIME
);
CREATE TABLE IF NOT EXISTS tasks (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	uuid        TEXT NOT NULL UNIQUE,
	user_id     INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	title       TEXT NOT NULL,
	description TEXT,
	due_iso     TEXT,
	done        BOOLEAN NOT NULL DEFAULT FALSE,
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tasks_user_id ON tasks(user_id);
CREATE INDEX IF NOT EXISTS idx_tasks_done ON tasks(done);
CREATE INDEX IF NOT EXISTS idx_tasks_due_iso ON tasks(due_iso);
`

// EnsureSchema creates the tables and indexes if they are missing.
func (db *DB) EnsureSchema(ctx context.Context) error {
	schema := schemaSQLite
	if db.Dialect == DialectPostgres {
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

// IsUniqueViolation reports whether err is a unique-constraint failure from
// either driver.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Name() == "unique_violation"
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
