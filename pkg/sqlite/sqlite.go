// Package sqlite opens SQLite handles through the pure Go modernc driver
// and applies embedded schema migrations to them.
//
// File databases run in WAL mode with synchronous=FULL so that a statement is
// durable once it returns. The special path ":memory:" opens a private
// in-memory database pinned to a single connection, which makes every handle
// an isolated database.
package sqlite

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"

	_ "modernc.org/sqlite"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const (
	defaultBusyTimeout  = 5 * time.Second
	defaultMaxOpenConns = 8
)

func init() {
	sqlx.BindDriver(DriverName, sqlx.QUESTION)
}

type options struct {
	busyTimeout  time.Duration
	maxOpenConns int
}

type Option func(*options)

// WithBusyTimeout sets how long a writer waits for the database lock.
func WithBusyTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.busyTimeout = d
		}
	}
}

// WithMaxOpenConns bounds the pool of a file database. Ignored for memory databases.
func WithMaxOpenConns(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxOpenConns = n
		}
	}
}

// New opens the database at path and verifies the connection.
// The returned handle is owned by the caller and must be closed on shutdown.
func New(ctx context.Context, path string, opts ...Option) (*sqlx.DB, error) {
	const op = "sqlite.New"

	o := options{
		busyTimeout:  defaultBusyTimeout,
		maxOpenConns: defaultMaxOpenConns,
	}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := sqlx.ConnectContext(ctx, DriverName, DSN(path, o.busyTimeout))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect to database: %w", op, err)
	}

	if path == MemoryPath {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxIdleTime(0)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetMaxOpenConns(o.maxOpenConns)
		db.SetMaxIdleConns(o.maxOpenConns)
	}

	return db, nil
}

// DSN builds the driver connection string for path.
func DSN(path string, busyTimeout time.Duration) string {
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeout.Milliseconds()))
	q.Add("_pragma", "foreign_keys(1)")
	if path != MemoryPath {
		q.Add("_pragma", "journal_mode(WAL)")
		q.Add("_pragma", "synchronous(FULL)")
	}
	q.Set("_time_format", "sqlite")

	return "file:" + path + "?" + q.Encode()
}
