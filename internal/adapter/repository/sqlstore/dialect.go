package sqlstore

import (
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect captures the SQL differences between supported engines.
type Dialect struct {
	name        string
	placeholder sq.PlaceholderFormat
	// now is an SQL expression evaluating to the current time.
	now string
	// contains is a format turning a column name into a case-sensitive
	// substring test against a single placeholder.
	contains          string
	isUniqueViolation func(err error) bool
}

var (
	// Postgres is the dialect of PostgreSQL through pgx.
	Postgres = Dialect{
		name:              "postgres",
		placeholder:       sq.Dollar,
		now:               "now()",
		contains:          "strpos(%s, ?) > 0",
		isUniqueViolation: isPgUniqueViolation,
	}

	// SQLite is the dialect of SQLite through modernc.org/sqlite.
	SQLite = Dialect{
		name:              "sqlite",
		placeholder:       sq.Question,
		now:               "strftime('%Y-%m-%d %H:%M:%f', 'now')",
		contains:          "instr(%s, ?) > 0",
		isUniqueViolation: isSQLiteUniqueViolation,
	}
)

// String returns the engine name.
func (d Dialect) String() string {
	return d.name
}

func (d Dialect) containsExpr(column, substr string) sq.Sqlizer {
	return sq.Expr(fmt.Sprintf(d.contains, column), substr)
}

func isPgUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func isSQLiteUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}

	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		// Without extended result codes only the message tells them apart.
		return strings.Contains(sqliteErr.Error(), "UNIQUE constraint failed")
	default:
		return false
	}
}
