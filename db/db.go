package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq" // Import postgres driver
	_ "modernc.org/sqlite"
)

type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

// Executor is satisfied by both *DB and *Tx so repositories can run inside
// or outside a transaction.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	InsertID(ctx context.Context, query string, args ...interface{}) (int64, error)
}

// DB wraps *sql.DB and rewrites "?" placeholders for the active dialect.
type DB struct {
	sqlDB   *sql.DB
	dialect Dialect
}

// ParseDSN picks the driver from the DSN. postgres:// URLs go to lib/pq,
// everything else is treated as a SQLite file path.
func ParseDSN(dsn string) (Dialect, string) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return Postgres, dsn
	default:
		return SQLite, strings.TrimPrefix(dsn, "sqlite://")
	}
}

func Connect(dsn string, timeout time.Duration) (*DB, error) {
	dialect, source := ParseDSN(dsn)

	var (
		sqlDB *sql.DB
		err   error
	)
	switch dialect {
	case Postgres:
		sqlDB, err = sql.Open("postgres", source)
		if err != nil {
			return nil, fmt.Errorf("failed to create database handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(25)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	default:
		if source == "" {
			return nil, fmt.Errorf("sqlite database path is required")
		}
		if dir := filepath.Dir(source); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
		sqlDB, err = sql.Open("sqlite", "file:"+source+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
		if err != nil {
			return nil, fmt.Errorf("failed to create database handle: %w", err)
		}
		// SQLite serializes writers anyway; one connection avoids SQLITE_BUSY churn.
		sqlDB.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err = sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database within %v: %w", timeout, err)
	}

	return &DB{sqlDB: sqlDB, dialect: dialect}, nil
}

func (d *DB) Dialect() Dialect {
	return d.dialect
}

func (d *DB) Close() error {
	if d == nil || d.sqlDB == nil {
		return nil
	}
	return d.sqlDB.Close()
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	res, err := d.sqlDB.ExecContext(ctx, rebind(d.dialect, query), args...)
	if err != nil {
		return nil, wrap("exec", err)
	}
	return res, nil
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	rows, err := d.sqlDB.QueryContext(ctx, rebind(d.dialect, query), args...)
	if err != nil {
		return nil, wrap("query", err)
	}
	return rows, nil
}

func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return d.sqlDB.QueryRowContext(ctx, rebind(d.dialect, query), args...)
}

// InsertID runs an INSERT and returns the id of the new row.
func (d *DB) InsertID(ctx context.Context, query string, args ...interface{}) (int64, error) {
	return insertID(ctx, d.QueryRowContext, query, args...)
}

// WithTx runs fn inside a transaction, committing when fn returns nil.
func (d *DB) WithTx(ctx context.Context, fn func(exec Executor) error) (err error) {
	sqlTx, err := d.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return wrap("begin", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		} else if err != nil {
			_ = sqlTx.Rollback()
		} else if cerr := sqlTx.Commit(); cerr != nil {
			err = wrap("commit", cerr)
		}
	}()

	return fn(&Tx{tx: sqlTx, dialect: d.dialect})
}

type Tx struct {
	tx      *sql.Tx
	dialect Dialect
}

func (t *Tx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	res, err := t.tx.ExecContext(ctx, rebind(t.dialect, query), args...)
	if err != nil {
		return nil, wrap("exec", err)
	}
	return res, nil
}

func (t *Tx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	rows, err := t.tx.QueryContext(ctx, rebind(t.dialect, query), args...)
	if err != nil {
		return nil, wrap("query", err)
	}
	return rows, nil
}

func (t *Tx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return t.tx.QueryRowContext(ctx, rebind(t.dialect, query), args...)
}

func (t *Tx) InsertID(ctx context.Context, query string, args ...interface{}) (int64, error) {
	return insertID(ctx, t.QueryRowContext, query, args...)
}

func insertID(ctx context.Context, queryRow func(context.Context, string, ...interface{}) *sql.Row, query string, args ...interface{}) (int64, error) {
	var id int64
	// Both PostgreSQL and SQLite >= 3.35 understand RETURNING.
	if err := queryRow(ctx, query+" RETURNING id", args...).Scan(&id); err != nil {
		return 0, wrap("insert", err)
	}
	return id, nil
}

// rebind converts "?" placeholders to "$n" for PostgreSQL. Question marks
// inside single-quoted literals are left alone.
func rebind(dialect Dialect, query string) string {
	if dialect != Postgres || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
