package persistence

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// DialectSQLite names the sqlite migrations directory.
const DialectSQLite = "sqlite"

const sqliteDriver = "sqlite3"

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// SQLiteOptions tunes the sqlite handle.
type SQLiteOptions struct {
	Path            string
	BusyTimeout     time.Duration
	MaxOpenConns    int
	ConnMaxIdleTime time.Duration
}

// SQLiteOption mutates SQLiteOptions.
type SQLiteOption func(*SQLiteOptions)

// WithBusyTimeout sets how long writers wait on a locked database.
func WithBusyTimeout(d time.Duration) SQLiteOption {
	return func(o *SQLiteOptions) { o.BusyTimeout = d }
}

// WithMaxOpenConns bounds the connection pool.
func WithMaxOpenConns(n int) SQLiteOption {
	return func(o *SQLiteOptions) { o.MaxOpenConns = n }
}

// OpenSQLite opens (creating if needed) the database at path. The special
// path ":memory:" is pinned to a single connection so every caller sees the
// same database.
func OpenSQLite(ctx context.Context, path string, logger *zap.Logger, opts ...SQLiteOption) (*sqlx.DB, error) {
	options := &SQLiteOptions{
		Path:            path,
		BusyTimeout:     5 * time.Second,
		MaxOpenConns:    8,
		ConnMaxIdleTime: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.Path == "" {
		return nil, fmt.Errorf("sqlite path cannot be empty")
	}

	memory := options.Path == MemoryDSN
	dsn := options.Path
	if !memory {
		if dir := filepath.Dir(options.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create data dir: %w", err)
			}
		}
		dsn = fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=%d&_txlock=immediate",
			options.Path, options.BusyTimeout.Milliseconds())
	}

	db, err := sqlx.Open(sqliteDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if memory {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
	} else {
		db.SetMaxOpenConns(options.MaxOpenConns)
		db.SetMaxIdleConns(options.MaxOpenConns)
		db.SetConnMaxIdleTime(options.ConnMaxIdleTime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if logger != nil {
		logger.Info("opened sqlite database", zap.String("path", options.Path))
	}
	return db, nil
}
