// Package store provisions connections to the relational store backing the
// catalog. One Backend owns a pooled *sql.DB; every gateway operation borrows
// exactly one connection from it for one statement or one transaction and
// returns it on every exit path.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/reels/internal/logging"
	"github.com/mesh-intelligence/reels/internal/metrics"
	"github.com/mesh-intelligence/reels/pkg/types"
)

// Querier is the statement surface shared by *sql.Conn and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Backend is a pooled handle to one catalog database.
type Backend struct {
	mu      sync.RWMutex
	db      *sql.DB
	dialect Dialect
}

// Open validates cfg, opens the pool for its driver, and pings the store.
// Any failure to reach the store is reported as ErrConnection.
func Open(ctx context.Context, cfg types.Config) (*Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	if cfg.Driver == types.DriverSQLite && cfg.DataDir != "" {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: create data dir: %w", types.ErrConnection, err)
		}
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", types.ErrConnection, cfg.Driver, err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		metrics.ConnectionFailures.Inc()
		logging.Error().Err(err).Str("driver", cfg.Driver).Str("host", cfg.Host).Str("database", cfg.Name).
			Msg("store unreachable")
		return nil, fmt.Errorf("%w: ping %s: %w", types.ErrConnection, cfg.Driver, err)
	}

	logging.Debug().Str("driver", cfg.Driver).Str("database", cfg.Name).Msg("store opened")
	return NewBackend(db, dialect), nil
}

// NewBackend wraps an already opened pool.
func NewBackend(db *sql.DB, dialect Dialect) *Backend {
	return &Backend{db: db, dialect: dialect}
}

// Dialect returns the SQL dialect of the underlying store.
func (b *Backend) Dialect() Dialect {
	return b.dialect
}

// Close releases the pool. Idempotent. Operations started after Close
// fail with ErrConnection.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	return err
}

// Ping checks that the store is reachable.
func (b *Backend) Ping(ctx context.Context) error {
	return b.WithConn(ctx, func(q Querier) error {
		var one int
		if err := q.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
			return fmt.Errorf("%w: ping: %w", types.ErrQuery, err)
		}
		return nil
	})
}

// conn borrows one connection from the pool.
func (b *Backend) conn(ctx context.Context) (*sql.Conn, error) {
	b.mu.RLock()
	db := b.db
	b.mu.RUnlock()
	if db == nil {
		return nil, fmt.Errorf("%w: backend is closed", types.ErrConnection)
	}
	c, err := db.Conn(ctx)
	if err != nil {
		metrics.ConnectionFailures.Inc()
		logging.Error().Err(err).Msg("acquire connection failed")
		return nil, fmt.Errorf("%w: %w", types.ErrConnection, err)
	}
	return c, nil
}

// WithConn runs fn on one borrowed connection and releases it afterwards,
// whether fn succeeds, fails, or panics.
func (b *Backend) WithConn(ctx context.Context, fn func(Querier) error) error {
	c, err := b.conn(ctx)
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(c)
}

// WithTx runs fn inside one transaction on one borrowed connection. The
// transaction commits when fn returns nil and rolls back otherwise; the
// connection is released in both cases. fn's error is returned unchanged.
func (b *Backend) WithTx(ctx context.Context, fn func(Querier) error) error {
	c, err := b.conn(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	tx, err := c.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %w", types.ErrQuery, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logging.Error().Err(rbErr).Msg("rollback failed")
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", types.ErrQuery, err)
	}
	return nil
}

// Migrate applies the catalog schema. Statements are idempotent.
func (b *Backend) Migrate(ctx context.Context) error {
	return b.WithConn(ctx, func(q Querier) error {
		for _, stmt := range b.dialect.Schema() {
			if _, err := q.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("%w: migrate: %w", types.ErrQuery, err)
			}
		}
		return nil
	})
}
