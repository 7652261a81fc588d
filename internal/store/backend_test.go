package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/reels/pkg/types"
)

// openTestBackend opens a migrated SQLite backend in a temp directory.
func openTestBackend(t *testing.T) *Backend {
	t.Helper()
	cfg := types.DefaultConfig()
	cfg.DataDir = t.TempDir()

	b, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })
	require.NoError(t, b.Migrate(context.Background()))
	return b
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *types.Config)
		wantErr error
	}{
		{
			name:    "sqlite in temp dir opens",
			mutate:  func(c *types.Config) {},
			wantErr: nil,
		},
		{
			name:    "unknown driver is a config error",
			mutate:  func(c *types.Config) { c.Driver = "oracle" },
			wantErr: types.ErrInvalidConfig,
		},
		{
			name:    "empty database name is a config error",
			mutate:  func(c *types.Config) { c.Name = "" },
			wantErr: types.ErrNameEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := types.DefaultConfig()
			cfg.DataDir = t.TempDir()
			tt.mutate(&cfg)

			b, err := Open(context.Background(), cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, b)
				return
			}
			require.NoError(t, err)
			defer b.Close()
			assert.NoError(t, b.Ping(context.Background()))
			assert.Equal(t, types.DriverSQLite, b.Dialect().Name())
		})
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	b := openTestBackend(t)
	require.NoError(t, b.Migrate(context.Background()))

	var n int
	err := b.WithConn(context.Background(), func(q Querier) error {
		return q.QueryRowContext(context.Background(),
			"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name LIKE 'program%'").Scan(&n)
	})
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestWithConnReleasesConnection(t *testing.T) {
	b := openTestBackend(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := b.WithConn(ctx, func(q Querier) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, b.db.Stats().InUse)

	assert.Panics(t, func() {
		_ = b.WithConn(ctx, func(q Querier) error { panic("statement exploded") })
	})
	assert.Equal(t, 0, b.db.Stats().InUse)
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commits when fn succeeds", func(t *testing.T) {
		b := openTestBackend(t)
		err := b.WithTx(ctx, func(q Querier) error {
			_, err := q.ExecContext(ctx, "INSERT INTO actor (name) VALUES (?)", "Tim Allen")
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, 1, countRows(t, b, "actor"))
		assert.Equal(t, 0, b.db.Stats().InUse)
	})

	t.Run("rolls back when fn fails", func(t *testing.T) {
		b := openTestBackend(t)
		boom := errors.New("second insert failed")
		err := b.WithTx(ctx, func(q Querier) error {
			if _, err := q.ExecContext(ctx, "INSERT INTO actor (name) VALUES (?)", "Tim Allen"); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 0, countRows(t, b, "actor"))
		assert.Equal(t, 0, b.db.Stats().InUse)
	})

	t.Run("rolls back and repanics", func(t *testing.T) {
		b := openTestBackend(t)
		assert.Panics(t, func() {
			_ = b.WithTx(ctx, func(q Querier) error {
				_, _ = q.ExecContext(ctx, "INSERT INTO actor (name) VALUES (?)", "Tim Allen")
				panic("mid-transaction")
			})
		})
		assert.Equal(t, 0, countRows(t, b, "actor"))
	})
}

func TestClosedBackendReportsConnectionError(t *testing.T) {
	b := openTestBackend(t)
	require.NoError(t, b.Close())
	require.NoError(t, b.Close())

	err := b.WithConn(context.Background(), func(q Querier) error { return nil })
	assert.ErrorIs(t, err, types.ErrConnection)
}

func TestCloseWhileOperationsInFlight(t *testing.T) {
	b := openTestBackend(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := b.WithConn(ctx, func(q Querier) error {
				var n int64
				return q.QueryRowContext(ctx, "SELECT COUNT(*) FROM program").Scan(&n)
			})
			if err != nil && !errors.Is(err, types.ErrConnection) {
				// A connection borrowed before Close may still see the pool shut down.
				assert.ErrorContains(t, err, "closed")
			}
		}()
	}
	require.NoError(t, b.Close())
	wg.Wait()

	err := b.WithTx(ctx, func(q Querier) error { return nil })
	assert.ErrorIs(t, err, types.ErrConnection)
}

func TestWithTxDriverFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("begin failure is a query error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

		b := NewBackend(db, SQLite{})
		called := false
		err = b.WithTx(ctx, func(q Querier) error { called = true; return nil })
		assert.ErrorIs(t, err, types.ErrQuery)
		assert.False(t, called)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("commit failure is a query error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO actor").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit().WillReturnError(errors.New("disk I/O error"))

		b := NewBackend(db, SQLite{})
		err = b.WithTx(ctx, func(q Querier) error {
			_, err := q.ExecContext(ctx, "INSERT INTO actor (name) VALUES (?)", "Tim Allen")
			return err
		})
		assert.ErrorIs(t, err, types.ErrQuery)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("fn failure rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO actor").WillReturnError(errors.New("constraint failed"))
		mock.ExpectRollback()

		b := NewBackend(db, SQLite{})
		err = b.WithTx(ctx, func(q Querier) error {
			_, err := q.ExecContext(ctx, "INSERT INTO actor (name) VALUES (?)", "Tim Allen")
			return err
		})
		assert.EqualError(t, err, "constraint failed")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func countRows(t *testing.T, b *Backend, table string) int {
	t.Helper()
	var n int
	err := b.WithConn(context.Background(), func(q Querier) error {
		return q.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n)
	})
	require.NoError(t, err)
	return n
}
