package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/reels/internal/store"
	"github.com/mesh-intelligence/reels/pkg/types"
)

var fixedNow = time.Date(2026, time.October, 17, 15, 4, 5, 0, time.UTC)

// openBackend returns a migrated, seeded SQLite backend in a temp dir.
func openBackend(t *testing.T) *store.Backend {
	t.Helper()
	ctx := context.Background()
	cfg := types.DefaultConfig()
	cfg.DataDir = t.TempDir()

	b, err := store.Open(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })
	require.NoError(t, b.Migrate(ctx))
	_, err = store.Seed(ctx, b)
	require.NoError(t, err)
	return b
}

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	return NewCatalog(openBackend(t), WithClock(func() time.Time { return fixedNow }))
}

// column collects one column across records.
func column(recs []types.Record, col string) []any {
	out := make([]any, len(recs))
	for i, r := range recs {
		out[i] = r[col]
	}
	return out
}

// countWhere counts rows of table matching where through the generic Query.
func countWhere(t *testing.T, g *Table, table, where string, args ...any) int64 {
	t.Helper()
	query := "SELECT COUNT(*) AS n FROM " + table
	if where != "" {
		query += " WHERE " + where
	}
	recs, err := g.Query(context.Background(), query, args...)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	n, ok := recs[0].Int64("n")
	require.True(t, ok)
	return n
}
