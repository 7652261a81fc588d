package gateway

import (
	"context"
	"time"

	"github.com/mesh-intelligence/reels/internal/store"
	"github.com/mesh-intelligence/reels/pkg/types"
)

// aggregated is the generic gateway with FindAll and FindByID answered from
// an aggregate view. Entity gateways embed it.
type aggregated struct {
	*Table
	view View
}

func newAggregated(b *store.Backend, v View) aggregated {
	return aggregated{Table: mustTable(b, v.Base), view: v}
}

// FindAll returns the aggregated view of every row.
func (g aggregated) FindAll(ctx context.Context) ([]types.Record, error) {
	return g.listView(ctx, opFindAll, selection{})
}

// FindByID returns the aggregated view of one row, or ErrNotFound.
func (g aggregated) FindByID(ctx context.Context, id int64) (types.Record, error) {
	start := time.Now()
	rec, err := g.one(ctx, opFindByID, id, g.view.sql(g.backend.Dialect(), g.view.byKey()), id)
	g.observe(opFindByID, start, err)
	return rec, err
}

func (g aggregated) listView(ctx context.Context, op string, s selection, args ...any) ([]types.Record, error) {
	return g.listSQL(ctx, op, g.view.sql(g.backend.Dialect(), s), args...)
}

// listSQL runs a fixed-shape finder query and observes it under op.
func (g aggregated) listSQL(ctx context.Context, op, query string, args ...any) ([]types.Record, error) {
	start := time.Now()
	recs, err := g.list(ctx, op, query, args...)
	g.observe(op, start, err)
	return recs, err
}
