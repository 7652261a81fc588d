package gateway

import (
	"context"

	"github.com/mesh-intelligence/reels/internal/store"
	"github.com/mesh-intelligence/reels/pkg/types"
)

// Platforms is the streaming platform gateway. Its aggregate counts and
// lists only programs currently available on the platform.
type Platforms struct {
	aggregated
}

// NewPlatforms returns the streaming platform gateway.
func NewPlatforms(b *store.Backend) *Platforms {
	return &Platforms{aggregated: newAggregated(b, platformView)}
}

// FindByCostRange returns plain rows whose subscription cost is within
// [low, high], cheapest first.
func (g *Platforms) FindByCostRange(ctx context.Context, low, high float64) ([]types.Record, error) {
	query := g.selectSQL("WHERE subscription_cost BETWEEN ? AND ?", "ORDER BY subscription_cost ASC, name")
	return g.listSQL(ctx, "find_by_cost_range", query, low, high)
}

// FindFree returns plain rows with a zero subscription cost, by name.
func (g *Platforms) FindFree(ctx context.Context) ([]types.Record, error) {
	return g.listSQL(ctx, "find_free", g.selectSQL("WHERE subscription_cost = 0", "ORDER BY name"))
}

// FindWithPrograms returns every platform with program_count and
// available_programs.
func (g *Platforms) FindWithPrograms(ctx context.Context) ([]types.Record, error) {
	return g.listView(ctx, "find_with_programs", selection{})
}

// FindWithProgramsByID returns one platform with its program aggregates, or
// ErrNotFound.
func (g *Platforms) FindWithProgramsByID(ctx context.Context, id int64) (types.Record, error) {
	return g.FindByID(ctx, id)
}
