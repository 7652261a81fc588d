package gateway

import (
	"context"

	"github.com/mesh-intelligence/reels/internal/store"
	"github.com/mesh-intelligence/reels/pkg/types"
)

// Programs is the program gateway. FindAll, FindByID, and FindByRating return
// rows carrying producer_name, directors, actors, and streaming_platforms.
type Programs struct {
	aggregated
}

// NewPrograms returns the program gateway.
func NewPrograms(b *store.Backend) *Programs {
	return &Programs{aggregated: newAggregated(b, programView)}
}

// FindByRating returns the aggregated programs with the exact content rating.
func (g *Programs) FindByRating(ctx context.Context, rating string) ([]types.Record, error) {
	return g.listView(ctx, "find_by_rating", selection{where: "p.program_rating = ?"}, rating)
}

// FindByStreamingPlatform returns one row per currently available listing on
// a platform whose name contains name. Each row adds streaming_platform,
// available_from, and is_currently_available.
func (g *Programs) FindByStreamingPlatform(ctx context.Context, name string) ([]types.Record, error) {
	d := g.backend.Dialect()
	s := selection{
		extra: []string{"l_sp.name AS streaming_platform", "l_psp.available_from", "l_psp.is_currently_available"},
		joins: "JOIN program_streaming_platform l_psp ON l_psp.program_id = p.program_id" +
			" JOIN streaming_platform l_sp ON l_sp.platform_id = l_psp.platform_id",
		where:   store.LikeClause("l_sp.name") + " AND l_psp.is_currently_available = " + d.True(),
		orderBy: "p.title, l_sp.name",
	}
	return g.listView(ctx, "find_by_platform", s, store.ContainsPattern(name))
}

// FindByFormat returns plain program rows with the exact format, by title.
func (g *Programs) FindByFormat(ctx context.Context, format string) ([]types.Record, error) {
	return g.listSQL(ctx, "find_by_format", g.selectSQL("WHERE format = ?", "ORDER BY title, program_id"), format)
}

// FindByType returns plain program rows with the exact type, by title.
func (g *Programs) FindByType(ctx context.Context, kind string) ([]types.Record, error) {
	return g.listSQL(ctx, "find_by_type", g.selectSQL("WHERE type = ?", "ORDER BY title, program_id"), kind)
}

// FindByYearRange returns plain program rows released in [from, to],
// newest first.
func (g *Programs) FindByYearRange(ctx context.Context, from, to int) ([]types.Record, error) {
	return g.listSQL(ctx, "find_by_year_range",
		g.selectSQL("WHERE yr_released BETWEEN ? AND ?", "ORDER BY yr_released DESC, program_id"), from, to)
}
