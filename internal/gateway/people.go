package gateway

import (
	"context"
	"strings"

	"github.com/mesh-intelligence/reels/internal/store"
	"github.com/mesh-intelligence/reels/pkg/types"
)

// People is the gateway shape shared by actors, directors, and producers:
// name, birth date, and nationality, aggregated with the programs each
// person worked on.
type People struct {
	aggregated
}

func newPeople(b *store.Backend, v View) *People {
	return &People{aggregated: newAggregated(b, v)}
}

// FindByNationality returns plain rows whose nationality contains term, by name.
func (g *People) FindByNationality(ctx context.Context, term string) ([]types.Record, error) {
	query := g.selectSQL("WHERE "+store.LikeClause("nationality"), "ORDER BY name, "+g.desc.Key)
	return g.listSQL(ctx, "find_by_nationality", query, store.ContainsPattern(term))
}

// FindWithPrograms returns every row with its programs aggregate.
func (g *People) FindWithPrograms(ctx context.Context) ([]types.Record, error) {
	return g.listView(ctx, "find_with_programs", selection{})
}

// FindWithProgramsByID returns one row with its programs aggregate, or
// ErrNotFound.
func (g *People) FindWithProgramsByID(ctx context.Context, id int64) (types.Record, error) {
	return g.FindByID(ctx, id)
}

// Actors is the actor gateway.
type Actors struct {
	*People
}

// NewActors returns the actor gateway.
func NewActors(b *store.Backend) *Actors {
	return &Actors{People: newPeople(b, actorView)}
}

// ActorCriteria filters SearchAdvanced. Zero fields are ignored.
type ActorCriteria struct {
	Name        string `json:"name,omitempty"`
	Nationality string `json:"nationality,omitempty"`
	BirthYear   int    `json:"birth_year,omitempty"`
}

// FindByBirthYear returns plain actor rows born in year, by name.
func (g *Actors) FindByBirthYear(ctx context.Context, year int) ([]types.Record, error) {
	where := "WHERE " + g.backend.Dialect().Year("birth_date") + " = ?"
	return g.listSQL(ctx, "find_by_birth_year", g.selectSQL(where, "ORDER BY name, actor_id"), year)
}

// SearchAdvanced returns plain actor rows matching every supplied criterion.
// Empty criteria match all actors.
func (g *Actors) SearchAdvanced(ctx context.Context, c ActorCriteria) ([]types.Record, error) {
	var conds []string
	var args []any
	if c.Name != "" {
		conds = append(conds, store.LikeClause("name"))
		args = append(args, store.ContainsPattern(c.Name))
	}
	if c.Nationality != "" {
		conds = append(conds, store.LikeClause("nationality"))
		args = append(args, store.ContainsPattern(c.Nationality))
	}
	if c.BirthYear != 0 {
		conds = append(conds, g.backend.Dialect().Year("birth_date")+" = ?")
		args = append(args, c.BirthYear)
	}
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}
	return g.listSQL(ctx, "search_advanced", g.selectSQL(where, "ORDER BY name, actor_id"), args...)
}

// Directors is the director gateway.
type Directors struct {
	*People
}

// NewDirectors returns the director gateway.
func NewDirectors(b *store.Backend) *Directors {
	return &Directors{People: newPeople(b, directorView)}
}

// Producers is the producer gateway.
type Producers struct {
	*People
}

// NewProducers returns the producer gateway.
func NewProducers(b *store.Backend) *Producers {
	return &Producers{People: newPeople(b, producerView)}
}
