package gateway

import (
	"fmt"

	"github.com/mesh-intelligence/reels/internal/store"
	"github.com/mesh-intelligence/reels/pkg/types"
)

// Catalog bundles the entity gateways and the composite writer over one
// backend.
type Catalog struct {
	Programs  *Programs
	Actors    *Actors
	Directors *Directors
	Producers *Producers
	Platforms *Platforms
	Composer  *Composer

	byTable map[string]Gateway
}

// NewCatalog builds every gateway over b.
func NewCatalog(b *store.Backend, opts ...ComposerOption) *Catalog {
	c := &Catalog{
		Programs:  NewPrograms(b),
		Actors:    NewActors(b),
		Directors: NewDirectors(b),
		Producers: NewProducers(b),
		Platforms: NewPlatforms(b),
		Composer:  NewComposer(b, opts...),
	}
	c.byTable = map[string]Gateway{
		types.TablePrograms:  c.Programs,
		types.TableActors:    c.Actors,
		types.TableDirectors: c.Directors,
		types.TableProducers: c.Producers,
		types.TablePlatforms: c.Platforms,
	}
	return c
}

// Table returns the gateway for a catalog table name.
func (c *Catalog) Table(name string) (Gateway, error) {
	g, ok := c.byTable[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrTableNotFound, name)
	}
	return g, nil
}

// People returns the people gateway for actor, director, or producer.
func (c *Catalog) People(name string) (*People, error) {
	switch name {
	case types.TableActors:
		return c.Actors.People, nil
	case types.TableDirectors:
		return c.Directors.People, nil
	case types.TableProducers:
		return c.Producers.People, nil
	}
	return nil, fmt.Errorf("%w: %q is not a people table", types.ErrTableNotFound, name)
}
