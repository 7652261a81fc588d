// Package gateway provides record-level access to the catalog tables: a
// generic gateway driven by a static table descriptor, aggregate views that
// flatten the many-to-many relations into display strings, one specialized
// gateway per entity, and the transactional program composite write.
package gateway

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/mesh-intelligence/reels/pkg/types"
)

// DefaultKey is the primary key column used when a descriptor names none.
const DefaultKey = "id"

var identifier = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Descriptor names a table, its key column, and the columns callers may
// reference. Table and column names only ever reach statement text through a
// validated descriptor.
type Descriptor struct {
	Table   string
	Key     string
	Columns []string
}

// Validate checks identifier syntax and that the key is a listed column.
func (d *Descriptor) Validate() error {
	if d.Key == "" {
		d.Key = DefaultKey
	}
	if !identifier.MatchString(d.Table) {
		return fmt.Errorf("%w: table name %q", types.ErrInvalidData, d.Table)
	}
	for _, c := range d.Columns {
		if !identifier.MatchString(c) {
			return fmt.Errorf("%w: column name %q", types.ErrInvalidData, c)
		}
	}
	if !slices.Contains(d.Columns, d.Key) {
		return fmt.Errorf("%w: key %q is not a column of %s", types.ErrInvalidData, d.Key, d.Table)
	}
	return nil
}

// HasColumn reports whether c is a whitelisted column.
func (d Descriptor) HasColumn(c string) bool {
	return slices.Contains(d.Columns, c)
}

// CheckColumns returns ErrUnknownColumn for the first column not in the
// descriptor.
func (d Descriptor) CheckColumns(cols ...string) error {
	for _, c := range cols {
		if !d.HasColumn(c) {
			return fmt.Errorf("%w: %s.%s", types.ErrUnknownColumn, d.Table, c)
		}
	}
	return nil
}

// Catalog descriptors.
var (
	ProgramTable = Descriptor{
		Table: types.TablePrograms,
		Key:   "program_id",
		Columns: []string{
			"program_id", "title", "yr_released", "runtime", "format", "type",
			"program_rating", "rating", "description", "image_url",
			"seasons", "episodes", "producer_id",
		},
	}
	ActorTable = Descriptor{
		Table:   types.TableActors,
		Key:     "actor_id",
		Columns: []string{"actor_id", "name", "birth_date", "nationality"},
	}
	DirectorTable = Descriptor{
		Table:   types.TableDirectors,
		Key:     "director_id",
		Columns: []string{"director_id", "name", "birth_date", "nationality"},
	}
	ProducerTable = Descriptor{
		Table:   types.TableProducers,
		Key:     "producer_id",
		Columns: []string{"producer_id", "name", "birth_date", "nationality"},
	}
	PlatformTable = Descriptor{
		Table:   types.TablePlatforms,
		Key:     "platform_id",
		Columns: []string{"platform_id", "name", "subscription_cost", "launch_year"},
	}

	// Association tables have composite keys; Key names the program side.
	ProgramDirectorTable = Descriptor{
		Table:   types.TableProgramDirectors,
		Key:     "program_id",
		Columns: []string{"program_id", "director_id", "role"},
	}
	ProgramActorTable = Descriptor{
		Table:   types.TableProgramActors,
		Key:     "program_id",
		Columns: []string{"program_id", "actor_id", "character_name", "role_type"},
	}
	ProgramPlatformTable = Descriptor{
		Table:   types.TableProgramPlatforms,
		Key:     "program_id",
		Columns: []string{"program_id", "platform_id", "available_from", "is_currently_available"},
	}
)
