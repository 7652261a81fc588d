package gateway

import (
	"strings"

	"github.com/mesh-intelligence/reels/internal/store"
)

// Link is one aliased table inside an aggregate subquery. For the table
// holding the foreign key to the base row, Column is that foreign key. For a
// target reached through it, Column is the target's key, which the linking
// table carries under the same name.
type Link struct {
	Table  string
	Alias  string
	Column string
}

// Aggregate collapses one one-to-many relation into a single column. Each
// aggregate is rendered as a correlated subquery, so relations never
// multiply each other's rows and a base row without related rows yields
// NULL rather than disappearing.
type Aggregate struct {
	As      string
	Through Link
	// Target is nil when Through itself holds the displayed rows.
	Target *Link
	// Element renders one related row.
	Element   func(d store.Dialect) string
	Separator string
	OrderBy   string
	// Where is an extra condition on the related rows.
	Where string
	// Count replaces the concatenation with COUNT(*).
	Count bool
}

func (a Aggregate) sql(d store.Dialect, baseAlias, baseKey string) string {
	var sb strings.Builder
	sb.WriteString("(SELECT ")
	if a.Count {
		sb.WriteString("COUNT(*)")
	} else {
		sb.WriteString(d.GroupConcat(a.Element(d), a.Separator, a.OrderBy))
	}
	sb.WriteString(" FROM " + a.Through.Table + " " + a.Through.Alias)
	if a.Target != nil {
		sb.WriteString(" JOIN " + a.Target.Table + " " + a.Target.Alias +
			" ON " + a.Target.Alias + "." + a.Target.Column + " = " + a.Through.Alias + "." + a.Target.Column)
	}
	sb.WriteString(" WHERE " + a.Through.Alias + "." + a.Through.Column + " = " + baseAlias + "." + baseKey)
	if a.Where != "" {
		sb.WriteString(" AND " + a.Where)
	}
	sb.WriteString(") AS " + a.As)
	return sb.String()
}

// Lookup pulls one display column from a row referenced by a base column.
type Lookup struct {
	As      string
	Table   string
	Alias   string
	Key     string
	Display string
	// Via is the base column holding the referenced key.
	Via string
}

func (l Lookup) sql(baseAlias string) string {
	return "(SELECT " + l.Alias + "." + l.Display + " FROM " + l.Table + " " + l.Alias +
		" WHERE " + l.Alias + "." + l.Key + " = " + baseAlias + "." + l.Via + ") AS " + l.As
}

// View is a read-only denormalized projection of a base table.
type View struct {
	Base       Descriptor
	Alias      string
	Lookups    []Lookup
	Aggregates []Aggregate
	// OrderBy is the default ordering, e.g. "p.title, p.program_id".
	OrderBy string
}

// selection narrows or extends a view query.
type selection struct {
	extra   []string
	joins   string
	where   string
	orderBy string
}

// sql renders the view query for d. An empty selection lists every base row
// in the default order.
func (v View) sql(d store.Dialect, s selection) string {
	cols := []string{selectList(v.Alias, v.Base.Columns)}
	for _, l := range v.Lookups {
		cols = append(cols, l.sql(v.Alias))
	}
	for _, a := range v.Aggregates {
		cols = append(cols, a.sql(d, v.Alias, v.Base.Key))
	}
	cols = append(cols, s.extra...)

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(cols, ", "))
	sb.WriteString(" FROM " + v.Base.Table + " " + v.Alias)
	if s.joins != "" {
		sb.WriteString(" " + s.joins)
	}
	if s.where != "" {
		sb.WriteString(" WHERE " + s.where)
	}
	orderBy := s.orderBy
	if orderBy == "" {
		orderBy = v.OrderBy
	}
	if orderBy != "" {
		sb.WriteString(" ORDER BY " + orderBy)
	}
	return sb.String()
}

// byKey selects the single row keyed by one bound parameter.
func (v View) byKey() selection {
	return selection{where: v.Alias + "." + v.Base.Key + " = ?"}
}

// Views of the catalog entities.
var (
	programView = View{
		Base:  ProgramTable,
		Alias: "p",
		Lookups: []Lookup{{
			As: "producer_name", Table: "producer", Alias: "prod",
			Key: "producer_id", Display: "name", Via: "producer_id",
		}},
		Aggregates: []Aggregate{
			{
				As:      "directors",
				Through: Link{Table: "program_director", Alias: "pd", Column: "program_id"},
				Target:  &Link{Table: "director", Alias: "d", Column: "director_id"},
				Element: func(d store.Dialect) string {
					return d.Concat("d.name", store.Literal(" ("), "pd.role", store.Literal(")"))
				},
				Separator: ", ",
				OrderBy:   "d.name",
			},
			{
				As:      "actors",
				Through: Link{Table: "program_actor", Alias: "pa", Column: "program_id"},
				Target:  &Link{Table: "actor", Alias: "a", Column: "actor_id"},
				Element: func(d store.Dialect) string {
					return d.Concat("a.name", store.Literal(" as "), "COALESCE(pa.character_name, 'Unknown')")
				},
				Separator: ", ",
				OrderBy:   "a.name",
			},
			{
				As:        "streaming_platforms",
				Through:   Link{Table: "program_streaming_platform", Alias: "psp", Column: "program_id"},
				Target:    &Link{Table: "streaming_platform", Alias: "sp", Column: "platform_id"},
				Element:   func(store.Dialect) string { return "sp.name" },
				Separator: ", ",
				OrderBy:   "sp.name",
			},
		},
		OrderBy: "p.title, p.program_id",
	}

	actorView = View{
		Base:  ActorTable,
		Alias: "a",
		Aggregates: []Aggregate{{
			As:      "programs",
			Through: Link{Table: "program_actor", Alias: "pa", Column: "actor_id"},
			Target:  &Link{Table: "program", Alias: "p", Column: "program_id"},
			Element: func(d store.Dialect) string {
				return d.Concat("p.title", store.Literal(" ("), "COALESCE(pa.character_name, 'Unknown')",
					store.Literal(" - "), "pa.role_type", store.Literal(")"))
			},
			Separator: "; ",
			OrderBy:   "p.title",
		}},
		OrderBy: "a.name, a.actor_id",
	}

	directorView = View{
		Base:  DirectorTable,
		Alias: "d",
		Aggregates: []Aggregate{{
			As:      "programs",
			Through: Link{Table: "program_director", Alias: "pd", Column: "director_id"},
			Target:  &Link{Table: "program", Alias: "p", Column: "program_id"},
			Element: func(d store.Dialect) string {
				return d.Concat("p.title", store.Literal(" ("), "p.yr_released", store.Literal(") - "), "pd.role")
			},
			Separator: "; ",
			OrderBy:   "p.title",
		}},
		OrderBy: "d.name, d.director_id",
	}

	producerView = View{
		Base:  ProducerTable,
		Alias: "pr",
		Aggregates: []Aggregate{{
			As:      "programs",
			Through: Link{Table: "program", Alias: "p", Column: "producer_id"},
			Element: func(d store.Dialect) string {
				return d.Concat("p.title", store.Literal(" ("), "p.yr_released", store.Literal(")"))
			},
			Separator: "; ",
			OrderBy:   "p.title",
		}},
		OrderBy: "pr.name, pr.producer_id",
	}

	platformView = View{
		Base:  PlatformTable,
		Alias: "sp",
		Aggregates: []Aggregate{
			{
				As:      "program_count",
				Through: Link{Table: "program_streaming_platform", Alias: "psp", Column: "platform_id"},
				Where:   "psp.is_currently_available = 1",
				Count:   true,
			},
			{
				As:      "available_programs",
				Through: Link{Table: "program_streaming_platform", Alias: "psp", Column: "platform_id"},
				Target:  &Link{Table: "program", Alias: "p", Column: "program_id"},
				Element: func(d store.Dialect) string {
					return d.Concat("p.title", store.Literal(" ("), "p.yr_released", store.Literal(")"))
				},
				Separator: "; ",
				OrderBy:   "p.title",
				Where:     "psp.is_currently_available = 1",
			},
		},
		OrderBy: "sp.name, sp.platform_id",
	}
)
