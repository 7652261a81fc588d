package types

// Catalog table names.
const (
	TablePrograms         = "program"
	TableActors           = "actor"
	TableDirectors        = "director"
	TableProducers        = "producer"
	TablePlatforms        = "streaming_platform"
	TableProgramDirectors = "program_director"
	TableProgramActors    = "program_actor"
	TableProgramPlatforms = "program_streaming_platform"
)

// EntityTableNames lists the tables reachable through the generic gateway.
var EntityTableNames = []string{
	TablePrograms,
	TableActors,
	TableDirectors,
	TableProducers,
	TablePlatforms,
}

// Program type values.
const (
	ProgramTypeMovie   = "movie"
	ProgramTypeTVShow  = "tv_show"
	ProgramTypeSpecial = "special"
)

// Sort directions.
const (
	SortAsc  = "ASC"
	SortDesc = "DESC"
)
