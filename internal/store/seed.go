package store

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/reels/internal/logging"
	"github.com/mesh-intelligence/reels/pkg/types"
)

type seedPerson struct {
	name        string
	birthDate   string
	nationality string
}

type seedPlatform struct {
	name       string
	cost       float64
	launchYear int
}

type seedCast struct {
	actor     string
	character string
	roleType  string
}

type seedListing struct {
	platform  string
	from      string
	available bool
}

type seedProgram struct {
	title       string
	year        int
	runtime     int
	format      string
	kind        string
	rating      string
	score       float64
	description string
	seasons     int
	episodes    int
	producer    string
	directors   []string
	cast        []seedCast
	listings    []seedListing
}

var seedProducers = []seedPerson{
	{"René Dupont", "1929-03-02", "Canadian"},
	{"John Hughes", "1950-02-18", "American"},
	{"Todd Komarnicki", "1964-05-05", "American"},
	{"Frank Capra", "1897-05-18", "Italian-American"},
	{"Steve Starkey", "1951-02-03", "American"},
	{"Greg Daniels", "1963-06-13", "American"},
}

var seedDirectors = []seedPerson{
	{"Bob Clark", "1939-08-05", "American"},
	{"Chris Columbus", "1958-09-10", "American"},
	{"Jon Favreau", "1966-10-19", "American"},
	{"Frank Capra", "1897-05-18", "Italian-American"},
	{"Robert Zemeckis", "1951-05-14", "American"},
	{"Ken Kwapis", "1957-08-17", "American"},
}

var seedActors = []seedPerson{
	{"Peter Billingsley", "1971-04-16", "American"},
	{"Melinda Dillon", "1939-10-13", "American"},
	{"Macaulay Culkin", "1980-08-26", "American"},
	{"Joe Pesci", "1943-02-09", "American"},
	{"Will Ferrell", "1967-07-16", "American"},
	{"James Caan", "1940-03-26", "American"},
	{"James Stewart", "1908-05-20", "American"},
	{"Donna Reed", "1921-01-27", "American"},
	{"Tom Hanks", "1956-07-09", "American"},
	{"Daryl Sabara", "1992-06-14", "American"},
	{"Steve Carell", "1962-08-16", "American"},
	{"John Krasinski", "1979-10-20", "American"},
	{"Jenna Fischer", "1974-03-07", "American"},
}

var seedPlatforms = []seedPlatform{
	{"Netflix", 15.49, 2007},
	{"HBO Max", 15.99, 2020},
	{"Disney+", 7.99, 2019},
	{"Amazon Prime", 8.99, 2006},
	{"Hulu", 7.99, 2007},
	{"Paramount+", 5.99, 2021},
	{"Peacock", 0, 2020},
}

var seedPrograms = []seedProgram{
	{
		title: "A Christmas Story", year: 1983, runtime: 94, format: "Movie", kind: types.ProgramTypeMovie,
		rating: "PG", score: 8.0, producer: "René Dupont",
		description: "A young boy's Christmas wish list includes a Red Ryder BB gun.",
		directors:   []string{"Bob Clark"},
		cast: []seedCast{
			{"Peter Billingsley", "Ralphie Parker", "lead"},
			{"Melinda Dillon", "Mother Parker", "supporting"},
		},
		listings: []seedListing{{"HBO Max", "2021-11-01", true}, {"Netflix", "2019-12-01", true}},
	},
	{
		title: "Home Alone", year: 1990, runtime: 103, format: "Movie", kind: types.ProgramTypeMovie,
		rating: "PG", score: 7.7, producer: "John Hughes",
		description: "An eight-year-old boy defends his home from burglars after being accidentally left behind.",
		directors:   []string{"Chris Columbus"},
		cast: []seedCast{
			{"Macaulay Culkin", "Kevin McCallister", "lead"},
			{"Joe Pesci", "Harry Lime", "supporting"},
		},
		listings: []seedListing{{"Disney+", "2019-11-12", true}, {"Amazon Prime", "2018-12-01", true}},
	},
	{
		title: "Elf", year: 2003, runtime: 97, format: "Movie", kind: types.ProgramTypeMovie,
		rating: "PG", score: 7.1, producer: "Todd Komarnicki",
		description: "A man raised as an elf at the North Pole travels to New York to find his father.",
		directors:   []string{"Jon Favreau"},
		cast: []seedCast{
			{"Will Ferrell", "Buddy", "lead"},
			{"James Caan", "Walter Hobbs", "supporting"},
		},
		listings: []seedListing{{"HBO Max", "2020-11-01", true}, {"Hulu", "2021-12-01", true}},
	},
	{
		title: "It's a Wonderful Life", year: 1946, runtime: 130, format: "Movie", kind: types.ProgramTypeMovie,
		rating: "PG", score: 8.6, producer: "Frank Capra",
		description: "An angel shows a suicidal man what life would be like if he had never existed.",
		directors:   []string{"Frank Capra"},
		cast: []seedCast{
			{"James Stewart", "George Bailey", "lead"},
			{"Donna Reed", "Mary Hatch", "supporting"},
		},
		listings: []seedListing{{"Amazon Prime", "2017-12-01", true}, {"Paramount+", "2021-03-04", true}},
	},
	{
		title: "The Polar Express", year: 2004, runtime: 100, format: "Movie", kind: types.ProgramTypeMovie,
		rating: "G", score: 6.6, producer: "Steve Starkey",
		description: "A young boy takes a magical train ride to the North Pole on Christmas Eve.",
		directors:   []string{"Robert Zemeckis"},
		cast: []seedCast{
			{"Tom Hanks", "Conductor", "lead"},
			{"Daryl Sabara", "Hero Boy", "supporting"},
		},
		listings: []seedListing{{"HBO Max", "2020-11-15", true}, {"Amazon Prime", "2019-11-20", true}},
	},
	{
		title: "The Office Christmas Episodes", year: 2005, format: "TV Show", kind: types.ProgramTypeTVShow,
		rating: "TV-14", score: 9.0, producer: "Greg Daniels", seasons: 9, episodes: 201,
		description: "Classic Christmas episodes from the beloved workplace comedy.",
		directors:   []string{"Ken Kwapis"},
		cast: []seedCast{
			{"Steve Carell", "Michael Scott", "lead"},
			{"John Krasinski", "Jim Halpert", "supporting"},
			{"Jenna Fischer", "Pam Beesly", "supporting"},
		},
		listings: []seedListing{{"Peacock", "2021-01-01", true}, {"Netflix", "2015-01-01", false}},
	},
}

// Seed loads the sample Christmas catalog when the program table is empty.
// It reports whether rows were inserted. The whole load is one transaction.
func Seed(ctx context.Context, b *Backend) (bool, error) {
	var count int64
	err := b.WithConn(ctx, func(q Querier) error {
		return q.QueryRowContext(ctx, "SELECT COUNT(*) FROM program").Scan(&count)
	})
	if err != nil {
		return false, fmt.Errorf("%w: count programs: %w", types.ErrQuery, err)
	}
	if count > 0 {
		logging.Debug().Int64("programs", count).Msg("catalog already seeded")
		return false, nil
	}

	err = b.WithTx(ctx, func(q Querier) error {
		producers, err := insertPeople(ctx, q, "producer", seedProducers)
		if err != nil {
			return err
		}
		directors, err := insertPeople(ctx, q, "director", seedDirectors)
		if err != nil {
			return err
		}
		actors, err := insertPeople(ctx, q, "actor", seedActors)
		if err != nil {
			return err
		}
		platforms := make(map[string]int64, len(seedPlatforms))
		for _, p := range seedPlatforms {
			id, err := insertRow(ctx, q,
				"INSERT INTO streaming_platform (name, subscription_cost, launch_year) VALUES (?, ?, ?)",
				p.name, p.cost, p.launchYear)
			if err != nil {
				return err
			}
			platforms[p.name] = id
		}
		for _, p := range seedPrograms {
			if err := insertSeedProgram(ctx, q, p, producers, directors, actors, platforms); err != nil {
				return fmt.Errorf("seed %q: %w", p.title, err)
			}
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("%w: seed: %w", types.ErrQuery, err)
	}

	logging.Info().Int("programs", len(seedPrograms)).Msg("catalog seeded")
	return true, nil
}

func insertPeople(ctx context.Context, q Querier, table string, people []seedPerson) (map[string]int64, error) {
	ids := make(map[string]int64, len(people))
	stmt := "INSERT INTO " + table + " (name, birth_date, nationality) VALUES (?, ?, ?)"
	for _, p := range people {
		id, err := insertRow(ctx, q, stmt, p.name, p.birthDate, p.nationality)
		if err != nil {
			return nil, fmt.Errorf("insert %s %q: %w", table, p.name, err)
		}
		ids[p.name] = id
	}
	return ids, nil
}

func insertSeedProgram(ctx context.Context, q Querier, p seedProgram, producers, directors, actors, platforms map[string]int64) error {
	var seasons, episodes, runtime any
	if p.kind == types.ProgramTypeTVShow {
		seasons, episodes = p.seasons, p.episodes
	}
	if p.runtime > 0 {
		runtime = p.runtime
	}

	programID, err := insertRow(ctx, q,
		`INSERT INTO program (title, yr_released, runtime, format, type, program_rating, rating, description, seasons, episodes, producer_id)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.title, p.year, runtime, p.format, p.kind, p.rating, p.score, p.description, seasons, episodes, producers[p.producer])
	if err != nil {
		return err
	}

	for _, d := range p.directors {
		if _, err := q.ExecContext(ctx,
			"INSERT INTO program_director (program_id, director_id, role) VALUES (?, ?, ?)",
			programID, directors[d], "Director"); err != nil {
			return err
		}
	}
	for _, c := range p.cast {
		if _, err := q.ExecContext(ctx,
			"INSERT INTO program_actor (program_id, actor_id, character_name, role_type) VALUES (?, ?, ?, ?)",
			programID, actors[c.actor], c.character, c.roleType); err != nil {
			return err
		}
	}
	for _, l := range p.listings {
		if _, err := q.ExecContext(ctx,
			"INSERT INTO program_streaming_platform (program_id, platform_id, available_from, is_currently_available) VALUES (?, ?, ?, ?)",
			programID, platforms[l.platform], l.from, l.available); err != nil {
			return err
		}
	}
	return nil
}

func insertRow(ctx context.Context, q Querier, stmt string, args ...any) (int64, error) {
	res, err := q.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
