package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mesh-intelligence/reels/internal/gateway"
	"github.com/mesh-intelligence/reels/pkg/types"
)

// programsAggregator is implemented by the gateways carrying a programs aggregate.
type programsAggregator interface {
	FindWithPrograms(ctx context.Context) ([]types.Record, error)
	FindWithProgramsByID(ctx context.Context, id int64) (types.Record, error)
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", types.ErrInvalidData, name)
	}
	return n, nil
}

func queryFloat(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", types.ErrInvalidData, name)
	}
	return f, nil
}

// filterPrograms serves GET /programs/filter. Exactly one filter applies, in
// the order rating, format, type, year range, platform.
func (s *Server) filterPrograms(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := s.catalog.Programs
	ctx := r.Context()

	var recs []types.Record
	var err error
	switch {
	case q.Get("rating") != "":
		recs, err = p.FindByRating(ctx, q.Get("rating"))
	case q.Get("format") != "":
		recs, err = p.FindByFormat(ctx, q.Get("format"))
	case q.Get("type") != "":
		recs, err = p.FindByType(ctx, q.Get("type"))
	case q.Has("from") || q.Has("to"):
		var from, to int
		if from, err = queryInt(r, "from"); err == nil {
			if to, err = queryInt(r, "to"); err == nil {
				recs, err = p.FindByYearRange(ctx, from, to)
			}
		}
	case q.Get("platform") != "":
		recs, err = p.FindByStreamingPlatform(ctx, q.Get("platform"))
	default:
		err = fmt.Errorf("%w: one of rating, format, type, from&to, platform is required", types.ErrInvalidData)
	}
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, http.StatusOK, recs)
}

// composeProgram serves POST /programs/compose.
func (s *Server) composeProgram(w http.ResponseWriter, r *http.Request) {
	var d gateway.ProgramDraft
	if err := decodeBody(w, r, &d); err != nil {
		respondErr(w, r, err)
		return
	}
	res, err := s.catalog.Composer.CreateProgram(r.Context(), d)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, res)
}

// searchActors serves GET /actors/search?name=&nationality=&birth_year=.
func (s *Server) searchActors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c := gateway.ActorCriteria{Name: q.Get("name"), Nationality: q.Get("nationality")}
	if q.Get("birth_year") != "" {
		year, err := queryInt(r, "birth_year")
		if err != nil {
			respondErr(w, r, err)
			return
		}
		c.BirthYear = year
	}
	recs, err := s.catalog.Actors.SearchAdvanced(r.Context(), c)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, http.StatusOK, recs)
}

func (s *Server) platformsByCost(w http.ResponseWriter, r *http.Request) {
	low, err := queryFloat(r, "min")
	if err != nil {
		respondErr(w, r, err)
		return
	}
	high, err := queryFloat(r, "max")
	if err != nil {
		respondErr(w, r, err)
		return
	}
	recs, err := s.catalog.Platforms.FindByCostRange(r.Context(), low, high)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, http.StatusOK, recs)
}

func (s *Server) freePlatforms(w http.ResponseWriter, r *http.Request) {
	recs, err := s.catalog.Platforms.FindFree(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, http.StatusOK, recs)
}

// byNationality serves GET /{actors|directors|producers}/nationality/{nationality}.
func (s *Server) byNationality(w http.ResponseWriter, r *http.Request) {
	p, err := s.peopleFor(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	recs, err := p.FindByNationality(r.Context(), chi.URLParam(r, "nationality"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, http.StatusOK, recs)
}

func (s *Server) peopleFor(r *http.Request) (*gateway.People, error) {
	name := chi.URLParam(r, "resource")
	table, ok := resources[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrTableNotFound, name)
	}
	return s.catalog.People(table)
}

// withProgramsGateway resolves the people or platform gateway behind
// /{resource}/with-programs.
func (s *Server) withProgramsGateway(r *http.Request) (programsAggregator, error) {
	if chi.URLParam(r, "resource") == "platforms" {
		return s.catalog.Platforms, nil
	}
	return s.peopleFor(r)
}

func (s *Server) withPrograms(w http.ResponseWriter, r *http.Request) {
	g, err := s.withProgramsGateway(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	recs, err := g.FindWithPrograms(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, http.StatusOK, recs)
}

func (s *Server) withProgramsByID(w http.ResponseWriter, r *http.Request) {
	g, err := s.withProgramsGateway(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	rec, err := g.FindWithProgramsByID(r.Context(), id)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, http.StatusOK, rec)
}
