package httpapi

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/mesh-intelligence/reels/internal/gateway"
	"github.com/mesh-intelligence/reels/pkg/types"
)

const maxBodyBytes = 1 << 20

// resources maps URL resource names to catalog tables.
var resources = map[string]string{
	"programs":  types.TablePrograms,
	"actors":    types.TableActors,
	"directors": types.TableDirectors,
	"producers": types.TableProducers,
	"platforms": types.TablePlatforms,
}

func (s *Server) gatewayFor(r *http.Request) (gateway.Gateway, error) {
	name := chi.URLParam(r, "resource")
	table, ok := resources[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrTableNotFound, name)
	}
	return s.catalog.Table(table)
}

// pathID parses the {id} segment. Ids must be positive integers.
func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", types.ErrInvalidID, raw)
	}
	return id, nil
}

// decodeRecord reads a JSON object body. Integral numbers decode to int64.
func decodeRecord(w http.ResponseWriter, r *http.Request) (types.Record, error) {
	var raw map[string]any
	if err := decodeBody(w, r, &raw); err != nil {
		return nil, err
	}
	return types.RecordFromJSON(raw), nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(http.MaxBytesReader(w, r.Body, maxBodyBytes)); err != nil {
		return fmt.Errorf("%w: read body: %w", types.ErrInvalidData, err)
	}
	dec := json.NewDecoder(&buf)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed JSON body", types.ErrInvalidData)
	}
	return nil
}

// list serves GET /{resource} with optional search=col&q=term or
// sort=col&dir=asc|desc.
func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	g, err := s.gatewayFor(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	q := r.URL.Query()
	var recs []types.Record
	switch {
	case q.Get("search") != "":
		recs, err = g.Search(r.Context(), q.Get("search"), q.Get("q"))
	case q.Get("sort") != "":
		recs, err = g.Sort(r.Context(), q.Get("sort"), q.Get("dir"))
	default:
		recs, err = g.FindAll(r.Context())
	}
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, http.StatusOK, recs)
}

func (s *Server) count(w http.ResponseWriter, r *http.Request) {
	g, err := s.gatewayFor(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	n, err := g.CountAll(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, http.StatusOK, map[string]int64{"count": n})
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	g, err := s.gatewayFor(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	rec, err := g.FindByID(r.Context(), id)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, http.StatusOK, rec)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	g, err := s.gatewayFor(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	rec, err := decodeRecord(w, r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	res, err := g.Create(r.Context(), rec)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, res)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	g, err := s.gatewayFor(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	rec, err := decodeRecord(w, r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	res, err := g.Update(r.Context(), id, rec)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	if res.AffectedRows == 0 {
		respondErr(w, r, fmt.Errorf("%w: %s %d", types.ErrNotFound, g.Descriptor().Table, id))
		return
	}
	respondData(w, http.StatusOK, res)
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	g, err := s.gatewayFor(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	res, err := g.Delete(r.Context(), id)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	if res.AffectedRows == 0 {
		respondErr(w, r, fmt.Errorf("%w: %s %d", types.ErrNotFound, g.Descriptor().Table, id))
		return
	}
	respondData(w, http.StatusOK, res)
}
