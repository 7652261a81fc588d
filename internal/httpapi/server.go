// Package httpapi serves the catalog gateways as a JSON API.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mesh-intelligence/reels/internal/gateway"
	"github.com/mesh-intelligence/reels/internal/logging"
)

const shutdownTimeout = 10 * time.Second

// Pinger reports whether the store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server routes API requests to the catalog gateways.
type Server struct {
	catalog *gateway.Catalog
	store   Pinger
	router  chi.Router
}

// New builds the router over c. store backs /health.
func New(c *gateway.Catalog, store Pinger) *Server {
	s := &Server{catalog: c, store: store}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", s.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/programs/filter", s.filterPrograms)
		r.Post("/programs/compose", s.composeProgram)
		r.Get("/actors/search", s.searchActors)
		r.Get("/platforms/cost", s.platformsByCost)
		r.Get("/platforms/free", s.freePlatforms)

		r.Route("/{resource}", func(r chi.Router) {
			r.Get("/", s.list)
			r.Post("/", s.create)
			r.Get("/count", s.count)
			r.Get("/nationality/{nationality}", s.byNationality)
			r.Get("/with-programs", s.withPrograms)
			r.Get("/with-programs/{id}", s.withProgramsByID)
			r.Get("/{id}", s.get)
			r.Patch("/{id}", s.update)
			r.Delete("/{id}", s.delete)
		})
	})
	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		logging.Warn().Err(err).Msg("health check failed")
		respondError(w, http.StatusServiceUnavailable, codeInternal, "store unavailable", nil)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"store": "ok"})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", addr).Msg("api listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logging.Info().Msg("api shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
