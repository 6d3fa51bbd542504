// Package mockapi serves fixture-backed versions of the GeoRef, vehicle and insurance APIs.
package mockapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"insured-registration/internal/common/logger"
	"insured-registration/internal/models"
)

// GeoRefPrefix is where the GeoRef endpoints are mounted.
const GeoRefPrefix = "/georef"

type Options struct {
	// Latency is added before every response.
	Latency time.Duration
	Logger  logger.Logger
}

// Server routes the mock endpoints and counts the requests it has served per route.
type Server struct {
	fixtures *Fixtures
	opts     Options
	logger   logger.Logger

	mu       sync.Mutex
	requests map[string]int
}

func NewServer(fixtures *Fixtures, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logger.NewNoOpLogger()
	}
	return &Server{
		fixtures: fixtures,
		opts:     opts,
		logger:   opts.Logger.WithFields(map[string]interface{}{"component": "mock_api"}),
		requests: make(map[string]int),
	}
}

// Router mounts every endpoint on a fresh chi router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.count)

	r.Route(GeoRefPrefix, func(r chi.Router) {
		r.Get("/provincias", s.handleProvinces)
		r.Get("/municipios", s.handleCities)
	})

	r.Get("/vehiculos/marcas", s.handleBrands)
	r.Get("/vehiculos/marcas/{brand}/{year}", s.handleModels)
	r.Get("/vehiculos/marcas/{brand}/{year}/{model}", s.handleVersions)

	r.Get("/coberturas", s.handleCoverages)
	r.Get("/usuarios", s.handleUsernameExists)

	return r
}

// Requests returns how many requests hit path.
func (s *Server) Requests(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[path]
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests[r.URL.Path]++
		s.mu.Unlock()

		if s.opts.Latency > 0 {
			select {
			case <-time.After(s.opts.Latency):
			case <-r.Context().Done():
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleProvinces(w http.ResponseWriter, _ *http.Request) {
	provinces := s.fixtures.Provinces
	if provinces == nil {
		provinces = []models.Province{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"cantidad":   len(provinces),
		"provincias": provinces,
	})
}

func (s *Server) handleCities(w http.ResponseWriter, r *http.Request) {
	province := r.URL.Query().Get("provincia")
	if province == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "provincia is required"})
		return
	}

	cities := s.fixtures.Cities[province]
	if limit, err := strconv.Atoi(r.URL.Query().Get("max")); err == nil && limit >= 0 && limit < len(cities) {
		cities = cities[:limit]
	}
	if cities == nil {
		cities = []models.City{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"cantidad":   len(cities),
		"municipios": cities,
	})
}

func (s *Server) handleBrands(w http.ResponseWriter, _ *http.Request) {
	writeList(w, s.fixtures.Brands)
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "brand") + "/" + chi.URLParam(r, "year")
	writeList(w, s.fixtures.Models[key])
}

func (s *Server) handleVersions(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "brand") + "/" + chi.URLParam(r, "year") + "/" + chi.URLParam(r, "model")
	writeList(w, s.fixtures.Versions[key])
}

func (s *Server) handleCoverages(w http.ResponseWriter, _ *http.Request) {
	writeList(w, s.fixtures.Coverages)
}

func (s *Server) handleUsernameExists(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("nombre")
	exists := false
	for _, taken := range s.fixtures.TakenUsernames {
		if taken == name {
			exists = true
			break
		}
	}
	s.logger.Debug("Username lookup", map[string]interface{}{"username": name, "exists": exists})
	writeJSON(w, http.StatusOK, exists)
}

func writeList[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	writeJSON(w, http.StatusOK, items)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
