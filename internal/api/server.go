package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	cache "github.com/patrickmn/go-cache"

	"github.com/jaspreetjk20/docrank/internal/config"
	"github.com/jaspreetjk20/docrank/internal/pipeline"
)

// Server exposes the ranking pipeline over HTTP.
type Server struct {
	router chi.Router
	orch   *pipeline.Orchestrator
	cache  *cache.Cache
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server. Results are cached by
// request content hash so identical batches are not recomputed.
func NewServer(orch *pipeline.Orchestrator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orch:  orch,
		cache: cache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		log:   log,
		cfg:   cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Analysis endpoints; authenticated only when a key is configured.
	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}
		r.Post("/api/analyze", s.handleAnalyze)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
