package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/brailledoc/internal/config"
	"github.com/dgallion1/brailledoc/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Stats holds the rolling latency windows reported by /api/stats.
type Stats struct {
	Extract   *pipeline.LatencyStats
	Translate *pipeline.LatencyStats
}

// Server is the HTTP API server for brailledoc.
type Server struct {
	router     chi.Router
	extractor  *pipeline.Extractor
	translator pipeline.Translator
	stats      Stats
	log        *slog.Logger
	cfg        config.Config
}

// NewServer creates and configures the HTTP server. translator may be nil when
// the braille engine is unavailable; /api/translate then answers 503.
func NewServer(ext *pipeline.Extractor, tr pipeline.Translator, stats Stats, log *slog.Logger, cfg config.Config) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		extractor:  ext,
		translator: tr,
		stats:      stats,
		log:        log,
		cfg:        cfg,
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

	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/extract", s.handleExtract)
		r.Post("/api/translate", s.handleTranslate)
		r.Get("/api/stats", s.handleStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
