package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rubiojr/cari/pkg/indexer"
	"github.com/rubiojr/cari/pkg/log"
	"github.com/rubiojr/cari/pkg/realtime"
	"github.com/rubiojr/cari/pkg/search"
)

var logger = log.ForService("api")

type Server struct {
	service   *search.Service
	reindexer *indexer.Reindexer
	hub       *realtime.Hub
}

func NewServer(service *search.Service, reindexer *indexer.Reindexer, hub *realtime.Hub) *Server {
	return &Server{
		service:   service,
		reindexer: reindexer,
		hub:       hub,
	}
}

// NewRouter returns a chi router with request logging and CORS applied.
func NewRouter(allowedOrigins []string) *chi.Mux {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(LogRequests)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	return r
}

func (s *Server) RegisterRoutes(r chi.Router) {
	r.Get("/search", s.HandleSearch)
	r.Get("/categories", s.HandleCategories)
	r.Get("/stats", s.HandleStats)
	r.Get("/reindex", s.HandleReindex)
	r.Post("/reindex", s.HandleReindex)
	r.Get("/analyze", s.HandleAnalyze)
	r.Get("/health", s.HandleHealth)
	r.Get("/events", s.HandleEvents)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Errorf("encoding JSON response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, error, message string) {
	response := ErrorResponse{
		Error:   error,
		Message: message,
	}
	s.writeJSON(w, status, response)
}
