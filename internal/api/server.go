// Package api hosts the analyzer over HTTP. The host provides the
// three collaborators (extraction, persistence, export) and passes
// plain text into the core entry points; nothing in the core depends
// on the transport.
package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/lexhound/statute-analyzer/internal/auth"
	"github.com/lexhound/statute-analyzer/internal/crossref"
	"github.com/lexhound/statute-analyzer/internal/extract"
	"github.com/lexhound/statute-analyzer/internal/patterns"
	"github.com/lexhound/statute-analyzer/internal/rules"
	"github.com/lexhound/statute-analyzer/internal/storage"
)

// ServerConfig holds everything the server needs.
type ServerConfig struct {
	DB        *sql.DB
	Rules     *rules.Database
	JWTSecret string
}

type Server struct {
	router *chi.Mux

	rules     *rules.Database
	checker   *crossref.Checker
	learner   *patterns.Learner
	extractor extract.Extractor

	documentRepo storage.DocumentRepository
	analysisRepo storage.AnalysisRepository

	authService  auth.Service
	authHandlers *auth.Handlers

	// Analysis requests mutate the arena and the pattern store;
	// one at a time.
	analysisMu sync.Mutex
}

// NewServer wires the core, the collaborators, and the router.
func NewServer(config ServerConfig) (*Server, error) {
	ruleDB := config.Rules
	if ruleDB == nil {
		loaded, err := rules.Load()
		if err != nil {
			return nil, err
		}
		ruleDB = loaded
	}

	authConfig := auth.DefaultConfig()
	if config.JWTSecret != "" {
		authConfig.SecretKey = config.JWTSecret
	}
	authService := auth.NewJWTService(authConfig, auth.NewPostgresRepository(config.DB))

	s := &Server{
		router:       chi.NewRouter(),
		rules:        ruleDB,
		checker:      crossref.NewChecker(),
		learner:      patterns.NewLearner(patterns.NewStore()),
		extractor:    extract.NewPlainTextExtractor(0),
		documentRepo: storage.NewPostgresDocumentRepository(config.DB),
		analysisRepo: storage.NewPostgresAnalysisRepository(config.DB),
		authService:  authService,
		authHandlers: auth.NewHandlers(authService),
	}
	s.setupRoutes()

	return s, nil
}

func (s *Server) setupRoutes() {
	r := s.router

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.authHandlers.Register)
		r.Post("/auth/login", s.authHandlers.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(s.authService))

			r.Get("/auth/me", s.authHandlers.Me)

			r.Get("/acts", s.handleListActs)

			r.Route("/documents", func(r chi.Router) {
				r.Post("/", s.handleUpload)
				r.Get("/", s.handleListDocuments)
				r.Post("/{documentID}/compliance", s.handleCompliance)
				r.Post("/{documentID}/presets", s.handlePresets)
				r.Post("/{documentID}/analyze", s.handleFullAnalysis)
				r.Get("/{documentID}/timeline", s.handleTimeline)
			})

			r.Post("/cross-reference", s.handleCrossReference)
			r.Post("/classify", s.handleClassify)
			r.Post("/learn", s.handleLearn)
			r.Get("/patterns", s.handlePatterns)
			r.Get("/analyses", s.handleListAnalyses)
			r.Get("/analyses/{analysisID}/export", s.handleExport)
			r.Post("/reset", s.handleReset)
		})
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":        "ok",
		"rules_version": s.rules.Version,
	})
}

func (s *Server) Run(addr string) error {
	return http.ListenAndServe(addr, s.router)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Helper to send JSON responses
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
