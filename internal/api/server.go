package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/dgallion1/demystify/internal/assistant"
	"github.com/dgallion1/demystify/internal/config"
	"github.com/dgallion1/demystify/internal/llm"
	"github.com/dgallion1/demystify/internal/session"
)

// Server is the HTTP API server for demystify.
type Server struct {
	router    chi.Router
	sessions  *session.Store
	assistant *assistant.Assistant
	llm       *llm.Client
	log       *zap.Logger
	cfg       config.Config
}

// NewServer creates and configures the HTTP server. gen may be nil, in which
// case the stats endpoint reports it as unavailable.
func NewServer(sessions *session.Store, asst *assistant.Assistant, gen *llm.Client, log *zap.Logger, cfg config.Config) *Server {
	s := &Server{
		sessions:  sessions,
		assistant: asst,
		llm:       gen,
		log:       log,
		cfg:       cfg,
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

		r.Post("/api/sessions", s.handleCreateSession)
		r.Route("/api/sessions/{sessionID}", func(r chi.Router) {
			r.Use(s.sessionCtx)
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Post("/analyze", s.handleAnalyze)
			r.Get("/text", s.handleText)
			r.Get("/summary", s.handleSummary)
			r.Get("/risks", s.handleRisks)
			r.Get("/chat", s.handleTranscript)
			r.Post("/chat", s.handleAsk)
			r.Post("/explain", s.handleExplain)
		})
		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
