package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/claude/liftplan/internal/catalog"
	"github.com/claude/liftplan/internal/planner"
	"github.com/claude/liftplan/internal/storage"
	"github.com/go-chi/chi/v5"
	"tailscale.com/client/local"
)

// Store is the persistence surface the HTTP layer needs: everything the
// planner uses, plus user resolution for the identity middleware.
type Store interface {
	planner.Store
	GetOrCreateUser(ctx context.Context, login, displayName string) (int, error)
}

var _ Store = (*storage.DB)(nil)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store   Store
	planner *planner.Planner
	catalog *catalog.Catalog
	log     *slog.Logger
	apiKey  string
	lc      *local.Client
	router  chi.Router
}

// New creates a new Server with all routes configured.
func New(store Store, pl *planner.Planner, cat *catalog.Catalog, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		store:   store,
		planner: pl,
		catalog: cat,
		log:     log,
		apiKey:  apiKey,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// SetTailscale enables Tailscale identity resolution. Without it every
// request runs as the local dev user.
func (s *Server) SetTailscale(lc *local.Client) {
	s.lc = lc
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(s.identity)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Read endpoints (no auth — tsnet handles access)
		r.Get("/me", s.handleMe)
		r.Get("/exercises", s.handleListExercises)
		r.Get("/profile", s.handleGetProfile)
		r.Get("/week", s.handleWeekSummary)
		r.Get("/week/drift", s.handleDriftLedger)
		r.Get("/sessions/{id}", s.handleGetSession)

		// Mutating endpoints (API key required)
		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Put("/profile", s.handlePutProfile)
			r.Post("/week", s.handleStartWeek)
			r.Post("/week/close", s.handleCloseWeek)
			r.Post("/sessions", s.handleGenerateSession)
			r.Post("/sessions/preview", s.handlePreviewSession)
			r.Post("/sessions/{id}/sets", s.handleLogSet)
			r.Post("/sessions/{id}/complete", s.handleCompleteSession)
			r.Post("/sessions/{id}/skip", s.handleSkipSession)
		})
	})
}
