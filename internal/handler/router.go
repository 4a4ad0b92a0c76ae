package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	aiHandler "github.com/pixelsmith/playground/internal/handler/ai"
	authHandler "github.com/pixelsmith/playground/internal/handler/auth"
	sessionHandler "github.com/pixelsmith/playground/internal/handler/session"
	middlewarePkg "github.com/pixelsmith/playground/internal/middleware"
	authService "github.com/pixelsmith/playground/internal/service/auth"
	sessionService "github.com/pixelsmith/playground/internal/service/session"
	"github.com/pixelsmith/playground/pkg/utils"
)

// NewRouter wires HTTP routes to core services. generator may be nil when
// the upstream AI provider is not configured.
func NewRouter(authSvc *authService.Service, sessionSvc *sessionService.Service, generator aiHandler.Generator, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewarePkg.CORS(allowedOrigins))

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		authHandler.New(authSvc).RegisterRoutes(api)

		api.Group(func(protected chi.Router) {
			protected.Use(middlewarePkg.RequireAuth(authSvc))
			sessionHandler.New(sessionSvc).RegisterRoutes(protected)
			aiHandler.New(generator).RegisterRoutes(protected)
		})
	})

	return r
}
