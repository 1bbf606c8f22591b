package app

import (
	"context"
	"net/http"
	"sync"

	authmiddleware "github.com/acain89/SkillGrid/app/modules/auth/infrastructure/middleware"
	"github.com/go-chi/chi/v5"
)

// Module is the lifecycle every application module follows.
type Module interface {
	Run(ctx context.Context, wg *sync.WaitGroup)
	Close() error
}

func (app *App) modules() []Module {
	return []Module{app.Modules.Vault, app.Modules.Tournament, app.Modules.Match}
}

// Router builds the HTTP API. Every /api route is CORS-checked and rate
// limited per client IP; the modules add authentication themselves.
func (app *App) Router() http.Handler {
	cfg := app.Config.HTTP
	authenticate := authmiddleware.Authenticate(app.tokens, app.Observability.Logger)
	limiter := authmiddleware.NewClientLimiter(cfg.RateLimit, cfg.RateBurst)

	r := chi.NewRouter()
	r.Get("/healthz", app.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(authmiddleware.CORS(cfg.AllowedOrigins))
		r.Use(authmiddleware.RateLimit(limiter))

		r.Route("/tournaments", app.Modules.Tournament.Routes(authenticate))
		r.Route("/matches", app.Modules.Match.Routes(authenticate))
		r.Route("/vault", app.Modules.Vault.Routes(authenticate))
	})
	return r
}

func (app *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := app.db.PingContext(ctx); err != nil {
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	if err := app.Jobs.HealthCheck(ctx); err != nil {
		http.Error(w, "job queue unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
