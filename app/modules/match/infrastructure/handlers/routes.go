package matchhandlers

import (
	"net/http"

	authmiddleware "github.com/acain89/SkillGrid/app/modules/auth/infrastructure/middleware"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the match endpoints under /api/matches. Players move for
// their own seat; reporting results by hand is an operator action.
func Routes(h Handlers, authenticate func(http.Handler) http.Handler) func(chi.Router) {
	return func(r chi.Router) {
		r.Use(authenticate)

		r.Get("/{matchID}", h.HandleGetSession)
		r.Post("/{matchID}/moves", h.HandleApplyMove)

		r.With(authmiddleware.RequireOperator).
			Post("/{matchID}/results", h.HandleReportResult)
	}
}
