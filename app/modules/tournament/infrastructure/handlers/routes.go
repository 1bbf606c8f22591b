package tournamenthandlers

import (
	"net/http"

	authmiddleware "github.com/acain89/SkillGrid/app/modules/auth/infrastructure/middleware"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the tournament endpoints under /api/tournaments.
// Creating tournaments and settling matches by hand are operator actions.
func Routes(h Handlers, authenticate func(http.Handler) http.Handler) func(chi.Router) {
	return func(r chi.Router) {
		r.Use(authenticate)

		r.Get("/", h.HandleListTournaments)
		r.Get("/{id}", h.HandleGetTournament)
		r.Get("/{id}/results.xlsx", h.HandleExportResults)
		r.Post("/{id}/join", h.HandleJoinTournament)

		r.Group(func(r chi.Router) {
			r.Use(authmiddleware.RequireOperator)
			r.Post("/", h.HandleCreateTournament)
			r.Post("/{id}/rounds/{round}/matches/{match}/result", h.HandleRecordMatchResult)
		})
	}
}
