package vaulthandlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts the vault endpoints under /api/vault. Players reach only
// their own vault; operators reach any.
func Routes(h Handlers, authenticate func(http.Handler) http.Handler) func(chi.Router) {
	return func(r chi.Router) {
		r.Use(authenticate)

		r.Get("/{userID}/balance", h.HandleGetBalance)
		r.Get("/{userID}/history", h.HandleGetHistory)
		r.Get("/{userID}/chart.png", h.HandleGetChart)
		r.Post("/{userID}/withdrawals", h.HandleWithdraw)
	}
}
