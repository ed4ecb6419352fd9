package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with the auth routes. Change-pin is
// wrapped with the admin gate when one is configured.
func NewRouter(store *Store, cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Post("/login", LoginHandler(store, cfg))

	changePIN := http.Handler(ChangePINHandler(store))
	if gate := RequireAdmin(cfg); gate != nil {
		changePIN = gate(changePIN)
	}
	r.Post("/change-pin", changePIN.ServeHTTP)

	return r
}
