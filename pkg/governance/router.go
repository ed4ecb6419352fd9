package governance

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with the governance API routes. When
// gate is non-nil, mutating endpoints are wrapped with it (admin session
// enforcement).
func NewRouter(store *Store, gate func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	apply := http.Handler(ApplyActionHandler(store))
	clearLogs := http.Handler(ClearLogsHandler(store))
	if gate != nil {
		apply = gate(apply)
		clearLogs = gate(clearLogs)
	}

	r.Get("/", GetStateHandler(store))
	r.Post("/", apply.ServeHTTP)
	r.Post("/logs:clear", clearLogs.ServeHTTP)

	return r
}
