package accounts

import (
	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with the directory routes. The caller
// mounts it at /api.
func NewRouter(store *Store) chi.Router {
	r := chi.NewRouter()

	r.Get("/users", ListUsersHandler(store))
	r.Get("/users/{userId}", GetUserHandler(store))
	r.Get("/transactions", ListTransactionsHandler(store))
	r.Get("/stats", StatsHandler(store))
	r.Get("/stats/charts", ChartsHandler())
	r.Post("/payments/charge", ChargeHandler(store))
	r.Post("/payments/payout", PayoutHandler(store))
	r.Post("/payments/etransfer", EtransferHandler())

	return r
}
