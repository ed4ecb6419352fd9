package promo

import (
	"github.com/go-chi/chi/v5"

	"github.com/mythicam/eliteanicore/pkg/governance"
)

// NewRouter creates a chi router with the promo engine routes.
func NewRouter(store *Store, govStore *governance.Store, cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Get("/", EngineStateHandler(store, govStore, cfg))
	r.Post("/generate", GenerateHandler(store, govStore, cfg))
	r.Post("/deploy", DeployHandler(store, govStore, cfg))
	r.Get("/pulses", PulsesHandler(store, cfg))
	r.Post("/throttle", ThrottleHandler(govStore))

	return r
}
