package promo

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mythicam/eliteanicore/pkg/governance"
)

// generateRequest is the body of POST /api/promo/generate.
type generateRequest struct {
	Prompt string `json:"prompt"`
}

// throttleRequest is the body of POST /api/promo/throttle.
type throttleRequest struct {
	Percent *int `json:"percent"`
}

// pulseResponse is the API shape of one pulse.
type pulseResponse struct {
	ID        string `json:"id"`
	Channel   string `json:"channel"`
	Promo     string `json:"promo"`
	Timestamp string `json:"timestamp"`
}

// GenerateHandler handles POST /api/promo/generate. The stored promo is
// the configured prefix plus the caller's prompt, verbatim.
func GenerateHandler(store *Store, govStore *governance.Store, cfg *Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
		if req.Prompt == "" {
			writeError(w, http.StatusBadRequest, "Prompt is required")
			return
		}

		promo := cfg.Prefix + req.Prompt
		if _, err := store.Enqueue(promo); err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to enqueue promo: %v", err))
			return
		}

		// Best-effort log; the enqueue already succeeded.
		_ = govStore.AppendLog("promo_generated", map[string]any{"promo": promo})

		writeJSON(w, http.StatusOK, map[string]any{"success": true, "promo": promo})
	}
}

// DeployHandler handles POST /api/promo/deploy. A deploy on an empty
// queue is a no-op that still logs a count of zero. The logged count is
// the number of promos drained, not the fan-out pair count.
func DeployHandler(store *Store, govStore *governance.Store, cfg *Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deployed, drained, err := store.Deploy(cfg.Channels, cfg.PulseCap)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to deploy promos: %v", err))
			return
		}
		if deployed == nil {
			deployed = []Deployment{}
		}

		_ = govStore.AppendLog("promos_deployed", map[string]any{"count": drained})

		writeJSON(w, http.StatusOK, map[string]any{
			"success":  true,
			"message":  "All promos deployed",
			"deployed": deployed,
		})
	}
}

// PulsesHandler handles GET /api/promo/pulses.
func PulsesHandler(store *Store, cfg *Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := store.ListPulses(cfg.PulseCap)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list pulses: %v", err))
			return
		}
		pulses := make([]pulseResponse, len(records))
		for i, p := range records {
			pulses[i] = pulseResponse{
				ID:        p.ID,
				Channel:   p.Channel,
				Promo:     p.Promo,
				Timestamp: p.CreatedAt.Format(time.RFC3339),
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "pulses": pulses})
	}
}

// EngineStateHandler handles GET /api/promo, the read-only engine view.
func EngineStateHandler(store *Store, govStore *governance.Store, cfg *Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := govStore.Get()
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to load governance state: %v", err))
			return
		}
		queued, err := store.ListQueue()
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list promo queue: %v", err))
			return
		}
		queue := make([]string, len(queued))
		for i, q := range queued {
			queue[i] = q.Promo
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"pushTo":            cfg.Channels,
			"throttlePercent":   state.PromoThrottle,
			"subscriberTrigger": cfg.SubscriberTrigger,
			"contentQueue":      queue,
		})
	}
}

// ThrottleHandler handles POST /api/promo/throttle. The write goes
// through the same validated governance contract as set_throttle.
func ThrottleHandler(govStore *governance.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req throttleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
		if req.Percent == nil {
			writeError(w, http.StatusBadRequest, "Throttle must be 0-150")
			return
		}

		applied, err := govStore.SetField(governance.FieldPromoThrottle, *req.Percent)
		if err != nil {
			if errors.Is(err, governance.ErrOutOfRange) {
				writeError(w, http.StatusBadRequest, "Throttle must be 0-150")
				return
			}
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to set throttle: %v", err))
			return
		}

		_ = govStore.AppendLog("throttle_set", map[string]any{"percent": applied})

		writeJSON(w, http.StatusOK, map[string]any{"success": true, "throttlePercent": applied})
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "message": message})
}
