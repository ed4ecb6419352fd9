package generation

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/mythicam/eliteanicore/pkg/governance"
)

// studioRequest is the body of POST /api/studio/action.
type studioRequest struct {
	ImageURL string `json:"imageUrl"`
	Action   string `json:"action"`
}

// studioMessages maps each studio action to its mock status message. The
// result URL is always the input; no processing backend is wired.
var studioMessages = map[string]string{
	"inpaint":  "In-paint canvas ready. Select a region to edit.",
	"upscale":  "Image upscaled to 4096×4096 (4K). Enhanced detail applied.",
	"removebg": "Background removed. Transparent PNG generated.",
	"animate":  "Animation processing queued. Video will be ready in ~30 seconds.",
}

// studioActions lists the valid actions in the order reported by the
// invalid-action error.
var studioActions = []string{"inpaint", "upscale", "removebg", "animate"}

// StudioActionHandler handles POST /api/studio/action, the mock studio
// pipeline. Each accepted action appends one studio_<action> governance
// log entry.
func StudioActionHandler(govStore *governance.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req studioRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
		if req.ImageURL == "" || req.Action == "" {
			writeError(w, http.StatusBadRequest, "imageUrl and action are required")
			return
		}
		message, ok := studioMessages[req.Action]
		if !ok {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("Invalid action. Use: %s", strings.Join(studioActions, ", ")))
			return
		}

		_ = govStore.AppendLog("studio_"+req.Action, map[string]any{"imageUrl": req.ImageURL})

		writeJSON(w, http.StatusOK, map[string]any{
			"success":   true,
			"action":    req.Action,
			"resultUrl": req.ImageURL,
			"message":   message,
		})
	}
}
