package governance

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// applyRequest is the body of POST /api/governance.
type applyRequest struct {
	Action string          `json:"action"`
	Value  json.RawMessage `json:"value"`
}

// heartbeatRequest is the body of POST /api/sentinel/heartbeat.
// Pointer fields distinguish "absent" from zero values so the documented
// defaults apply.
type heartbeatRequest struct {
	Status        string `json:"status"`
	HealthScore   *int   `json:"healthScore"`
	ActiveThreats *int   `json:"activeThreats"`
}

// adProofValue is the value payload of the add_ad_proof action.
type adProofValue struct {
	Platform string `json:"platform"`
	Type     string `json:"type"`
	Status   string `json:"status"`
}

// sentinelResponse is the sentinel block of a governance state response.
type sentinelResponse struct {
	Status        string `json:"status"`
	HealthScore   int    `json:"healthScore"`
	ActiveThreats int    `json:"activeThreats"`
	LastAudit     string `json:"lastAudit,omitempty"`
}

// stateResponse is the API shape of the governance state.
type stateResponse struct {
	KillSwitch    bool             `json:"killSwitch"`
	PromoThrottle int              `json:"promoThrottle"`
	AISpeed       int              `json:"aiSpeed"`
	LearningRate  int              `json:"learningRate"`
	Sentinel      sentinelResponse `json:"sentinel"`
	Logs          []logResponse    `json:"logs"`
}

// logResponse is the API shape of one governance log entry.
type logResponse struct {
	Action    string         `json:"action"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp string         `json:"timestamp"`
}

func recordToState(record *StateRecord, logs []LogRecord) stateResponse {
	resp := stateResponse{
		KillSwitch:    record.KillSwitch,
		PromoThrottle: record.PromoThrottle,
		AISpeed:       record.AISpeed,
		LearningRate:  record.LearningRate,
		Sentinel: sentinelResponse{
			Status:        string(record.SentinelStatus),
			HealthScore:   record.HealthScore,
			ActiveThreats: record.ActiveThreats,
		},
		Logs: make([]logResponse, len(logs)),
	}
	if record.LastAudit != nil {
		resp.Sentinel.LastAudit = record.LastAudit.Format(time.RFC3339)
	}
	for i, l := range logs {
		resp.Logs[i] = logResponse{
			Action:    l.Action,
			Details:   map[string]any(l.Details),
			Timestamp: l.CreatedAt.Format(time.RFC3339),
		}
	}
	return resp
}

// GetStateHandler handles GET /api/governance. Read-only.
func GetStateHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		record, err := store.Get()
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to load governance state: %v", err))
			return
		}
		logs, err := store.ListLogs(50)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list governance logs: %v", err))
			return
		}
		proofs, err := store.ListAdProofs(20)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list ad proofs: %v", err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":    true,
			"governance": recordToState(record, logs),
			"adProofs":   adProofsToResponse(proofs),
		})
	}
}

func adProofsToResponse(proofs []AdProofRecord) []map[string]any {
	out := make([]map[string]any, len(proofs))
	for i, p := range proofs {
		out[i] = map[string]any{
			"platform":  p.Platform,
			"type":      p.ProofType,
			"status":    p.Status,
			"timestamp": p.CreatedAt.Format(time.RFC3339),
		}
	}
	return out
}

// ApplyActionHandler handles POST /api/governance. Each successful apply
// appends exactly one log entry with the action tag and the literal value.
func ApplyActionHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req applyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}

		var result any
		var err error
		switch req.Action {
		case "set_speed":
			result, err = applyRangedField(store, FieldAISpeed, "speed_set", req.Value)
		case "set_learning":
			result, err = applyRangedField(store, FieldLearningRate, "learning_set", req.Value)
		case "set_throttle":
			result, err = applyRangedField(store, FieldPromoThrottle, "throttle_set", req.Value)
		case "toggle_killswitch":
			var enabled bool
			if err = json.Unmarshal(req.Value, &enabled); err != nil {
				writeError(w, http.StatusBadRequest, "value for toggle_killswitch must be a boolean")
				return
			}
			result, err = store.ToggleKillSwitch(enabled)
			if err == nil {
				_ = store.AppendLog("killswitch_toggled", map[string]any{"enabled": enabled})
			}
		case "add_ad_proof":
			var proof adProofValue
			if err = json.Unmarshal(req.Value, &proof); err != nil {
				writeError(w, http.StatusBadRequest, "value for add_ad_proof must be an object")
				return
			}
			var record *AdProofRecord
			record, err = store.AddAdProof(proof.Platform, proof.Type, proof.Status)
			if err == nil {
				result = map[string]any{
					"platform": record.Platform,
					"type":     record.ProofType,
					"status":   record.Status,
				}
				_ = store.AppendLog("ad_proof_added", map[string]any{
					"platform": proof.Platform, "type": proof.Type, "status": proof.Status,
				})
			}
		default:
			writeError(w, http.StatusBadRequest, "Invalid action")
			return
		}

		if err != nil {
			if errors.Is(err, ErrOutOfRange) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to apply %s: %v", req.Action, err))
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"success": true, "result": result})
	}
}

// applyRangedField decodes an integer value, writes it through the
// validated-update contract, and logs the applied literal.
func applyRangedField(store *Store, field, logAction string, raw json.RawMessage) (int, error) {
	var value int
	if err := json.Unmarshal(raw, &value); err != nil {
		return 0, fmt.Errorf("%s requires an integer value: %w", field, ErrOutOfRange)
	}
	applied, err := store.SetField(field, value)
	if err != nil {
		return 0, err
	}
	_ = store.AppendLog(logAction, map[string]any{"value": applied})
	return applied, nil
}

// ClearLogsHandler handles POST /api/governance/logs:clear.
func ClearLogsHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := store.ClearLogs()
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to clear logs: %v", err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": fmt.Sprintf("Cleared %d log entries", count),
		})
	}
}

// HeartbeatHandler handles POST /api/sentinel/heartbeat. Absent fields
// take the documented defaults: status Active, score 100, zero threats.
func HeartbeatHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req heartbeatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}

		status := SentinelStatus(req.Status)
		if req.Status == "" {
			status = SentinelActive
		}
		healthScore := 100
		if req.HealthScore != nil {
			healthScore = *req.HealthScore
		}
		activeThreats := 0
		if req.ActiveThreats != nil {
			activeThreats = *req.ActiveThreats
		}

		if err := store.UpdateSentinel(status, healthScore, activeThreats); err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to record heartbeat: %v", err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

// StatusHandler handles GET /api/status, the product status banner.
func StatusHandler(store *Store, startedAt time.Time, modules []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		record, err := store.Get()
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to load governance state: %v", err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"status":        "EliteAniCore fully operational",
			"uptime":        time.Since(startedAt).Seconds(),
			"modules":       modules,
			"promoThrottle": record.PromoThrottle,
			"killSwitch":    record.KillSwitch,
			"timestamp":     time.Now().Format(time.RFC3339),
		})
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
