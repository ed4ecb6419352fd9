package governance

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupHandlerStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	store := NewStore(db)
	require.NoError(t, store.AutoMigrate())
	return store
}

func applyAction(t *testing.T, store *Store, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := NewRouter(store, nil)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetStateHandler(t *testing.T) {
	store := setupHandlerStore(t)
	require.NoError(t, store.AppendLog("throttle_set", map[string]any{"value": 75}))

	r := NewRouter(store, nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success    bool `json:"success"`
		Governance struct {
			KillSwitch    bool `json:"killSwitch"`
			PromoThrottle int  `json:"promoThrottle"`
			Sentinel      struct {
				Status      string `json:"status"`
				HealthScore int    `json:"healthScore"`
			} `json:"sentinel"`
			Logs []struct {
				Action string `json:"action"`
			} `json:"logs"`
		} `json:"governance"`
		AdProofs []map[string]any `json:"adProofs"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.Governance.KillSwitch)
	assert.Equal(t, 150, resp.Governance.PromoThrottle)
	assert.Equal(t, "Idle", resp.Governance.Sentinel.Status)
	assert.Equal(t, 100, resp.Governance.Sentinel.HealthScore)
	require.Len(t, resp.Governance.Logs, 1)
	assert.Equal(t, "throttle_set", resp.Governance.Logs[0].Action)
	assert.Empty(t, resp.AdProofs)
}

func TestApplyActionSetSpeed(t *testing.T) {
	store := setupHandlerStore(t)

	w := applyAction(t, store, `{"action":"set_speed","value":80}`)
	assert.Equal(t, http.StatusOK, w.Code)

	state, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, 80, state.AISpeed)

	logs, err := store.ListLogs(10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "speed_set", logs[0].Action)
}

func TestApplyActionSetThrottleOutOfRange(t *testing.T) {
	store := setupHandlerStore(t)

	w := applyAction(t, store, `{"action":"set_throttle","value":151}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, false, resp["success"])
	assert.Contains(t, resp["message"], "0-150")

	// The rejected write leaves the throttle at the seeded value and
	// appends no log.
	state, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, 150, state.PromoThrottle)

	logs, err := store.ListLogs(10)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestApplyActionToggleKillSwitch(t *testing.T) {
	store := setupHandlerStore(t)

	w := applyAction(t, store, `{"action":"toggle_killswitch","value":false}`)
	assert.Equal(t, http.StatusOK, w.Code)

	state, err := store.Get()
	require.NoError(t, err)
	assert.False(t, state.KillSwitch)

	logs, err := store.ListLogs(10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "killswitch_toggled", logs[0].Action)
}

func TestApplyActionAddAdProof(t *testing.T) {
	store := setupHandlerStore(t)

	body := `{"action":"add_ad_proof","value":{"platform":"TikTok","type":"Viral Post","status":"Active"}}`
	w := applyAction(t, store, body)
	assert.Equal(t, http.StatusOK, w.Code)

	proofs, err := store.ListAdProofs(20)
	require.NoError(t, err)
	require.Len(t, proofs, 1)
	assert.Equal(t, "TikTok", proofs[0].Platform)
	assert.Equal(t, "Viral Post", proofs[0].ProofType)

	logs, err := store.ListLogs(10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "ad_proof_added", logs[0].Action)
}

func TestApplyActionUnknown(t *testing.T) {
	store := setupHandlerStore(t)

	w := applyAction(t, store, `{"action":"self_destruct","value":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "Invalid action", resp["message"])
}

func TestApplyActionNonIntegerValue(t *testing.T) {
	store := setupHandlerStore(t)

	w := applyAction(t, store, `{"action":"set_speed","value":"fast"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClearLogsHandler(t *testing.T) {
	store := setupHandlerStore(t)
	require.NoError(t, store.AppendLog("promo_generated", nil))
	require.NoError(t, store.AppendLog("promos_deployed", nil))

	r := NewRouter(store, nil)
	req := httptest.NewRequest(http.MethodPost, "/logs:clear", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "Cleared 2 log entries", resp["message"])
}

func TestRouterGateWrapsMutatingRoutes(t *testing.T) {
	store := setupHandlerStore(t)

	deny := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
	}
	r := NewRouter(store, deny)

	// Reads stay open.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Writes hit the gate.
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"action":"set_speed","value":10}`))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHeartbeatHandlerDefaults(t *testing.T) {
	store := setupHandlerStore(t)

	h := HeartbeatHandler(store)
	req := httptest.NewRequest(http.MethodPost, "/sentinel/heartbeat", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	state, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, SentinelActive, state.SentinelStatus)
	assert.Equal(t, 100, state.HealthScore)
	assert.Equal(t, 0, state.ActiveThreats)
	require.NotNil(t, state.LastAudit)
	assert.WithinDuration(t, time.Now(), *state.LastAudit, 5*time.Second)
}

func TestHeartbeatHandlerExplicitFields(t *testing.T) {
	store := setupHandlerStore(t)

	h := HeartbeatHandler(store)
	body := `{"status":"Online","healthScore":85,"activeThreats":2}`
	req := httptest.NewRequest(http.MethodPost, "/sentinel/heartbeat", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	state, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, SentinelOnline, state.SentinelStatus)
	assert.Equal(t, 85, state.HealthScore)
	assert.Equal(t, 2, state.ActiveThreats)
}

func TestStatusHandler(t *testing.T) {
	store := setupHandlerStore(t)

	h := StatusHandler(store, time.Now().Add(-time.Minute), []string{"governance", "promo"})
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "EliteAniCore fully operational", resp["status"])
	assert.Equal(t, true, resp["killSwitch"])
	assert.Equal(t, float64(150), resp["promoThrottle"])
	assert.GreaterOrEqual(t, resp["uptime"].(float64), 60.0)
}
