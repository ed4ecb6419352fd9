package accounts

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupAccountsRouter(t *testing.T) (chi.Router, *Store) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	store := NewStore(db)
	require.NoError(t, store.AutoMigrate())
	return NewRouter(store), store
}

func TestListUsersSeeded(t *testing.T) {
	r, _ := setupAccountsRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var users []userResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&users))
	require.Len(t, users, 5)
	assert.Equal(t, "alex_creator", users[0].Username)
	assert.Equal(t, "Power", users[0].Tier)
	assert.Equal(t, "james_media", users[4].Username)
	assert.Equal(t, "Suspended", users[4].Status)
}

func TestGetUser(t *testing.T) {
	r, _ := setupAccountsRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/users/2", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var user userResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&user))
	assert.Equal(t, "luna_studio", user.Username)
	assert.Equal(t, 2000, user.Credits)
}

func TestGetUserNotFound(t *testing.T) {
	r, _ := setupAccountsRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/users/999", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "User not found", resp["message"])
}

func TestGetUserInvalidID(t *testing.T) {
	r, _ := setupAccountsRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/users/abc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListTransactionsSeeded(t *testing.T) {
	r, _ := setupAccountsRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/transactions", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var txns []transactionResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&txns))
	assert.Len(t, txns, 3)
}

func TestStatsHandler(t *testing.T) {
	r, _ := setupAccountsRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var stats map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&stats))
	assert.Equal(t, float64(12847), stats["activeUsers"])
	assert.Equal(t, float64(15234), stats["totalUsers"])
	assert.Equal(t, float64(78), stats["gpuUsage"])
	assert.Equal(t, "12m 34s", stats["avgSessionTime"])
}

func TestChargeHandler(t *testing.T) {
	r, store := setupAccountsRouter(t)

	body := `{"amount":49.99,"email":"luna@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/payments/charge", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success     bool                `json:"success"`
		Transaction transactionResponse `json:"transaction"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "luna@example.com", resp.Transaction.User)
	assert.Equal(t, "charge", resp.Transaction.Type)
	assert.Equal(t, "completed", resp.Transaction.Status)

	txns, err := store.ListTransactions()
	require.NoError(t, err)
	assert.Len(t, txns, 4)
}

func TestChargeHandlerDefaultsToGuest(t *testing.T) {
	r, _ := setupAccountsRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/payments/charge", strings.NewReader(`{"amount":10}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Transaction transactionResponse `json:"transaction"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "guest", resp.Transaction.User)
}

func TestChargeHandlerRejectsInvalidAmount(t *testing.T) {
	r, store := setupAccountsRouter(t)

	for _, body := range []string{`{"amount":0}`, `{"amount":-5}`, `{}`} {
		req := httptest.NewRequest(http.MethodPost, "/payments/charge", strings.NewReader(body))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "body %s", body)
	}

	txns, err := store.ListTransactions()
	require.NoError(t, err)
	assert.Len(t, txns, 3)
}

func TestChartsHandler(t *testing.T) {
	r, _ := setupAccountsRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/stats/charts", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Charts  struct {
			Revenue []struct {
				Name    string `json:"name"`
				Revenue int    `json:"revenue"`
				Users   int    `json:"users"`
			} `json:"revenue"`
			Users []struct {
				Name  string `json:"name"`
				Value int    `json:"value"`
			} `json:"users"`
		} `json:"charts"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Charts.Revenue, 7)
	assert.Equal(t, "Mon", resp.Charts.Revenue[0].Name)
	assert.Equal(t, 4000, resp.Charts.Revenue[0].Revenue)
	assert.Equal(t, 2400, resp.Charts.Revenue[0].Users)
	require.Len(t, resp.Charts.Users, 7)
	assert.Equal(t, 156, resp.Charts.Users[6].Value)
}

func TestPayoutHandler(t *testing.T) {
	r, store := setupAccountsRouter(t)

	body := `{"amount":500,"accountNumber":"000123","bankName":"First National"}`
	req := httptest.NewRequest(http.MethodPost, "/payments/payout", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success     bool                `json:"success"`
		Transaction transactionResponse `json:"transaction"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "000123", resp.Transaction.User)
	assert.Equal(t, "payout", resp.Transaction.Type)
	assert.Equal(t, "completed", resp.Transaction.Status)
	assert.Equal(t, "First National", resp.Transaction.BankName)

	txns, err := store.ListTransactions()
	require.NoError(t, err)
	assert.Len(t, txns, 4)
}

func TestPayoutHandlerDefaultsToExternal(t *testing.T) {
	r, _ := setupAccountsRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/payments/payout", strings.NewReader(`{"amount":100}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Transaction transactionResponse `json:"transaction"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "external", resp.Transaction.User)
}

func TestPayoutHandlerRejectsInvalidAmount(t *testing.T) {
	r, store := setupAccountsRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/payments/payout", strings.NewReader(`{"amount":0}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	txns, err := store.ListTransactions()
	require.NoError(t, err)
	assert.Len(t, txns, 3)
}

func TestEtransferHandler(t *testing.T) {
	r, store := setupAccountsRouter(t)

	body := `{"amount":75.50,"toBank":"Credit Union","toAccount":"999888","note":"invoice 42"}`
	req := httptest.NewRequest(http.MethodPost, "/payments/etransfer", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success     bool           `json:"success"`
		Message     string         `json:"message"`
		Transaction map[string]any `json:"transaction"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "E-Transfer initiated (mock)", resp.Message)
	assert.Equal(t, "999888", resp.Transaction["user"])
	assert.Equal(t, "etransfer", resp.Transaction["type"])
	assert.Equal(t, "pending", resp.Transaction["status"])
	assert.Equal(t, "Credit Union", resp.Transaction["toBank"])
	assert.Equal(t, "invoice 42", resp.Transaction["note"])

	// The transfer is a mock; nothing is persisted.
	txns, err := store.ListTransactions()
	require.NoError(t, err)
	assert.Len(t, txns, 3)
}

func TestEtransferHandlerRejectsInvalidAmount(t *testing.T) {
	r, _ := setupAccountsRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/payments/etransfer", strings.NewReader(`{"amount":-1}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "Invalid amount", resp["message"])
}

func TestSeedIsIdempotent(t *testing.T) {
	_, store := setupAccountsRouter(t)

	require.NoError(t, store.AutoMigrate())

	users, err := store.ListUsers()
	require.NoError(t, err)
	assert.Len(t, users, 5)
}
