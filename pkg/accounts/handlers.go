package accounts

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// chargeRequest is the body of POST /api/payments/charge.
type chargeRequest struct {
	Amount float64 `json:"amount"`
	Email  string  `json:"email"`
}

// payoutRequest is the body of POST /api/payments/payout.
type payoutRequest struct {
	Amount        float64 `json:"amount"`
	AccountNumber string  `json:"accountNumber"`
	BankName      string  `json:"bankName"`
}

// etransferRequest is the body of POST /api/payments/etransfer.
type etransferRequest struct {
	Amount    float64 `json:"amount"`
	ToBank    string  `json:"toBank"`
	ToAccount string  `json:"toAccount"`
	Note      string  `json:"note"`
}

// Static weekly chart series surfaced by GET /api/stats/charts.
type chartPoint struct {
	Name    string `json:"name"`
	Revenue int    `json:"revenue,omitempty"`
	Users   int    `json:"users,omitempty"`
	Value   int    `json:"value,omitempty"`
}

var chartRevenue = []chartPoint{
	{Name: "Mon", Revenue: 4000, Users: 2400},
	{Name: "Tue", Revenue: 3000, Users: 1398},
	{Name: "Wed", Revenue: 2000, Users: 9800},
	{Name: "Thu", Revenue: 2780, Users: 3908},
	{Name: "Fri", Revenue: 1890, Users: 4800},
	{Name: "Sat", Revenue: 2390, Users: 3800},
	{Name: "Sun", Revenue: 3490, Users: 4300},
}

var chartUsers = []chartPoint{
	{Name: "Mon", Value: 120},
	{Name: "Tue", Value: 145},
	{Name: "Wed", Value: 132},
	{Name: "Thu", Value: 178},
	{Name: "Fri", Value: 195},
	{Name: "Sat", Value: 167},
	{Name: "Sun", Value: 156},
}

// userResponse is the API shape of one user.
type userResponse struct {
	ID             uint   `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Tier           string `json:"tier"`
	Credits        int    `json:"credits"`
	Status         string `json:"status"`
	Joined         string `json:"joined"`
	LastActive     string `json:"lastActive"`
	TotalGenerated int    `json:"totalGenerated"`
}

// transactionResponse is the API shape of one transaction.
type transactionResponse struct {
	ID       uint    `json:"id"`
	User     string  `json:"user"`
	Amount   float64 `json:"amount"`
	Type     string  `json:"type"`
	Status   string  `json:"status"`
	BankName string  `json:"bankName,omitempty"`
	Date     string  `json:"date"`
}

func userToResponse(u UserRecord) userResponse {
	return userResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Tier:           u.Tier,
		Credits:        u.Credits,
		Status:         u.Status,
		Joined:         u.Joined,
		LastActive:     u.LastActive,
		TotalGenerated: u.TotalGenerated,
	}
}

func transactionToResponse(t TransactionRecord) transactionResponse {
	return transactionResponse{
		ID:       t.ID,
		User:     t.User,
		Amount:   t.Amount,
		Type:     t.Type,
		Status:   t.Status,
		BankName: t.Bank,
		Date:     t.Date,
	}
}

// ListUsersHandler handles GET /api/users.
func ListUsersHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := store.ListUsers()
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list users: %v", err))
			return
		}
		users := make([]userResponse, len(records))
		for i, u := range records {
			users[i] = userToResponse(u)
		}
		writeJSON(w, http.StatusOK, users)
	}
}

// GetUserHandler handles GET /api/users/{userId}.
func GetUserHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseUint(chi.URLParam(r, "userId"), 10, 32)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid user ID")
			return
		}
		record, err := store.GetUser(uint(id))
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to get user: %v", err))
			return
		}
		if record == nil {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeJSON(w, http.StatusOK, userToResponse(*record))
	}
}

// ListTransactionsHandler handles GET /api/transactions.
func ListTransactionsHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := store.ListTransactions()
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list transactions: %v", err))
			return
		}
		txns := make([]transactionResponse, len(records))
		for i, t := range records {
			txns[i] = transactionToResponse(t)
		}
		writeJSON(w, http.StatusOK, txns)
	}
}

// StatsHandler handles GET /api/stats.
func StatsHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		record, err := store.GetStats()
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to get stats: %v", err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"activeUsers":    record.ActiveUsers,
			"totalUsers":     record.TotalUsers,
			"gpuUsage":       record.GPUUsage,
			"jobsQueued":     record.JobsQueued,
			"jobsCompleted":  record.JobsCompleted,
			"revenueToday":   record.RevenueToday,
			"revenueWeek":    record.RevenueWeek,
			"revenueMonth":   record.RevenueMonth,
			"mrr":            record.MRR,
			"avgSessionTime": record.AvgSessionTime,
		})
	}
}

// ChargeHandler handles POST /api/payments/charge, the mock payment
// path. It only records a completed transaction; no payment provider is
// involved.
func ChargeHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chargeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
		if req.Amount <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid amount")
			return
		}
		user := req.Email
		if user == "" {
			user = "guest"
		}
		record := &TransactionRecord{
			User:   user,
			Amount: req.Amount,
			Type:   "charge",
			Status: "completed",
			Date:   time.Now().Format(time.RFC3339),
		}
		if err := store.AddTransaction(record); err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to record charge: %v", err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":     true,
			"transaction": transactionToResponse(*record),
		})
	}
}

// ChartsHandler handles GET /api/stats/charts, the static dashboard
// chart series.
func ChartsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"charts": map[string]any{
				"revenue": chartRevenue,
				"users":   chartUsers,
			},
		})
	}
}

// PayoutHandler handles POST /api/payments/payout. Records a completed
// payout transaction; no bank transfer happens.
func PayoutHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req payoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
		if req.Amount <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid amount")
			return
		}
		user := req.AccountNumber
		if user == "" {
			user = "external"
		}
		record := &TransactionRecord{
			User:   user,
			Amount: req.Amount,
			Type:   "payout",
			Status: "completed",
			Bank:   req.BankName,
			Date:   time.Now().Format(time.RFC3339),
		}
		if err := store.AddTransaction(record); err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to record payout: %v", err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":     true,
			"transaction": transactionToResponse(*record),
		})
	}
}

// EtransferHandler handles POST /api/payments/etransfer. The transfer is
// a mock initiation; nothing is persisted.
func EtransferHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req etransferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
		if req.Amount <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid amount")
			return
		}
		user := req.ToAccount
		if user == "" {
			user = "external"
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "E-Transfer initiated (mock)",
			"transaction": map[string]any{
				"user":   user,
				"amount": req.Amount,
				"type":   "etransfer",
				"status": "pending",
				"toBank": req.ToBank,
				"note":   req.Note,
				"date":   time.Now().Format(time.RFC3339),
			},
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
