package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// loginRequest is the body of POST /api/auth/login.
type loginRequest struct {
	Email string `json:"email"`
	PIN   string `json:"pin"`
}

// changePINRequest is the body of POST /api/auth/change-pin.
type changePINRequest struct {
	NewPIN string `json:"newPin"`
}

// userResponse is the user block of a login response.
type userResponse struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"isAdmin"`
}

// LoginHandler handles POST /api/auth/login. The admin email match is
// case-insensitive; the PIN comparison is exact. Any non-admin email
// logs in as a regular user regardless of PIN (demo directory, not a
// security boundary).
func LoginHandler(store *Store, cfg *Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
		if req.Email == "" {
			writeError(w, http.StatusBadRequest, "Email is required")
			return
		}

		admin, err := store.GetAdmin()
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to load admin identity: %v", err))
			return
		}

		isAdminEmail := strings.EqualFold(req.Email, admin.Email)
		if isAdminEmail && req.PIN != admin.PIN {
			writeError(w, http.StatusUnauthorized, "Invalid PIN")
			return
		}

		user := userResponse{Email: req.Email, IsAdmin: isAdminEmail}
		if isAdminEmail {
			user.Name = admin.Name
		} else {
			user.Name, _, _ = strings.Cut(req.Email, "@")
		}

		token, err := IssueToken(cfg, user.Email, user.Name, user.IsAdmin)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to issue session token: %v", err))
			return
		}

		resp := map[string]any{"success": true, "user": user}
		if token != "" {
			resp["token"] = token
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// ChangePINHandler handles POST /api/auth/change-pin.
func ChangePINHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req changePINRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
		if len(req.NewPIN) < 4 {
			writeError(w, http.StatusBadRequest, "PIN must be at least 4 characters")
			return
		}
		if err := store.SetPIN(req.NewPIN); err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to change PIN: %v", err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "PIN changed successfully"})
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
