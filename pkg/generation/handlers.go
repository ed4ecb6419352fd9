package generation

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// generateRequest is the body of POST /api/generate.
type generateRequest struct {
	Prompt     string `json:"prompt"`
	CustomerID string `json:"customerId"`
}

// generationResponse is the API shape of one generation.
type generationResponse struct {
	ID        string `json:"id"`
	Prompt    string `json:"prompt"`
	ImageURL  string `json:"imageUrl"`
	Provider  string `json:"provider"`
	CreatedAt string `json:"created_at"`
}

func recordToResponse(rec Record) generationResponse {
	return generationResponse{
		ID:        rec.ID,
		Prompt:    rec.Prompt,
		ImageURL:  rec.ImageURL,
		Provider:  string(rec.Provider),
		CreatedAt: rec.CreatedAt.Format(time.RFC3339),
	}
}

// GenerateHandler handles POST /api/generate.
func GenerateHandler(gateway *Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}

		record, err := gateway.Generate(r.Context(), req.Prompt, req.CustomerID)
		if err != nil {
			switch {
			case errors.Is(err, ErrEmptyPrompt):
				writeError(w, http.StatusBadRequest, "Prompt is required")
			case errors.Is(err, ErrNotConfigured):
				writeError(w, http.StatusServiceUnavailable, "Image provider not configured. Set GEMINI_API_KEY.")
			default:
				writeError(w, http.StatusInternalServerError, err.Error())
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success":  true,
			"imageUrl": record.ImageURL,
			"provider": string(record.Provider),
		})
	}
}

// ListHandler handles GET /api/generations, newest first.
func ListHandler(store *Store, limit int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := store.List(limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list generations: %v", err))
			return
		}
		generations := make([]generationResponse, len(records))
		for i, rec := range records {
			generations[i] = recordToResponse(rec)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":     true,
			"generations": generations,
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
