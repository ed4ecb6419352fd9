package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// sessionClaims are the claims carried by a session token.
type sessionClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// IssueToken signs a session token for the given identity. Returns an
// empty string when no session secret is configured.
func IssueToken(cfg *Config, email, name string, isAdmin bool) (string, error) {
	if cfg.SessionSecret == "" {
		return "", nil
	}
	now := time.Now()
	claims := sessionClaims{
		Email:   email,
		Name:    name,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.SessionSecret))
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// verifyToken parses a session token and returns its claims.
func verifyToken(cfg *Config, raw string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(cfg.SessionSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}
	return claims, nil
}

// RequireAdmin returns middleware that rejects requests without a valid
// admin session token. Returns nil when no session secret is configured,
// which leaves the wrapped endpoints open (development mode).
func RequireAdmin(cfg *Config) func(http.Handler) http.Handler {
	if cfg.SessionSecret == "" {
		return nil
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				writeError(w, http.StatusUnauthorized, "missing session token")
				return
			}
			claims, err := verifyToken(cfg, raw)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid session token")
				return
			}
			if !claims.IsAdmin {
				writeError(w, http.StatusForbidden, "admin session required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
