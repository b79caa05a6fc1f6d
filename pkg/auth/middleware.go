// Package auth gates admin-only routes behind a shared secret header.
package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
)

// AdminKeyHeader carries the shared admin secret.
const AdminKeyHeader = "X-Admin-Key"

// RequireAdminKey rejects requests whose X-Admin-Key header does not equal
// secret with 401. An empty secret rejects every request, so leaving
// ADMIN_KEY unset keeps the admin routes closed.
func RequireAdminKey(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !ValidAdminKey(secret, r.Header.Get(AdminKeyHeader)) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ValidAdminKey reports whether presented equals secret. Both must be non-empty.
func ValidAdminKey(secret, presented string) bool {
	if secret == "" || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(presented)) == 1
}
