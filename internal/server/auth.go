package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/leadrail/leadrail/internal/core/domain"
	"github.com/leadrail/leadrail/internal/core/ports"
)

// sessionKey is the context key for the authenticated session.
type sessionKey struct{}

// HashAPIKey creates the SHA-256 hash under which API keys are stored.
func HashAPIKey(apiKey string) string {
	hash := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(hash[:])
}

// AuthMiddleware validates bearer API keys against the session store and
// injects the caller's session into the request context.
func AuthMiddleware(sessions ports.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey, err := extractBearer(r)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			sess, err := sessions.GetSessionByKeyHash(r.Context(), HashAPIKey(apiKey))
			if err != nil {
				http.Error(w, "invalid API key", http.StatusUnauthorized)
				return
			}

			AddLogField(r.Context(), "owner_id", sess.OwnerID)

			ctx := context.WithValue(r.Context(), sessionKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSession retrieves the authenticated session from context.
// Returns nil if no session is set.
func GetSession(ctx context.Context) *domain.Session {
	if sess, ok := ctx.Value(sessionKey{}).(*domain.Session); ok {
		return sess
	}
	return nil
}

func extractBearer(r *http.Request) (string, error) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return "", errMissingAuth
	}

	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", errBadAuthFormat
	}
	return parts[1], nil
}

var (
	errMissingAuth   = &authError{"missing Authorization header"}
	errBadAuthFormat = &authError{"invalid Authorization header format"}
)

type authError struct{ msg string }

func (e *authError) Error() string { return e.msg }
