// ABOUTME: HTTP middleware for JWT authentication on API endpoints
// ABOUTME: Extracts JWT from Authorization header and adds the principal to context

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/reserv/reserveme/internal/store"
)

// UserLookup resolves a token subject to a registered user.
type UserLookup interface {
	GetUser(ctx context.Context, id string) (*store.User, error)
}

// extractBearerToken extracts a bearer token from the Authorization header.
// Returns the token and an error message (empty if successful).
func extractBearerToken(authHeader string) (string, string) {
	if authHeader == "" {
		return "", "missing authorization header"
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", "invalid authorization header format"
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", "empty token"
	}
	return token, ""
}

// resolvePrincipal verifies the bearer token and loads the matching user.
func resolvePrincipal(r *http.Request, users UserLookup, verifier TokenVerifier) (*Principal, string) {
	token, errMsg := extractBearerToken(r.Header.Get("Authorization"))
	if errMsg != "" {
		return nil, errMsg
	}

	userID, err := verifier.Verify(token)
	if err != nil {
		return nil, "invalid token"
	}

	user, err := users.GetUser(r.Context(), userID)
	if err != nil {
		return nil, "unknown user"
	}

	return &Principal{ID: user.ID, Email: user.Email, DisplayName: user.Name()}, ""
}

// RequireAuth creates an HTTP middleware that extracts and validates JWT
// tokens, rejecting unauthenticated requests with 401.
func RequireAuth(users UserLookup, verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, errMsg := resolvePrincipal(r, users, verifier)
			if errMsg != "" {
				w.Header().Set("Content-Type", "application/json")
				http.Error(w, `{"error":"`+errMsg+`"}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// OptionalAuth creates an HTTP middleware that attempts JWT auth but allows
// unauthenticated requests through. Used for public listings that show more to
// an authenticated owner.
func OptionalAuth(users UserLookup, verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, errMsg := resolvePrincipal(r, users, verifier)
			if errMsg != "" {
				next.ServeHTTP(w, r) // Continue as anonymous
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}
