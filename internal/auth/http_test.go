// ABOUTME: Tests for the authentication middlewares
// ABOUTME: Covers required auth rejection and optional anonymous passthrough

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/reserv/reserveme/internal/store"
)

// fakeLookup resolves a fixed set of users by ID.
type fakeLookup map[string]*store.User

func (f fakeLookup) GetUser(_ context.Context, id string) (*store.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

func testSetup(t *testing.T) (*JWTVerifier, fakeLookup, string) {
	t.Helper()
	verifier := NewJWTVerifier([]byte("test-secret"))
	users := fakeLookup{
		"user-1": {ID: "user-1", Email: "alice@example.com", DisplayName: "Alice"},
	}
	token, err := verifier.Generate("user-1", time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	return verifier, users, token
}

func principalEcho(captured **Principal) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth(t *testing.T) {
	verifier, users, token := testSetup(t)

	var captured *Principal
	handler := RequireAuth(users, verifier)(principalEcho(&captured))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if captured == nil {
		t.Fatal("principal not attached to context")
	}
	if captured.ID != "user-1" || captured.DisplayName != "Alice" {
		t.Errorf("principal = %+v, want user-1/Alice", captured)
	}
}

func TestRequireAuth_Rejections(t *testing.T) {
	verifier, users, _ := testSetup(t)
	other := NewJWTVerifier([]byte("other-secret"))

	unknownToken, err := verifier.Generate("user-unknown", time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	forgedToken, err := other.Generate("user-1", time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"empty token", "Bearer "},
		{"forged token", "Bearer " + forgedToken},
		{"unknown user", "Bearer " + unknownToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured *Principal
			handler := RequireAuth(users, verifier)(principalEcho(&captured))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
			if captured != nil {
				t.Error("handler ran despite failed auth")
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	verifier, users, token := testSetup(t)

	t.Run("authenticated", func(t *testing.T) {
		var captured *Principal
		handler := OptionalAuth(users, verifier)(principalEcho(&captured))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if captured == nil || captured.ID != "user-1" {
			t.Errorf("principal = %+v, want user-1", captured)
		}
	})

	t.Run("anonymous", func(t *testing.T) {
		var captured *Principal
		handler := OptionalAuth(users, verifier)(principalEcho(&captured))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if captured != nil {
			t.Errorf("principal = %+v, want nil for anonymous request", captured)
		}
	})
}

func TestMustFromContext_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustFromContext did not panic on empty context")
		}
	}()
	MustFromContext(context.Background())
}
