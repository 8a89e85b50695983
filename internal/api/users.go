// ABOUTME: User listing and profile endpoints
// ABOUTME: GET /api/users, /api/users/me, and direct lookup by ID

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/reserv/reserveme/internal/auth"
	"github.com/reserv/reserveme/internal/store"
)

// UserResponse is the JSON representation of a user profile.
type UserResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	CreatedAt   string `json:"createdAt"`
}

func userResponse(u *store.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.Name(),
		CreatedAt:   u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// handleListUsers handles GET /api/users requests.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	users, err := s.users.ListUsers(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, userResponse(u))
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleUserRoutes handles GET /api/users/me and GET /api/users/{id}.
func (s *Server) handleUserRoutes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/users/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	if id == "me" {
		id = auth.MustFromContext(r.Context()).ID
	}

	user, err := s.users.GetUser(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse(user))
}
