// ABOUTME: Registration, login, and refresh-token endpoints
// ABOUTME: Issues JWT access tokens and rotating persisted refresh tokens

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/reserv/reserveme/internal/auth"
	"github.com/reserv/reserveme/internal/store"
)

// RegisterRequest is the JSON request body for POST /api/auth/register.
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName,omitempty"`
}

// LoginRequest is the JSON request body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest is the JSON request body for POST /api/auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// AuthResponse is the JSON response for all auth endpoints.
type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// handleRegister handles POST /api/auth/register requests.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeBadRequest(w, "email and password are required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	user := &store.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		PasswordHash: hash,
		DisplayName:  req.DisplayName,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.CreateUser(r.Context(), user); err != nil {
		s.writeError(w, r, err)
		return
	}

	resp, err := s.issueTokens(r.Context(), user.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info("user registered", "user_id", user.ID, "email", user.Email)
	writeJSON(w, http.StatusCreated, resp)
}

// handleLogin handles POST /api/auth/login requests.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	user, err := s.users.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			err = auth.ErrInvalidCredentials
		}
		s.writeError(w, r, err)
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		s.writeError(w, r, err)
		return
	}

	resp, err := s.issueTokens(r.Context(), user.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	writeJSON(w, http.StatusOK, resp)
}

// handleRefresh handles POST /api/auth/refresh requests.
// The presented refresh token is rotated: it is deleted and a new one issued
// alongside the fresh access token.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req RefreshRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	token, err := s.users.GetRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			err = auth.ErrInvalidCredentials
		}
		s.writeError(w, r, err)
		return
	}

	if err := s.users.DeleteRefreshToken(r.Context(), token.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		s.writeError(w, r, err)
		return
	}

	if token.ExpiresAt.Before(time.Now()) {
		s.writeError(w, r, auth.ErrInvalidCredentials)
		return
	}

	resp, err := s.issueTokens(r.Context(), token.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// issueTokens generates an access token and persists a fresh refresh token.
func (s *Server) issueTokens(ctx context.Context, userID string) (*AuthResponse, error) {
	access, err := s.verifier.Generate(userID, s.accessTTL)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	refresh := &store.RefreshToken{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.refreshTTL),
	}
	if err := s.users.CreateRefreshToken(ctx, refresh); err != nil {
		return nil, err
	}

	return &AuthResponse{AccessToken: access, RefreshToken: refresh.ID}, nil
}
