// ABOUTME: HTTP server wiring for the reserveme API
// ABOUTME: Route registration, JSON helpers, and error-to-status mapping

package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/reserv/reserveme/internal/auth"
	"github.com/reserv/reserveme/internal/booking"
	"github.com/reserv/reserveme/internal/policy"
	"github.com/reserv/reserveme/internal/store"
)

// Server exposes the reservation engine over the HTTP JSON contract.
type Server struct {
	users    store.UserStore
	slots    store.SlotStore
	svc      *booking.Service
	verifier *auth.JWTVerifier

	accessTTL  time.Duration
	refreshTTL time.Duration

	logger *slog.Logger
}

// NewServer creates an API server over the given stores and coordinator.
func NewServer(users store.UserStore, slots store.SlotStore, svc *booking.Service, verifier *auth.JWTVerifier, accessTTL, refreshTTL time.Duration, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		users:      users,
		slots:      slots,
		svc:        svc,
		verifier:   verifier,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		logger:     logger.With("component", "api"),
	}
}

// Handler returns the root HTTP handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	requireAuth := auth.RequireAuth(s.users, s.verifier)
	optionalAuth := auth.OptionalAuth(s.users, s.verifier)

	mux.HandleFunc("/health", s.handleHealth)

	mux.HandleFunc("/api/auth/register", s.handleRegister)
	mux.HandleFunc("/api/auth/login", s.handleLogin)
	mux.HandleFunc("/api/auth/refresh", s.handleRefresh)

	mux.Handle("/api/users", requireAuth(http.HandlerFunc(s.handleListUsers)))
	mux.Handle("/api/users/", requireAuth(http.HandlerFunc(s.handleUserRoutes)))

	mux.Handle("/api/slots", optionalAuth(http.HandlerFunc(s.handleSlots)))
	mux.Handle("/api/slots/byOwner", optionalAuth(http.HandlerFunc(s.handleSlotsByOwner)))
	mux.Handle("/api/slots/", requireAuth(http.HandlerFunc(s.handleSlotRoutes)))

	mux.Handle("/api/reservations", requireAuth(http.HandlerFunc(s.handleReservations)))
	mux.Handle("/api/reservations/bySlot", requireAuth(http.HandlerFunc(s.handleReservationsBySlot)))
	mux.Handle("/api/reservations/", requireAuth(http.HandlerFunc(s.handleReservationRoutes)))

	return mux
}

// handleHealth handles GET /health requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// errorResponse is the JSON body for every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps an engine error onto the HTTP status taxonomy. Anything
// outside the taxonomy is treated as a transient storage failure: the stores
// are the only source of unclassified errors reaching this layer, and 503 is
// the one status a client may safely retry.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	msg := err.Error()

	switch {
	case errors.Is(err, booking.ErrInvalidInterval):
		status = http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, policy.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrDuplicateEmail),
		errors.Is(err, store.ErrSlotOverlap),
		errors.Is(err, store.ErrSlotBooked),
		errors.Is(err, store.ErrSlotTaken),
		errors.Is(err, store.ErrNotActive):
		status = http.StatusConflict
	default:
		status = http.StatusServiceUnavailable
		msg = "storage unavailable"
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	if status < http.StatusInternalServerError {
		s.logger.Warn("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeBadRequest rejects a malformed request body or parameter.
func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// decodeJSON decodes a request body, rejecting unknown fields and trailing content.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected trailing content")
	}
	return nil
}
