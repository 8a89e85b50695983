// ABOUTME: Reservation endpoints: booking, confirm, reject/cancel, listings
// ABOUTME: Delegates every mutation to the booking coordinator

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/reserv/reserveme/internal/auth"
	"github.com/reserv/reserveme/internal/booking"
	"github.com/reserv/reserveme/internal/store"
)

// CreateReservationRequest is the JSON request body for POST /api/reservations.
type CreateReservationRequest struct {
	SlotID string `json:"slotId"`
}

// ReservationResponse is the JSON representation of a reservation. Kind is a
// view-level classification relative to the queried user, never stored state.
type ReservationResponse struct {
	ID          string        `json:"id"`
	SlotID      string        `json:"slotId"`
	RequesterID string        `json:"requesterId"`
	Status      string        `json:"status"`
	CreatedAt   string        `json:"createdAt"`
	Kind        string        `json:"kind,omitempty"`
	Slot        *SlotResponse `json:"slot,omitempty"`
}

func reservationResponse(res *store.Reservation, slot *store.Slot, kind string) ReservationResponse {
	resp := ReservationResponse{
		ID:          res.ID,
		SlotID:      res.SlotID,
		RequesterID: res.RequesterID,
		Status:      res.Status,
		CreatedAt:   res.CreatedAt.UTC().Format(time.RFC3339),
		Kind:        kind,
	}
	if slot != nil {
		sr := slotResponse(slot, "")
		resp.Slot = &sr
	}
	return resp
}

// handleReservations handles POST /api/reservations (request a booking) and
// GET /api/reservations?userId= (reservations touching that user).
func (s *Server) handleReservations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		principal := auth.MustFromContext(r.Context())

		var req CreateReservationRequest
		if err := decodeJSON(r, &req); err != nil {
			writeBadRequest(w, "invalid request body")
			return
		}
		if req.SlotID == "" {
			writeBadRequest(w, "slotId is required")
			return
		}

		res, err := s.svc.RequestBooking(r.Context(), principal.ID, req.SlotID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, reservationResponse(res, nil, ""))

	case http.MethodGet:
		userID := r.URL.Query().Get("userId")
		if userID == "" {
			userID = auth.MustFromContext(r.Context()).ID
		}

		views, err := s.svc.ListForUser(r.Context(), userID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		resp := make([]ReservationResponse, 0, len(views))
		for _, v := range views {
			resp = append(resp, reservationResponse(&v.Reservation, &v.Slot, v.Kind))
		}
		writeJSON(w, http.StatusOK, resp)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleReservationsBySlot handles GET /api/reservations/bySlot?slotId= requests.
func (s *Server) handleReservationsBySlot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	slotID := r.URL.Query().Get("slotId")
	if slotID == "" {
		writeBadRequest(w, "slotId is required")
		return
	}

	reservations, err := s.svc.ListBySlot(r.Context(), slotID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := make([]ReservationResponse, 0, len(reservations))
	for _, res := range reservations {
		resp = append(resp, reservationResponse(&res.Reservation, &res.Slot, ""))
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleReservationRoutes handles PUT /api/reservations/{id}/confirm and
// DELETE /api/reservations/{id} (reject or cancel).
func (s *Server) handleReservationRoutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/reservations/")
	principal := auth.MustFromContext(r.Context())

	if id, ok := strings.CutSuffix(rest, "/confirm"); ok {
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		res, err := s.svc.Confirm(r.Context(), principal.ID, id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, reservationResponse(&res.Reservation, &res.Slot, booking.Classify(principal.ID, res)))
		return
	}

	if rest == "" || strings.Contains(rest, "/") {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := s.svc.Cancel(r.Context(), principal.ID, rest); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
