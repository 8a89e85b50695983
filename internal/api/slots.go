// ABOUTME: Slot endpoints: public availability listings, creation, deletion
// ABOUTME: Booked slots are hidden from searchers but visible to their owner

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/reserv/reserveme/internal/auth"
	"github.com/reserv/reserveme/internal/store"
)

// CreateSlotRequest is the JSON request body for POST /api/slots.
// Times are ISO-8601.
type CreateSlotRequest struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// SlotResponse is the JSON representation of a slot with owner info.
type SlotResponse struct {
	ID        string `json:"id"`
	OwnerID   string `json:"ownerId"`
	OwnerName string `json:"ownerName,omitempty"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	CreatedAt string `json:"createdAt"`
}

func slotResponse(slot *store.Slot, ownerName string) SlotResponse {
	return SlotResponse{
		ID:        slot.ID,
		OwnerID:   slot.OwnerID,
		OwnerName: ownerName,
		StartTime: slot.StartTime.UTC().Format(time.RFC3339),
		EndTime:   slot.EndTime.UTC().Format(time.RFC3339),
		CreatedAt: slot.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func slotListResponse(slots []*store.SlotWithOwner) []SlotResponse {
	resp := make([]SlotResponse, 0, len(slots))
	for _, sw := range slots {
		resp = append(resp, slotResponse(&sw.Slot, sw.OwnerName))
	}
	return resp
}

// handleSlots handles GET /api/slots (public availability listing) and
// POST /api/slots (publish a slot, auth required).
func (s *Server) handleSlots(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		slots, err := s.slots.ListSlots(r.Context(), true)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, slotListResponse(slots))

	case http.MethodPost:
		principal := auth.FromContext(r.Context())
		if principal == nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
			return
		}

		var req CreateSlotRequest
		if err := decodeJSON(r, &req); err != nil {
			writeBadRequest(w, "invalid request body")
			return
		}

		slot, err := s.svc.CreateSlot(r.Context(), principal.ID, req.StartTime, req.EndTime)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, slotResponse(slot, principal.DisplayName))

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleSlotsByOwner handles GET /api/slots/byOwner?ownerId= requests.
// Booked slots are included only when the authenticated caller is the owner,
// which is the owner's own management view.
func (s *Server) handleSlotsByOwner(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ownerID := r.URL.Query().Get("ownerId")
	if ownerID == "" {
		writeBadRequest(w, "ownerId is required")
		return
	}

	onlyAvailable := true
	if principal := auth.FromContext(r.Context()); principal != nil && principal.ID == ownerID {
		onlyAvailable = false
	}

	slots, err := s.slots.ListSlotsByOwner(r.Context(), ownerID, onlyAvailable)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, slotListResponse(slots))
}

// handleSlotRoutes handles DELETE /api/slots/{id}.
func (s *Server) handleSlotRoutes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/slots/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	principal := auth.MustFromContext(r.Context())
	if err := s.svc.DeleteSlot(r.Context(), principal.ID, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
