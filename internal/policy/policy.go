// ABOUTME: Stateless access predicates for slot and reservation mutations
// ABOUTME: Evaluated by the booking coordinator before every state change

package policy

import (
	"errors"

	"github.com/reserv/reserveme/internal/store"
)

// ErrForbidden is returned when a principal may not perform the requested
// action. Violations always surface; they never silently no-op.
var ErrForbidden = errors.New("forbidden")

// CanBook reports whether a principal may request a booking against a slot.
// Owners cannot book their own slots.
func CanBook(principalID string, slot *store.Slot) bool {
	return principalID != slot.OwnerID
}

// CanConfirm reports whether a principal may confirm a reservation: they must
// own the slot and the reservation must still be ACTIVE.
func CanConfirm(principalID string, res *store.ReservationWithSlot) bool {
	return principalID == res.Slot.OwnerID && res.Status == store.ReservationActive
}

// CanReject reports whether a principal may reject a reservation.
// Same rule as CanConfirm: the slot owner, while the request is pending.
func CanReject(principalID string, res *store.ReservationWithSlot) bool {
	return CanConfirm(principalID, res)
}

// CanCancel reports whether a principal may cancel a reservation: either party
// (requester or slot owner), while the reservation is live.
func CanCancel(principalID string, res *store.ReservationWithSlot) bool {
	if principalID != res.RequesterID && principalID != res.Slot.OwnerID {
		return false
	}
	return res.Status == store.ReservationActive || res.Status == store.ReservationConfirmed
}

// CanDeleteSlot reports whether a principal may delete a slot: owner only.
// Whether the slot still carries a live reservation is the store's concern.
func CanDeleteSlot(principalID string, slot *store.Slot) bool {
	return principalID == slot.OwnerID
}
