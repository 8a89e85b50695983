// Package booking implements the availability coordinator.
//
// The coordinator owns the reservation state machine:
//
//	ACTIVE -> CONFIRMED   (owner confirms)
//	ACTIVE -> deleted     (owner rejects)
//	ACTIVE | CONFIRMED -> deleted  (either party cancels)
//
// No state is reachable from deleted. Every mutation evaluates the access
// policy first and then performs a store transition that is atomic with
// respect to the invariant it touches: booking relies on the store's unique
// live-reservation-per-slot index, confirmation on a status-conditional
// update. The coordinator itself holds no locks and no state.
package booking
