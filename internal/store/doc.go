// Package store provides persistent storage for reserveme using SQLite.
//
// # Architecture
//
// The store package uses an interface-driven architecture with one interface
// per entity family:
//
//   - UserStore: registered accounts and rotating refresh tokens
//   - SlotStore: published availability slots
//   - ReservationStore: reservations and their storage-level state transitions
//
// SQLiteStore implements all interfaces in a single struct, allowing easy
// composition while maintaining clear interface boundaries.
//
// # Data Models
//
//   - User: registered account; doubles as the principal identity
//   - RefreshToken: single-use credential backing POST /api/auth/refresh
//   - Slot: an owner-published interval of availability
//   - Reservation: a requester's claim against a slot (ACTIVE or CONFIRMED)
//
// Rejected and cancelled reservations are deleted rather than kept as
// terminal rows. That choice is load-bearing: because every persisted
// reservation is live, a UNIQUE index on reservations(slot_id) enforces the
// at-most-one-live-reservation-per-slot invariant at the storage layer, so
// concurrent bookings against the same slot cannot both succeed.
//
// # SQLite Configuration
//
// The store uses SQLite with WAL mode for concurrent reads:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//
// Timestamps are stored as RFC3339 UTC strings.
//
// # Error Handling
//
// Common errors:
//
//   - ErrNotFound: requested entity does not exist
//   - ErrDuplicateEmail: email already registered
//   - ErrSlotOverlap: owner already has a slot intersecting the interval
//   - ErrSlotTaken: slot already carries a live reservation
//   - ErrSlotBooked: slot cannot be deleted while a live reservation exists
//   - ErrNotActive: reservation is past the ACTIVE state
//
// All methods accept context.Context for cancellation support.
package store
