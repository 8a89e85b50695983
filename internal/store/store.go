// ABOUTME: Store interfaces and data types for reserveme persistence
// ABOUTME: Defines User, Slot, Reservation structs and per-entity store interfaces

package store

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when registering an email that is already in use
var ErrDuplicateEmail = errors.New("email already in use")

// ErrSlotOverlap is returned when an owner creates a slot overlapping one of their existing slots
var ErrSlotOverlap = errors.New("slot overlaps an existing slot")

// ErrSlotBooked is returned when deleting a slot that carries a live reservation
var ErrSlotBooked = errors.New("slot has a live reservation")

// ErrSlotTaken is returned when booking a slot that already carries a live reservation
var ErrSlotTaken = errors.New("slot is already reserved")

// ErrNotActive is returned when confirming a reservation that is not in the ACTIVE state
var ErrNotActive = errors.New("reservation is not active")

// User represents a registered account. The engine treats users as principals;
// password hashes are stored only to back the register/login endpoints.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	DisplayName  string
	CreatedAt    time.Time
}

// Name returns the display name, falling back to the email local part when unset.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if at := strings.IndexByte(u.Email, '@'); at > 0 {
		return u.Email[:at]
	}
	return u.Email
}

// RefreshToken is a persisted, single-use refresh credential.
// Tokens are rotated: redeeming one deletes it and issues a replacement.
type RefreshToken struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Slot is an owner-published interval of availability.
// The owner is immutable after creation and start_time < end_time always holds.
type Slot struct {
	ID        string
	OwnerID   string
	StartTime time.Time
	EndTime   time.Time
	CreatedAt time.Time
}

// SlotWithOwner is a slot joined with its owner's display name for listings.
type SlotWithOwner struct {
	Slot
	OwnerName string
}

// Reservation status values. Every persisted reservation is live: rejection and
// cancellation delete the row, which is what makes the slot bookable again.
const (
	ReservationActive    = "ACTIVE"
	ReservationConfirmed = "CONFIRMED"
)

// Reservation is a requester's claim against a slot.
type Reservation struct {
	ID          string
	SlotID      string
	RequesterID string
	Status      string
	CreatedAt   time.Time
}

// ReservationWithSlot is a reservation joined with its slot, used for
// authorization checks and per-user listings.
type ReservationWithSlot struct {
	Reservation
	Slot Slot
}

// UserStore defines user and refresh-token persistence
type UserStore interface {
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)

	CreateRefreshToken(ctx context.Context, token *RefreshToken) error
	GetRefreshToken(ctx context.Context, id string) (*RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, id string) error
	DeleteExpiredRefreshTokens(ctx context.Context) error
}

// SlotStore defines slot persistence
type SlotStore interface {
	CreateSlot(ctx context.Context, slot *Slot) error
	GetSlot(ctx context.Context, id string) (*Slot, error)
	DeleteSlot(ctx context.Context, id string) error
	ListSlots(ctx context.Context, onlyAvailable bool) ([]*SlotWithOwner, error)
	ListSlotsByOwner(ctx context.Context, ownerID string, onlyAvailable bool) ([]*SlotWithOwner, error)
}

// ReservationStore defines reservation persistence and the storage-level
// transitions of the reservation state machine
type ReservationStore interface {
	CreateReservation(ctx context.Context, res *Reservation) error
	GetReservation(ctx context.Context, id string) (*ReservationWithSlot, error)
	ConfirmReservation(ctx context.Context, id string) error
	DeleteReservation(ctx context.Context, id string) error
	ListReservationsForUser(ctx context.Context, userID string) ([]*ReservationWithSlot, error)
	ListReservationsBySlot(ctx context.Context, slotID string) ([]*ReservationWithSlot, error)
}
