// ABOUTME: Availability coordinator: the sole writer-of-record for slot and reservation state
// ABOUTME: Evaluates access policy, then drives atomic store transitions

package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/reserv/reserveme/internal/policy"
	"github.com/reserv/reserveme/internal/store"
)

// ErrInvalidInterval is returned when a slot's start time is not before its end time
var ErrInvalidInterval = errors.New("invalid start/end time")

// Reservation kinds relative to a user, computed at view time and never stored.
const (
	KindIncoming  = "incoming"  // user owns the slot, request pending
	KindOutgoing  = "outgoing"  // user requested the slot, awaiting the owner
	KindConfirmed = "confirmed" // committed to both parties
)

// View is a reservation classified relative to one user.
type View struct {
	*store.ReservationWithSlot
	Kind string
}

// Service coordinates the slot and reservation lifecycle. All mutation goes
// through here: policy first, then the store transition that holds the
// one-live-reservation-per-slot invariant.
type Service struct {
	slots        store.SlotStore
	reservations store.ReservationStore
	logger       *slog.Logger
}

// NewService creates a coordinator over the given stores.
func NewService(slots store.SlotStore, reservations store.ReservationStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		slots:        slots,
		reservations: reservations,
		logger:       logger.With("component", "booking"),
	}
}

// CreateSlot publishes a new availability slot for the principal.
// Returns ErrInvalidInterval unless start < end; the store rejects intervals
// overlapping another slot of the same owner with store.ErrSlotOverlap.
func (s *Service) CreateSlot(ctx context.Context, principalID string, start, end time.Time) (*store.Slot, error) {
	if start.IsZero() || end.IsZero() || !start.Before(end) {
		return nil, ErrInvalidInterval
	}

	slot := &store.Slot{
		ID:        uuid.New().String(),
		OwnerID:   principalID,
		StartTime: start.UTC(),
		EndTime:   end.UTC(),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.slots.CreateSlot(ctx, slot); err != nil {
		return nil, err
	}

	s.logger.Info("slot created", "slot_id", slot.ID, "owner_id", principalID)
	return slot, nil
}

// DeleteSlot removes one of the principal's slots.
// Fails with policy.ErrForbidden if the principal is not the owner and with
// store.ErrSlotBooked while a live reservation exists; the reservation must be
// rejected or cancelled first, so a counterpart's booking is never dropped
// silently.
func (s *Service) DeleteSlot(ctx context.Context, principalID, slotID string) error {
	slot, err := s.slots.GetSlot(ctx, slotID)
	if err != nil {
		return err
	}
	if !policy.CanDeleteSlot(principalID, slot) {
		return fmt.Errorf("%w: not the slot owner", policy.ErrForbidden)
	}

	if err := s.slots.DeleteSlot(ctx, slotID); err != nil {
		return err
	}

	s.logger.Info("slot deleted", "slot_id", slotID, "owner_id", principalID)
	return nil
}

// RequestBooking creates an ACTIVE reservation against a slot.
// Fails with store.ErrNotFound if the slot is absent, policy.ErrForbidden if
// the principal owns the slot, and store.ErrSlotTaken if the slot already
// carries a live reservation. The taken check and the insert are one atomic
// store operation, so two concurrent requests can never both succeed.
func (s *Service) RequestBooking(ctx context.Context, principalID, slotID string) (*store.Reservation, error) {
	slot, err := s.slots.GetSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if !policy.CanBook(principalID, slot) {
		return nil, fmt.Errorf("%w: cannot book your own slot", policy.ErrForbidden)
	}

	res := &store.Reservation{
		ID:          uuid.New().String(),
		SlotID:      slotID,
		RequesterID: principalID,
		Status:      store.ReservationActive,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.reservations.CreateReservation(ctx, res); err != nil {
		return nil, err
	}

	s.logger.Info("booking requested", "reservation_id", res.ID, "slot_id", slotID, "requester_id", principalID)
	return res, nil
}

// Confirm transitions a reservation from ACTIVE to CONFIRMED.
// Only the slot owner may confirm; anyone else gets policy.ErrForbidden. A
// reservation past ACTIVE fails with store.ErrNotActive, so confirming twice
// succeeds exactly once.
func (s *Service) Confirm(ctx context.Context, principalID, reservationID string) (*store.ReservationWithSlot, error) {
	res, err := s.reservations.GetReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if principalID != res.Slot.OwnerID {
		return nil, fmt.Errorf("%w: not the slot owner", policy.ErrForbidden)
	}
	if !policy.CanConfirm(principalID, res) {
		// Owner, but the reservation is already past ACTIVE
		return nil, store.ErrNotActive
	}

	if err := s.reservations.ConfirmReservation(ctx, reservationID); err != nil {
		return nil, err
	}

	res.Status = store.ReservationConfirmed
	s.logger.Info("reservation confirmed", "reservation_id", reservationID, "owner_id", principalID)
	return res, nil
}

// Cancel deletes a reservation, returning its slot to availability. Covers
// both the owner's reject (while ACTIVE) and either party's cancel (while
// ACTIVE or CONFIRMED); deletion is the terminal signal either way. Repeating
// the call fails with store.ErrNotFound rather than succeeding silently.
func (s *Service) Cancel(ctx context.Context, principalID, reservationID string) error {
	res, err := s.reservations.GetReservation(ctx, reservationID)
	if err != nil {
		return err
	}
	if !policy.CanCancel(principalID, res) {
		return fmt.Errorf("%w: not a party to this reservation", policy.ErrForbidden)
	}

	if err := s.reservations.DeleteReservation(ctx, reservationID); err != nil {
		return err
	}

	action := "cancelled"
	if principalID == res.Slot.OwnerID && res.Status == store.ReservationActive {
		action = "rejected"
	}
	s.logger.Info("reservation "+action, "reservation_id", reservationID, "caller_id", principalID, "slot_id", res.SlotID)
	return nil
}

// ListForUser returns all reservations touching a user, each classified
// relative to that user.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]*View, error) {
	reservations, err := s.reservations.ListReservationsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]*View, 0, len(reservations))
	for _, r := range reservations {
		views = append(views, &View{ReservationWithSlot: r, Kind: Classify(userID, r)})
	}
	return views, nil
}

// ListBySlot returns the reservations against one slot.
func (s *Service) ListBySlot(ctx context.Context, slotID string) ([]*store.ReservationWithSlot, error) {
	return s.reservations.ListReservationsBySlot(ctx, slotID)
}

// Classify labels a reservation relative to a user: incoming requests await
// the user's decision as slot owner, outgoing requests await someone else's,
// and confirmed reservations are committed to both parties.
func Classify(userID string, res *store.ReservationWithSlot) string {
	if res.Status == store.ReservationConfirmed {
		return KindConfirmed
	}
	if userID == res.Slot.OwnerID && userID != res.RequesterID {
		return KindIncoming
	}
	return KindOutgoing
}
