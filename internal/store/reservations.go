// ABOUTME: Reservation store methods on SQLiteStore
// ABOUTME: Conditional insert under the per-slot unique index, confirm, delete, listings

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// CreateReservation inserts a new reservation.
// The unique index on slot_id makes the existence check and the insert a single
// atomic operation: of N concurrent inserts against the same slot, exactly one
// succeeds and the rest get ErrSlotTaken.
func (s *SQLiteStore) CreateReservation(ctx context.Context, res *Reservation) error {
	query := `
		INSERT INTO reservations (id, slot_id, requester_id, status, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		res.ID,
		res.SlotID,
		res.RequesterID,
		res.Status,
		res.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("inserting reservation: %w", err)
	}

	s.logger.Debug("created reservation", "id", res.ID, "slot_id", res.SlotID, "requester_id", res.RequesterID)
	return nil
}

// GetReservation retrieves a reservation joined with its slot.
// Returns ErrNotFound if the reservation doesn't exist.
func (s *SQLiteStore) GetReservation(ctx context.Context, id string) (*ReservationWithSlot, error) {
	query := reservationSelect + ` WHERE r.id = ?`

	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("querying reservation: %w", err)
	}
	defer rows.Close()

	reservations, err := scanReservations(rows)
	if err != nil {
		return nil, err
	}
	if len(reservations) == 0 {
		return nil, ErrNotFound
	}
	return reservations[0], nil
}

// ConfirmReservation transitions a reservation from ACTIVE to CONFIRMED.
// The update is conditional on the current status, so two concurrent confirms
// cannot both succeed. Returns ErrNotFound if the reservation doesn't exist and
// ErrNotActive if it is already confirmed.
func (s *SQLiteStore) ConfirmReservation(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE reservations SET status = ? WHERE id = ? AND status = ?
	`, ReservationConfirmed, id, ReservationActive)
	if err != nil {
		return fmt.Errorf("confirming reservation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		// Distinguish a missing reservation from one already past ACTIVE
		var status string
		err := s.db.QueryRowContext(ctx, `SELECT status FROM reservations WHERE id = ?`, id).Scan(&status)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("querying reservation status: %w", err)
		}
		return ErrNotActive
	}

	s.logger.Debug("confirmed reservation", "id", id)
	return nil
}

// DeleteReservation removes a reservation, returning its slot to availability.
// Returns ErrNotFound if the reservation doesn't exist, so duplicate client
// retries of reject/cancel are observable rather than silent no-ops.
func (s *SQLiteStore) DeleteReservation(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting reservation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Debug("deleted reservation", "id", id)
	return nil
}

// ListReservationsForUser returns reservations touching the user: requested by
// them or placed against a slot they own, oldest first.
func (s *SQLiteStore) ListReservationsForUser(ctx context.Context, userID string) ([]*ReservationWithSlot, error) {
	query := reservationSelect + `
		WHERE r.requester_id = ? OR s.owner_id = ?
		ORDER BY r.created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("querying reservations for user: %w", err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// ListReservationsBySlot returns reservations against one slot, oldest first.
// The unique slot index means this is at most one row, but the shape matches
// the other listings for the bySlot endpoint.
func (s *SQLiteStore) ListReservationsBySlot(ctx context.Context, slotID string) ([]*ReservationWithSlot, error) {
	query := reservationSelect + `
		WHERE r.slot_id = ?
		ORDER BY r.created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, slotID)
	if err != nil {
		return nil, fmt.Errorf("querying reservations for slot: %w", err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

const reservationSelect = `
	SELECT r.id, r.slot_id, r.requester_id, r.status, r.created_at,
	       s.id, s.owner_id, s.start_time, s.end_time, s.created_at
	FROM reservations r
	JOIN slots s ON s.id = r.slot_id
`

func scanReservations(rows *sql.Rows) ([]*ReservationWithSlot, error) {
	var reservations []*ReservationWithSlot
	for rows.Next() {
		var rw ReservationWithSlot
		var createdAtStr, slotStartStr, slotEndStr, slotCreatedStr string

		if err := rows.Scan(
			&rw.ID, &rw.SlotID, &rw.RequesterID, &rw.Status, &createdAtStr,
			&rw.Slot.ID, &rw.Slot.OwnerID, &slotStartStr, &slotEndStr, &slotCreatedStr,
		); err != nil {
			return nil, fmt.Errorf("scanning reservation row: %w", err)
		}

		var err error
		rw.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		if err := parseSlotTimes(&rw.Slot, slotStartStr, slotEndStr, slotCreatedStr); err != nil {
			return nil, err
		}

		reservations = append(reservations, &rw)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reservation rows: %w", err)
	}
	return reservations, nil
}
