// ABOUTME: Slot store methods on SQLiteStore
// ABOUTME: Overlap-checked creation, conditional deletion, and availability-filtered listings

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// CreateSlot creates a new availability slot.
// Returns ErrSlotOverlap if the owner already has a slot intersecting
// [StartTime, EndTime). The overlap check and insert run in one transaction.
func (s *SQLiteStore) CreateSlot(ctx context.Context, slot *Slot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	start := slot.StartTime.UTC().Format(time.RFC3339)
	end := slot.EndTime.UTC().Format(time.RFC3339)

	var overlaps int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM slots
		WHERE owner_id = ? AND start_time < ? AND end_time > ?
	`, slot.OwnerID, end, start).Scan(&overlaps)
	if err != nil {
		return fmt.Errorf("checking slot overlap: %w", err)
	}
	if overlaps > 0 {
		return ErrSlotOverlap
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO slots (id, owner_id, start_time, end_time, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, slot.ID, slot.OwnerID, start, end, slot.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting slot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing slot insert: %w", err)
	}

	s.logger.Debug("created slot", "id", slot.ID, "owner_id", slot.OwnerID)
	return nil
}

// GetSlot retrieves a slot by ID.
// Returns ErrNotFound if the slot doesn't exist.
func (s *SQLiteStore) GetSlot(ctx context.Context, id string) (*Slot, error) {
	query := `
		SELECT id, owner_id, start_time, end_time, created_at
		FROM slots
		WHERE id = ?
	`

	var slot Slot
	var startStr, endStr, createdAtStr string

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&slot.ID, &slot.OwnerID, &startStr, &endStr, &createdAtStr,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying slot: %w", err)
	}

	if err := parseSlotTimes(&slot, startStr, endStr, createdAtStr); err != nil {
		return nil, err
	}
	return &slot, nil
}

// DeleteSlot removes a slot.
// Returns ErrNotFound if the slot doesn't exist and ErrSlotBooked if it still
// carries a live reservation; the reservation must be rejected or cancelled first.
func (s *SQLiteStore) DeleteSlot(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var reserved int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM reservations WHERE slot_id = ?`, id).Scan(&reserved)
	if err != nil {
		return fmt.Errorf("checking slot reservations: %w", err)
	}
	if reserved > 0 {
		return ErrSlotBooked
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM slots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting slot: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing slot delete: %w", err)
	}

	s.logger.Debug("deleted slot", "id", id)
	return nil
}

// ListSlots returns slots joined with their owner's name, ordered by start time
// ascending. With onlyAvailable set, slots carrying a live reservation are
// excluded, which is what hides booked slots from public availability listings.
func (s *SQLiteStore) ListSlots(ctx context.Context, onlyAvailable bool) ([]*SlotWithOwner, error) {
	query := `
		SELECT s.id, s.owner_id, s.start_time, s.end_time, s.created_at,
		       u.display_name, u.email
		FROM slots s
		JOIN users u ON u.id = s.owner_id
	`
	if onlyAvailable {
		query += ` WHERE NOT EXISTS (SELECT 1 FROM reservations r WHERE r.slot_id = s.id)`
	}
	query += ` ORDER BY s.start_time ASC`

	return s.querySlots(ctx, query)
}

// ListSlotsByOwner returns one owner's slots ordered by start time ascending.
// With onlyAvailable set, booked slots are excluded; the owner's own management
// view passes false to see everything they published.
func (s *SQLiteStore) ListSlotsByOwner(ctx context.Context, ownerID string, onlyAvailable bool) ([]*SlotWithOwner, error) {
	query := `
		SELECT s.id, s.owner_id, s.start_time, s.end_time, s.created_at,
		       u.display_name, u.email
		FROM slots s
		JOIN users u ON u.id = s.owner_id
		WHERE s.owner_id = ?
	`
	if onlyAvailable {
		query += ` AND NOT EXISTS (SELECT 1 FROM reservations r WHERE r.slot_id = s.id)`
	}
	query += ` ORDER BY s.start_time ASC`

	return s.querySlots(ctx, query, ownerID)
}

func (s *SQLiteStore) querySlots(ctx context.Context, query string, args ...any) ([]*SlotWithOwner, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying slots: %w", err)
	}
	defer rows.Close()

	var slots []*SlotWithOwner
	for rows.Next() {
		var sw SlotWithOwner
		var startStr, endStr, createdAtStr, ownerEmail string
		var ownerDisplay sql.NullString

		if err := rows.Scan(&sw.ID, &sw.OwnerID, &startStr, &endStr, &createdAtStr, &ownerDisplay, &ownerEmail); err != nil {
			return nil, fmt.Errorf("scanning slot row: %w", err)
		}
		if err := parseSlotTimes(&sw.Slot, startStr, endStr, createdAtStr); err != nil {
			return nil, err
		}
		owner := User{Email: ownerEmail, DisplayName: ownerDisplay.String}
		sw.OwnerName = owner.Name()
		slots = append(slots, &sw)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating slot rows: %w", err)
	}
	return slots, nil
}

func parseSlotTimes(slot *Slot, startStr, endStr, createdAtStr string) error {
	var err error
	slot.StartTime, err = time.Parse(time.RFC3339, startStr)
	if err != nil {
		return fmt.Errorf("parsing start_time: %w", err)
	}
	slot.EndTime, err = time.Parse(time.RFC3339, endStr)
	if err != nil {
		return fmt.Errorf("parsing end_time: %w", err)
	}
	slot.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return fmt.Errorf("parsing created_at: %w", err)
	}
	return nil
}
