// ABOUTME: SQLite implementation of the store interfaces using modernc.org/sqlite
// ABOUTME: Provides user/slot/reservation persistence with automatic schema creation

package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the store interfaces using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	// Pragmas go in the DSN so every pooled connection gets them: WAL for
	// concurrent readers, foreign keys enforced, and a busy timeout that
	// queues concurrent writers instead of failing with SQLITE_BUSY.
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist.
// Timestamps are stored as RFC3339 UTC strings, so lexicographic comparison
// matches chronological comparison.
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			display_name  TEXT,
			created_at    TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

		CREATE TABLE IF NOT EXISTS refresh_tokens (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TEXT NOT NULL,
			expires_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_refresh_tokens_user ON refresh_tokens(user_id);
		CREATE INDEX IF NOT EXISTS idx_refresh_tokens_expires ON refresh_tokens(expires_at);

		CREATE TABLE IF NOT EXISTS slots (
			id         TEXT PRIMARY KEY,
			owner_id   TEXT NOT NULL REFERENCES users(id),
			start_time TEXT NOT NULL,
			end_time   TEXT NOT NULL,
			created_at TEXT NOT NULL,

			CHECK (start_time < end_time)
		);

		CREATE INDEX IF NOT EXISTS idx_slots_owner ON slots(owner_id);
		CREATE INDEX IF NOT EXISTS idx_slots_start ON slots(start_time);

		CREATE TABLE IF NOT EXISTS reservations (
			id           TEXT PRIMARY KEY,
			slot_id      TEXT NOT NULL REFERENCES slots(id),
			requester_id TEXT NOT NULL REFERENCES users(id),
			status       TEXT NOT NULL,
			created_at   TEXT NOT NULL,

			CHECK (status IN ('ACTIVE', 'CONFIRMED'))
		);

		-- Every persisted reservation is live (deleted rows are the terminal state),
		-- so this index is the at-most-one-live-reservation-per-slot guarantee.
		CREATE UNIQUE INDEX IF NOT EXISTS idx_reservations_slot ON reservations(slot_id);
		CREATE INDEX IF NOT EXISTS idx_reservations_requester ON reservations(requester_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	s.logger.Info("closing SQLite store")
	return s.db.Close()
}

// isUniqueViolation checks for a SQLite UNIQUE constraint violation
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Ensure SQLiteStore implements the store interfaces
var (
	_ UserStore        = (*SQLiteStore)(nil)
	_ SlotStore        = (*SQLiteStore)(nil)
	_ ReservationStore = (*SQLiteStore)(nil)
)
