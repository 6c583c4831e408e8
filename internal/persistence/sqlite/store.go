// Package sqlite implements the sharing-session store over a SQLite
// database. The Azure-table shape of the contract maps onto a single table:
// the configured partition key becomes a column every query filters on, and
// the per-row ETag becomes an integer version column checked on update.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/example/standup-notifier/internal/persistence"
	_ "modernc.org/sqlite"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Store implements persistence.SharingSessionRepository using SQLite.
type Store struct {
	db        *sql.DB
	table     string
	partition string
}

// Open opens the SQLite database behind dsn and binds the store to the
// configured table name and partition key. The table name is interpolated
// into SQL and therefore restricted to identifier characters.
func Open(dsn, table, partition string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("sqlite: dsn is required")
	}
	if !identifierPattern.MatchString(table) {
		return nil, fmt.Errorf("sqlite: invalid table name %q", table)
	}
	if strings.TrimSpace(partition) == "" {
		return nil, fmt.Errorf("sqlite: partition key is required")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping database: %w", err)
	}

	return &Store{db: db, table: table, partition: partition}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Migrate creates the session table and its lookup index when absent.
func (s *Store) Migrate(ctx context.Context) error {
	schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			id            TEXT PRIMARY KEY,
			partition_key TEXT NOT NULL,
			user_id       TEXT NOT NULL,
			username      TEXT NOT NULL,
			room_id       TEXT NOT NULL,
			room_name     TEXT NOT NULL,
			start_sharing INTEGER NOT NULL,
			end_sharing   INTEGER,
			version       INTEGER NOT NULL DEFAULT 1,
			created_at    INTEGER NOT NULL,
			updated_at    INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_%[1]s_open_lookup
			ON %[1]s (partition_key, user_id, room_id)
			WHERE end_sharing IS NULL;
	`, s.table)

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return nil
}

// InsertSession stores a new session row with version 1.
func (s *Store) InsertSession(ctx context.Context, session persistence.SharingSession) error {
	if strings.TrimSpace(session.ID) == "" {
		return fmt.Errorf("sqlite: session id is required")
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, partition_key, user_id, username, room_id, room_name,
			start_sharing, end_sharing, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
	`, s.table)

	now := toMillis(time.Now())
	created := now
	if !session.CreatedAt.IsZero() {
		created = toMillis(session.CreatedAt)
	}

	_, err := s.db.ExecContext(ctx, query,
		session.ID,
		s.partition,
		session.UserID,
		session.Username,
		session.RoomID,
		session.RoomName,
		toMillis(session.StartSharing),
		nullableMillis(session.EndSharing),
		created,
		created,
	)
	if err != nil {
		return mapSQLiteError(err)
	}
	return nil
}

// UpdateSession performs a conditional write guarded by the row version.
func (s *Store) UpdateSession(ctx context.Context, session persistence.SharingSession) (persistence.SharingSession, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET username = ?, room_name = ?, end_sharing = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND partition_key = ? AND version = ?
	`, s.table)

	updatedAt := toMillis(time.Now())
	result, err := s.db.ExecContext(ctx, query,
		session.Username,
		session.RoomName,
		nullableMillis(session.EndSharing),
		updatedAt,
		session.ID,
		s.partition,
		session.Version,
	)
	if err != nil {
		return persistence.SharingSession{}, mapSQLiteError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return persistence.SharingSession{}, fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if affected == 0 {
		// Distinguish a vanished row from a stale version.
		if _, err := s.getSession(ctx, session.ID); err != nil {
			return persistence.SharingSession{}, err
		}
		return persistence.SharingSession{}, persistence.ErrConcurrencyConflict
	}

	return s.getSession(ctx, session.ID)
}

// ListOpenSessions returns the open rows for the (userID, roomID) pair.
func (s *Store) ListOpenSessions(ctx context.Context, userID, roomID string) ([]persistence.SharingSession, error) {
	query := fmt.Sprintf(`
		SELECT id, partition_key, user_id, username, room_id, room_name,
			start_sharing, end_sharing, version, created_at, updated_at
		FROM %s
		WHERE partition_key = ? AND user_id = ? AND room_id = ? AND end_sharing IS NULL
		ORDER BY start_sharing ASC, id ASC
	`, s.table)

	return s.querySessions(ctx, query, s.partition, userID, roomID)
}

// ListSessions returns every row in the store's partition.
func (s *Store) ListSessions(ctx context.Context) ([]persistence.SharingSession, error) {
	query := fmt.Sprintf(`
		SELECT id, partition_key, user_id, username, room_id, room_name,
			start_sharing, end_sharing, version, created_at, updated_at
		FROM %s
		WHERE partition_key = ?
		ORDER BY start_sharing ASC, id ASC
	`, s.table)

	return s.querySessions(ctx, query, s.partition)
}

// DeleteSession removes a row by id.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ? AND partition_key = ?`, s.table)

	result, err := s.db.ExecContext(ctx, query, id, s.partition)
	if err != nil {
		return mapSQLiteError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func (s *Store) getSession(ctx context.Context, id string) (persistence.SharingSession, error) {
	query := fmt.Sprintf(`
		SELECT id, partition_key, user_id, username, room_id, room_name,
			start_sharing, end_sharing, version, created_at, updated_at
		FROM %s
		WHERE id = ? AND partition_key = ?
	`, s.table)

	session, err := scanSession(s.db.QueryRowContext(ctx, query, id, s.partition))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.SharingSession{}, persistence.ErrNotFound
		}
		return persistence.SharingSession{}, err
	}
	return session, nil
}

func (s *Store) querySessions(ctx context.Context, query string, args ...any) ([]persistence.SharingSession, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapSQLiteError(err)
	}
	defer rows.Close()

	sessions := make([]persistence.SharingSession, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, mapSQLiteError(err)
	}
	return sessions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (persistence.SharingSession, error) {
	var session persistence.SharingSession
	var start, created, updated int64
	var end sql.NullInt64

	err := row.Scan(
		&session.ID,
		&session.PartitionKey,
		&session.UserID,
		&session.Username,
		&session.RoomID,
		&session.RoomName,
		&start,
		&end,
		&session.Version,
		&created,
		&updated,
	)
	if err != nil {
		return persistence.SharingSession{}, err
	}

	session.StartSharing = fromMillis(start)
	if end.Valid {
		ended := fromMillis(end.Int64)
		session.EndSharing = &ended
	}
	session.CreatedAt = fromMillis(created)
	session.UpdatedAt = fromMillis(updated)
	return session, nil
}

// toMillis normalizes timestamps to millisecond precision for storage.
func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// fromMillis restores a stored timestamp in UTC.
func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func nullableMillis(value *time.Time) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMillis(*value), Valid: true}
}

// mapSQLiteError translates driver errors into persistence sentinels. The
// modernc driver surfaces constraint failures as plain error strings.
func mapSQLiteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.ErrNotFound
	}

	message := err.Error()
	if strings.Contains(message, "UNIQUE constraint failed") || strings.Contains(message, "PRIMARY KEY") {
		return persistence.ErrDuplicate
	}
	return err
}
