// Package store wraps the sqlite database holding the property and booking
// domain tables plus the chat request log.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the sql handle so query helpers hang off one type.
type DB struct {
	*sql.DB
}

// Open opens (or creates) the sqlite database at path and ensures the schema.
// Use ":memory:" in tests.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS properties(
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		area_sqm REAL NOT NULL,
		nightly_rate_eur REAL NOT NULL,
		max_guests INTEGER NOT NULL DEFAULT 2,
		active INTEGER NOT NULL DEFAULT 1
	)`); err != nil {
		return nil, fmt.Errorf("create properties table: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS bookings(
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		property_id INTEGER NOT NULL REFERENCES properties(id),
		check_in TEXT NOT NULL,
		check_out TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending'
	)`); err != nil {
		return nil, fmt.Errorf("create bookings table: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS chat_requests(
		trace_id TEXT PRIMARY KEY,
		ts REAL NOT NULL,
		client_id TEXT,
		language TEXT,
		message_len INTEGER,
		status TEXT,
		tool_calls INTEGER,
		duration_ms REAL
	)`); err != nil {
		return nil, fmt.Errorf("create chat_requests table: %w", err)
	}

	return &DB{db}, nil
}
