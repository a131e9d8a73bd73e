package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

func Connect(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxIdleConns(5)

	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		name TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		is_host BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		password_hash BYTEA
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_email_lower_idx ON users (lower(email))`,
	`CREATE TABLE IF NOT EXISTS parking_slots (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		address TEXT NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		width DOUBLE PRECISION NOT NULL,
		length DOUBLE PRECISION NOT NULL,
		height DOUBLE PRECISION,
		price_per_hour DOUBLE PRECISION NOT NULL CHECK (price_per_hour > 0),
		available_from TIMESTAMPTZ NOT NULL,
		available_to TIMESTAMPTZ NOT NULL CHECK (available_from < available_to),
		image_url TEXT NOT NULL DEFAULT '',
		host_id TEXT NOT NULL REFERENCES users (id),
		host_name TEXT NOT NULL,
		amenities TEXT[] NOT NULL DEFAULT '{}',
		restrictions TEXT[] NOT NULL DEFAULT '{}',
		rating DOUBLE PRECISION,
		review_count INTEGER,
		created_seq BIGSERIAL
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id TEXT PRIMARY KEY,
		parking_slot_id TEXT NOT NULL REFERENCES parking_slots (id),
		parking_slot_title TEXT NOT NULL,
		user_id TEXT NOT NULL REFERENCES users (id),
		start_time TIMESTAMPTZ NOT NULL,
		end_time TIMESTAMPTZ NOT NULL CHECK (start_time < end_time),
		total_price DOUBLE PRECISION NOT NULL,
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		created_seq BIGSERIAL
	)`,
}

// Migrate creates the marketplace tables when they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate statement %d: %w", i, err)
		}
	}
	return nil
}

// IsUniqueViolation reports whether err came from a Postgres unique constraint.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
