package user

import "database/sql"

// Accessor is the Postgres-backed user directory.
type Accessor struct {
	db *sql.DB
}

func NewAccessor(db *sql.DB) *Accessor {
	return &Accessor{db: db}
}

var _ Repository = (*Accessor)(nil)
