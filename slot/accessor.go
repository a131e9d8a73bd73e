package slot

import "database/sql"

// Accessor is the Postgres-backed slot catalog.
type Accessor struct {
	db *sql.DB
}

func NewAccessor(db *sql.DB) *Accessor {
	return &Accessor{db: db}
}

var _ Repository = (*Accessor)(nil)
