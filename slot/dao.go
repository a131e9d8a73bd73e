package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const selectColumns = `SELECT id, title, description, address, latitude, longitude, width, length, height, price_per_hour, available_from, available_to, image_url, host_id, host_name, amenities, restrictions, rating, review_count FROM parking_slots`

func (a *Accessor) Insert(ctx context.Context, s Slot) (Slot, error) {
	if err := s.Validate(); err != nil {
		return Slot{}, err
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	query := `INSERT INTO parking_slots (id, title, description, address, latitude, longitude, width, length, height, price_per_hour, available_from, available_to, image_url, host_id, host_name, amenities, restrictions, rating, review_count) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := a.db.ExecContext(ctx, query,
		s.ID, s.Title, s.Description, s.Address,
		s.Location.Latitude, s.Location.Longitude,
		s.Dimensions.Width, s.Dimensions.Length, nullFloat(s.Dimensions.Height),
		s.PricePerHour, s.AvailableFrom, s.AvailableTo, s.ImageURL,
		s.HostID, s.HostName,
		pq.Array(nonNil(s.Amenities)), pq.Array(nonNil(s.Restrictions)),
		nullFloat(s.Rating), nullInt(s.ReviewCount),
	)
	if err != nil {
		return Slot{}, fmt.Errorf("exec context: %w", err)
	}

	return s, nil
}

func (a *Accessor) GetByID(ctx context.Context, id string) (Slot, error) {
	row := a.db.QueryRowContext(ctx, selectColumns+` WHERE id = $1`, id)
	s, err := scanSlot(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Slot{}, ErrNotFound
		}
		return Slot{}, fmt.Errorf("scan: %w", err)
	}
	return s, nil
}

func (a *Accessor) List(ctx context.Context) ([]Slot, error) {
	return a.list(ctx, selectColumns+` ORDER BY created_seq`)
}

func (a *Accessor) ListByHost(ctx context.Context, hostID string) ([]Slot, error) {
	return a.list(ctx, selectColumns+` WHERE host_id = $1 ORDER BY created_seq`, hostID)
}

func (a *Accessor) list(ctx context.Context, query string, args ...any) ([]Slot, error) {
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query context: %w", err)
	}
	defer rows.Close()

	var slots []Slot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return slots, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSlot(row scanner) (Slot, error) {
	var (
		s           Slot
		height      sql.NullFloat64
		rating      sql.NullFloat64
		reviewCount sql.NullInt64
	)
	err := row.Scan(
		&s.ID, &s.Title, &s.Description, &s.Address,
		&s.Location.Latitude, &s.Location.Longitude,
		&s.Dimensions.Width, &s.Dimensions.Length, &height,
		&s.PricePerHour, &s.AvailableFrom, &s.AvailableTo, &s.ImageURL,
		&s.HostID, &s.HostName,
		pq.Array(&s.Amenities), pq.Array(&s.Restrictions),
		&rating, &reviewCount,
	)
	if err != nil {
		return Slot{}, err
	}
	if height.Valid {
		s.Dimensions.Height = &height.Float64
	}
	if rating.Valid {
		s.Rating = &rating.Float64
	}
	if reviewCount.Valid {
		n := int(reviewCount.Int64)
		s.ReviewCount = &n
	}
	return s, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
