package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const selectColumns = `SELECT id, parking_slot_id, parking_slot_title, user_id, start_time, end_time, total_price, status, created_at FROM bookings`

func (a *Accessor) Insert(ctx context.Context, b Booking) (Booking, error) {
	if err := b.Validate(); err != nil {
		return Booking{}, err
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}

	query := `INSERT INTO bookings (id, parking_slot_id, parking_slot_title, user_id, start_time, end_time, total_price, status, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := a.db.ExecContext(ctx, query, b.ID, b.ParkingSlotID, b.ParkingSlotTitle, b.UserID, b.StartTime, b.EndTime, b.TotalPrice, string(b.Status), b.CreatedAt); err != nil {
		return Booking{}, fmt.Errorf("exec context: %w", err)
	}

	return b, nil
}

func (a *Accessor) GetByID(ctx context.Context, id string) (Booking, error) {
	var b Booking
	row := a.db.QueryRowContext(ctx, selectColumns+` WHERE id = $1`, id)
	if err := scanBooking(row, &b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Booking{}, ErrNotFound
		}
		return Booking{}, fmt.Errorf("scan: %w", err)
	}
	return b, nil
}

func (a *Accessor) ListByUser(ctx context.Context, userID string) ([]Booking, error) {
	return a.list(ctx, selectColumns+` WHERE user_id = $1 ORDER BY created_seq`, userID)
}

func (a *Accessor) ListBySlot(ctx context.Context, slotID string) ([]Booking, error) {
	return a.list(ctx, selectColumns+` WHERE parking_slot_id = $1 ORDER BY created_seq`, slotID)
}

func (a *Accessor) ListEndedBefore(ctx context.Context, status Status, t time.Time) ([]Booking, error) {
	return a.list(ctx, selectColumns+` WHERE status = $1 AND end_time <= $2 ORDER BY created_seq`, string(status), t)
}

// UpdateStatus guards the transition in the WHERE clause so concurrent updates
// cannot skip a state.
func (a *Accessor) UpdateStatus(ctx context.Context, id string, status Status) (Booking, error) {
	from := make([]string, 0, 2)
	for _, s := range AllowedFrom(status) {
		from = append(from, string(s))
	}

	query := `UPDATE bookings SET status = $1 WHERE id = $2 AND status = ANY($3)`
	res, err := a.db.ExecContext(ctx, query, string(status), id, pq.Array(from))
	if err != nil {
		return Booking{}, fmt.Errorf("exec context: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Booking{}, fmt.Errorf("rows affected: %w", err)
	}

	b, err := a.GetByID(ctx, id)
	if err != nil {
		return Booking{}, err
	}
	if n == 0 {
		return Booking{}, ErrInvalidStateTransition
	}
	return b, nil
}

func (a *Accessor) list(ctx context.Context, query string, args ...any) ([]Booking, error) {
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query context: %w", err)
	}
	defer rows.Close()

	var bookings []Booking
	for rows.Next() {
		var b Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return bookings, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBooking(row scanner, b *Booking) error {
	var status string
	if err := row.Scan(&b.ID, &b.ParkingSlotID, &b.ParkingSlotTitle, &b.UserID, &b.StartTime, &b.EndTime, &b.TotalPrice, &status, &b.CreatedAt); err != nil {
		return err
	}
	b.Status = Status(status)
	return nil
}
