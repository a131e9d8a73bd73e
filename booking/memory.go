package booking

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryLedger keeps bookings in insertion order for the lifetime of the process.
type MemoryLedger struct {
	mu       sync.RWMutex
	bookings []Booking
}

var _ Repository = (*MemoryLedger)(nil)

func NewMemoryLedger(seed ...Booking) *MemoryLedger {
	return &MemoryLedger{bookings: slices.Clone(seed)}
}

func (l *MemoryLedger) Insert(_ context.Context, b Booking) (Booking, error) {
	if err := b.Validate(); err != nil {
		return Booking{}, err
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.bookings = append(l.bookings, b)
	return b, nil
}

func (l *MemoryLedger) GetByID(_ context.Context, id string) (Booking, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if i := l.index(id); i >= 0 {
		return l.bookings[i], nil
	}
	return Booking{}, ErrNotFound
}

func (l *MemoryLedger) ListByUser(_ context.Context, userID string) ([]Booking, error) {
	return l.filter(func(b Booking) bool { return b.UserID == userID }), nil
}

func (l *MemoryLedger) ListBySlot(_ context.Context, slotID string) ([]Booking, error) {
	return l.filter(func(b Booking) bool { return b.ParkingSlotID == slotID }), nil
}

func (l *MemoryLedger) ListEndedBefore(_ context.Context, status Status, t time.Time) ([]Booking, error) {
	return l.filter(func(b Booking) bool { return b.Status == status && !b.EndTime.After(t) }), nil
}

func (l *MemoryLedger) UpdateStatus(_ context.Context, id string, status Status) (Booking, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.index(id)
	if i < 0 {
		return Booking{}, ErrNotFound
	}
	if !CanTransition(l.bookings[i].Status, status) {
		return Booking{}, ErrInvalidStateTransition
	}
	l.bookings[i].Status = status
	return l.bookings[i], nil
}

func (l *MemoryLedger) index(id string) int {
	return slices.IndexFunc(l.bookings, func(b Booking) bool { return b.ID == id })
}

func (l *MemoryLedger) filter(keep func(Booking) bool) []Booking {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []Booking
	for _, b := range l.bookings {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}
