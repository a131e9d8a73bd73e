package booking

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"
)

var (
	ErrNotFound               = errors.New("booking not found")
	ErrValidation             = errors.New("invalid booking")
	ErrInvalidStateTransition = errors.New("invalid booking status transition")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// transitions lists, for every target status, the statuses it may be entered from.
var transitions = map[Status][]Status{
	StatusConfirmed: {StatusPending},
	StatusCompleted: {StatusConfirmed},
	StatusCancelled: {StatusPending, StatusConfirmed},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Active bookings hold the slot and show up as upcoming.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func CanTransition(from, to Status) bool {
	return slices.Contains(transitions[to], from)
}

// AllowedFrom returns the statuses a booking may be in to move to target.
func AllowedFrom(target Status) []Status {
	return slices.Clone(transitions[target])
}

// Booking reserves [StartTime, EndTime) on a parking slot. ParkingSlotTitle is
// the slot title at booking time.
type Booking struct {
	ID               string    `json:"id"`
	ParkingSlotID    string    `json:"parkingSlotId"`
	ParkingSlotTitle string    `json:"parkingSlotTitle"`
	UserID           string    `json:"userId"`
	StartTime        time.Time `json:"startTime"`
	EndTime          time.Time `json:"endTime"`
	TotalPrice       float64   `json:"totalPrice"`
	Status           Status    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (b *Booking) Validate() error {
	if b.ParkingSlotID == "" {
		return fmt.Errorf("%w: parking slot ID is required", ErrValidation)
	}
	if b.UserID == "" {
		return fmt.Errorf("%w: user ID is required", ErrValidation)
	}
	if b.StartTime.IsZero() || b.EndTime.IsZero() {
		return fmt.Errorf("%w: start and end time are required", ErrValidation)
	}
	if !b.StartTime.Before(b.EndTime) {
		return fmt.Errorf("%w: start time must be before end time", ErrValidation)
	}
	if b.TotalPrice < 0 {
		return fmt.Errorf("%w: total price must not be negative", ErrValidation)
	}
	if !b.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, b.Status)
	}
	return nil
}

// Overlaps reports whether [start, end) intersects the booking interval.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return start.Before(b.EndTime) && b.StartTime.Before(end)
}

// TotalPrice is pricePerHour times the fractional hours between start and end.
func TotalPrice(pricePerHour float64, start, end time.Time) float64 {
	return pricePerHour * end.Sub(start).Hours()
}

// Split separates bookings into the upcoming and past (terminal) tabs, keeping
// their relative order.
func Split(bookings []Booking) (upcoming, past []Booking) {
	for _, b := range bookings {
		if b.Status.Terminal() {
			past = append(past, b)
		} else {
			upcoming = append(upcoming, b)
		}
	}
	return upcoming, past
}

// Repository stores bookings. Listing order is insertion order.
type Repository interface {
	Insert(ctx context.Context, b Booking) (Booking, error)
	GetByID(ctx context.Context, id string) (Booking, error)
	ListByUser(ctx context.Context, userID string) ([]Booking, error)
	ListBySlot(ctx context.Context, slotID string) ([]Booking, error)
	// UpdateStatus moves a booking to status, failing with ErrInvalidStateTransition
	// when its current status does not allow it.
	UpdateStatus(ctx context.Context, id string, status Status) (Booking, error)
	// ListEndedBefore returns bookings in status whose end time is not after t.
	ListEndedBefore(ctx context.Context, status Status, t time.Time) ([]Booking, error)
}
