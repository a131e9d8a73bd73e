package slot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parkshare/validation"
)

var (
	ErrNotFound   = errors.New("parking slot not found")
	ErrValidation = errors.New("invalid parking slot")
)

type Location struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// Dimensions are in meters.
type Dimensions struct {
	Width  float64  `json:"width" validate:"gt=0"`
	Length float64  `json:"length" validate:"gt=0"`
	Height *float64 `json:"height,omitempty" validate:"omitempty,gt=0"`
}

// Listing is everything a host provides when listing a spot.
type Listing struct {
	Title         string     `json:"title" validate:"required"`
	Description   string     `json:"description" validate:"required"`
	Address       string     `json:"address" validate:"required"`
	Location      Location   `json:"location"`
	Dimensions    Dimensions `json:"dimensions"`
	PricePerHour  float64    `json:"pricePerHour" validate:"gt=0"`
	AvailableFrom time.Time  `json:"availableFrom" validate:"required"`
	AvailableTo   time.Time  `json:"availableTo" validate:"required,gtfield=AvailableFrom"`
	ImageURL      string     `json:"imageUrl" validate:"omitempty,url"`
	Amenities     []string   `json:"amenities"`
	Restrictions  []string   `json:"restrictions,omitempty"`
	Rating        *float64   `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	ReviewCount   *int       `json:"reviewCount,omitempty" validate:"omitempty,gte=0"`
}

func (l *Listing) Validate() error {
	if fields := validation.Struct(l); fields != nil {
		return fmt.Errorf("%w: %v", ErrValidation, fields)
	}
	return nil
}

// Slot is a listed parking space. HostID and HostName never change after creation.
type Slot struct {
	ID string `json:"id"`
	Listing
	HostID   string `json:"hostId"`
	HostName string `json:"hostName"`
}

func (s *Slot) Validate() error {
	if s.HostID == "" {
		return fmt.Errorf("%w: hostId: required", ErrValidation)
	}
	return s.Listing.Validate()
}

// Covers reports whether [start, end) lies inside the availability window.
func (s *Slot) Covers(start, end time.Time) bool {
	return !start.Before(s.AvailableFrom) && !end.After(s.AvailableTo)
}

// Repository is the slot catalog. Listing order is insertion order.
type Repository interface {
	Insert(ctx context.Context, s Slot) (Slot, error)
	GetByID(ctx context.Context, id string) (Slot, error)
	List(ctx context.Context) ([]Slot, error)
	ListByHost(ctx context.Context, hostID string) ([]Slot, error)
}
