// Package seed holds the demo catalog the marketplace starts with.
package seed

import (
	"context"
	"fmt"
	"log"
	"time"

	"parkshare/booking"
	"parkshare/slot"
	"parkshare/user"
)

var (
	created       = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	availableFrom = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	availableTo   = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
)

func ptr[T any](v T) *T { return &v }

func Users() []user.User {
	return []user.User{
		{ID: "u1", Email: "ram@example.com", Name: "Ram Kumar", Phone: "+91 98450 11223", IsHost: true, CreatedAt: created},
		{ID: "u2", Email: "priya@example.com", Name: "Priya Sharma", Phone: "+91 99001 44556", CreatedAt: created},
		{ID: "u3", Email: "arjun@example.com", Name: "Arjun Patel", CreatedAt: created},
	}
}

func Slots() []slot.Slot {
	return []slot.Slot{
		{
			ID: "p1",
			Listing: slot.Listing{
				Title:         "Downtown Covered Parking",
				Description:   "Secure covered spot in a gated building, two minutes from MG Road metro.",
				Address:       "42 MG Road, Bengaluru",
				Location:      slot.Location{Latitude: 12.9756, Longitude: 77.6050},
				Dimensions:    slot.Dimensions{Width: 2.5, Length: 5, Height: ptr(2.1)},
				PricePerHour:  4.99,
				AvailableFrom: availableFrom,
				AvailableTo:   availableTo,
				ImageURL:      "https://images.pexels.com/photos/1004409/pexels-photo-1004409.jpeg",
				Amenities:     []string{"Covered", "CCTV", "Security Guard"},
				Restrictions:  []string{"No overnight parking"},
				Rating:        ptr(4.8),
				ReviewCount:   ptr(124),
			},
			HostID:   "u1",
			HostName: "Ram Kumar",
		},
		{
			ID: "p2",
			Listing: slot.Listing{
				Title:         "Residential Driveway",
				Description:   "Private driveway in a quiet lane, fits a sedan or small SUV.",
				Address:       "17 Indiranagar 2nd Stage, Bengaluru",
				Location:      slot.Location{Latitude: 12.9784, Longitude: 77.6408},
				Dimensions:    slot.Dimensions{Width: 3, Length: 6},
				PricePerHour:  2.5,
				AvailableFrom: availableFrom,
				AvailableTo:   availableTo,
				ImageURL:      "https://images.pexels.com/photos/2199293/pexels-photo-2199293.jpeg",
				Amenities:     []string{"Well Lit"},
				Rating:        ptr(4.2),
				ReviewCount:   ptr(36),
			},
			HostID:   "u1",
			HostName: "Ram Kumar",
		},
		{
			ID: "p3",
			Listing: slot.Listing{
				Title:         "Mall Basement Spot",
				Description:   "Basement level B2 with EV charging and lift access to the mall.",
				Address:       "Phoenix Marketcity, Whitefield Road, Bengaluru",
				Location:      slot.Location{Latitude: 12.9975, Longitude: 77.6960},
				Dimensions:    slot.Dimensions{Width: 2.4, Length: 4.8, Height: ptr(2.2)},
				PricePerHour:  6,
				AvailableFrom: availableFrom,
				AvailableTo:   availableTo,
				ImageURL:      "https://images.pexels.com/photos/1756957/pexels-photo-1756957.jpeg",
				Amenities:     []string{"Covered", "EV Charging", "CCTV"},
				Restrictions:  []string{"Max height 2.2m"},
				Rating:        ptr(4.5),
				ReviewCount:   ptr(89),
			},
			HostID:   "u1",
			HostName: "Ram Kumar",
		},
		{
			ID: "p4",
			Listing: slot.Listing{
				Title:         "Open Lot near Tech Park",
				Description:   "Open-air lot next to the tech park gate, easy in and out.",
				Address:       "Outer Ring Road, Marathahalli, Bengaluru",
				Location:      slot.Location{Latitude: 12.9569, Longitude: 77.7011},
				Dimensions:    slot.Dimensions{Width: 2.7, Length: 5.5},
				PricePerHour:  1.75,
				AvailableFrom: availableFrom,
				AvailableTo:   availableTo,
				Amenities:     []string{},
			},
			HostID:   "u1",
			HostName: "Ram Kumar",
		},
	}
}

func Bookings() []booking.Booking {
	day := func(d, h int) time.Time { return time.Date(2024, 3, d, h, 0, 0, 0, time.UTC) }
	return []booking.Booking{
		{
			ID: "b1", ParkingSlotID: "p1", ParkingSlotTitle: "Downtown Covered Parking", UserID: "u2",
			StartTime: day(4, 9), EndTime: day(4, 12), TotalPrice: 4.99 * 3,
			Status: booking.StatusCompleted, CreatedAt: day(1, 10),
		},
		{
			ID: "b2", ParkingSlotID: "p3", ParkingSlotTitle: "Mall Basement Spot", UserID: "u2",
			StartTime: day(20, 18), EndTime: day(20, 20), TotalPrice: 6 * 2,
			Status: booking.StatusCancelled, CreatedAt: day(15, 8),
		},
		{
			ID: "b3", ParkingSlotID: "p2", ParkingSlotTitle: "Residential Driveway", UserID: "u3",
			StartTime: day(28, 8), EndTime: day(28, 17), TotalPrice: 2.5 * 9,
			Status: booking.StatusConfirmed, CreatedAt: day(25, 19),
		},
	}
}

// Load inserts the catalog into empty repositories. It does nothing when the
// user directory already has users.
func Load(ctx context.Context, users user.Repository, slots slot.Repository, bookings booking.Repository) error {
	existing, err := users.List(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for _, u := range Users() {
		if _, err := users.Insert(ctx, u); err != nil {
			return fmt.Errorf("seed user %s: %w", u.ID, err)
		}
	}
	for _, s := range Slots() {
		if _, err := slots.Insert(ctx, s); err != nil {
			return fmt.Errorf("seed slot %s: %w", s.ID, err)
		}
	}
	for _, b := range Bookings() {
		if _, err := bookings.Insert(ctx, b); err != nil {
			return fmt.Errorf("seed booking %s: %w", b.ID, err)
		}
	}

	log.Printf("seeded %d users, %d slots, %d bookings", len(Users()), len(Slots()), len(Bookings()))
	return nil
}
