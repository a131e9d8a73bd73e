// Package settlement closes out confirmed bookings once their time is over.
package settlement

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"parkshare/booking"

	"github.com/robfig/cron/v3"
)

type Settler struct {
	bookings booking.Repository
	now      func() time.Time
	cron     *cron.Cron
}

func NewSettler(bookings booking.Repository, now func() time.Time) *Settler {
	if now == nil {
		now = time.Now
	}
	return &Settler{bookings: bookings, now: now}
}

// Run marks every confirmed booking that has ended as completed and returns
// how many were updated.
func (s *Settler) Run(ctx context.Context) (int, error) {
	ended, err := s.bookings.ListEndedBefore(ctx, booking.StatusConfirmed, s.now())
	if err != nil {
		return 0, fmt.Errorf("settlement: list ended bookings: %w", err)
	}
	if len(ended) == 0 {
		return 0, nil
	}

	settled := 0
	for _, b := range ended {
		_, err := s.bookings.UpdateStatus(ctx, b.ID, booking.StatusCompleted)
		switch {
		case err == nil:
			settled++
		case errors.Is(err, booking.ErrInvalidStateTransition), errors.Is(err, booking.ErrNotFound):
			// cancelled or removed since it was listed
		default:
			return settled, fmt.Errorf("settlement: complete booking %s: %w", b.ID, err)
		}
	}

	log.Printf("settlement: completed %d of %d ended bookings", settled, len(ended))
	return settled, nil
}

// Schedule runs the settler on a cron spec such as "@every 1m" until Stop is called.
func (s *Settler) Schedule(spec string) error {
	if s.cron != nil {
		return errors.New("settlement: already scheduled")
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		if _, err := s.Run(context.Background()); err != nil {
			log.Printf("settlement: run failed: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("settlement: schedule %q: %w", spec, err)
	}

	c.Start()
	s.cron = c
	log.Printf("settlement scheduled %s", spec)
	return nil
}

// Stop halts the schedule and waits for a running settlement to finish.
func (s *Settler) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.cron = nil
}
