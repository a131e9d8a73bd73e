package marketplace

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"parkshare/booking"
	"parkshare/slot"
	"parkshare/user"
)

// Identity is the part of the session store the marketplace acts through.
type Identity interface {
	Current() (user.User, bool)
	UpdateProfile(ctx context.Context, p user.Profile) (user.User, error)
}

// Service holds the slot catalog and the bookings made against it.
type Service struct {
	identity Identity
	slots    slot.Repository
	bookings booking.Repository
	now      func() time.Time

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	// listing serializes host promotion with the first insert.
	listing sync.Mutex
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(identity Identity, slots slot.Repository, bookings booking.Repository, opts ...Option) *Service {
	s := &Service{
		identity: identity,
		slots:    slots,
		bookings: bookings,
		now:      time.Now,
		locks:    map[string]*sync.Mutex{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) GetSlotByID(ctx context.Context, id string) (slot.Slot, error) {
	sl, err := s.slots.GetByID(ctx, id)
	if errors.Is(err, slot.ErrNotFound) {
		return slot.Slot{}, ErrSlotNotFound
	}
	if err != nil {
		return slot.Slot{}, fmt.Errorf("get slot: %w", err)
	}
	return sl, nil
}

func (s *Service) ListSlots(ctx context.Context) ([]slot.Slot, error) {
	slots, err := s.slots.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return slots, nil
}

// SearchSlots backs the explore screen.
func (s *Service) SearchSlots(ctx context.Context, q slot.Query) ([]slot.Slot, error) {
	slots, err := s.ListSlots(ctx)
	if err != nil {
		return nil, err
	}
	return slot.Search(slots, q), nil
}

func (s *Service) ListUserBookings(ctx context.Context, userID string) ([]booking.Booking, error) {
	bookings, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings for user %s: %w", userID, err)
	}
	return bookings, nil
}

func (s *Service) MyBookings(ctx context.Context) ([]booking.Booking, error) {
	u, ok := s.identity.Current()
	if !ok {
		return nil, ErrUnauthenticated
	}
	return s.ListUserBookings(ctx, u.ID)
}

func (s *Service) ListUserHostedSlots(ctx context.Context, userID string) ([]slot.Slot, error) {
	slots, err := s.slots.ListByHost(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list slots for host %s: %w", userID, err)
	}
	return slots, nil
}

func (s *Service) MyHostedSlots(ctx context.Context) ([]slot.Slot, error) {
	u, ok := s.identity.Current()
	if !ok {
		return nil, ErrUnauthenticated
	}
	return s.ListUserHostedSlots(ctx, u.ID)
}

// Quote is the price preview shown before a booking is confirmed.
type Quote struct {
	ParkingSlotID string    `json:"parkingSlotId"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	Hours         float64   `json:"hours"`
	TotalPrice    float64   `json:"totalPrice"`
}

// Quote applies the same rules as CreateBooking without reserving anything.
func (s *Service) Quote(ctx context.Context, slotID string, start, end time.Time) (Quote, error) {
	sl, err := s.GetSlotByID(ctx, slotID)
	if err != nil {
		return Quote{}, err
	}
	if err := s.checkWindow(sl, start, end); err != nil {
		return Quote{}, err
	}
	if err := s.checkFree(ctx, sl.ID, start, end); err != nil {
		return Quote{}, err
	}
	return Quote{
		ParkingSlotID: sl.ID,
		StartTime:     start,
		EndTime:       end,
		Hours:         end.Sub(start).Hours(),
		TotalPrice:    booking.TotalPrice(sl.PricePerHour, start, end),
	}, nil
}

// CreateBooking reserves [start, end) on the slot for the signed-in user. The
// booking starts out pending.
func (s *Service) CreateBooking(ctx context.Context, slotID string, start, end time.Time) (booking.Booking, error) {
	u, ok := s.identity.Current()
	if !ok {
		return booking.Booking{}, ErrUnauthenticated
	}

	sl, err := s.GetSlotByID(ctx, slotID)
	if err != nil {
		return booking.Booking{}, err
	}
	if err := s.checkWindow(sl, start, end); err != nil {
		return booking.Booking{}, err
	}

	mu := s.slotLock(sl.ID)
	mu.Lock()
	defer mu.Unlock()

	if err := s.checkFree(ctx, sl.ID, start, end); err != nil {
		return booking.Booking{}, err
	}

	b, err := s.bookings.Insert(ctx, booking.Booking{
		ParkingSlotID:    sl.ID,
		ParkingSlotTitle: sl.Title,
		UserID:           u.ID,
		StartTime:        start,
		EndTime:          end,
		TotalPrice:       booking.TotalPrice(sl.PricePerHour, start, end),
		Status:           booking.StatusPending,
		CreatedAt:        s.now().UTC(),
	})
	if err != nil {
		return booking.Booking{}, fmt.Errorf("insert booking: %w", err)
	}

	log.Printf("booking %s created on slot %s by user %s", b.ID, sl.ID, u.ID)
	return b, nil
}

func (s *Service) checkWindow(sl slot.Slot, start, end time.Time) error {
	if !start.Before(end) {
		return ErrInvalidDuration
	}
	if start.Before(s.now()) {
		return ErrPastStartTime
	}
	if !sl.Covers(start, end) {
		return ErrOutsideAvailabilityWindow
	}
	return nil
}

func (s *Service) checkFree(ctx context.Context, slotID string, start, end time.Time) error {
	existing, err := s.bookings.ListBySlot(ctx, slotID)
	if err != nil {
		return fmt.Errorf("list bookings for slot %s: %w", slotID, err)
	}
	for _, b := range existing {
		if b.Status.Active() && b.Overlaps(start, end) {
			return ErrSlotAlreadyBooked
		}
	}
	return nil
}

func (s *Service) slotLock(slotID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	mu, ok := s.locks[slotID]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[slotID] = mu
	}
	return mu
}

// CancelBooking cancels a pending or confirmed booking. The booking owner and
// the slot host may cancel.
func (s *Service) CancelBooking(ctx context.Context, bookingID string) (booking.Booking, error) {
	return s.transition(ctx, bookingID, booking.StatusCancelled, func(u user.User, b booking.Booking, hostID string) bool {
		return u.ID == b.UserID || u.ID == hostID
	})
}

// ConfirmBooking accepts a pending booking. Only the slot host may confirm.
func (s *Service) ConfirmBooking(ctx context.Context, bookingID string) (booking.Booking, error) {
	return s.transition(ctx, bookingID, booking.StatusConfirmed, hostOnly)
}

// CompleteBooking closes out a confirmed booking. Only the slot host may complete.
func (s *Service) CompleteBooking(ctx context.Context, bookingID string) (booking.Booking, error) {
	return s.transition(ctx, bookingID, booking.StatusCompleted, hostOnly)
}

func hostOnly(u user.User, _ booking.Booking, hostID string) bool {
	return hostID != "" && u.ID == hostID
}

func (s *Service) transition(ctx context.Context, bookingID string, target booking.Status, allowed func(user.User, booking.Booking, string) bool) (booking.Booking, error) {
	u, ok := s.identity.Current()
	if !ok {
		return booking.Booking{}, ErrUnauthenticated
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if errors.Is(err, booking.ErrNotFound) {
		return booking.Booking{}, ErrBookingNotFound
	}
	if err != nil {
		return booking.Booking{}, fmt.Errorf("get booking: %w", err)
	}

	var hostID string
	sl, err := s.slots.GetByID(ctx, b.ParkingSlotID)
	switch {
	case err == nil:
		hostID = sl.HostID
	case !errors.Is(err, slot.ErrNotFound):
		return booking.Booking{}, fmt.Errorf("get slot: %w", err)
	}

	if !allowed(u, b, hostID) {
		return booking.Booking{}, ErrForbidden
	}
	if !booking.CanTransition(b.Status, target) {
		return booking.Booking{}, fmt.Errorf("%w: %s to %s", booking.ErrInvalidStateTransition, b.Status, target)
	}

	updated, err := s.bookings.UpdateStatus(ctx, b.ID, target)
	if errors.Is(err, booking.ErrInvalidStateTransition) {
		return booking.Booking{}, err
	}
	if err != nil {
		return booking.Booking{}, fmt.Errorf("update booking status: %w", err)
	}

	log.Printf("booking %s moved from %s to %s by user %s", b.ID, b.Status, target, u.ID)
	return updated, nil
}

// CreateParkingSlot lists a new slot for the signed-in user, making them a host
// first if needed. A failed insert reverts the promotion.
func (s *Service) CreateParkingSlot(ctx context.Context, l slot.Listing) (slot.Slot, error) {
	u, ok := s.identity.Current()
	if !ok {
		return slot.Slot{}, ErrUnauthenticated
	}
	if err := l.Validate(); err != nil {
		return slot.Slot{}, err
	}

	s.listing.Lock()
	defer s.listing.Unlock()

	promoted := false
	if !u.IsHost {
		isHost := true
		updated, err := s.identity.UpdateProfile(ctx, user.Profile{IsHost: &isHost})
		if err != nil {
			return slot.Slot{}, fmt.Errorf("promote to host: %w", err)
		}
		u = updated
		promoted = true
	}

	created, err := s.slots.Insert(ctx, slot.Slot{
		Listing:  l,
		HostID:   u.ID,
		HostName: u.Name,
	})
	if err != nil {
		if promoted {
			isHost := false
			if _, rerr := s.identity.UpdateProfile(ctx, user.Profile{IsHost: &isHost}); rerr != nil {
				log.Printf("failed to revert host promotion of user %s: %v", u.ID, rerr)
			}
		}
		return slot.Slot{}, fmt.Errorf("insert slot: %w", err)
	}

	log.Printf("slot %s listed by host %s", created.ID, u.ID)
	return created, nil
}
