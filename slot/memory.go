package slot

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// MemoryCatalog keeps slots in insertion order for the lifetime of the process.
type MemoryCatalog struct {
	mu    sync.RWMutex
	slots []Slot
}

var _ Repository = (*MemoryCatalog)(nil)

func NewMemoryCatalog(seed ...Slot) *MemoryCatalog {
	slots := make([]Slot, 0, len(seed))
	for _, s := range seed {
		slots = append(slots, clone(s))
	}
	return &MemoryCatalog{slots: slots}
}

func (c *MemoryCatalog) Insert(_ context.Context, s Slot) (Slot, error) {
	if err := s.Validate(); err != nil {
		return Slot{}, err
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s = clone(s)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.slots = append(c.slots, s)
	return clone(s), nil
}

func (c *MemoryCatalog) GetByID(_ context.Context, id string) (Slot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, s := range c.slots {
		if s.ID == id {
			return clone(s), nil
		}
	}
	return Slot{}, ErrNotFound
}

func (c *MemoryCatalog) List(_ context.Context) ([]Slot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Slot, 0, len(c.slots))
	for _, s := range c.slots {
		out = append(out, clone(s))
	}
	return out, nil
}

func (c *MemoryCatalog) ListByHost(_ context.Context, hostID string) ([]Slot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []Slot
	for _, s := range c.slots {
		if s.HostID == hostID {
			out = append(out, clone(s))
		}
	}
	return out, nil
}

// clone copies the slices and pointers of s so callers never share them with the catalog.
func clone(s Slot) Slot {
	s.Amenities = slices.Clone(s.Amenities)
	s.Restrictions = slices.Clone(s.Restrictions)
	s.Dimensions.Height = clonePtr(s.Dimensions.Height)
	s.Rating = clonePtr(s.Rating)
	s.ReviewCount = clonePtr(s.ReviewCount)
	return s
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
