package user

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryDirectory keeps users in insertion order for the lifetime of the process.
type MemoryDirectory struct {
	mu    sync.RWMutex
	users []User
}

var _ Repository = (*MemoryDirectory)(nil)

func NewMemoryDirectory(seed ...User) *MemoryDirectory {
	users := make([]User, len(seed))
	copy(users, seed)
	return &MemoryDirectory{users: users}
}

func (d *MemoryDirectory) Insert(_ context.Context, u User) (User, error) {
	if err := u.Validate(); err != nil {
		return User{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	key := NormalizeEmail(u.Email)
	for _, existing := range d.users {
		if NormalizeEmail(existing.Email) == key {
			return User{}, ErrDuplicateEmail
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	d.users = append(d.users, u)
	return u, nil
}

func (d *MemoryDirectory) GetByID(_ context.Context, id string) (User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, u := range d.users {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (d *MemoryDirectory) GetByEmail(_ context.Context, email string) (User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	key := NormalizeEmail(email)
	for _, u := range d.users {
		if NormalizeEmail(u.Email) == key {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (d *MemoryDirectory) Update(_ context.Context, u User) (User, error) {
	if err := u.Validate(); err != nil {
		return User{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for i, existing := range d.users {
		if existing.ID != u.ID {
			continue
		}
		existing.Name = u.Name
		existing.Phone = u.Phone
		existing.IsHost = u.IsHost
		d.users[i] = existing
		return existing, nil
	}
	return User{}, ErrNotFound
}

func (d *MemoryDirectory) List(_ context.Context) ([]User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]User, len(d.users))
	copy(out, d.users)
	return out, nil
}
