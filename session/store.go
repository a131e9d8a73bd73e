package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"parkshare/user"

	"golang.org/x/crypto/bcrypt"
)

// StorageKey is the storage slot holding the active user record.
const StorageKey = "user"

const MinPasswordLength = 6

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNoActiveSession    = errors.New("no active session")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrSessionUnavailable = errors.New("session could not be saved")
)

// Store tracks the single signed-in user and mirrors it to Storage so a
// restart can pick the session back up.
type Store struct {
	users   user.Repository
	storage Storage

	now             func() time.Time
	verifyPasswords bool
	hashCost        int

	mu      sync.RWMutex
	current *user.User
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithPasswordVerification makes SignIn check the stored bcrypt hash.
func WithPasswordVerification(on bool) Option {
	return func(s *Store) { s.verifyPasswords = on }
}

func WithHashCost(cost int) Option {
	return func(s *Store) { s.hashCost = cost }
}

func NewStore(users user.Repository, storage Storage, opts ...Option) *Store {
	s := &Store{
		users:    users,
		storage:  storage,
		now:      time.Now,
		hashCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore loads the persisted session. A missing or unreadable record leaves
// the store signed out.
func (s *Store) Restore(ctx context.Context) (user.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil

	raw, ok, err := s.storage.Get(ctx, StorageKey)
	if err != nil {
		log.Printf("session: failed to load user from storage: %v", err)
		return user.User{}, false
	}
	if !ok {
		return user.User{}, false
	}

	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		log.Printf("session: failed to parse stored user: %v", err)
		return user.User{}, false
	}
	u := rec.toUser()
	if u.ID == "" {
		log.Printf("session: stored user has no id, ignoring")
		return user.User{}, false
	}

	existing, err := s.users.GetByID(ctx, u.ID)
	switch {
	case errors.Is(err, user.ErrNotFound):
		// The directory may be in-memory and have lost users registered before the restart.
		if _, err := s.users.Insert(ctx, u); err != nil {
			log.Printf("session: failed to re-add user %s to directory: %v", u.ID, err)
		}
	case err != nil:
		log.Printf("session: failed to look up user %s: %v", u.ID, err)
	default:
		u = s.reconcile(ctx, existing, u)
	}

	s.current = &u
	return u, true
}

// reconcile brings the directory in line with the restored profile. If the
// directory cannot be updated its record wins and is stored again. Callers hold s.mu.
func (s *Store) reconcile(ctx context.Context, existing, stored user.User) user.User {
	if existing.Name == stored.Name && existing.Phone == stored.Phone && existing.IsHost == stored.IsHost {
		return existing
	}

	updated, err := s.users.Update(ctx, stored)
	if err == nil {
		return updated
	}
	log.Printf("session: failed to restore profile of %s to directory: %v", stored.ID, err)
	if err := s.persist(ctx, existing); err != nil {
		log.Printf("session: failed to store directory profile of %s: %v", existing.ID, err)
	}
	return existing
}

func (s *Store) Current() (user.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return user.User{}, false
	}
	return *s.current, true
}

func (s *Store) SignIn(ctx context.Context, email, password string) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, user.ErrNotFound) {
		return user.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return user.User{}, fmt.Errorf("get user by email: %w", err)
	}

	if s.verifyPasswords {
		if len(u.PasswordHash) == 0 || bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) != nil {
			return user.User{}, ErrInvalidCredentials
		}
	}

	if err := s.activate(ctx, u); err != nil {
		return user.User{}, err
	}
	return u, nil
}

func (s *Store) Register(ctx context.Context, email, password, name string) (user.User, error) {
	if len(password) < MinPasswordLength {
		return user.User{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.users.Insert(ctx, user.User{
		Email:        strings.TrimSpace(email),
		Name:         strings.TrimSpace(name),
		IsHost:       false,
		CreatedAt:    s.now().UTC(),
		PasswordHash: hash,
	})
	if err != nil {
		return user.User{}, err
	}

	if err := s.activate(ctx, u); err != nil {
		return user.User{}, err
	}
	return u, nil
}

// SignOut always ends the in-memory session, even if the stored copy cannot be removed.
func (s *Store) SignOut(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	if err := s.storage.Delete(ctx, StorageKey); err != nil {
		log.Printf("session: failed to remove stored user: %v", err)
	}
}

// UpdateProfile merges p into the active user. If the new record cannot be
// persisted the previous profile is kept.
func (s *Store) UpdateProfile(ctx context.Context, p user.Profile) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return user.User{}, ErrNoActiveSession
	}
	prev := *s.current
	if p.Empty() {
		return prev, nil
	}

	updated, err := s.users.Update(ctx, p.Apply(prev))
	if err != nil {
		return user.User{}, fmt.Errorf("update user: %w", err)
	}

	if err := s.persist(ctx, updated); err != nil {
		if _, rerr := s.users.Update(ctx, prev); rerr != nil {
			log.Printf("session: failed to roll back profile of %s: %v", prev.ID, rerr)
		}
		return user.User{}, ErrSessionUnavailable
	}

	s.current = &updated
	return updated, nil
}

// activate persists u and makes it the active session. Callers hold s.mu.
func (s *Store) activate(ctx context.Context, u user.User) error {
	if err := s.persist(ctx, u); err != nil {
		s.current = nil
		return ErrSessionUnavailable
	}
	s.current = &u
	return nil
}

func (s *Store) persist(ctx context.Context, u user.User) error {
	raw, err := json.Marshal(record{User: u, PasswordHash: u.PasswordHash})
	if err != nil {
		log.Printf("session: failed to encode user %s: %v", u.ID, err)
		return err
	}
	if err := s.storage.Set(ctx, StorageKey, string(raw)); err != nil {
		log.Printf("session: failed to store user %s: %v", u.ID, err)
		return err
	}
	return nil
}

// record is the stored form of the active user. It keeps the password hash so
// a user restored into an empty directory can still sign in with verification on.
type record struct {
	user.User
	PasswordHash []byte `json:"passwordHash,omitempty"`
}

func (r record) toUser() user.User {
	u := r.User
	u.PasswordHash = r.PasswordHash
	return u
}
