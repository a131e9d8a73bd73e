package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"parkshare/validation"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email is already registered")
	ErrValidation     = errors.New("invalid user")
)

// User is a marketplace account. The JSON shape is also the persisted session record.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email" validate:"required,email"`
	Name      string    `json:"name" validate:"required"`
	Phone     string    `json:"phone,omitempty"`
	IsHost    bool      `json:"isHost"`
	CreatedAt time.Time `json:"createdAt"`

	PasswordHash []byte `json:"-"`
}

func (u *User) Validate() error {
	if fields := validation.Struct(u); fields != nil {
		return fmt.Errorf("%w: %v", ErrValidation, fields)
	}
	return nil
}

// NormalizeEmail is the lookup key for an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Profile is a partial update of a user. Nil fields are left unchanged.
type Profile struct {
	Name   *string `json:"name,omitempty"`
	Phone  *string `json:"phone,omitempty"`
	IsHost *bool   `json:"isHost,omitempty"`
}

func (p Profile) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.IsHost != nil {
		u.IsHost = *p.IsHost
	}
	return u
}

func (p Profile) Empty() bool {
	return p.Name == nil && p.Phone == nil && p.IsHost == nil
}

// Repository is the user directory.
type Repository interface {
	Insert(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	Update(ctx context.Context, u User) (User, error)
	List(ctx context.Context) ([]User, error)
}
