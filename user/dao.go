package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"parkshare/database"

	"github.com/google/uuid"
)

const selectColumns = `SELECT id, email, name, phone, is_host, created_at, password_hash FROM users`

func (a *Accessor) Insert(ctx context.Context, u User) (User, error) {
	if err := u.Validate(); err != nil {
		return User{}, err
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	query := `INSERT INTO users (id, email, name, phone, is_host, created_at, password_hash) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := a.db.ExecContext(ctx, query, u.ID, u.Email, u.Name, u.Phone, u.IsHost, u.CreatedAt, u.PasswordHash); err != nil {
		if database.IsUniqueViolation(err) {
			return User{}, ErrDuplicateEmail
		}
		return User{}, fmt.Errorf("exec context: %w", err)
	}

	return u, nil
}

func (a *Accessor) GetByID(ctx context.Context, id string) (User, error) {
	return a.getOne(ctx, selectColumns+` WHERE id = $1`, id)
}

func (a *Accessor) GetByEmail(ctx context.Context, email string) (User, error) {
	return a.getOne(ctx, selectColumns+` WHERE lower(email) = $1`, NormalizeEmail(email))
}

func (a *Accessor) getOne(ctx context.Context, query string, arg any) (User, error) {
	var u User
	row := a.db.QueryRowContext(ctx, query, arg)
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Phone, &u.IsHost, &u.CreatedAt, &u.PasswordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("scan: %w", err)
	}
	return u, nil
}

func (a *Accessor) Update(ctx context.Context, u User) (User, error) {
	if err := u.Validate(); err != nil {
		return User{}, err
	}

	// Only the profile fields change. id, email and created_at are fixed.
	query := `UPDATE users SET name = $1, phone = $2, is_host = $3 WHERE id = $4`
	res, err := a.db.ExecContext(ctx, query, u.Name, u.Phone, u.IsHost, u.ID)
	if err != nil {
		return User{}, fmt.Errorf("exec context: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return User{}, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return User{}, ErrNotFound
	}

	return a.GetByID(ctx, u.ID)
}

func (a *Accessor) List(ctx context.Context) ([]User, error) {
	rows, err := a.db.QueryContext(ctx, selectColumns+` ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query context: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Phone, &u.IsHost, &u.CreatedAt, &u.PasswordHash); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return users, nil
}
