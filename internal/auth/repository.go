package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"catsnap/internal/database"
)

// Store defines the user persistence operations used by the service.
type Store interface {
	// FindByEmail returns the user and their password hash, or (nil, "")
	// when no such user exists.
	FindByEmail(ctx context.Context, email string) (*User, string, error)

	// Taken reports whether the email or handle is already registered.
	Taken(ctx context.Context, email, handle string) (bool, error)

	// Create inserts a new user with the given password hash.
	Create(ctx context.Context, u *User, passwordHash string) error
}

// Repository implements Store against PostgreSQL.
type Repository struct {
	db database.Service
}

// NewRepository creates a users repository.
func NewRepository(db database.Service) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, string, error) {
	const q = `
		SELECT id, email, handle, name, bio, image, password_hash, created_at
		FROM users
		WHERE email = $1
	`
	var (
		u    User
		hash string
	)
	err := r.db.QueryRow(ctx, q, email).Scan(
		&u.ID, &u.Email, &u.Handle, &u.Name, &u.Bio, &u.Image, &hash, &u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("find user by email: %w", err)
	}
	return &u, hash, nil
}

func (r *Repository) Taken(ctx context.Context, email, handle string) (bool, error) {
	var one int
	err := r.db.QueryRow(ctx,
		`SELECT 1 FROM users WHERE email = $1 OR handle = $2 LIMIT 1`, email, handle,
	).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return true, nil
}

func (r *Repository) Create(ctx context.Context, u *User, passwordHash string) error {
	const q = `
		INSERT INTO users (id, email, handle, name, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, q, u.ID, u.Email, u.Handle, u.Name, passwordHash).Scan(&u.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}
