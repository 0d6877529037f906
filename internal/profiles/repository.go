package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"catsnap/internal/database"
)

// ErrProfileNotFound is returned when no user has the requested handle.
var ErrProfileNotFound = errors.New("profile not found")

// Store defines the profile persistence operations used by the service.
type Store interface {
	// FindByHandle returns the public profile with activity counts.
	FindByHandle(ctx context.Context, handle string) (*Profile, error)

	// FindByID returns the user's own profile, including email.
	FindByID(ctx context.Context, id string) (*Profile, error)

	// HandleTaken reports whether a different user already holds the handle.
	HandleTaken(ctx context.Context, handle, excludeID string) (bool, error)

	// UpdateProfile applies the request's non-nil fields to the user row.
	UpdateProfile(ctx context.Context, id string, req UpdateRequest) error
}

// Repository implements Store against PostgreSQL.
type Repository struct {
	db database.Service
}

// NewRepository creates a profiles repository.
func NewRepository(db database.Service) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindByHandle(ctx context.Context, handle string) (*Profile, error) {
	const q = `
		SELECT u.id, u.name, u.handle, u.image, u.bio, u.created_at,
		       (SELECT COUNT(*) FROM posts p WHERE p.author_id = u.id),
		       (SELECT COUNT(*) FROM likes l WHERE l.user_id = u.id),
		       (SELECT COUNT(*) FROM comments c WHERE c.user_id = u.id)
		FROM users u
		WHERE u.handle = $1
	`
	var p Profile
	err := r.db.QueryRow(ctx, q, handle).Scan(
		&p.ID, &p.Name, &p.Handle, &p.Image, &p.Bio, &p.CreatedAt,
		&p.Counts.Posts, &p.Counts.Likes, &p.Counts.Comments,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find profile by handle: %w", err)
	}
	return &p, nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*Profile, error) {
	const q = `
		SELECT u.id, u.name, u.handle, u.email, u.image, u.bio, u.created_at,
		       (SELECT COUNT(*) FROM posts p WHERE p.author_id = u.id),
		       (SELECT COUNT(*) FROM likes l WHERE l.user_id = u.id),
		       (SELECT COUNT(*) FROM comments c WHERE c.user_id = u.id)
		FROM users u
		WHERE u.id = $1
	`
	var p Profile
	err := r.db.QueryRow(ctx, q, id).Scan(
		&p.ID, &p.Name, &p.Handle, &p.Email, &p.Image, &p.Bio, &p.CreatedAt,
		&p.Counts.Posts, &p.Counts.Likes, &p.Counts.Comments,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find profile by id: %w", err)
	}
	return &p, nil
}

func (r *Repository) HandleTaken(ctx context.Context, handle, excludeID string) (bool, error) {
	var one int
	err := r.db.QueryRow(ctx,
		`SELECT 1 FROM users WHERE handle = $1 AND id <> $2 LIMIT 1`, handle, excludeID,
	).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check handle taken: %w", err)
	}
	return true, nil
}

func (r *Repository) UpdateProfile(ctx context.Context, id string, req UpdateRequest) error {
	sets := []string{}
	args := []any{}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.Handle != nil {
		add("handle", *req.Handle)
	}
	if req.Bio != nil {
		add("bio", *req.Bio)
	}
	if req.Image != nil {
		add("image", *req.Image)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	q := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d",
		strings.Join(sets, ", "), len(args))
	if _, err := r.db.Exec(ctx, q, args...); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}
