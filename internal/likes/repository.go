package likes

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"catsnap/internal/database"
)

// Store defines the like persistence operations used by the service.
type Store interface {
	// Find returns the like for the pair, or nil when absent.
	Find(ctx context.Context, postID, userID string) (*Like, error)

	// Insert adds a like. It returns false without error when the pair
	// already had a row (a lost race on the uniqueness constraint).
	Insert(ctx context.Context, l *Like) (bool, error)

	// Delete removes the pair's like if present.
	Delete(ctx context.Context, postID, userID string) error

	// Count returns the post's total like count.
	Count(ctx context.Context, postID string) (int64, error)

	// PostExists reports whether the target post exists.
	PostExists(ctx context.Context, postID string) (bool, error)
}

// Repository implements Store against PostgreSQL.
type Repository struct {
	db database.Service
}

// NewRepository creates a likes repository.
func NewRepository(db database.Service) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Find(ctx context.Context, postID, userID string) (*Like, error) {
	const q = `
		SELECT id, post_id, user_id, created_at
		FROM likes
		WHERE post_id = $1 AND user_id = $2
	`
	var l Like
	err := r.db.QueryRow(ctx, q, postID, userID).Scan(&l.ID, &l.PostID, &l.UserID, &l.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find like: %w", err)
	}
	return &l, nil
}

func (r *Repository) Insert(ctx context.Context, l *Like) (bool, error) {
	const q = `
		INSERT INTO likes (id, post_id, user_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (post_id, user_id) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, q, l.ID, l.PostID, l.UserID, l.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("insert like: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) Delete(ctx context.Context, postID, userID string) error {
	const q = `DELETE FROM likes WHERE post_id = $1 AND user_id = $2`
	if _, err := r.db.Exec(ctx, q, postID, userID); err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	return nil
}

func (r *Repository) Count(ctx context.Context, postID string) (int64, error) {
	const q = `SELECT COUNT(*) FROM likes WHERE post_id = $1`
	var cnt int64
	if err := r.db.QueryRow(ctx, q, postID).Scan(&cnt); err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return cnt, nil
}

func (r *Repository) PostExists(ctx context.Context, postID string) (bool, error) {
	var one int
	err := r.db.QueryRow(ctx, `SELECT 1 FROM posts WHERE id = $1`, postID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check post exists: %w", err)
	}
	return true, nil
}
