package votes

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"catsnap/internal/database"
)

// Store defines the vote persistence operations used by the service.
type Store interface {
	// Find returns the vote for the pair, or nil when absent.
	Find(ctx context.Context, postID, userID string) (*Vote, error)

	// Insert adds a vote. It returns false without error when the pair
	// already had a row (a lost race on the uniqueness constraint).
	Insert(ctx context.Context, v *Vote) (bool, error)

	// UpdateType changes the pair's vote polarity in place.
	UpdateType(ctx context.Context, postID, userID string, t Type) error

	// Delete removes the pair's vote if present.
	Delete(ctx context.Context, postID, userID string) error

	// CountByType returns the post's up and down vote totals.
	CountByType(ctx context.Context, postID string) (up, down int64, err error)

	// PostExists reports whether the target post exists.
	PostExists(ctx context.Context, postID string) (bool, error)
}

// Repository implements Store against PostgreSQL.
type Repository struct {
	db database.Service
}

// NewRepository creates a votes repository.
func NewRepository(db database.Service) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Find(ctx context.Context, postID, userID string) (*Vote, error) {
	const q = `
		SELECT id, post_id, user_id, type, created_at
		FROM votes
		WHERE post_id = $1 AND user_id = $2
	`
	var v Vote
	err := r.db.QueryRow(ctx, q, postID, userID).Scan(&v.ID, &v.PostID, &v.UserID, &v.Type, &v.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find vote: %w", err)
	}
	return &v, nil
}

func (r *Repository) Insert(ctx context.Context, v *Vote) (bool, error) {
	const q = `
		INSERT INTO votes (id, post_id, user_id, type, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (post_id, user_id) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, q, v.ID, v.PostID, v.UserID, v.Type, v.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("insert vote: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) UpdateType(ctx context.Context, postID, userID string, t Type) error {
	const q = `UPDATE votes SET type = $3 WHERE post_id = $1 AND user_id = $2`
	if _, err := r.db.Exec(ctx, q, postID, userID, t); err != nil {
		return fmt.Errorf("update vote type: %w", err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, postID, userID string) error {
	const q = `DELETE FROM votes WHERE post_id = $1 AND user_id = $2`
	if _, err := r.db.Exec(ctx, q, postID, userID); err != nil {
		return fmt.Errorf("delete vote: %w", err)
	}
	return nil
}

func (r *Repository) CountByType(ctx context.Context, postID string) (int64, int64, error) {
	const q = `
		SELECT COUNT(*) FILTER (WHERE type = 'UP'),
		       COUNT(*) FILTER (WHERE type = 'DOWN')
		FROM votes
		WHERE post_id = $1
	`
	var up, down int64
	if err := r.db.QueryRow(ctx, q, postID).Scan(&up, &down); err != nil {
		return 0, 0, fmt.Errorf("count votes: %w", err)
	}
	return up, down, nil
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
