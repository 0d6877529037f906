package comments

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"

	"catsnap/internal/database"
)

// MaxBodyLen caps comment length in characters.
const MaxBodyLen = 1000

var (
	// ErrPostNotFound is returned when the target post does not exist.
	ErrPostNotFound = errors.New("post not found")
	// ErrInvalidBody is returned for an empty or oversized comment body.
	ErrInvalidBody = errors.New("comment body must be between 1 and 1000 characters")
)

// Service provides comment creation and listing.
type Service interface {
	Create(ctx context.Context, userID string, req CreateRequest) (*Comment, error)
	ListByPost(ctx context.Context, postID string) ([]Comment, error)
}

type service struct {
	db database.Service
}

// NewService creates a comments service.
func NewService(db database.Service) Service {
	return &service{db: db}
}

func (s *service) Create(ctx context.Context, userID string, req CreateRequest) (*Comment, error) {
	if n := utf8.RuneCountInString(req.Body); n < 1 || n > MaxBodyLen {
		return nil, ErrInvalidBody
	}

	var one int
	err := s.db.QueryRow(ctx, `SELECT 1 FROM posts WHERE id = $1`, req.PostID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("check post exists: %w", err)
	}

	const q = `
		INSERT INTO comments (post_id, user_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	c := &Comment{PostID: req.PostID, Body: req.Body}
	if err := s.db.QueryRow(ctx, q, req.PostID, userID, req.Body).Scan(&c.ID, &c.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}

	const authorQ = `SELECT id, name, handle, image FROM users WHERE id = $1`
	if err := s.db.QueryRow(ctx, authorQ, userID).Scan(
		&c.Author.ID, &c.Author.Name, &c.Author.Handle, &c.Author.Image,
	); err != nil {
		return nil, fmt.Errorf("load comment author: %w", err)
	}

	return c, nil
}

func (s *service) ListByPost(ctx context.Context, postID string) ([]Comment, error) {
	const q = `
		SELECT c.id, c.post_id, c.body, c.created_at,
		       u.id, u.name, u.handle, u.image
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC, c.id ASC
	`
	rows, err := s.db.Query(ctx, q, postID)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	comments := []Comment{}
	for rows.Next() {
		var c Comment
		err := rows.Scan(
			&c.ID, &c.PostID, &c.Body, &c.CreatedAt,
			&c.Author.ID, &c.Author.Name, &c.Author.Handle, &c.Author.Image,
		)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}

	return comments, nil
}
