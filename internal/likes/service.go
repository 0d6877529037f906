package likes

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrPostNotFound is returned when the target post does not exist.
	ErrPostNotFound = errors.New("post not found")
	// ErrInvalidInput is returned when required identifiers are missing.
	ErrInvalidInput = errors.New("invalid input")
)

// Service implements idempotent like toggling.
type Service interface {
	// Toggle flips the like state for (postID, userID) and returns the new
	// state with a fresh count.
	Toggle(ctx context.Context, postID, userID string) (*ToggleResult, error)
}

type service struct {
	store  Store
	logger *slog.Logger
}

// NewService creates a likes service.
func NewService(store Store, logger *slog.Logger) Service {
	return &service{store: store, logger: logger}
}

func (s *service) Toggle(ctx context.Context, postID, userID string) (*ToggleResult, error) {
	if postID == "" || userID == "" {
		return nil, ErrInvalidInput
	}

	exists, err := s.store.PostExists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrPostNotFound
	}

	existing, err := s.store.Find(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	liked := existing == nil
	if existing != nil {
		if err := s.store.Delete(ctx, postID, userID); err != nil {
			return nil, err
		}
	} else {
		inserted, err := s.store.Insert(ctx, &Like{
			ID:        uuid.New().String(),
			PostID:    postID,
			UserID:    userID,
			CreatedAt: time.Now(),
		})
		if err != nil {
			return nil, err
		}
		if !inserted {
			// A concurrent toggle created the row first. The pair is liked
			// either way, so converge on the existing row.
			s.logger.Debug("like insert lost race", "post_id", postID, "user_id", userID)
		}
	}

	count, err := s.store.Count(ctx, postID)
	if err != nil {
		return nil, err
	}

	return &ToggleResult{Liked: liked, Count: count}, nil
}
