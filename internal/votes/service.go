package votes

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
	// ErrInvalidInput is returned for missing identifiers or an unknown
	// vote type.
	ErrInvalidInput = errors.New("invalid input")
)

// Service implements mutually-exclusive vote toggling. Per (post, user) the
// states are none, UP and DOWN: voting the current polarity again removes
// the vote, voting the opposite polarity switches it in one step.
type Service interface {
	Toggle(ctx context.Context, postID, userID string, t Type) (*ToggleResult, error)
}

type service struct {
	store  Store
	logger *slog.Logger
}

// NewService creates a votes service.
func NewService(store Store, logger *slog.Logger) Service {
	return &service{store: store, logger: logger}
}

func (s *service) Toggle(ctx context.Context, postID, userID string, t Type) (*ToggleResult, error) {
	if postID == "" || userID == "" {
		return nil, ErrInvalidInput
	}
	if t != Up && t != Down {
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

	var userVote *Type
	switch {
	case existing == nil:
		inserted, err := s.store.Insert(ctx, &Vote{
			ID:        uuid.New().String(),
			PostID:    postID,
			UserID:    userID,
			Type:      t,
			CreatedAt: time.Now(),
		})
		if err != nil {
			return nil, err
		}
		if inserted {
			userVote = &t
		} else {
			// A concurrent toggle created a row first; report whatever
			// state won.
			s.logger.Debug("vote insert lost race", "post_id", postID, "user_id", userID)
			current, err := s.store.Find(ctx, postID, userID)
			if err != nil {
				return nil, err
			}
			if current != nil {
				userVote = &current.Type
			}
		}

	case existing.Type == t:
		// Same polarity again removes the vote.
		if err := s.store.Delete(ctx, postID, userID); err != nil {
			return nil, err
		}

	default:
		// Opposite polarity switches directly, no intermediate none state.
		if err := s.store.UpdateType(ctx, postID, userID, t); err != nil {
			return nil, err
		}
		userVote = &t
	}

	up, down, err := s.store.CountByType(ctx, postID)
	if err != nil {
		return nil, err
	}

	return &ToggleResult{UpVotes: up, DownVotes: down, UserVote: userVote}, nil
}
