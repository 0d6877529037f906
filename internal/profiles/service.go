// Package profiles serves public user profiles and self-profile settings.
package profiles

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"catsnap/internal/posts"
)

const (
	// MinNameLen is the shortest accepted display name.
	MinNameLen = 2
	// MaxBioLen caps the bio length in characters.
	MaxBioLen = 500
)

var handlePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

var (
	// ErrInvalidName is returned for a display name shorter than MinNameLen.
	ErrInvalidName = errors.New("name must be at least 2 characters")
	// ErrInvalidHandle is returned for a malformed handle.
	ErrInvalidHandle = errors.New("handle must be 3-20 letters, numbers or underscores")
	// ErrInvalidBio is returned for a bio over MaxBioLen characters.
	ErrInvalidBio = errors.New("bio must be less than 500 characters")
	// ErrInvalidImage is returned when the image is not a valid URL.
	ErrInvalidImage = errors.New("image must be a valid URL")
	// ErrHandleTaken is returned when another user already holds the handle.
	ErrHandleTaken = errors.New("handle is already taken")
)

// PostLister provides an author's visible posts.
type PostLister interface {
	ByAuthor(ctx context.Context, authorID string) ([]posts.Post, error)
}

// ImageStore removes replaced profile pictures from object storage.
type ImageStore interface {
	KeyFromURL(url string) (string, bool)
	DeleteObject(ctx context.Context, key string) error
}

// Service assembles profile pages and applies settings updates.
type Service struct {
	store  Store
	posts  PostLister
	images ImageStore
	logger *slog.Logger
}

// NewService creates a profiles service. images may be nil when object
// storage is unavailable; replaced pictures are then left in place.
func NewService(store Store, posts PostLister, images ImageStore, logger *slog.Logger) *Service {
	return &Service{store: store, posts: posts, images: images, logger: logger}
}

// ByHandle returns the profile and the user's non-reported posts.
func (s *Service) ByHandle(ctx context.Context, handle string) (*Response, error) {
	profile, err := s.store.FindByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}

	userPosts, err := s.posts.ByAuthor(ctx, profile.ID)
	if err != nil {
		return nil, err
	}

	return &Response{User: *profile, Posts: userPosts}, nil
}

// Me returns the caller's own profile, including email.
func (s *Service) Me(ctx context.Context, userID string) (*Profile, error) {
	return s.store.FindByID(ctx, userID)
}

// UpdateMe validates and applies a settings update, then returns the fresh
// profile. A replaced managed profile picture is deleted from storage.
func (s *Service) UpdateMe(ctx context.Context, userID string, req UpdateRequest) (*Profile, error) {
	if err := validateUpdate(req); err != nil {
		return nil, err
	}

	if req.Handle != nil {
		taken, err := s.store.HandleTaken(ctx, *req.Handle, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrHandleTaken
		}
	}

	current, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateProfile(ctx, userID, req); err != nil {
		return nil, err
	}

	s.cleanupReplacedPicture(ctx, current, req)

	return s.store.FindByID(ctx, userID)
}

func validateUpdate(req UpdateRequest) error {
	if req.Name != nil && utf8.RuneCountInString(*req.Name) < MinNameLen {
		return ErrInvalidName
	}
	if req.Handle != nil && !handlePattern.MatchString(*req.Handle) {
		return ErrInvalidHandle
	}
	if req.Bio != nil && utf8.RuneCountInString(*req.Bio) > MaxBioLen {
		return ErrInvalidBio
	}
	if req.Image != nil {
		u, err := url.Parse(*req.Image)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return ErrInvalidImage
		}
	}
	return nil
}

// cleanupReplacedPicture deletes the previous profile picture when the
// update swapped it for a new one and the old object lives in our bucket.
// Deletion is best effort; the update itself already succeeded.
func (s *Service) cleanupReplacedPicture(ctx context.Context, current *Profile, req UpdateRequest) {
	if s.images == nil || req.Image == nil || current.Image == nil || *current.Image == *req.Image {
		return
	}

	key, ok := s.images.KeyFromURL(*current.Image)
	if !ok || !strings.HasPrefix(key, "profile-pictures/") {
		return
	}

	if err := s.images.DeleteObject(ctx, key); err != nil {
		s.logger.Warn("delete replaced profile picture", "key", key, "error", err)
	}
}
