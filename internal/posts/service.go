package posts

import (
	"context"
	"errors"
	"log/slog"
	"unicode/utf8"
)

const (
	// DefaultLimit is the page size used when the request does not set one.
	DefaultLimit = 20
	// MaxLimit caps the requested page size.
	MaxLimit = 50
	// MaxTags caps the number of tags attached at creation.
	MaxTags = 10
	// MaxCaptionLen caps the caption length in characters.
	MaxCaptionLen = 2000
)

var (
	// ErrInvalidLimit is returned for a limit outside [1, MaxLimit].
	ErrInvalidLimit = errors.New("limit must be between 1 and 50")
	// ErrValidation is returned for otherwise malformed create input.
	ErrValidation = errors.New("invalid post input")
)

// Service implements the feed query engine and post creation on top of a
// Store. The publicURL function derives a served image URL from an object
// key; storage injects it so this package stays unaware of buckets.
type Service struct {
	store     Store
	publicURL func(key string) string
	logger    *slog.Logger
}

// NewService creates a posts service.
func NewService(store Store, publicURL func(key string) string, logger *slog.Logger) *Service {
	return &Service{store: store, publicURL: publicURL, logger: logger}
}

// Feed returns one page of the feed. It fetches limit+1 rows; the presence
// of the extra row decides hasMore, and the last kept item becomes the next
// cursor.
func (s *Service) Feed(ctx context.Context, req FeedRequest) (*FeedPage, error) {
	limit := req.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 1 || limit > MaxLimit {
		return nil, ErrInvalidLimit
	}

	filter := Filter{Text: req.Query, Tag: req.Tag}
	rows, err := s.store.FindPage(ctx, filter, req.Cursor, limit+1)
	if err != nil {
		return nil, err
	}

	page := &FeedPage{Items: rows}
	if len(rows) > limit {
		page.Items = rows[:limit]
		page.HasMore = true
		page.NextCursor = page.Items[limit-1].ID
	}
	if page.Items == nil {
		page.Items = []Post{}
	}

	return page, nil
}

// Get returns a post by id. Reported posts stay addressable here.
func (s *Service) Get(ctx context.Context, id string) (*Post, error) {
	return s.store.FindByID(ctx, id)
}

// ByAuthor returns an author's non-reported posts, newest first.
func (s *Service) ByAuthor(ctx context.Context, authorID string) ([]Post, error) {
	posts, err := s.store.FindByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []Post{}
	}
	return posts, nil
}

// Create validates the request and inserts the post with its tags.
func (s *Service) Create(ctx context.Context, authorID string, req CreatePostRequest) (*Post, error) {
	if req.ImageKey == "" {
		return nil, ErrValidation
	}
	if utf8.RuneCountInString(req.Caption) > MaxCaptionLen {
		return nil, ErrValidation
	}
	if len(req.Tags) > MaxTags {
		return nil, ErrValidation
	}

	post, err := s.store.Create(ctx, NewPost{
		AuthorID: authorID,
		Caption:  req.Caption,
		ImageKey: req.ImageKey,
		ImageURL: s.publicURL(req.ImageKey),
		BlurHash: req.BlurHash,
		Tags:     req.Tags,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("post created", "post_id", post.ID, "author_id", authorID, "tags", len(req.Tags))
	return post, nil
}
