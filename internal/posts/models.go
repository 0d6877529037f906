package posts

import "time"

// AuthorSummary is the denormalized author block attached to every post.
type AuthorSummary struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Handle string  `json:"handle"`
	Image  *string `json:"image"`
}

// Counts holds per-post engagement totals, always computed by counting rows.
type Counts struct {
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
	Votes    int64 `json:"votes"`
}

// Post is a feed entry with its author, tags and engagement counts.
type Post struct {
	ID         string        `json:"id"`
	Author     AuthorSummary `json:"author"`
	Caption    string        `json:"caption"`
	ImageKey   string        `json:"imageKey"`
	ImageURL   string        `json:"imageUrl"`
	BlurHash   *string       `json:"blurHash,omitempty"`
	IsReported bool          `json:"isReported"`
	Tags       []string      `json:"tags"`
	Counts     Counts        `json:"counts"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// CreatePostRequest is the body for POST /api/posts. The image must already
// be uploaded; only its object key is sent here.
type CreatePostRequest struct {
	Caption  string   `json:"caption" binding:"max=2000"`
	ImageKey string   `json:"imageKey" binding:"required"`
	BlurHash string   `json:"blurHash"`
	Tags     []string `json:"tags" binding:"max=10"`
}

// FeedRequest carries the parsed feed/search query parameters.
type FeedRequest struct {
	Query  string
	Tag    string
	Cursor string
	Limit  int
}

// FeedPage is one page of the feed plus cursor bookkeeping.
type FeedPage struct {
	Items      []Post `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore"`
}

// NewPost is the repository input for creating a post with its tags.
type NewPost struct {
	AuthorID string
	Caption  string
	ImageKey string
	ImageURL string
	BlurHash string
	Tags     []string
}

// ErrorResponse is the JSON error envelope used by post handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}
