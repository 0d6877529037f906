package profiles

import (
	"time"

	"catsnap/internal/posts"
)

// Counts summarizes a user's activity.
type Counts struct {
	Posts    int64 `json:"posts"`
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
}

// Profile is the public view of a user. Email is only populated on the
// self-profile.
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Handle    string    `json:"handle"`
	Email     string    `json:"email,omitempty"`
	Image     *string   `json:"image"`
	Bio       *string   `json:"bio"`
	CreatedAt time.Time `json:"createdAt"`
	Counts    Counts    `json:"counts"`
}

// UpdateRequest is the body for PATCH /api/profiles/me. Nil fields are left
// unchanged.
type UpdateRequest struct {
	Name   *string `json:"name"`
	Handle *string `json:"handle"`
	Bio    *string `json:"bio"`
	Image  *string `json:"image"`
}

// Response is the body for GET /api/profiles/:handle.
type Response struct {
	User  Profile      `json:"user"`
	Posts []posts.Post `json:"posts"`
}

// ErrorResponse is the JSON error envelope used by profile handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}
