package likes

import "time"

// Like marks that a user liked a post. At most one row exists per
// (post, user) pair.
type Like struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToggleRequest is the body for POST /api/likes.
type ToggleRequest struct {
	PostID string `json:"postId" binding:"required"`
}

// ToggleResult reports the caller's new state and the fresh total.
type ToggleResult struct {
	Liked bool  `json:"liked"`
	Count int64 `json:"count"`
}

// ErrorResponse is the JSON error envelope used by like handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}
