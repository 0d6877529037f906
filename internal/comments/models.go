package comments

import "time"

// Author is the denormalized author block attached to a comment.
type Author struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Handle string  `json:"handle"`
	Image  *string `json:"image"`
}

// Comment is a user comment on a post.
type Comment struct {
	ID        int64     `json:"id"`
	PostID    string    `json:"postId"`
	Author    Author    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateRequest is the body for POST /api/comments.
type CreateRequest struct {
	PostID string `json:"postId" binding:"required"`
	Body   string `json:"body" binding:"required,min=1,max=1000"`
}

// ErrorResponse is the JSON error envelope used by comment handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}
