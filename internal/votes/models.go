package votes

import "time"

// Type is a vote polarity.
type Type string

const (
	// Up is an upvote.
	Up Type = "UP"
	// Down is a downvote.
	Down Type = "DOWN"
)

// Vote is a user's single vote on a post. At most one row exists per
// (post, user) pair; repeat votes change or remove it.
type Vote struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	Type      Type      `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToggleRequest is the body for POST /api/votes.
type ToggleRequest struct {
	PostID string `json:"postId" binding:"required"`
	Type   Type   `json:"type" binding:"required,oneof=UP DOWN"`
}

// ToggleResult reports fresh per-polarity counts and the caller's state.
// UserVote is nil when the toggle removed the vote.
type ToggleResult struct {
	UpVotes   int64 `json:"upVotes"`
	DownVotes int64 `json:"downVotes"`
	UserVote  *Type `json:"userVote"`
}

// ErrorResponse is the JSON error envelope used by vote handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}
