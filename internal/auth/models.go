package auth

import "time"

// User is the public user record. The password hash never leaves the
// repository layer.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Handle    string    `json:"handle"`
	Name      string    `json:"name"`
	Bio       *string   `json:"bio,omitempty"`
	Image     *string   `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// RegisterRequest is the body for POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required,min=2"`
	Handle   string `json:"handle" binding:"required,min=3,max=20"`
}

// LoginRequest is the body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ErrorResponse is the JSON error envelope used by auth handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}
