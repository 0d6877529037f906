package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionCookie is the cookie carrying the session id.
const SessionCookie = "session_id"

// Handler handles HTTP requests for authentication.
type Handler struct {
	svc Service
}

// NewHandler creates an auth handler.
func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// Register handles POST /api/auth/register
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	user, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserExists):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, ErrInvalidHandle):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to register user"})
		}
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login handles POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	sessionID, user, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to log in"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, sessionID, int(SessionTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, user)
}

// Logout handles POST /api/auth/logout
func (h *Handler) Logout(c *gin.Context) {
	sessionID, err := c.Cookie(SessionCookie)
	if err != nil || sessionID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	if err := h.svc.Logout(c.Request.Context(), sessionID); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to log out"})
		return
	}

	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
