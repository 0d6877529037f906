package profiles

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for profiles.
type Handler struct {
	svc *Service
}

// NewHandler creates a profiles handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// ByHandle handles GET /api/profiles/:handle
func (h *Handler) ByHandle(c *gin.Context) {
	resp, err := h.svc.ByHandle(c.Request.Context(), c.Param("handle"))
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to fetch profile"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Me handles GET /api/profiles/me
func (h *Handler) Me(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	profile, err := h.svc.Me(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to fetch profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateMe handles PATCH /api/profiles/me
func (h *Handler) UpdateMe(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	profile, err := h.svc.UpdateMe(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrProfileNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
		case errors.Is(err, ErrInvalidName),
			errors.Is(err, ErrInvalidHandle),
			errors.Is(err, ErrInvalidBio),
			errors.Is(err, ErrInvalidImage),
			errors.Is(err, ErrHandleTaken):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to update profile"})
		}
		return
	}

	c.JSON(http.StatusOK, profile)
}
