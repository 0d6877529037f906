package likes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for like toggling.
type Handler struct {
	svc Service
}

// NewHandler creates a likes handler.
func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// Toggle handles POST /api/likes
func (h *Handler) Toggle(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	result, err := h.svc.Toggle(c.Request.Context(), req.PostID, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrPostNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "post not found"})
		case errors.Is(err, ErrInvalidInput):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to toggle like"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
