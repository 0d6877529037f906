package comments

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for comments.
type Handler struct {
	svc Service
}

// NewHandler creates a comments handler.
func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// Create handles POST /api/comments
func (h *Handler) Create(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	comment, err := h.svc.Create(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrPostNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "post not found"})
		case errors.Is(err, ErrInvalidBody):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to create comment"})
		}
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// ListByPost handles GET /api/posts/:id/comments
func (h *Handler) ListByPost(c *gin.Context) {
	comments, err := h.svc.ListByPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to fetch comments"})
		return
	}

	c.JSON(http.StatusOK, comments)
}
