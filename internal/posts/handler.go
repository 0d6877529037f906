package posts

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the feed and post creation.
type Handler struct {
	service *Service
}

// NewHandler creates a posts handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Feed handles GET /api/posts?q=&tag=&cursor=&limit=
func (h *Handler) Feed(c *gin.Context) {
	req := FeedRequest{
		Query:  c.Query("q"),
		Tag:    c.Query("tag"),
		Cursor: c.Query("cursor"),
	}

	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be an integer"})
			return
		}
		req.Limit = n
	}

	page, err := h.service.Feed(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidLimit):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, ErrInvalidCursor):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to fetch posts"})
		}
		return
	}

	c.JSON(http.StatusOK, page)
}

// Get handles GET /api/posts/:id
func (h *Handler) Get(c *gin.Context) {
	post, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to fetch post"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// Create handles POST /api/posts
func (h *Handler) Create(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	post, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to create post"})
		return
	}

	c.JSON(http.StatusCreated, post)
}

// MyPosts handles GET /api/profiles/me/posts
func (h *Handler) MyPosts(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	posts, err := h.service.ByAuthor(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to fetch posts"})
		return
	}

	c.JSON(http.StatusOK, posts)
}
