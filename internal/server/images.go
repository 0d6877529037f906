package server

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"catsnap/internal/storage"
)

// MaxImageSize is the upload size limit in bytes.
const MaxImageSize = 10 << 20

var imageContentType = regexp.MustCompile(`^image/(jpeg|jpg|png|webp|gif)$`)

// GenerateUploadURLRequest is the body for POST /api/images.
type GenerateUploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
	Size        int64  `json:"size" binding:"required"`
}

// generateUploadURLHandler issues a presigned upload URL for a new image.
func (s *Server) generateUploadURLHandler(c *gin.Context) {
	if s.storage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage service is not available"})
		return
	}

	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req GenerateUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	if !imageContentType.MatchString(req.ContentType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image type"})
		return
	}
	if req.Size <= 0 || req.Size > MaxImageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image must be less than 10MB"})
		return
	}

	upload, err := s.storage.GenerateImageUpload(c.Request.Context(), userID, req.ContentType)
	if err != nil {
		s.logger.Error("generate upload url", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate upload URL"})
		return
	}

	c.JSON(http.StatusOK, upload)
}

// uploadProfilePictureHandler stores a profile picture sent as multipart
// form data. Unlike post images, the bytes pass through the API so the
// picture is live as soon as the request returns.
func (s *Server) uploadProfilePictureHandler(c *gin.Context) {
	if s.storage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage service is not available"})
		return
	}

	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})
		return
	}
	if file.Size > storage.MaxProfilePictureSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "profile picture must be less than 5MB"})
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !imageContentType.MatchString(contentType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image type"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}
	defer src.Close()

	picture, err := s.storage.UploadProfilePicture(c.Request.Context(), userID, contentType, src)
	if err != nil {
		s.logger.Error("upload profile picture", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload profile picture"})
		return
	}

	c.JSON(http.StatusOK, picture)
}
