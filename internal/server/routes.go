package server

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"catsnap/internal/auth"
	"catsnap/internal/comments"
	"catsnap/internal/config"
	"catsnap/internal/likes"
	"catsnap/internal/posts"
	"catsnap/internal/profiles"
	"catsnap/internal/votes"
)

// RegisterRoutes builds the gin engine with all API routes.
func (s *Server) RegisterRoutes() http.Handler {
	r := gin.Default()

	allowedOrigins := strings.Split(
		config.GetEnvOrDefault("CORS_ALLOW_ORIGINS", "http://localhost:3000"), ",")
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	postsRepo := posts.NewRepository(s.db)
	postsService := posts.NewService(postsRepo, s.publicURL, s.logger)
	postsHandler := posts.NewHandler(postsService)

	likesHandler := likes.NewHandler(likes.NewService(likes.NewRepository(s.db), s.logger))
	votesHandler := votes.NewHandler(votes.NewService(votes.NewRepository(s.db), s.logger))
	commentsHandler := comments.NewHandler(comments.NewService(s.db))

	authHandler := auth.NewHandler(auth.NewService(auth.NewRepository(s.db), s.sessions, s.logger))

	var imageStore profiles.ImageStore
	if s.storage != nil {
		imageStore = s.storage
	}
	profilesService := profiles.NewService(profiles.NewRepository(s.db), postsService, imageStore, s.logger)
	profilesHandler := profiles.NewHandler(profilesService)

	r.GET("/health", s.healthHandler)

	api := r.Group("/api")
	{
		api.GET("/posts", postsHandler.Feed)
		api.GET("/posts/:id", postsHandler.Get)
		api.GET("/posts/:id/comments", commentsHandler.ListByPost)
		api.GET("/profiles/:handle", profilesHandler.ByHandle)

		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)
	}

	authed := api.Group("")
	authed.Use(RequireAuth(s.sessions))
	{
		authed.POST("/posts", postsHandler.Create)
		authed.POST("/comments", commentsHandler.Create)
		authed.POST("/likes", likesHandler.Toggle)
		authed.POST("/votes", votesHandler.Toggle)
		authed.POST("/images", s.generateUploadURLHandler)
		authed.POST("/upload/profile-picture", s.uploadProfilePictureHandler)
		authed.GET("/profiles/me", profilesHandler.Me)
		authed.PATCH("/profiles/me", profilesHandler.UpdateMe)
		authed.GET("/profiles/me/posts", postsHandler.MyPosts)
	}

	return r
}

func (s *Server) healthHandler(c *gin.Context) {
	response := make(map[string]any)
	response["database"] = s.db.Health(c.Request.Context())

	redisHealth := make(map[string]string)
	if err := s.sessionStore.Health(c.Request.Context()); err != nil {
		redisHealth["status"] = "down"
		redisHealth["error"] = err.Error()
	} else {
		redisHealth["status"] = "up"
	}
	response["redis"] = redisHealth

	if s.storage != nil {
		storageHealth := make(map[string]string)
		if err := s.storage.Health(c.Request.Context()); err != nil {
			storageHealth["status"] = "down"
			storageHealth["error"] = err.Error()
		} else {
			storageHealth["status"] = "up"
		}
		response["storage"] = storageHealth
	}

	c.JSON(http.StatusOK, response)
}
