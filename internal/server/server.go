package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/carawynne/inkpress/backend/internal/cache"
	"github.com/carawynne/inkpress/backend/internal/database"
	"github.com/carawynne/inkpress/backend/internal/handlers"
	"github.com/carawynne/inkpress/backend/internal/middleware"
)

type Server struct {
	db      *database.Database
	cache   *cache.Cache
	handler *handlers.Handler
}

// NewServer creates and configures a new server
func NewServer() *http.Server {
	// Initialize database
	db, err := database.NewDatabase()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := db.Initialize(); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	// Process-wide cache instance; lives as long as the server
	store := cache.New()

	// Create unified handler
	handler := handlers.NewHandler(db, store)

	// Create server instance
	newServer := &Server{
		db:      db,
		cache:   store,
		handler: handler,
	}

	// Configure Gin router
	router := newServer.RegisterRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // local dev fallback
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("🚀 Server starting on port %s\n", port)
	fmt.Println("📝 Press Ctrl+C to stop the server")

	return server
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With", "X-Client-Id"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/login", s.handler.Auth.Login)

		// Post routes (public reads, cached)
		api.GET("/posts", s.handler.Post.GetPosts)
		api.GET("/posts/featured", s.handler.Post.GetFeatured)
		api.GET("/posts/recent", s.handler.Post.GetRecent)
		api.GET("/posts/:slug", s.handler.Post.GetPost)

		// Category routes (public reads, cached)
		api.GET("/categories", s.handler.Category.GetCategories)

		// Comment routes (public)
		api.GET("/posts/:slug/comments", s.handler.Comment.GetComments)
		api.POST("/posts/:slug/comments", s.handler.Comment.CreateComment)

		// Like routes (public; reader identified by fingerprint or IP)
		api.POST("/posts/:slug/like", s.handler.Like.LikePost)
		api.DELETE("/posts/:slug/like", s.handler.Like.UnlikePost)
		api.POST("/comments/:id/like", s.handler.Like.LikeComment)
		api.DELETE("/comments/:id/like", s.handler.Like.UnlikeComment)

		// Newsletter routes (public)
		api.POST("/newsletter/subscribe", s.handler.Newsletter.Subscribe)
		api.GET("/newsletter/unsubscribe", s.handler.Newsletter.Unsubscribe)

		// Admin routes (authentication required)
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware())
		{
			admin.GET("/me", s.handler.Auth.GetMe)

			// Post management
			admin.POST("/posts", s.handler.Post.CreatePost)
			admin.PUT("/posts/:id", s.handler.Post.UpdatePost)
			admin.DELETE("/posts/:id", s.handler.Post.DeletePost)
			admin.POST("/posts/bulk", s.handler.Post.BulkUpdate)

			// Category management
			admin.POST("/categories", s.handler.Category.CreateCategory)
			admin.PUT("/categories/:id", s.handler.Category.UpdateCategory)
			admin.DELETE("/categories/:id", s.handler.Category.DeleteCategory)

			// Comment moderation
			admin.GET("/comments", s.handler.Comment.ListAdmin)
			admin.POST("/comments/:id/moderate", s.handler.Comment.Moderate)
			admin.POST("/comments/:id/reply", s.handler.Comment.Reply)
		}
	}

	return r
}
