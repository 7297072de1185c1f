package handlers

import (
	"github.com/carawynne/inkpress/backend/internal/cache"
	"github.com/carawynne/inkpress/backend/internal/database"
	"github.com/carawynne/inkpress/backend/internal/engagement"
	"github.com/carawynne/inkpress/backend/internal/newsletter"
	"github.com/carawynne/inkpress/backend/internal/notify"
)

// Handler combines all handler types
type Handler struct {
	Auth       *AuthHandler
	Post       *PostHandler
	Category   *CategoryHandler
	Comment    *CommentHandler
	Like       *LikeHandler
	Newsletter *NewsletterHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *database.Database, store *cache.Cache) *Handler {
	// Get the GORM DB instance from the service
	dbService := database.New()
	gormDB := dbService.GetDB()

	engine := engagement.New(gormDB)
	news := newsletter.NewService(gormDB)
	notifier := notify.NewFromEnv()

	return &Handler{
		Auth:       NewAuthHandler(gormDB),
		Post:       NewPostHandler(gormDB, store),
		Category:   NewCategoryHandler(gormDB, store),
		Comment:    NewCommentHandler(gormDB, engine, notifier),
		Like:       NewLikeHandler(gormDB, engine),
		Newsletter: NewNewsletterHandler(news),
	}
}
