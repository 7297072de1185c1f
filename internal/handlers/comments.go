package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/carawynne/inkpress/backend/internal/engagement"
	"github.com/carawynne/inkpress/backend/internal/models"
	"github.com/carawynne/inkpress/backend/internal/notify"
)

type CommentHandler struct {
	db       *gorm.DB
	engine   *engagement.Engine
	notifier *notify.Notifier
}

func NewCommentHandler(db *gorm.DB, engine *engagement.Engine, notifier *notify.Notifier) *CommentHandler {
	return &CommentHandler{db: db, engine: engine, notifier: notifier}
}

func extractUserID(c *gin.Context) (int, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return v, true
	case uint:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func engagementStatus(err error) (int, string) {
	switch {
	case errors.Is(err, engagement.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, engagement.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, engagement.ErrAlreadyLiked):
		return http.StatusConflict, "Already liked"
	case errors.Is(err, engagement.ErrInvalidTransition):
		return http.StatusConflict, "Comment is no longer pending"
	default:
		return http.StatusInternalServerError, "Something went wrong"
	}
}

// GetComments returns the approved comments for a post, oldest first
func (h *CommentHandler) GetComments(c *gin.Context) {
	slug := c.Param("slug")

	var post models.Post
	if err := h.db.Where("slug = ?", slug).First(&post).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	comments, err := h.engine.ApprovedComments(post.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	if comments == nil {
		comments = []models.Comment{}
	}
	c.JSON(http.StatusOK, comments)
}

// CreateComment accepts a public comment or reply. It lands pending and
// fires the moderation alert.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	slug := c.Param("slug")

	var input models.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var post models.Post
	if err := h.db.Where("slug = ?", slug).First(&post).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	comment, err := h.engine.CreateComment(post.ID, input.ParentID, input.AuthorName, input.Content, false)
	if err != nil {
		status, msg := engagementStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	h.notifier.CommentPending(post.Title, comment.AuthorName)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Comment submitted and awaiting moderation",
		"comment": comment,
	})
}

// ListAdmin returns the moderation feed, filter=all|pending|spam
func (h *CommentHandler) ListAdmin(c *gin.Context) {
	filter := engagement.ListFilter(c.DefaultQuery("filter", "all"))

	comments, err := h.engine.ListComments(filter)
	if err != nil {
		status, msg := engagementStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	if comments == nil {
		comments = []models.Comment{}
	}
	c.JSON(http.StatusOK, comments)
}

// Moderate applies approve, spam or delete to a comment (admin only)
func (h *CommentHandler) Moderate(c *gin.Context) {
	commentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID"})
		return
	}

	var input struct {
		Action string `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.engine.ModerateComment(commentID, engagement.ModerationAction(input.Action)); err != nil {
		status, msg := engagementStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Moderation applied", "action": input.Action})
}

// Reply posts an admin reply to a comment; it is approved on creation
func (h *CommentHandler) Reply(c *gin.Context) {
	parentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID"})
		return
	}

	var input struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var parent models.Comment
	if err := h.db.First(&parent, parentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	authorName := "Admin"
	if username, ok := c.Get("username"); ok {
		if s, ok := username.(string); ok && s != "" {
			authorName = s
		}
	}

	reply, err := h.engine.CreateComment(parent.PostID, &parentID, authorName, input.Content, true)
	if err != nil {
		status, msg := engagementStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusCreated, reply)
}
