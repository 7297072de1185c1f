package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/carawynne/inkpress/backend/internal/engagement"
	"github.com/carawynne/inkpress/backend/internal/models"
)

type LikeHandler struct {
	db     *gorm.DB
	engine *engagement.Engine
}

func NewLikeHandler(db *gorm.DB, engine *engagement.Engine) *LikeHandler {
	return &LikeHandler{db: db, engine: engine}
}

// likeUserKey identifies the liker: the authenticated admin if present,
// otherwise the client fingerprint header, otherwise the client IP.
func likeUserKey(c *gin.Context) string {
	if uid, ok := extractUserID(c); ok {
		return fmt.Sprintf("user:%d", uid)
	}
	if fp := c.GetHeader("X-Client-Id"); fp != "" {
		return "client:" + fp
	}
	return "ip:" + c.ClientIP()
}

func (h *LikeHandler) postBySlug(c *gin.Context) (*models.Post, bool) {
	var post models.Post
	if err := h.db.Where("slug = ?", c.Param("slug")).First(&post).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return nil, false
	}
	return &post, true
}

// LikePost likes a post; a second like from the same reader is a 409
func (h *LikeHandler) LikePost(c *gin.Context) {
	post, ok := h.postBySlug(c)
	if !ok {
		return
	}

	if err := h.engine.LikePost(post.ID, likeUserKey(c)); err != nil {
		status, msg := engagementStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Post liked"})
}

// UnlikePost removes a like; removing a like that never existed is fine
func (h *LikeHandler) UnlikePost(c *gin.Context) {
	post, ok := h.postBySlug(c)
	if !ok {
		return
	}

	if err := h.engine.UnlikePost(post.ID, likeUserKey(c)); err != nil {
		status, msg := engagementStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post unliked"})
}

func (h *LikeHandler) LikeComment(c *gin.Context) {
	commentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID"})
		return
	}

	if err := h.engine.LikeComment(commentID, likeUserKey(c)); err != nil {
		status, msg := engagementStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Comment liked"})
}

func (h *LikeHandler) UnlikeComment(c *gin.Context) {
	commentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID"})
		return
	}

	if err := h.engine.UnlikeComment(commentID, likeUserKey(c)); err != nil {
		status, msg := engagementStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment unliked"})
}
