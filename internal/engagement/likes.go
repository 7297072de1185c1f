// Package engagement implements like toggling and the comment moderation
// state machine. Durable state lives in the store, which is the sole
// arbiter of uniqueness; the engine never pre-checks and races.
package engagement

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/carawynne/inkpress/backend/internal/models"
)

type Engine struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// LikePost records userKey liking a post. The insert hits the composite
// unique index first; gorm.ErrDuplicatedKey is the authoritative "already
// liked" signal. like_count is a best-effort projection of the like rows,
// so a failed counter bump is logged but not fatal.
func (e *Engine) LikePost(postID int, userKey string) error {
	if userKey == "" {
		return fmt.Errorf("%w: missing user key", ErrValidation)
	}

	var post models.Post
	if err := e.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	like := models.PostLike{PostID: postID, UserKey: userKey}
	if err := e.db.Create(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyLiked
		}
		return err
	}

	if err := e.db.Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error; err != nil {
		log.Printf("Failed to bump like_count for post %d: %v", postID, err)
	}
	return nil
}

// UnlikePost removes the like if present. Absent is a no-op, not an
// error, and the counter never goes below zero.
func (e *Engine) UnlikePost(postID int, userKey string) error {
	if userKey == "" {
		return fmt.Errorf("%w: missing user key", ErrValidation)
	}

	res := e.db.Where("post_id = ? AND user_key = ?", postID, userKey).Delete(&models.PostLike{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return nil
	}

	if err := e.db.Model(&models.Post{}).
		Where("id = ? AND like_count > 0", postID).
		UpdateColumn("like_count", gorm.Expr("like_count - 1")).Error; err != nil {
		log.Printf("Failed to drop like_count for post %d: %v", postID, err)
	}
	return nil
}

// LikeComment mirrors LikePost for comment subjects.
func (e *Engine) LikeComment(commentID int, userKey string) error {
	if userKey == "" {
		return fmt.Errorf("%w: missing user key", ErrValidation)
	}

	var comment models.Comment
	if err := e.db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	like := models.CommentLike{CommentID: commentID, UserKey: userKey}
	if err := e.db.Create(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyLiked
		}
		return err
	}

	if err := e.db.Model(&models.Comment{}).
		Where("id = ?", commentID).
		UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error; err != nil {
		log.Printf("Failed to bump like_count for comment %d: %v", commentID, err)
	}
	return nil
}

func (e *Engine) UnlikeComment(commentID int, userKey string) error {
	if userKey == "" {
		return fmt.Errorf("%w: missing user key", ErrValidation)
	}

	res := e.db.Where("comment_id = ? AND user_key = ?", commentID, userKey).Delete(&models.CommentLike{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return nil
	}

	if err := e.db.Model(&models.Comment{}).
		Where("id = ? AND like_count > 0", commentID).
		UpdateColumn("like_count", gorm.Expr("like_count - 1")).Error; err != nil {
		log.Printf("Failed to drop like_count for comment %d: %v", commentID, err)
	}
	return nil
}
