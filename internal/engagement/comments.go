package engagement

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/carawynne/inkpress/backend/internal/models"
)

const maxCommentLength = 4000

type ModerationAction string

const (
	ActionApprove ModerationAction = "approve"
	ActionSpam    ModerationAction = "spam"
	ActionDelete  ModerationAction = "delete"
)

type ListFilter string

const (
	FilterAll     ListFilter = "all"
	FilterPending ListFilter = "pending"
	FilterSpam    ListFilter = "spam"
)

// CreateComment stores a new comment or reply. Public submissions start
// pending; admin replies are approved on creation. A parent must exist on
// the same post and be top-level — one level of threading, no deeper.
func (e *Engine) CreateComment(postID int, parentID *int, authorName, content string, asAdmin bool) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: comment content is empty", ErrValidation)
	}
	if utf8.RuneCountInString(content) > maxCommentLength {
		return nil, fmt.Errorf("%w: comment content exceeds %d characters", ErrValidation, maxCommentLength)
	}

	var post models.Post
	if err := e.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if parentID != nil {
		var parent models.Comment
		if err := e.db.First(&parent, *parentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if parent.PostID != postID {
			return nil, fmt.Errorf("%w: parent comment belongs to another post", ErrValidation)
		}
		if parent.ParentID != nil {
			return nil, fmt.Errorf("%w: replies to replies are not supported", ErrValidation)
		}
	}

	if authorName == "" {
		authorName = "Anonymous"
	}

	comment := models.Comment{
		PostID:     postID,
		ParentID:   parentID,
		AuthorName: authorName,
		Content:    content,
		IsApproved: asAdmin,
	}
	if err := e.db.Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ModerateComment applies approve, spam or delete. Approve and spam only
// move a pending comment; approved and spam do not reach each other.
// Delete works from any state and takes direct replies with it — one
// level, siblings and grandchildren untouched.
func (e *Engine) ModerateComment(id int, action ModerationAction) error {
	var comment models.Comment
	if err := e.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	switch action {
	case ActionApprove:
		if comment.IsApproved || comment.IsSpam {
			return ErrInvalidTransition
		}
		return e.db.Model(&comment).Update("is_approved", true).Error

	case ActionSpam:
		if comment.IsApproved || comment.IsSpam {
			return ErrInvalidTransition
		}
		return e.db.Model(&comment).Update("is_spam", true).Error

	case ActionDelete:
		return e.db.Transaction(func(tx *gorm.DB) error {
			var replyIDs []int
			if err := tx.Model(&models.Comment{}).
				Where("parent_id = ?", comment.ID).
				Pluck("id", &replyIDs).Error; err != nil {
				return err
			}
			ids := append(replyIDs, comment.ID)
			if err := tx.Where("comment_id IN ?", ids).Delete(&models.CommentLike{}).Error; err != nil {
				return err
			}
			return tx.Where("id IN ?", ids).Delete(&models.Comment{}).Error
		})

	default:
		return fmt.Errorf("%w: unknown action %q", ErrValidation, action)
	}
}

// ListComments is the admin feed. pending and spam return only rows
// actually in that sub-state; all is inclusive.
func (e *Engine) ListComments(filter ListFilter) ([]models.Comment, error) {
	q := e.db.Order("created_at desc")

	switch filter {
	case FilterPending:
		q = q.Where("is_approved = ? AND is_spam = ?", false, false)
	case FilterSpam:
		q = q.Where("is_spam = ?", true)
	case FilterAll, "":
		// inclusive
	default:
		return nil, fmt.Errorf("%w: unknown filter %q", ErrValidation, filter)
	}

	var comments []models.Comment
	if err := q.Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// ApprovedComments returns the public view of a post's thread, oldest first.
func (e *Engine) ApprovedComments(postID int) ([]models.Comment, error) {
	var comments []models.Comment
	err := e.db.
		Where("post_id = ? AND is_approved = ? AND is_spam = ?", postID, true, false).
		Order("created_at asc").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}
