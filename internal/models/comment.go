package models

import "time"

// Comment supports one level of threading: a reply's ParentID points at a
// top-level comment, never at another reply.
type Comment struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	PostID     int       `gorm:"not null;index" json:"post_id"`
	ParentID   *int      `gorm:"index" json:"parent_id,omitempty"`
	AuthorName string    `json:"author_name"`
	Content    string    `gorm:"not null;size:4000" json:"content"`
	IsApproved bool      `gorm:"default:false" json:"is_approved"`
	IsSpam     bool      `gorm:"default:false" json:"is_spam"`
	LikeCount  int       `gorm:"default:0" json:"like_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CreateCommentRequest struct {
	AuthorName string `json:"author_name"`
	Content    string `json:"content"`
	ParentID   *int   `json:"parent_id,omitempty"`
}
