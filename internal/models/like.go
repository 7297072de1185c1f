package models

import "time"

// PostLike records one reader liking one post. The composite unique index is
// the arbiter for duplicates; nothing pre-checks before inserting.
type PostLike struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	PostID    int       `gorm:"not null;uniqueIndex:idx_post_like" json:"post_id"`
	UserKey   string    `gorm:"not null;size:128;uniqueIndex:idx_post_like" json:"user_key"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentLike is the same shape for comments.
type CommentLike struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	CommentID int       `gorm:"not null;uniqueIndex:idx_comment_like" json:"comment_id"`
	UserKey   string    `gorm:"not null;size:128;uniqueIndex:idx_comment_like" json:"user_key"`
	CreatedAt time.Time `json:"created_at"`
}
