package models

import "time"

type Post struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"not null" json:"title"`
	Slug       string    `gorm:"uniqueIndex;not null" json:"slug"`
	Excerpt    string    `json:"excerpt"`
	Content    string    `json:"content"`
	Image      string    `json:"image"`
	CategoryID int       `json:"category_id"`
	Category   Category  `gorm:"foreignKey:CategoryID" json:"category"`
	AuthorID   int       `json:"author_id"`
	Author     User      `gorm:"foreignKey:AuthorID" json:"author"`
	Featured   bool      `gorm:"default:false" json:"featured"`
	Published  bool      `gorm:"default:true" json:"published"`
	Archived   bool      `gorm:"default:false" json:"archived"`
	LikeCount  int       `gorm:"default:0" json:"like_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CreatePostRequest struct {
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	Excerpt    string `json:"excerpt"`
	Content    string `json:"content"`
	Image      string `json:"image"`
	CategoryID int    `json:"category_id"`
	Featured   bool   `json:"featured"`
	Published  bool   `json:"published"`
}

// BulkPostRequest drives the admin bulk actions over a set of post IDs.
type BulkPostRequest struct {
	IDs    []int  `json:"ids"`
	Action string `json:"action"` // "archive", "delete", "feature", "unfeature"
}
