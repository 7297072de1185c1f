package models

import "time"

// Subscriber rows are never deleted; unsubscribing flips IsSubscribed so the
// same address can come back later without a duplicate row.
type Subscriber struct {
	ID             int       `gorm:"primaryKey" json:"id"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"` // stored lowercased
	IsSubscribed   bool      `gorm:"default:true" json:"is_subscribed"`
	CreatedAt      time.Time `json:"created_at"`
	UpdateDateTime time.Time `json:"update_date_time"`
}

type SubscribeRequest struct {
	Email string `json:"email"`
}
