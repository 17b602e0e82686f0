package models

import "time"

const (
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationFollow  = "follow"
	NotificationRepost  = "repost"
)

// Notification represents a user notification (PostgreSQL)
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Type        string    `json:"type" gorm:"size:20;index;not null"` // like, comment, follow, repost
	ActorID     uint      `json:"actor_id" gorm:"index;not null"`
	RecipientID uint      `json:"recipient_id" gorm:"index;not null"`
	PostID      *uint     `json:"post_id"`
	Message     string    `json:"message"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index;not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

// PushSubscription is a Web Push endpoint registered by a browser.
type PushSubscription struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Endpoint  string    `json:"endpoint" gorm:"uniqueIndex;not null"`
	P256dh    string    `json:"-" gorm:"not null"`
	Auth      string    `json:"-" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

type SubscribePushRequest struct {
	Endpoint string `json:"endpoint" validate:"required,url"`
	Keys     struct {
		P256dh string `json:"p256dh" validate:"required"`
		Auth   string `json:"auth" validate:"required"`
	} `json:"keys"`
}
