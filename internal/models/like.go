package models

import "time"

// Like represents a like on a post
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"index;uniqueIndex:idx_post_user_like;not null"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_post_user_like;not null"`
	CreatedAt time.Time `json:"created_at"`
	Post      *Post     `json:"-" gorm:"foreignKey:PostID"`
}
