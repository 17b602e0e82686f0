package models

import "time"

const (
	PostTypeOriginal = "original"
	PostTypeRepost   = "repost"
)

// Post represents a timeline entry. Reposts copy the parent's content and images.
type Post struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	UserID        uint      `json:"user_id" gorm:"index;not null"`
	Content       string    `json:"content" gorm:"type:text;not null;default:''"`
	Images        []string  `json:"images" gorm:"serializer:json;type:text"`
	Type          string    `json:"type" gorm:"size:20;index;default:original;not null"`
	ParentID      *uint     `json:"parent_id" gorm:"index"`
	LikesCount    int       `json:"likes_count" gorm:"default:0;not null"`
	CommentsCount int       `json:"comments_count" gorm:"default:0;not null"`
	CreatedAt     time.Time `json:"created_at" gorm:"index"`
	Author        *Profile  `json:"-" gorm:"foreignKey:UserID"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content string   `json:"content" validate:"max=2000,required_without=Images"`
	Images  []string `json:"images,omitempty" validate:"omitempty,max=9,dive,url"`
}

// ShareRequest sends a post or comment into a direct or group chat.
type ShareRequest struct {
	TargetID uint `json:"target_id" validate:"required"`
	IsGroup  bool `json:"is_group"`
}
