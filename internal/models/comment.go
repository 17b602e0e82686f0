package models

import "time"

// Comment represents a comment on a post
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"index;not null"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Content   string    `json:"content" gorm:"type:text;not null;default:''"`
	Images    []string  `json:"images" gorm:"serializer:json;type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	Author    *Profile  `json:"-" gorm:"foreignKey:UserID"`
	Post      *Post     `json:"-" gorm:"foreignKey:PostID"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content string   `json:"content" validate:"max=1000,required_without=Images"`
	Images  []string `json:"images,omitempty" validate:"omitempty,max=9,dive,url"`
}
