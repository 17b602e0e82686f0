package models

import "time"

// DefaultCollectionName is the collection a plain bookmark goes into.
const DefaultCollectionName = "Default"

// Collection is a named set of bookmarked posts owned by one user.
type Collection struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"index;not null"`
	Name       string    `json:"name" gorm:"size:100;not null"`
	ItemsCount int64     `json:"items_count" gorm:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// CollectionItem links a post into a collection.
type CollectionItem struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	CollectionID uint      `json:"collection_id" gorm:"index;uniqueIndex:idx_collection_post;not null"`
	PostID       uint      `json:"post_id" gorm:"index;uniqueIndex:idx_collection_post;not null"`
	CreatedAt    time.Time `json:"created_at"`
	Post         *Post     `json:"-" gorm:"foreignKey:PostID"`
}

type CollectionRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

type CollectionItemRequest struct {
	PostID uint `json:"post_id" validate:"required"`
}
