package models

import "time"

// Group is a group chat. Groups with a slug are system groups.
type Group struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	Slug      *string   `json:"slug,omitempty" gorm:"uniqueIndex"`
	CreatedBy *uint     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName keeps groups clear of the SQL keyword.
func (Group) TableName() string {
	return "chat_groups"
}

type GroupMember struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	GroupID   uint      `json:"group_id" gorm:"index;uniqueIndex:idx_group_user;not null"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_group_user;not null"`
	CreatedAt time.Time `json:"created_at"`
	User      *Profile  `json:"-" gorm:"foreignKey:UserID"`
}

type CreateGroupRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=100"`
	MemberIDs []uint `json:"member_ids" validate:"required,min=1,dive,required"`
}
