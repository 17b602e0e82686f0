package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a chat message stored in MongoDB. Exactly one of ReceiverID and
// GroupID is set.
type Message struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	SenderID   uint               `json:"sender_id" bson:"sender_id"`
	ReceiverID *uint              `json:"receiver_id,omitempty" bson:"receiver_id,omitempty"`
	GroupID    *uint              `json:"group_id,omitempty" bson:"group_id,omitempty"`
	Content    string             `json:"content" bson:"content"`
	Images     []string           `json:"images" bson:"images"`
	IsRead     bool               `json:"is_read" bson:"is_read"`
	PollID     *uint              `json:"poll_id,omitempty" bson:"poll_id,omitempty"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

// MessageView is a message with its sender and, for poll messages, the tally.
type MessageView struct {
	Message
	Sender *ProfileCompact `json:"sender,omitempty"`
	Poll   *PollView       `json:"poll,omitempty"`
}

type SendMessageRequest struct {
	Content string   `json:"content" validate:"max=4000,required_without=Images"`
	Images  []string `json:"images,omitempty" validate:"omitempty,max=9,dive,url"`
}

// Conversation is one entry in the chat list: a friend or a group.
type Conversation struct {
	Kind   string          `json:"kind"` // direct, group
	User   *ProfileCompact `json:"user,omitempty"`
	Group  *Group          `json:"group,omitempty"`
	Unread int64           `json:"unread"`
}
