package handlers

import (
	"context"
	"fmt"
	"log"
	"unicode/utf8"

	"github.com/anonto42/preference/backend/internal/models"
	"github.com/anonto42/preference/backend/internal/realtime"
	"github.com/anonto42/preference/backend/internal/repositories"
)

const shareSnippetLength = 100

// Chat stores messages and announces them to the conversation's participants.
type Chat struct {
	messages  repositories.MessageRepository
	groups    repositories.GroupRepository
	publisher realtime.Publisher
}

func NewChat(messageRepo repositories.MessageRepository, groupRepo repositories.GroupRepository, publisher realtime.Publisher) *Chat {
	return &Chat{messages: messageRepo, groups: groupRepo, publisher: publisher}
}

// SendDirect stores a direct message from sender to receiver.
func (ch *Chat) SendDirect(ctx context.Context, senderID, receiverID uint, content string, images []string) (*models.Message, error) {
	msg := &models.Message{
		SenderID:   senderID,
		ReceiverID: &receiverID,
		Content:    content,
		Images:     images,
	}
	if err := ch.messages.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	ch.announce(msg, []uint{senderID, receiverID})
	return msg, nil
}

// SendGroup stores a group message. pollID links a poll announcement.
func (ch *Chat) SendGroup(ctx context.Context, senderID, groupID uint, content string, images []string, pollID *uint) (*models.Message, error) {
	msg := &models.Message{
		SenderID: senderID,
		GroupID:  &groupID,
		Content:  content,
		Images:   images,
		PollID:   pollID,
		IsRead:   true,
	}
	if err := ch.messages.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	members, err := ch.memberIDs(groupID)
	if err != nil {
		log.Printf("Failed to load members of group %d: %v", groupID, err)
		return msg, nil
	}
	ch.announce(msg, members)
	return msg, nil
}

func (ch *Chat) memberIDs(groupID uint) ([]uint, error) {
	members, err := ch.groups.GetMembers(groupID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	return ids, nil
}

func (ch *Chat) announce(msg *models.Message, audience []uint) {
	ch.publisher.Publish(realtime.Event{
		Table:    realtime.TableMessages,
		Type:     realtime.Insert,
		RecordID: msg.ID.Hex(),
		UserIDs:  audience,
	})
}

// ShareSnippet renders a post or comment for sharing into a chat: the first
// 100 characters, an ellipsis when cut, and the author's handle.
func ShareSnippet(kind, content, author string) string {
	if utf8.RuneCountInString(content) > shareSnippetLength {
		runes := []rune(content)
		content = string(runes[:shareSnippetLength]) + "..."
	}
	return fmt.Sprintf("[Shared %s]: %s\nfrom @%s", kind, content, author)
}
