package handlers

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/anonto42/preference/backend/internal/models"
	"github.com/anonto42/preference/backend/internal/realtime"
	"github.com/anonto42/preference/backend/internal/repositories"
	"github.com/anonto42/preference/backend/pkg/push"
)

// Pusher delivers Web Push messages.
type Pusher interface {
	Enabled() bool
	PublicKey() string
	Send(ctx context.Context, sub push.Subscription, msg push.Message) (bool, error)
}

// Notifier records notifications and fans them out over realtime and Web Push.
type Notifier struct {
	notifications repositories.NotificationRepository
	publisher     realtime.Publisher
	pusher        Pusher
}

func NewNotifier(notifRepo repositories.NotificationRepository, publisher realtime.Publisher, pusher Pusher) *Notifier {
	return &Notifier{notifications: notifRepo, publisher: publisher, pusher: pusher}
}

var notificationText = map[string]string{
	models.NotificationLike:    "%s liked your post",
	models.NotificationComment: "%s commented on your post",
	models.NotificationFollow:  "%s started following you",
	models.NotificationRepost:  "%s reposted your post",
}

// Notify tells recipient that actor did something. Self-actions are ignored.
// Failures are logged; they never fail the triggering request.
func (n *Notifier) Notify(actor *models.Profile, recipientID uint, kind string, postID *uint) {
	if actor == nil || actor.ID == recipientID {
		return
	}
	notification := &models.Notification{
		Type:        kind,
		ActorID:     actor.ID,
		RecipientID: recipientID,
		PostID:      postID,
		Message:     fmt.Sprintf(notificationText[kind], actor.Username),
	}
	if err := n.notifications.CreateNotification(notification); err != nil {
		log.Printf("Failed to create %s notification for user %d: %v", kind, recipientID, err)
		return
	}

	n.publisher.Publish(realtime.Event{
		Table:    realtime.TableNotifications,
		Type:     realtime.Insert,
		RecordID: strconv.FormatUint(uint64(notification.ID), 10),
		UserIDs:  []uint{recipientID},
	})

	if n.pusher != nil && n.pusher.Enabled() {
		go n.push(recipientID, notification.Message)
	}
}

func (n *Notifier) push(userID uint, body string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	subs, err := n.notifications.GetSubscriptions(userID)
	if err != nil {
		log.Printf("Failed to load push subscriptions for user %d: %v", userID, err)
		return
	}
	msg := push.Message{Title: "Preference", Body: body, URL: "/notifications"}
	for _, s := range subs {
		gone, err := n.pusher.Send(ctx, push.Subscription{Endpoint: s.Endpoint, P256dh: s.P256dh, Auth: s.Auth}, msg)
		if err != nil {
			log.Printf("Failed to send push to user %d: %v", userID, err)
			continue
		}
		if gone {
			if err := n.notifications.DeleteSubscription(s.Endpoint); err != nil {
				log.Printf("Failed to delete expired push subscription: %v", err)
			}
		}
	}
}
