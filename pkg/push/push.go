// Package push delivers Web Push notifications signed with VAPID keys.
package push

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/SherClockHolmes/webpush-go"
)

// Subscription is a browser push endpoint with its encryption keys.
type Subscription struct {
	Endpoint string
	P256dh   string
	Auth     string
}

// Message is the payload the service worker renders.
type Message struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
}

// Sender signs and sends push messages. A zero-key sender is disabled.
type Sender struct {
	publicKey  string
	privateKey string
	subscriber string
	ttl        int
	client     *http.Client
}

func NewSender(publicKey, privateKey, subject string) *Sender {
	return &Sender{
		publicKey:  publicKey,
		privateKey: privateKey,
		subscriber: strings.TrimPrefix(subject, "mailto:"),
		ttl:        60,
		client:     &http.Client{},
	}
}

func (s *Sender) Enabled() bool {
	return s != nil && s.publicKey != "" && s.privateKey != ""
}

func (s *Sender) PublicKey() string {
	return s.publicKey
}

// Send delivers msg to one subscription. gone is true when the push service
// reports the subscription no longer exists and it should be deleted.
func (s *Sender) Send(ctx context.Context, sub Subscription, msg Message) (gone bool, err error) {
	if !s.Enabled() {
		return false, nil
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return false, err
	}

	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		HTTPClient:      s.client,
		Subscriber:      s.subscriber,
		VAPIDPublicKey:  s.publicKey,
		VAPIDPrivateKey: s.privateKey,
		TTL:             s.ttl,
	})
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound:
		return true, nil
	case resp.StatusCode >= 300:
		return false, fmt.Errorf("push service returned %d", resp.StatusCode)
	}
	return false, nil
}
