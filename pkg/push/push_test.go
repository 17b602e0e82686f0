package push

import (
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SherClockHolmes/webpush-go"
)

func newSubscription(t *testing.T, endpoint string) Subscription {
	t.Helper()
	key, err := ecdh.P256().GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	auth := make([]byte, 16)
	if _, err := rand.Read(auth); err != nil {
		t.Fatal(err)
	}
	return Subscription{
		Endpoint: endpoint,
		P256dh:   base64.RawURLEncoding.EncodeToString(key.PublicKey().Bytes()),
		Auth:     base64.RawURLEncoding.EncodeToString(auth),
	}
}

func TestSendReportsGoneSubscriptions(t *testing.T) {
	priv, pub, err := webpush.GenerateVAPIDKeys()
	if err != nil {
		t.Fatal(err)
	}
	sender := NewSender(pub, priv, "mailto:ops@example.com")

	tests := []struct {
		name     string
		status   int
		wantGone bool
		wantErr  bool
	}{
		{"created", http.StatusCreated, false, false},
		{"gone", http.StatusGone, true, false},
		{"server error", http.StatusInternalServerError, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotAuth string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			gone, err := sender.Send(context.Background(), newSubscription(t, srv.URL), Message{Title: "hi", Body: "there"})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if gone != tt.wantGone {
				t.Fatalf("gone = %v, want %v", gone, tt.wantGone)
			}
			if gotAuth == "" {
				t.Fatal("missing VAPID authorization header")
			}
		})
	}
}

func TestDisabledSenderIsNoop(t *testing.T) {
	s := NewSender("", "", "")
	if s.Enabled() {
		t.Fatal("sender without keys should be disabled")
	}
	gone, err := s.Send(context.Background(), Subscription{Endpoint: "http://127.0.0.1:1"}, Message{})
	if gone || err != nil {
		t.Fatalf("expected no-op, got %v %v", gone, err)
	}
}
