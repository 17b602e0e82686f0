package realtime

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"gorm.io/gorm"
)

// Channel is the Postgres NOTIFY channel shared by every instance.
const Channel = "preference_changes"

// PGBridge publishes events through Postgres NOTIFY and feeds notifications
// from every instance into the local publisher, normally the Hub.
type PGBridge struct {
	db      *gorm.DB
	connStr string
	local   Publisher
}

func NewPGBridge(db *gorm.DB, connStr string, local Publisher) *PGBridge {
	return &PGBridge{db: db, connStr: connStr, local: local}
}

// Publish sends ev to all instances. On failure the event is delivered locally only.
func (b *PGBridge) Publish(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("realtime: marshal event: %v", err)
		return
	}
	if err := b.db.Exec("SELECT pg_notify(?, ?)", Channel, string(payload)).Error; err != nil {
		log.Printf("realtime: pg_notify failed, delivering locally: %v", err)
		b.local.Publish(ev)
	}
}

// Run listens until ctx is cancelled, reconnecting after failures.
func (b *PGBridge) Run(ctx context.Context) {
	for {
		err := b.listen(ctx)
		if ctx.Err() != nil {
			return
		}
		log.Printf("realtime: listener stopped: %v; reconnecting in 5s", err)
		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
}

func (b *PGBridge) listen(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, b.connStr)
	if err != nil {
		return err
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+Channel); err != nil {
		return err
	}
	log.Printf("realtime: listening on %s", Channel)

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		b.deliver(n.Payload)
	}
}

func (b *PGBridge) deliver(payload string) {
	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		log.Printf("realtime: bad notification payload: %v", err)
		return
	}
	b.local.Publish(ev)
}
