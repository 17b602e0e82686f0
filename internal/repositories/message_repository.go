package repositories

import (
	"context"
	"time"

	"github.com/anonto42/preference/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageHistoryLimit caps how many messages a conversation fetch returns.
const MessageHistoryLimit = 500

// MessageRepository defines the interface for chat message operations
type MessageRepository interface {
	CreateMessage(ctx context.Context, msg *models.Message) error
	GetDirectMessages(ctx context.Context, a, b uint) ([]models.Message, error)
	GetGroupMessages(ctx context.Context, groupID uint) ([]models.Message, error)
	CountUnread(ctx context.Context, receiverID uint) (int64, error)
	CountUnreadFrom(ctx context.Context, senderID, receiverID uint) (int64, error)
	MarkRead(ctx context.Context, senderID, receiverID uint) error
}

// MongoMessageRepository implements MessageRepository for MongoDB
type MongoMessageRepository struct {
	collection *mongo.Collection
}

// NewMongoMessageRepository creates a new MongoMessageRepository
func NewMongoMessageRepository(db *mongo.Database) *MongoMessageRepository {
	return &MongoMessageRepository{collection: db.Collection("messages")}
}

// EnsureIndexes creates the indexes conversation lookups rely on.
func (r *MongoMessageRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "sender_id", Value: 1}, {Key: "receiver_id", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "group_id", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "receiver_id", Value: 1}, {Key: "is_read", Value: 1}}},
	})
	return err
}

func (r *MongoMessageRepository) CreateMessage(ctx context.Context, msg *models.Message) error {
	msg.ID = primitive.NewObjectID()
	msg.CreatedAt = time.Now()
	if msg.Images == nil {
		msg.Images = []string{}
	}
	_, err := r.collection.InsertOne(ctx, msg)
	return err
}

// GetDirectMessages returns both directions of a conversation, oldest first.
func (r *MongoMessageRepository) GetDirectMessages(ctx context.Context, a, b uint) ([]models.Message, error) {
	filter := bson.M{"$or": []bson.M{
		{"sender_id": a, "receiver_id": b},
		{"sender_id": b, "receiver_id": a},
	}}
	return r.find(ctx, filter)
}

func (r *MongoMessageRepository) GetGroupMessages(ctx context.Context, groupID uint) ([]models.Message, error) {
	return r.find(ctx, bson.M{"group_id": groupID})
}

func (r *MongoMessageRepository) find(ctx context.Context, filter bson.M) ([]models.Message, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(MessageHistoryLimit)
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	// newest were fetched first so the limit keeps the tail; flip to chronological
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// CountUnread counts direct messages addressed to receiverID that are unread.
func (r *MongoMessageRepository) CountUnread(ctx context.Context, receiverID uint) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"receiver_id": receiverID, "is_read": false})
}

func (r *MongoMessageRepository) CountUnreadFrom(ctx context.Context, senderID, receiverID uint) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"sender_id": senderID, "receiver_id": receiverID, "is_read": false})
}

// MarkRead marks everything senderID sent to receiverID as read.
func (r *MongoMessageRepository) MarkRead(ctx context.Context, senderID, receiverID uint) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"sender_id": senderID, "receiver_id": receiverID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	return err
}
