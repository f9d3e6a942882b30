package models

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MessageRepo interface {
	CreateMessage(ctx context.Context, msg *Message) (*Message, error)
	// ListMessagesFor returns every message the user sent or received.
	ListMessagesFor(ctx context.Context, userID string) ([]Message, error)
	ListConversation(ctx context.Context, conversationID string) ([]Message, error)
	MarkRead(ctx context.Context, conversationID, readerID string) (int64, error)
}

func (mdb *MongodbRepo) CreateMessage(ctx context.Context, msg *Message) (*Message, error) {
	col, err := mdb.GetCollection(ctx, "", MessagesCollection)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}
	if _, err := col.InsertOne(ctx, msg); err != nil {
		return nil, fmt.Errorf("error inserting message: %w", err)
	}
	return msg, nil
}

func (mdb *MongodbRepo) findMessages(ctx context.Context, filter bson.M) ([]Message, error) {
	col, err := mdb.GetCollection(ctx, "", MessagesCollection)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding messages: %w", err)
	}
	defer cursor.Close(ctx)

	messages := []Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("error decoding messages: %w", err)
	}
	return messages, nil
}

func (mdb *MongodbRepo) ListMessagesFor(ctx context.Context, userID string) ([]Message, error) {
	return mdb.findMessages(ctx, bson.M{"$or": bson.A{
		bson.M{"sender_id": userID},
		bson.M{"receiver_id": userID},
	}})
}

func (mdb *MongodbRepo) ListConversation(ctx context.Context, conversationID string) ([]Message, error) {
	return mdb.findMessages(ctx, bson.M{"conversation_id": conversationID})
}

// MarkRead flags the reader's incoming messages in a thread as read and
// reports how many changed.
func (mdb *MongodbRepo) MarkRead(ctx context.Context, conversationID, readerID string) (int64, error) {
	col, err := mdb.GetCollection(ctx, "", MessagesCollection)
	if err != nil {
		return 0, fmt.Errorf("error getting collection: %w", err)
	}

	filter := bson.M{
		"conversation_id": conversationID,
		"receiver_id":     readerID,
		"read":            false,
	}
	res, err := col.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return 0, fmt.Errorf("error marking messages read: %w", err)
	}
	return res.ModifiedCount, nil
}
