package models

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// collectionIndexes lists the indexes each Mongo collection needs for the
// queries the repositories run.
var collectionIndexes = map[string][]mongo.IndexModel{
	RequestsCollection: {
		{
			Keys: bson.D{
				{Key: "event_id", Value: 1},
				{Key: "requested_at", Value: 1},
			},
			Options: options.Index().SetName("event_requested_at_idx"),
		},
		{
			Keys:    bson.D{{Key: "artist_id", Value: 1}},
			Options: options.Index().SetName("artist_id_idx"),
		},
	},
	MessagesCollection: {
		{
			Keys: bson.D{
				{Key: "conversation_id", Value: 1},
				{Key: "timestamp", Value: 1},
			},
			Options: options.Index().SetName("conversation_timestamp_idx"),
		},
		// unread lookups
		{
			Keys: bson.D{
				{Key: "receiver_id", Value: 1},
				{Key: "read", Value: 1},
			},
			Options: options.Index().SetName("receiver_read_idx"),
		},
		{
			Keys:    bson.D{{Key: "sender_id", Value: 1}},
			Options: options.Index().SetName("sender_id_idx"),
		},
	},
	PoolCollection: {
		{
			Keys:    bson.D{{Key: "venue_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("venue_id_unique"),
		},
	},
	ArtistsCollection: {
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("name_idx"),
		},
	},
}

// EnsureIndexes creates the indexes above. Existing indexes with the same
// definition are left alone.
func (mdb *MongodbRepo) EnsureIndexes(ctx context.Context) error {
	for colName, indexes := range collectionIndexes {
		col, err := mdb.GetCollection(ctx, "", colName)
		if err != nil {
			return fmt.Errorf("error getting collection %s: %w", colName, err)
		}
		if _, err := col.Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("error creating indexes on %s: %w", colName, err)
		}
	}
	return nil
}
