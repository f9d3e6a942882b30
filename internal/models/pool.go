package models

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PoolEntry struct {
	ArtistID string    `bson:"artist_id" json:"artist_id"`
	AddedAt  time.Time `bson:"added_at" json:"added_at"`
}

// ArtistPool is a venue's shortlist of artists, one document per venue.
type ArtistPool struct {
	VenueID   string               `bson:"venue_id" json:"venue_id" validate:"required"`
	Items     map[string]PoolEntry `bson:"items" json:"items"`
	CreatedAt time.Time            `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt time.Time            `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// ArtistIDs returns the pooled artists, earliest added first.
func (p *ArtistPool) ArtistIDs() []string {
	if p == nil {
		return nil
	}
	entries := make([]PoolEntry, 0, len(p.Items))
	for _, e := range p.Items {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].AddedAt.Equal(entries[j].AddedAt) {
			return entries[i].ArtistID < entries[j].ArtistID
		}
		return entries[i].AddedAt.Before(entries[j].AddedAt)
	})
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ArtistID
	}
	return ids
}

type PoolRepo interface {
	AddToPool(ctx context.Context, venueID, artistID string) (*ArtistPool, error)
	RemoveFromPool(ctx context.Context, venueID, artistID string) error
	GetPool(ctx context.Context, venueID string) (*ArtistPool, error)
}

func (mdb *MongodbRepo) AddToPool(ctx context.Context, venueID, artistID string) (*ArtistPool, error) {
	col, err := mdb.GetCollection(ctx, "", PoolCollection)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}
	now := time.Now().UTC()
	filter := bson.M{"venue_id": venueID}

	update := bson.M{
		"$set": bson.M{
			"updated_at": now,
			fmt.Sprintf("items.%s", artistID): PoolEntry{
				ArtistID: artistID,
				AddedAt:  now,
			},
		},
		"$setOnInsert": bson.M{
			"venue_id":   venueID,
			"created_at": now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var result ArtistPool
	err = col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&result)
	if err != nil {
		return nil, fmt.Errorf("error upserting artist pool: %w", err)
	}

	return &result, nil
}

func (mdb *MongodbRepo) RemoveFromPool(ctx context.Context, venueID, artistID string) error {
	col, err := mdb.GetCollection(ctx, "", PoolCollection)
	if err != nil {
		return fmt.Errorf("error getting collection: %w", err)
	}

	filter := bson.M{"venue_id": venueID}
	update := bson.M{
		"$unset": bson.M{
			fmt.Sprintf("items.%s", artistID): "",
		},
		"$set": bson.M{
			"updated_at": time.Now().UTC(),
		},
	}

	_, err = col.UpdateOne(ctx, filter, update)
	return err
}

func (mdb *MongodbRepo) GetPool(ctx context.Context, venueID string) (*ArtistPool, error) {
	col, err := mdb.GetCollection(ctx, "", PoolCollection)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	var pool ArtistPool
	err = col.FindOne(ctx, bson.M{"venue_id": venueID}).Decode(&pool)
	if err == mongo.ErrNoDocuments {
		return &ArtistPool{VenueID: venueID, Items: map[string]PoolEntry{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding artist pool: %w", err)
	}

	return &pool, nil
}
