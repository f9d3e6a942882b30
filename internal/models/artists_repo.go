package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ArtistRepo interface {
	ListArtists(ctx context.Context) ([]*Artist, error)
	GetArtist(ctx context.Context, id string) (*Artist, error)
	SaveArtist(ctx context.Context, artist *Artist) (*Artist, error)
}

func (mdb *MongodbRepo) ListArtists(ctx context.Context) ([]*Artist, error) {
	col, err := mdb.GetCollection(ctx, "", ArtistsCollection)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding artists: %w", err)
	}
	defer cursor.Close(ctx)

	var artists []*Artist
	if err := cursor.All(ctx, &artists); err != nil {
		return nil, fmt.Errorf("error decoding artists: %w", err)
	}
	return artists, nil
}

func (mdb *MongodbRepo) GetArtist(ctx context.Context, id string) (*Artist, error) {
	col, err := mdb.GetCollection(ctx, "", ArtistsCollection)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	var artist Artist
	err = col.FindOne(ctx, bson.M{"_id": id}).Decode(&artist)
	if err == mongo.ErrNoDocuments {
		return nil, ErrArtistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error finding artist: %w", err)
	}
	return &artist, nil
}

func (mdb *MongodbRepo) SaveArtist(ctx context.Context, artist *Artist) (*Artist, error) {
	col, err := mdb.GetCollection(ctx, "", ArtistsCollection)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	now := time.Now().UTC()
	if artist.CreatedAt.IsZero() {
		artist.CreatedAt = now
	}
	artist.UpdatedAt = now

	opts := options.Replace().SetUpsert(true)
	if _, err := col.ReplaceOne(ctx, bson.M{"_id": artist.ID}, artist, opts); err != nil {
		return nil, fmt.Errorf("error saving artist: %w", err)
	}
	return artist, nil
}
