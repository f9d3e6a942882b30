package models

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RequestRepo interface {
	CreateRequest(ctx context.Context, req *ArtistRequest) (*ArtistRequest, error)
	ListRequests(ctx context.Context, eventID string) ([]ArtistRequest, error)
	SetRequestStatus(ctx context.Context, ids []string, status RequestStatus) error
}

func (mdb *MongodbRepo) CreateRequest(ctx context.Context, req *ArtistRequest) (*ArtistRequest, error) {
	col, err := mdb.GetCollection(ctx, "", RequestsCollection)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	if _, err := col.InsertOne(ctx, req); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("request %s already exists", req.ID)
		}
		return nil, fmt.Errorf("error inserting request: %w", err)
	}
	return req, nil
}

// ListRequests returns an event's requests in the order they were made.
func (mdb *MongodbRepo) ListRequests(ctx context.Context, eventID string) ([]ArtistRequest, error) {
	col, err := mdb.GetCollection(ctx, "", RequestsCollection)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "requested_at", Value: 1}})
	cursor, err := col.Find(ctx, bson.M{"event_id": eventID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding requests: %w", err)
	}
	defer cursor.Close(ctx)

	requests := []ArtistRequest{}
	for cursor.Next(ctx) {
		var r ArtistRequest
		if err := cursor.Decode(&r); err != nil {
			return nil, fmt.Errorf("error decoding request: %w", err)
		}
		requests = append(requests, r)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return requests, nil
}

func (mdb *MongodbRepo) SetRequestStatus(ctx context.Context, ids []string, status RequestStatus) error {
	if len(ids) == 0 {
		return nil
	}
	col, err := mdb.GetCollection(ctx, "", RequestsCollection)
	if err != nil {
		return fmt.Errorf("error getting collection: %w", err)
	}

	filter := bson.M{"_id": bson.M{"$in": ids}}
	update := bson.M{"$set": bson.M{"status": status}}
	if _, err := col.UpdateMany(ctx, filter, update); err != nil {
		return fmt.Errorf("error updating request status: %w", err)
	}
	return nil
}
