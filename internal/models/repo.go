package models

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"
)

var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("hhmm", isClockTime); err != nil {
		panic(err)
	}
	return v
}

const (
	ProfileTable  = "profiles"
	EventsTable   = "events"
	BookingsTable = "bookings"
	DBName        = "jocky"
)

type SupabaseRepo struct {
	supabaseClient *supabase.Client
	url            string
	key            string
}

func SupabaseNewRepo(supabaseClient *supabase.Client, url, key string) *SupabaseRepo {
	return &SupabaseRepo{
		supabaseClient: supabaseClient,
		url:            url,
		key:            key,
	}
}

// GetAuthenticatedClient returns a Supabase client acting as the caller, so
// row level security applies. Without a token the shared client is used.
func (su *SupabaseRepo) GetAuthenticatedClient(accessToken string) (*supabase.Client, error) {
	if accessToken == "" || su.url == "" || su.key == "" {
		return su.supabaseClient, nil
	}

	options := &supabase.ClientOptions{
		Headers: map[string]string{
			"Authorization": "Bearer " + accessToken,
		},
	}

	return supabase.NewClient(su.url, su.key, options)
}

type MongodbRepo struct {
	mongodbClient *mongo.Client
	dbName        string
}

func MongodbNewRepo(mongodbClient *mongo.Client) *MongodbRepo {
	return &MongodbRepo{
		mongodbClient: mongodbClient,
		dbName:        DBName,
	}
}

const (
	ArtistsCollection  = "artists"
	RequestsCollection = "artist_requests"
	MessagesCollection = "messages"
	PoolCollection     = "artist_pool"
)

// GetCollection returns a handle on a collection in the given database, or
// in the repo's default database when dbName is empty.
func (mdb *MongodbRepo) GetCollection(ctx context.Context, dbName, colName string) (*mongo.Collection, error) {
	if mdb.mongodbClient == nil {
		return nil, fmt.Errorf("mongodb client is not connected")
	}
	if dbName == "" {
		dbName = mdb.dbName
	}
	return mdb.mongodbClient.Database(dbName).Collection(colName), nil
}
