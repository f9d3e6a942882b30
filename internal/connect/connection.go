package connect

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/joshua-takyi/jocky/internal/config"
)

var (
	SupabaseClient *supabase.Client
	MongoDBClient  *mongo.Client
	Cld            *cloudinary.Cloudinary
)

// supabase init
func InitSupabase(cfg *config.Config) (*supabase.Client, error) {
	client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Supabase client: %w", err)
	}
	SupabaseClient = client
	return client, nil
}

func Disconnect() {
	SupabaseClient = nil
}

// MongoURI substitutes the password placeholder in the configured URI.
func MongoURI(cfg *config.Config) string {
	return strings.Replace(cfg.MongoDBURI, "<password>", cfg.MongoDBPassword, 1)
}

// mongo init
func MongoDBConnect(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(MongoURI(cfg))

	var err error
	MongoDBClient, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := MongoDBClient.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.Info("MongoDB connected")
	return MongoDBClient, nil
}

func MongoDBDisconnect() error {
	if MongoDBClient == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := MongoDBClient.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect MongoDB: %w", err)
	}
	MongoDBClient = nil
	return nil
}

// CloudinaryCredentials returns nil without error when Cloudinary is not
// configured; attachment uploads are then rejected.
func CloudinaryCredentials(cfg *config.Config, logger *slog.Logger) (*cloudinary.Cloudinary, error) {
	if !cfg.HasCloudinary() {
		logger.Warn("Cloudinary not configured, attachment uploads disabled")
		return nil, nil
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	Cld = cld
	logger.Info("Cloudinary connected")
	return cld, nil
}
