package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joshua-takyi/jocky/internal/models"
)

type Config struct {
	Port            string
	SupabaseURL     string
	SupabaseAnonKey string
	MongoDBURI      string
	MongoDBPassword string
	Environment     string
	LogLevel        string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	// JWTSecret switches token validation to HS256 with a shared secret
	// instead of the Supabase JWKS endpoint.
	JWTSecret   string
	CORSOrigins []string
	// TodayAnchor pins "today" for calendar views; zero means the wall clock.
	TodayAnchor models.Date
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:                getEnvWithDefault("PORT", "8080"),
		SupabaseURL:         os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey:     os.Getenv("SUPABASE_URL_ANON_KEY"),
		MongoDBURI:          os.Getenv("MONGODB_URI"),
		MongoDBPassword:     os.Getenv("MONGODB_PASSWORD"),
		Environment:         getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:            getEnvWithDefault("LOG_LEVEL", "info"),
		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		CORSOrigins:         splitList(getEnvWithDefault("CORS_ORIGINS", "http://localhost:3000")),
	}

	if anchor := os.Getenv("TODAY_ANCHOR"); anchor != "" {
		d, err := models.ParseDate(anchor)
		if err != nil {
			return nil, fmt.Errorf("TODAY_ANCHOR: %w", err)
		}
		cfg.TodayAnchor = d
	}

	// Validate required fields
	if cfg.SupabaseURL == "" {
		return nil, fmt.Errorf("SUPABASE_URL is required")
	}
	if cfg.SupabaseAnonKey == "" {
		return nil, fmt.Errorf("SUPABASE_URL_ANON_KEY is required")
	}
	if cfg.MongoDBURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}
	if cfg.MongoDBPassword == "" {
		return nil, fmt.Errorf("MONGODB_PASSWORD is required")
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// HasCloudinary reports whether attachment uploads can be enabled.
func (c *Config) HasCloudinary() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

// Level maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) Level() slog.Level {
	return ParseLevel(c.LogLevel)
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
