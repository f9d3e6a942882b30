package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/joshua-takyi/jocky/internal/config"
	"github.com/joshua-takyi/jocky/internal/connect"
	"github.com/joshua-takyi/jocky/internal/container"
	"github.com/joshua-takyi/jocky/internal/helpers"
	"github.com/joshua-takyi/jocky/internal/models"
	"github.com/joshua-takyi/jocky/internal/routes"
)

func main() {
	// Load environment variables
	_ = godotenv.Load(".env.local")

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg)
	slog.SetDefault(logger)
	logger.Info("Starting Jocky API server", "environment", cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cld, err := connect.CloudinaryCredentials(cfg, logger)
	if err != nil {
		logger.Error("Failed to connect to Cloudinary", "error", err)
		os.Exit(1)
	}

	supaClient, err := connect.InitSupabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to Supabase", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to Supabase successfully")

	mongoClient, err := connect.MongoDBConnect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to MongoDB successfully")
	if err := models.MongodbNewRepo(mongoClient).EnsureIndexes(ctx); err != nil {
		logger.Warn("Failed to ensure MongoDB indexes", "error", err)
	}

	validator, closeValidator, err := tokenValidator(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to set up token validation", "error", err)
		os.Exit(1)
	}
	defer closeValidator()

	repos := container.StoreRepos(supaClient, mongoClient, cfg.SupabaseURL, cfg.SupabaseAnonKey)
	appContainer := container.NewContainer(cfg, logger, validator, repos, cld)
	router := routes.SetupRoutes(appContainer)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("Server is shutting down...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	connect.Disconnect()
	if err := connect.MongoDBDisconnect(); err != nil {
		logger.Error("Error disconnecting from MongoDB", "error", err)
	}

	logger.Info("Server exited")
}

// tokenValidator uses the shared JWT_SECRET when set and the Supabase JWKS
// endpoint otherwise.
func tokenValidator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (helpers.TokenValidator, func(), error) {
	if cfg.JWTSecret != "" {
		logger.Warn("Validating tokens with JWT_SECRET; use JWKS in production")
		return helpers.NewHS256Validator(cfg.JWTSecret), func() {}, nil
	}
	v, err := helpers.NewJWKSValidator(ctx, cfg.SupabaseURL, func(err error) {
		logger.Error("JWKS refresh failed", "error", err)
	})
	if err != nil {
		return nil, nil, err
	}
	return v, v.Close, nil
}

func setupLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{Level: cfg.Level()}
	if cfg.IsProduction() {
		// JSON logging for production
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		// Human-readable logging for development
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
