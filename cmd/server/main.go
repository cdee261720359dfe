package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mindnest/wellness/internal/adapter/handler"
	"github.com/mindnest/wellness/internal/adapter/repository"
	"github.com/mindnest/wellness/internal/adapter/storage"
	"github.com/mindnest/wellness/internal/adapter/store"
	domainrepo "github.com/mindnest/wellness/internal/domain/repository"
	"github.com/mindnest/wellness/internal/infrastructure/config"
	"github.com/mindnest/wellness/internal/infrastructure/database"
	"github.com/mindnest/wellness/internal/infrastructure/feed"
	"github.com/mindnest/wellness/internal/infrastructure/logger"
	"github.com/mindnest/wellness/internal/infrastructure/ratelimit"
	"github.com/mindnest/wellness/internal/infrastructure/remote"
	"github.com/mindnest/wellness/internal/infrastructure/server"
	"github.com/mindnest/wellness/internal/infrastructure/validator"
	"github.com/mindnest/wellness/internal/usecase/auth"
	"github.com/mindnest/wellness/internal/usecase/dashboard"
	"github.com/mindnest/wellness/internal/usecase/insights"
	"github.com/mindnest/wellness/internal/usecase/mood"
	"github.com/mindnest/wellness/internal/usecase/resource"
	"github.com/mindnest/wellness/internal/usecase/user"
	"github.com/mindnest/wellness/pkg/jwt"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Initialize logger
	logger.Init(&cfg.Log)
	log.Info().Msg("Starting MindNest wellness backend...")

	if err := validator.Register(); err != nil {
		log.Fatal().Err(err).Msg("Failed to register validation rules")
	}

	// Initialize database
	db, err := database.Init(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, repository.Models()...); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate database")
		}
	}

	recordStore, err := newRecordStore(cfg, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize record store")
	}

	// Initialize file storage
	fileStorage, err := newFileStorage(&cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize file storage")
	}

	// Initialize JWT manager
	jwtManager := jwt.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.GetAccessTokenExpiry(),
		cfg.JWT.GetRefreshTokenExpiry(),
		cfg.JWT.Issuer,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	moodRepo := repository.NewMoodEntryRepository(recordStore)

	hub := feed.NewHub()
	var publisher mood.EntryPublisher = hub

	// Relay feed events between instances when Redis is configured
	relayCtx, stopRelay := context.WithCancel(context.Background())
	defer stopRelay()
	if cfg.Feed.RedisURL != "" {
		redisClient, err := database.NewRedisClient(cfg.Feed.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()

		relay := feed.NewRedisRelay(redisClient, hub, cfg.Feed.Channel)
		publisher = relay
		go func() {
			if err := relay.Run(relayCtx); err != nil {
				log.Error().Err(err).Msg("Feed relay stopped")
			}
		}()
	}

	// Initialize use cases
	authUseCase := auth.NewUseCase(userRepo, refreshTokenRepo, jwtManager)
	userUseCase := user.NewUseCase(userRepo, moodRepo, fileStorage, &cfg.Storage)
	moodUseCase := mood.NewUseCase(recordStore, moodRepo, publisher)
	dashboardUseCase := dashboard.NewUseCase(userRepo, moodRepo)
	insightsUseCase := insights.NewUseCase(moodRepo)
	resourceUseCase, err := resource.NewUseCase(recordStore)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load resource catalog")
	}
	if cfg.Store.Driver != "remote" {
		seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
		if n, err := resourceUseCase.Seed(seedCtx); err != nil {
			log.Warn().Err(err).Msg("Failed to seed support resources")
		} else if n > 0 {
			log.Info().Int("count", n).Msg("Seeded support resources")
		}
		cancelSeed()
	}

	authLimiter := ratelimit.New(cfg.RateLimit.AuthRPS, cfg.RateLimit.AuthBurst)
	defer authLimiter.Stop()

	// Initialize handlers
	handlers := &handler.Handlers{
		Auth:      handler.NewAuthHandler(authUseCase),
		User:      handler.NewUserHandler(userUseCase),
		Mood:      handler.NewMoodHandler(moodUseCase, &cfg.Capture),
		Dashboard: handler.NewDashboardHandler(dashboardUseCase, hub, &cfg.Capture),
		Insights:  handler.NewInsightsHandler(insightsUseCase),
		Resource:  handler.NewResourceHandler(resourceUseCase),
	}

	// Initialize HTTP server
	srv := server.New(&cfg.Server)
	handler.RegisterRoutes(srv.Router(), handlers, jwtManager, authLimiter, &cfg.Storage)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go purgeExpiredTokens(ctx, authUseCase, time.Hour)

	if err := srv.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server stopped unexpectedly")
	}

	log.Info().Msg("Server exited")
}

// purgeExpiredTokens drops expired refresh tokens every interval until ctx is done
func purgeExpiredTokens(ctx context.Context, authUseCase auth.UseCase, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := authUseCase.PurgeExpiredTokens(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("Failed to purge expired refresh tokens")
				continue
			}
			if n > 0 {
				log.Info().Int64("count", n).Msg("Purged expired refresh tokens")
			}
		}
	}
}

// newFileStorage picks where avatars are written
func newFileStorage(cfg *config.StorageConfig) (storage.FileStorage, error) {
	if cfg.Driver != "s3" {
		return storage.NewLocalFileStorage(cfg.BasePath), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s3Storage, err := storage.NewS3FileStorage(ctx, &cfg.S3)
	if err != nil {
		return nil, err
	}
	log.Info().Str("bucket", cfg.S3.Bucket).Str("region", cfg.S3.Region).Msg("Avatars are stored in S3")
	return s3Storage, nil
}

// newRecordStore picks where mood entries are written
func newRecordStore(cfg *config.Config, db *gorm.DB) (domainrepo.RecordStore, error) {
	if cfg.Store.Driver != "remote" {
		log.Info().Msg("Mood entries are stored in the application database")
		return store.NewGormStore(db), nil
	}

	client, err := remote.NewClient(&cfg.Store.Remote)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Ping(ctx); err != nil {
		log.Warn().Err(err).Str("url", client.GetBaseURL()).Msg("Remote store is not reachable yet")
	} else {
		log.Info().Str("url", client.GetBaseURL()).Msg("Connected to remote store")
	}
	return client, nil
}
