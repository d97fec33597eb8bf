package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/sarathradhan/social-media-app/config"
	database "github.com/sarathradhan/social-media-app/db"
	"github.com/sarathradhan/social-media-app/handler"
	"github.com/sarathradhan/social-media-app/natsclient"
	"github.com/sarathradhan/social-media-app/pkg/googleauth"
	"github.com/sarathradhan/social-media-app/publisher"
	"github.com/sarathradhan/social-media-app/repository"
	"github.com/sarathradhan/social-media-app/session"
	"github.com/sarathradhan/social-media-app/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Database
	db, err := database.NewConnection(database.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		DBName:       cfg.Database.DBName,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		MaxLifetime:  cfg.Database.MaxLifetime,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.HealthCheck(ctx); err != nil {
		log.Fatalf("Database health check failed: %v", err)
	}
	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}
	log.Println("Database connected and migrated")

	// Redis session store
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: 10,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Println("Redis connected")

	sessions := session.NewRedisStore(redisClient, cfg.Server.SessionTTL)

	// NATS event bus (optional)
	var eventPublisher *publisher.EventPublisher
	if cfg.NATS.URL != "" {
		natsConn, err := natsclient.New(natsclient.Config{
			URL:           cfg.NATS.URL,
			MaxReconnects: cfg.NATS.MaxReconnects,
			ReconnectWait: cfg.NATS.ReconnectWait,
		})
		if err != nil {
			log.Printf("Failed to connect to NATS, events disabled: %v", err)
		} else {
			defer natsConn.Close()
			eventPublisher = publisher.NewEventPublisher(natsConn)
			log.Println("NATS connected")
		}
	}

	// Upload stores
	uploads, err := storage.NewFileStore(cfg.Server.UploadDir, "/uploads")
	if err != nil {
		log.Fatalf("Failed to init upload store: %v", err)
	}
	avatars, err := storage.NewFileStore(cfg.Server.AvatarDir, "/avatars")
	if err != nil {
		log.Fatalf("Failed to init avatar store: %v", err)
	}

	// Google OAuth (optional)
	var google *googleauth.Client
	if cfg.Google.ClientID != "" {
		google = googleauth.New(googleauth.Config{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  cfg.Google.RedirectURL,
		})
	}

	router := handler.NewRouter(handler.RouterConfig{
		Sessions:   sessions,
		Users:      repository.NewUserRepository(db.DB),
		Posts:      repository.NewPostRepository(db.DB),
		Likes:      repository.NewLikeRepository(db.DB),
		Follows:    repository.NewFollowRepository(db.DB),
		Uploads:    uploads,
		Avatars:    avatars,
		Google:     google,
		Events:     eventPublisher,
		SessionTTL: cfg.Server.SessionTTL,
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Listening on http://localhost:%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped cleanly")
}
