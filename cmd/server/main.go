package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"formpilot/internal/cache"
	"formpilot/internal/config"
	"formpilot/internal/repository"
	"formpilot/internal/service"
	"formpilot/internal/transport/rest"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()

	// Load AI config and log model settings
	aiConfig := config.DefaultAIConfig()
	log.Printf("AI Config:")
	log.Printf("  Model:    %s", aiConfig.Model)
	if aiConfig.IsEnabled() {
		log.Println("  API Key:  configured")
	} else {
		log.Println("  API Key:  NOT SET (AI features disabled)")
	}

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize repositories
	formRepo := repository.NewFormRepo(db)
	responseRepo := repository.NewResponseRepo(db)
	userRepo := repository.NewUserRepo(db)

	if err := formRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal("Failed to create form indexes:", err)
	}
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal("Failed to create user indexes:", err)
	}

	// Initialize caches
	formCache := cache.NewFormCache(rdb)
	authLimiter := cache.NewRateLimitCache(rdb, 10, 15*time.Minute)

	// Completion client only exists when the API key is configured;
	// the assistant short-circuits every task otherwise.
	var completer service.Completer
	if aiConfig.IsEnabled() {
		completer = service.NewGeminiClient(aiConfig)
	}

	// Initialize services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)
	assistantSvc := service.NewAssistantService(completer, formRepo, responseRepo)
	formSvc := service.NewFormService(formRepo, responseRepo, userRepo, formCache, assistantSvc)
	retentionSvc := service.NewRetentionService(userRepo, responseRepo)

	retentionSvc.Start()
	defer retentionSvc.Stop()

	// Create router with container
	container := &rest.Container{
		AuthService:      authSvc,
		FormService:      formSvc,
		AssistantService: assistantSvc,
		RetentionService: retentionSvc,
		RateLimiter:      authLimiter,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST /api/auth/register")
		log.Println("  POST /api/auth/login")
		log.Println("  POST/GET /api/forms")
		log.Println("  POST /api/forms/{formId}/submit")
		log.Println("  GET  /api/forms/{formId}/export")
		log.Println("  POST /api/ai/generate-form")
		log.Println("  POST /api/ai/insights/{formId}")
		log.Println("  POST /api/ai/conversational-next")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
