// Package main is the entry point for the API server.
// It initializes all dependencies, sets up the HTTP server,
// starts the daily sweep, and serves until interrupted.
package main

import (
	"context"
	"log"
	"time"

	"github.com/Jacobolevy/giftwallet-il/internal/config"
	"github.com/Jacobolevy/giftwallet-il/internal/crypto"
	"github.com/Jacobolevy/giftwallet-il/internal/jobs"
	"github.com/Jacobolevy/giftwallet-il/internal/repositories"
	"github.com/Jacobolevy/giftwallet-il/internal/repositories/cache"
	"github.com/Jacobolevy/giftwallet-il/internal/routes"
	"github.com/Jacobolevy/giftwallet-il/internal/services/auth"
	"github.com/Jacobolevy/giftwallet-il/internal/services/card"
	"github.com/Jacobolevy/giftwallet-il/internal/services/establishment"
	"github.com/Jacobolevy/giftwallet-il/internal/services/notification"
	"github.com/Jacobolevy/giftwallet-il/internal/services/reminder"
	"github.com/Jacobolevy/giftwallet-il/internal/services/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadEnv()

	db, err := repositories.Connect(repositories.DBConfig{
		MaxIdleConns:    config.GetIntEnv("DB_MAX_IDLE_CONNS", 10),
		MaxOpenConns:    config.GetIntEnv("DB_MAX_OPEN_CONNS", 100),
		ConnMaxLifetime: config.GetDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
		ConnMaxIdleTime: config.GetDurationEnv("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	redisClient := cache.NewRedisClient(&cache.RedisConfig{
		Host:     config.GetEnv("REDIS_HOST", "localhost"),
		Port:     config.GetEnv("REDIS_PORT", "6379"),
		Password: config.GetEnv("REDIS_PASSWORD", ""),
		DB:       config.GetIntEnv("REDIS_DB", 0),
	})
	cacheService := cache.NewCacheService(redisClient, config.GetDurationEnv("CACHE_TTL", 10*time.Minute))
	defer cacheService.Close()

	if err := cacheService.HealthCheck(context.Background()); err != nil {
		log.Printf("redis unavailable, lookups fall through to the database: %v", err)
	}

	encryptor, err := crypto.New(config.GetEnv("ENCRYPTION_KEY", ""))
	if err != nil {
		log.Fatalf("Failed to initialize encryption: %v", err)
	}

	// Repositories
	userRepo := repositories.NewUserRepository(db, cacheService)
	cardRepo := repositories.NewCardRepository(db)
	reminderRepo := repositories.NewReminderRepository(db)
	catalogRepo := repositories.NewCatalogRepository(db)

	// Services
	authService := auth.NewService(userRepo)
	userService := user.NewService(userRepo)
	notifier := notification.NewService(userRepo)
	reminderService := reminder.NewService(reminderRepo, notifier)
	cardService := card.NewService(cardRepo, catalogRepo, encryptor, reminderService, cacheService)
	establishmentService := establishment.NewService(cardRepo, catalogRepo, cacheService)

	// Daily sweep: expiry first, then reminder delivery.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sweeper := jobs.NewSweeper(cardService, reminderService, config.SweepLocation(),
		config.GetDurationEnv("SWEEP_RUN_AT", 6*time.Hour))
	sweeper.Start(ctx)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.GetEnv("CORS_ORIGINS", "http://localhost:5173"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	for _, path := range []string{"/api/register", "/api/login"} {
		app.Use(path, limiter.New(limiter.Config{
			Max:        5,
			Expiration: time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error": "Too many requests. Please try again later.",
				})
			},
		}))
	}

	routes.SetupRoutes(app, &routes.Dependencies{
		DB:             db,
		Cache:          cacheService,
		Catalog:        catalogRepo,
		Sweeper:        sweeper,
		Auth:           authService,
		Users:          userService,
		Cards:          cardService,
		Reminders:      reminderService,
		Establishments: establishmentService,
	})

	log.Fatal(app.Listen(":" + config.GetEnv("PORT", "3000")))
}
