// Package main is the entry point for the BrokeBesties API server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brokebesties/internal/config"
	"brokebesties/internal/repositories"
	"brokebesties/internal/repositories/cache"
	"brokebesties/internal/routes"
	"brokebesties/internal/services/notification"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()

	db, err := repositories.InitDB(cfg.Database)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	if err := repositories.Migrate(db); err != nil {
		log.Fatalf("❌ %v", err)
	}

	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			stats := sqlDB.Stats()
			log.Printf("DB Stats: Open=%d, Idle=%d, InUse=%d, WaitCount=%d, WaitDuration=%s",
				stats.OpenConnections, stats.Idle, stats.InUse, stats.WaitCount, stats.WaitDuration)
		}
	}()

	// Redis only backs the inbox counters, so the server runs without it.
	var cacheService *cache.CacheService
	if client, err := cache.NewRedisClient(cfg.Redis); err != nil {
		log.Printf("⚠️ Redis disabled: %v", err)
	} else {
		cacheService = cache.NewCacheService(client, cfg.Redis.InboxTTL)
		if err := cacheService.HealthCheck(context.Background()); err != nil {
			log.Printf("⚠️ Redis unreachable, inbox counts will hit the database: %v", err)
		} else {
			log.Println("✅ Redis connected")
		}
	}

	dispatcher := notification.NewDispatcher(
		repositories.NewUserRepository(db),
		cfg.Notification.AppURL,
		channels(cfg.Notification)...,
	)

	app := fiber.New(fiber.Config{AppName: "BrokeBesties"})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use("/api", limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"message": "Too many requests. Please try again later.",
			})
		},
	}))

	routes.SetupRoutes(app, routes.Deps{
		DB:        db,
		JWTSecret: cfg.JWTSecret,
		Cache:     cacheService,
		InboxTTL:  cfg.Redis.InboxTTL,
		Notifier:  dispatcher,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("❌ Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("⚠️ Server shutdown: %v", err)
	}
	dispatcher.Wait()

	if err := sqlDB.Close(); err != nil {
		log.Printf("⚠️ Failed to close database connection: %v", err)
	}
	if cacheService != nil {
		if err := cacheService.Close(); err != nil {
			log.Printf("⚠️ Failed to close Redis connection: %v", err)
		}
	}
}

// channels builds the delivery channels whose credentials are configured.
func channels(cfg config.NotificationConfig) []notification.Channel {
	var out []notification.Channel
	if cfg.SendGridAPIKey != "" {
		out = append(out, notification.NewEmailChannel(cfg.SendGridAPIKey, cfg.MailFromAddress, cfg.MailFromName))
	}
	if cfg.FirebaseCredFile != "" {
		push, err := notification.NewPushChannel(context.Background(), cfg.FirebaseCredFile)
		if err != nil {
			log.Printf("⚠️ Push notifications disabled: %v", err)
		} else {
			out = append(out, push)
		}
	}
	if cfg.TelegramBotToken != "" {
		tg, err := notification.NewTelegramChannel(cfg.TelegramBotToken)
		if err != nil {
			log.Printf("⚠️ Telegram notifications disabled: %v", err)
		} else {
			out = append(out, tg)
		}
	}
	if len(out) == 0 {
		log.Println("⚠️ No notification channels configured")
	}
	return out
}
