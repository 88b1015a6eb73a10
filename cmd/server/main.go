package main // Entry point package

import (
	"context"
	"log" // Logging library
	"time"

	"github.com/joho/godotenv"    // loads .env files during local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/house-reservation/internal/booking"
	"github.com/iliyamo/house-reservation/internal/config"
	"github.com/iliyamo/house-reservation/internal/database"
	"github.com/iliyamo/house-reservation/internal/handler"
	"github.com/iliyamo/house-reservation/internal/middleware"
	"github.com/iliyamo/house-reservation/internal/payment"
	"github.com/iliyamo/house-reservation/internal/queue"
	"github.com/iliyamo/house-reservation/internal/repository"
	"github.com/iliyamo/house-reservation/internal/router"
	"github.com/iliyamo/house-reservation/internal/service"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	// Redis backs the flash-carried booking intents and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Fatal("redis is required for the booking flow")
	}

	// Repositories
	houseRepo := repository.NewHouseRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	reviewRepo := repository.NewReviewRepo(db)

	// Domain services
	flash := booking.NewRedisFlashStore(rdb, time.Duration(cfg.BookingIntentTTLMin)*time.Minute)
	gateway := payment.NewStripeGateway(cfg.StripeAPIKey)
	reservations := service.NewReservationService(db, houseRepo, userRepo, reservationRepo)
	reservations.Publish = func(ctx context.Context, ev queue.ReservationConfirmedEvent) error {
		return queue.PublishReservationConfirmed(ctx, ev)
	}

	// Handlers
	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	houseHandler := handler.NewHouseHandler(houseRepo, reviewRepo)
	reviewHandler := handler.NewReviewHandler(houseRepo, reviewRepo)
	reservationHandler := handler.NewReservationHandler(houseRepo, userRepo, reservationRepo, flash, gateway)
	webhookHandler := handler.NewWebhookHandler(cfg.StripeWebhookSecret, reservations)

	e := echo.New() // Create Echo instance
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterCatalog(e, houseHandler, reviewHandler)
	router.RegisterBooking(e, reservationHandler, reviewHandler, cfg.JWTSecret)
	router.RegisterWebhook(e, webhookHandler)

	// Background consumer mirrors confirmed reservations into a log file.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
