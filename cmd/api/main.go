package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/venuely/venue-pricing-service/internal/config"
	"github.com/venuely/venue-pricing-service/internal/handler"
	"github.com/venuely/venue-pricing-service/internal/repository"
	"github.com/venuely/venue-pricing-service/internal/service"
	"github.com/venuely/venue-pricing-service/internal/validator"
	"github.com/venuely/venue-pricing-service/pkg/database"
)

func main() {
	// Optional .env for local development; real deployments set env vars.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	initLogger(cfg)

	ctx := context.Background()

	pool, err := database.NewPool(ctx, cfg.DB.DSN(), 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	app := fiber.New(fiber.Config{
		AppName:      "Venue Pricing Service",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    1 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New())

	validate := validator.New()

	// Repositories, services, handlers (layered architecture).
	listingRepo := repository.NewListingRepository(pool)
	blockedRepo := repository.NewBlockedDateRepository(pool)
	specialRepo := repository.NewSpecialPricingRepository(pool)
	promoRepo := repository.NewPromotionRepository(pool)

	listingService := service.NewListingService(listingRepo, blockedRepo, specialRepo)
	quoteService := service.NewQuoteService(listingRepo, blockedRepo, specialRepo)
	promotionService := service.NewPromotionService(pool, promoRepo, listingRepo)

	listingHandler := handler.NewListingHandler(listingService, validate)
	calendarHandler := handler.NewCalendarHandler(listingService, validate)
	quoteHandler := handler.NewQuoteHandler(quoteService, validate)
	promotionHandler := handler.NewPromotionHandler(promotionService, validate)
	healthHandler := handler.NewHealthHandler(pool)

	app.Get("/health", healthHandler.Check)

	// Listing reads and host-side pricing rule edits.
	app.Get("/api/listings/:id", listingHandler.GetListing)
	app.Put("/api/listings/:id/booking-settings", listingHandler.UpdateBookingSettings)
	app.Put("/api/listings/:id/discount", listingHandler.SetFlatSale)
	app.Delete("/api/listings/:id/discount", listingHandler.ClearFlatSale)
	app.Put("/api/listings/:id/duration-discounts", listingHandler.SetDurationTiers)
	app.Delete("/api/listings/:id/duration-discounts", listingHandler.ClearDurationTiers)
	app.Put("/api/listings/:id/bonus-hours", listingHandler.SetBonusOffer)
	app.Delete("/api/listings/:id/bonus-hours", listingHandler.ClearBonusOffer)

	// Calendar: blocked dates and special pricing.
	app.Get("/api/listings/:id/blocked-dates", calendarHandler.ListBlockedDates)
	app.Post("/api/listings/:id/blocked-dates", calendarHandler.AddBlockedDates)
	app.Delete("/api/listings/:id/blocked-dates/:rangeID", calendarHandler.RemoveBlockedDates)
	app.Get("/api/listings/:id/special-pricing", calendarHandler.ListSpecialPricing)
	app.Post("/api/listings/:id/special-pricing", calendarHandler.AddSpecialPricing)
	app.Delete("/api/listings/:id/special-pricing/:entryID", calendarHandler.RemoveSpecialPricing)

	// Availability and price quotes.
	app.Get("/api/listings/:id/availability", quoteHandler.Availability)
	app.Post("/api/quotes", quoteHandler.Quote)

	// Featured-placement requests.
	app.Post("/api/promotion-requests", promotionHandler.Create)
	app.Get("/api/promotion-requests/:id", promotionHandler.Get)
	app.Delete("/api/promotion-requests/:id", promotionHandler.Cancel)
	app.Post("/api/promotion-requests/:id/approve", promotionHandler.Approve)
	app.Post("/api/promotion-requests/:id/reject", promotionHandler.Reject)

	// Start server with graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	log.Info().Int("timeout_seconds", cfg.Server.ShutdownTimeout).Msg("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	// Shutdown waits for in-flight requests; the pool closes after, even if
	// shutdown timed out.
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}
	pool.Close()
	log.Info().Msg("server stopped")
}

// initLogger configures zerolog based on the application configuration.
func initLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Log.Pretty {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	} else {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}
