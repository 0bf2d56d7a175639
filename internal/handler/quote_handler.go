package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/venuely/venue-pricing-service/internal/model"
	"github.com/venuely/venue-pricing-service/internal/service"
)

// QuoteServiceInterface defines the interface for quote and availability logic.
type QuoteServiceInterface interface {
	Quote(ctx context.Context, req *model.QuoteRequest) (*model.QuoteResult, error)
	DayAvailability(ctx context.Context, listingID, date string) (*model.DayAvailability, error)
	EndSlots(ctx context.Context, listingID, date, start string) ([]string, error)
}

// QuoteHandler handles HTTP requests for price quotes and availability lookups.
type QuoteHandler struct {
	service   QuoteServiceInterface
	validator *validator.Validate
}

// NewQuoteHandler creates a new QuoteHandler with the given service and validator.
func NewQuoteHandler(svc QuoteServiceInterface, v *validator.Validate) *QuoteHandler {
	return &QuoteHandler{service: svc, validator: v}
}

// Quote handles POST /api/quotes. An unbookable slot is a 200 with
// available=false and a reason code; only malformed input or a missing
// listing is an error status.
func (h *QuoteHandler) Quote(c *fiber.Ctx) error {
	var req model.QuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	result, err := h.service.Quote(c.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrListingNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "listing not found"})
		case errors.Is(err, service.ErrInvalidDate):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid date: expected YYYY-MM-DD"})
		case errors.Is(err, service.ErrInvalidTime):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid time: expected HH:MM"})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("listing_id", req.ListingID).
			Str("date", req.Date).
			Msg("failed to resolve quote")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	if result.Available {
		log.Info().
			Str("listing_id", req.ListingID).
			Str("date", req.Date).
			Int64("total_cents", result.Breakdown.TotalCents).
			Msg("quote resolved")
	}
	return c.JSON(result)
}

// Availability handles GET /api/listings/:id/availability?date=YYYY-MM-DD.
// With a start=HH:MM query it returns the valid end slots for that start.
func (h *QuoteHandler) Availability(c *fiber.Ctx) error {
	id := c.Params("id")
	date := c.Query("date")
	if date == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: date is required"})
	}

	if start := c.Query("start"); start != "" {
		slots, err := h.service.EndSlots(c.Context(), id, date, start)
		if err != nil {
			return h.mapError(c, err, id, date)
		}
		return c.JSON(fiber.Map{"date": date, "start": start, "end_slots": slots})
	}

	day, err := h.service.DayAvailability(c.Context(), id, date)
	if err != nil {
		return h.mapError(c, err, id, date)
	}
	return c.JSON(day)
}

func (h *QuoteHandler) mapError(c *fiber.Ctx, err error, listingID, date string) error {
	switch {
	case errors.Is(err, service.ErrListingNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "listing not found"})
	case errors.Is(err, service.ErrInvalidDate):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid date: expected YYYY-MM-DD"})
	case errors.Is(err, service.ErrInvalidTime):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid time: expected HH:MM"})
	}
	log.Error().Err(err).Str("listing_id", listingID).Str("date", date).Msg("availability lookup failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}
