package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/venuely/venue-pricing-service/internal/model"
	"github.com/venuely/venue-pricing-service/internal/pricing"
	"github.com/venuely/venue-pricing-service/internal/service"
)

// CalendarServiceInterface defines the interface for blocked-date and
// special-pricing business logic.
type CalendarServiceInterface interface {
	ListBlockedDates(ctx context.Context, listingID string) ([]model.BlockedDateRange, error)
	AddBlockedDates(ctx context.Context, listingID string, req *model.AddBlockedDatesRequest) (*model.BlockedDateRange, error)
	RemoveBlockedDates(ctx context.Context, listingID, rangeID string) error
	ListSpecialPricing(ctx context.Context, listingID string) ([]model.SpecialPricingEntry, error)
	AddSpecialPricing(ctx context.Context, listingID string, req *model.AddSpecialPricingRequest) (*model.SpecialPricingEntry, error)
	RemoveSpecialPricing(ctx context.Context, listingID, entryID string) error
}

// CalendarHandler handles HTTP requests for a listing's blocked dates and
// special pricing.
type CalendarHandler struct {
	service   CalendarServiceInterface
	validator *validator.Validate
}

// NewCalendarHandler creates a new CalendarHandler with the given service and validator.
func NewCalendarHandler(svc CalendarServiceInterface, v *validator.Validate) *CalendarHandler {
	return &CalendarHandler{service: svc, validator: v}
}

// ListBlockedDates handles GET /api/listings/:id/blocked-dates.
func (h *CalendarHandler) ListBlockedDates(c *fiber.Ctx) error {
	id := c.Params("id")
	ranges, err := h.service.ListBlockedDates(c.Context(), id)
	if err != nil {
		return h.mapError(c, err, id, "list blocked dates")
	}
	return c.JSON(ranges)
}

// AddBlockedDates handles POST /api/listings/:id/blocked-dates.
func (h *CalendarHandler) AddBlockedDates(c *fiber.Ctx) error {
	var req model.AddBlockedDatesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}
	id := c.Params("id")
	created, err := h.service.AddBlockedDates(c.Context(), id, &req)
	if err != nil {
		return h.mapError(c, err, id, "add blocked dates")
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// RemoveBlockedDates handles DELETE /api/listings/:id/blocked-dates/:rangeID.
func (h *CalendarHandler) RemoveBlockedDates(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.RemoveBlockedDates(c.Context(), id, c.Params("rangeID")); err != nil {
		return h.mapError(c, err, id, "remove blocked dates")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListSpecialPricing handles GET /api/listings/:id/special-pricing.
func (h *CalendarHandler) ListSpecialPricing(c *fiber.Ctx) error {
	id := c.Params("id")
	entries, err := h.service.ListSpecialPricing(c.Context(), id)
	if err != nil {
		return h.mapError(c, err, id, "list special pricing")
	}
	return c.JSON(entries)
}

// AddSpecialPricing handles POST /api/listings/:id/special-pricing.
func (h *CalendarHandler) AddSpecialPricing(c *fiber.Ctx) error {
	var req model.AddSpecialPricingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}
	id := c.Params("id")
	created, err := h.service.AddSpecialPricing(c.Context(), id, &req)
	if err != nil {
		return h.mapError(c, err, id, "add special pricing")
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// RemoveSpecialPricing handles DELETE /api/listings/:id/special-pricing/:entryID.
func (h *CalendarHandler) RemoveSpecialPricing(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.RemoveSpecialPricing(c.Context(), id, c.Params("entryID")); err != nil {
		return h.mapError(c, err, id, "remove special pricing")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CalendarHandler) mapError(c *fiber.Ctx, err error, listingID, op string) error {
	var ruleErr *pricing.RuleError
	switch {
	case errors.As(err, &ruleErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ruleErr.Error()})
	case errors.Is(err, service.ErrInvalidDate):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid date: expected YYYY-MM-DD"})
	case errors.Is(err, service.ErrInvalidRequest):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	case errors.Is(err, service.ErrListingNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "listing not found"})
	case errors.Is(err, service.ErrBlockedRangeNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "blocked date range not found"})
	case errors.Is(err, service.ErrSpecialPricingNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "special pricing entry not found"})
	case errors.Is(err, service.ErrSpecialPricingExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "special pricing entry already exists for date"})
	}
	log.Error().Err(err).Str("listing_id", listingID).Str("operation", op).Msg("calendar operation failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}
