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

// ListingServiceInterface defines the interface for listing business logic.
type ListingServiceInterface interface {
	GetListing(ctx context.Context, id string) (*model.ListingResponse, error)
	UpdateBookingSettings(ctx context.Context, id string, req *model.UpdateBookingSettingsRequest) error
	SetFlatSale(ctx context.Context, id string, req *model.SetFlatSaleRequest) error
	ClearFlatSale(ctx context.Context, id string) error
	SetDurationTiers(ctx context.Context, id string, req *model.SetDurationTiersRequest) error
	ClearDurationTiers(ctx context.Context, id string) error
	SetBonusOffer(ctx context.Context, id string, req *model.SetBonusOfferRequest) error
	ClearBonusOffer(ctx context.Context, id string) error
}

// ListingHandler handles HTTP requests for listing reads and pricing rule edits.
type ListingHandler struct {
	service   ListingServiceInterface
	validator *validator.Validate
}

// NewListingHandler creates a new ListingHandler with the given service and validator.
func NewListingHandler(svc ListingServiceInterface, v *validator.Validate) *ListingHandler {
	return &ListingHandler{service: svc, validator: v}
}

// GetListing handles GET /api/listings/:id.
func (h *ListingHandler) GetListing(c *fiber.Ctx) error {
	id := c.Params("id")
	listing, err := h.service.GetListing(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "listing not found"})
		}
		log.Error().Err(err).Str("listing_id", id).Msg("failed to get listing")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(listing)
}

// UpdateBookingSettings handles PUT /api/listings/:id/booking-settings.
func (h *ListingHandler) UpdateBookingSettings(c *fiber.Ctx) error {
	var req model.UpdateBookingSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}
	return h.runRuleEdit(c, "update booking settings", func(ctx context.Context, id string) error {
		return h.service.UpdateBookingSettings(ctx, id, &req)
	})
}

// SetFlatSale handles PUT /api/listings/:id/discount.
func (h *ListingHandler) SetFlatSale(c *fiber.Ctx) error {
	var req model.SetFlatSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}
	return h.runRuleEdit(c, "set flat sale", func(ctx context.Context, id string) error {
		return h.service.SetFlatSale(ctx, id, &req)
	})
}

// ClearFlatSale handles DELETE /api/listings/:id/discount.
func (h *ListingHandler) ClearFlatSale(c *fiber.Ctx) error {
	return h.runRuleEdit(c, "clear flat sale", h.service.ClearFlatSale)
}

// SetDurationTiers handles PUT /api/listings/:id/duration-discounts.
func (h *ListingHandler) SetDurationTiers(c *fiber.Ctx) error {
	var req model.SetDurationTiersRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}
	return h.runRuleEdit(c, "set duration tiers", func(ctx context.Context, id string) error {
		return h.service.SetDurationTiers(ctx, id, &req)
	})
}

// ClearDurationTiers handles DELETE /api/listings/:id/duration-discounts.
func (h *ListingHandler) ClearDurationTiers(c *fiber.Ctx) error {
	return h.runRuleEdit(c, "clear duration tiers", h.service.ClearDurationTiers)
}

// SetBonusOffer handles PUT /api/listings/:id/bonus-hours.
func (h *ListingHandler) SetBonusOffer(c *fiber.Ctx) error {
	var req model.SetBonusOfferRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}
	return h.runRuleEdit(c, "set bonus offer", func(ctx context.Context, id string) error {
		return h.service.SetBonusOffer(ctx, id, &req)
	})
}

// ClearBonusOffer handles DELETE /api/listings/:id/bonus-hours.
func (h *ListingHandler) ClearBonusOffer(c *fiber.Ctx) error {
	return h.runRuleEdit(c, "clear bonus offer", h.service.ClearBonusOffer)
}

// runRuleEdit applies the shared status mapping for rule mutations: rule
// violations and bad dates are 400s, a missing listing is a 404, anything
// else is logged and reported as a 500. Successful edits return 204.
func (h *ListingHandler) runRuleEdit(c *fiber.Ctx, op string, fn func(ctx context.Context, id string) error) error {
	id := c.Params("id")
	err := fn(c.Context(), id)
	if err == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}

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
	}
	log.Error().Err(err).Str("listing_id", id).Str("operation", op).Msg("rule edit failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}
