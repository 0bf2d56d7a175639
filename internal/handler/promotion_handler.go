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

// PromotionServiceInterface defines the interface for promotion request logic.
type PromotionServiceInterface interface {
	Create(ctx context.Context, req *model.CreatePromotionRequest) (*model.PromotionRequest, error)
	Get(ctx context.Context, id string) (*model.PromotionRequest, error)
	Cancel(ctx context.Context, id string) error
	Approve(ctx context.Context, id, adminNote string) error
	Reject(ctx context.Context, id, adminNote string) error
}

// PromotionHandler handles HTTP requests for the featured-placement lifecycle.
type PromotionHandler struct {
	service   PromotionServiceInterface
	validator *validator.Validate
}

// NewPromotionHandler creates a new PromotionHandler with the given service and validator.
func NewPromotionHandler(svc PromotionServiceInterface, v *validator.Validate) *PromotionHandler {
	return &PromotionHandler{service: svc, validator: v}
}

// Create handles POST /api/promotion-requests.
func (h *PromotionHandler) Create(c *fiber.Ctx) error {
	var req model.CreatePromotionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	created, err := h.service.Create(c.Context(), &req)
	if err != nil {
		return h.mapError(c, err, "", "create promotion request")
	}
	log.Info().
		Str("promotion_id", created.ID).
		Str("listing_id", created.ListingID).
		Int("duration_days", created.DurationDays()).
		Msg("promotion request created")
	return c.Status(fiber.StatusCreated).JSON(created)
}

// Get handles GET /api/promotion-requests/:id.
func (h *PromotionHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	p, err := h.service.Get(c.Context(), id)
	if err != nil {
		return h.mapError(c, err, id, "get promotion request")
	}
	return c.JSON(p)
}

// Cancel handles DELETE /api/promotion-requests/:id (host-side, PENDING only).
func (h *PromotionHandler) Cancel(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.Cancel(c.Context(), id); err != nil {
		return h.mapError(c, err, id, "cancel promotion request")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Approve handles POST /api/promotion-requests/:id/approve (admin-side).
func (h *PromotionHandler) Approve(c *fiber.Ctx) error {
	return h.review(c, h.service.Approve, "approve promotion request")
}

// Reject handles POST /api/promotion-requests/:id/reject (admin-side).
func (h *PromotionHandler) Reject(c *fiber.Ctx) error {
	return h.review(c, h.service.Reject, "reject promotion request")
}

func (h *PromotionHandler) review(c *fiber.Ctx, fn func(ctx context.Context, id, note string) error, op string) error {
	var req model.ReviewPromotionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if err := h.validator.Struct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
		}
	}
	id := c.Params("id")
	if err := fn(c.Context(), id, req.AdminNote); err != nil {
		return h.mapError(c, err, id, op)
	}
	log.Info().Str("promotion_id", id).Str("operation", op).Msg("promotion request resolved")
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *PromotionHandler) mapError(c *fiber.Ctx, err error, id, op string) error {
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
	case errors.Is(err, service.ErrPromotionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "promotion request not found"})
	case errors.Is(err, service.ErrPromotionNotPending):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "promotion request is not pending"})
	}
	log.Error().Err(err).Str("promotion_id", id).Str("operation", op).Msg("promotion operation failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}
