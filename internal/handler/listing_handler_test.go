package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venuely/venue-pricing-service/internal/model"
	"github.com/venuely/venue-pricing-service/internal/pricing"
	"github.com/venuely/venue-pricing-service/internal/service"
	"github.com/venuely/venue-pricing-service/internal/validator"
)

// mockListingService is a mock implementation of ListingServiceInterface.
type mockListingService struct {
	getListingFn            func(ctx context.Context, id string) (*model.ListingResponse, error)
	updateBookingSettingsFn func(ctx context.Context, id string, req *model.UpdateBookingSettingsRequest) error
	setFlatSaleFn           func(ctx context.Context, id string, req *model.SetFlatSaleRequest) error
	clearFlatSaleFn         func(ctx context.Context, id string) error
	setDurationTiersFn      func(ctx context.Context, id string, req *model.SetDurationTiersRequest) error
	clearDurationTiersFn    func(ctx context.Context, id string) error
	setBonusOfferFn         func(ctx context.Context, id string, req *model.SetBonusOfferRequest) error
	clearBonusOfferFn       func(ctx context.Context, id string) error
}

func (m *mockListingService) GetListing(ctx context.Context, id string) (*model.ListingResponse, error) {
	if m.getListingFn != nil {
		return m.getListingFn(ctx, id)
	}
	return nil, service.ErrListingNotFound
}

func (m *mockListingService) UpdateBookingSettings(ctx context.Context, id string, req *model.UpdateBookingSettingsRequest) error {
	if m.updateBookingSettingsFn != nil {
		return m.updateBookingSettingsFn(ctx, id, req)
	}
	return nil
}

func (m *mockListingService) SetFlatSale(ctx context.Context, id string, req *model.SetFlatSaleRequest) error {
	if m.setFlatSaleFn != nil {
		return m.setFlatSaleFn(ctx, id, req)
	}
	return nil
}

func (m *mockListingService) ClearFlatSale(ctx context.Context, id string) error {
	if m.clearFlatSaleFn != nil {
		return m.clearFlatSaleFn(ctx, id)
	}
	return nil
}

func (m *mockListingService) SetDurationTiers(ctx context.Context, id string, req *model.SetDurationTiersRequest) error {
	if m.setDurationTiersFn != nil {
		return m.setDurationTiersFn(ctx, id, req)
	}
	return nil
}

func (m *mockListingService) ClearDurationTiers(ctx context.Context, id string) error {
	if m.clearDurationTiersFn != nil {
		return m.clearDurationTiersFn(ctx, id)
	}
	return nil
}

func (m *mockListingService) SetBonusOffer(ctx context.Context, id string, req *model.SetBonusOfferRequest) error {
	if m.setBonusOfferFn != nil {
		return m.setBonusOfferFn(ctx, id, req)
	}
	return nil
}

func (m *mockListingService) ClearBonusOffer(ctx context.Context, id string) error {
	if m.clearBonusOfferFn != nil {
		return m.clearBonusOfferFn(ctx, id)
	}
	return nil
}

func setupListingApp(mockSvc *mockListingService) *fiber.App {
	app := fiber.New()
	validate := validator.New()
	h := NewListingHandler(mockSvc, validate)
	app.Get("/api/listings/:id", h.GetListing)
	app.Put("/api/listings/:id/booking-settings", h.UpdateBookingSettings)
	app.Put("/api/listings/:id/discount", h.SetFlatSale)
	app.Delete("/api/listings/:id/discount", h.ClearFlatSale)
	app.Put("/api/listings/:id/duration-discounts", h.SetDurationTiers)
	app.Delete("/api/listings/:id/duration-discounts", h.ClearDurationTiers)
	app.Put("/api/listings/:id/bonus-hours", h.SetBonusOffer)
	app.Delete("/api/listings/:id/bonus-hours", h.ClearBonusOffer)
	return app
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeError(t *testing.T, resp *http.Response) string {
	t.Helper()
	var result map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result["error"]
}

func TestGetListing_Success(t *testing.T) {
	mockSvc := &mockListingService{
		getListingFn: func(ctx context.Context, id string) (*model.ListingResponse, error) {
			return &model.ListingResponse{
				Listing: model.Listing{
					ID:              id,
					Name:            "Riverside Loft",
					HourlyRateCents: 100000,
					DiscountPercent: 20,
					IsFeatured:      true,
				},
				CurrentlyFeatured: true,
				SaleActive:        true,
			}, nil
		},
	}
	app := setupListingApp(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/listings/lst_001", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "lst_001", result["id"])
	assert.Equal(t, true, result["currently_featured"])
	assert.Equal(t, true, result["sale_active"])
}

func TestGetListing_NotFound(t *testing.T) {
	app := setupListingApp(&mockListingService{})

	req := httptest.NewRequest(http.MethodGet, "/api/listings/lst_missing", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "listing not found", decodeError(t, resp))
}

func TestSetFlatSale_Success(t *testing.T) {
	var captured *model.SetFlatSaleRequest
	mockSvc := &mockListingService{
		setFlatSaleFn: func(ctx context.Context, id string, req *model.SetFlatSaleRequest) error {
			captured = req
			return nil
		},
	}
	app := setupListingApp(mockSvc)

	body := `{"discount_percent": 20, "discount_from": "2026-09-01", "discount_until": "2026-09-15", "label": "Autumn Sale"}`
	resp, err := app.Test(jsonRequest(http.MethodPut, "/api/listings/lst_001/discount", body))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	respBody, _ := io.ReadAll(resp.Body)
	assert.Empty(t, respBody)
	require.NotNil(t, captured)
	assert.Equal(t, 20, *captured.DiscountPercent)
	assert.Equal(t, "Autumn Sale", captured.Label)
}

func TestSetFlatSale_MissingPercent(t *testing.T) {
	app := setupListingApp(&mockListingService{})

	body := `{"label": "Autumn Sale"}`
	resp, err := app.Test(jsonRequest(http.MethodPut, "/api/listings/lst_001/discount", body))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid request: discount_percent is required", decodeError(t, resp))
}

func TestSetFlatSale_BlankLabel(t *testing.T) {
	app := setupListingApp(&mockListingService{})

	body := `{"discount_percent": 20, "label": "   "}`
	resp, err := app.Test(jsonRequest(http.MethodPut, "/api/listings/lst_001/discount", body))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid request: label cannot be whitespace only", decodeError(t, resp))
}

func TestSetFlatSale_RuleViolation(t *testing.T) {
	mockSvc := &mockListingService{
		setFlatSaleFn: func(ctx context.Context, id string, req *model.SetFlatSaleRequest) error {
			return &pricing.RuleError{Field: "discount_until", Index: -1, Reason: "sale window cannot exceed 90 days"}
		},
	}
	app := setupListingApp(mockSvc)

	body := `{"discount_percent": 20, "discount_from": "2026-01-01", "discount_until": "2026-12-31", "label": "Year Long"}`
	resp, err := app.Test(jsonRequest(http.MethodPut, "/api/listings/lst_001/discount", body))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid discount_until: sale window cannot exceed 90 days", decodeError(t, resp))
}

func TestSetFlatSale_MalformedBody(t *testing.T) {
	app := setupListingApp(&mockListingService{})

	resp, err := app.Test(jsonRequest(http.MethodPut, "/api/listings/lst_001/discount", `{not json`))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid request body", decodeError(t, resp))
}

func TestClearFlatSale_Success(t *testing.T) {
	cleared := false
	mockSvc := &mockListingService{
		clearFlatSaleFn: func(ctx context.Context, id string) error {
			cleared = true
			return nil
		},
	}
	app := setupListingApp(mockSvc)

	req := httptest.NewRequest(http.MethodDelete, "/api/listings/lst_001/discount", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.True(t, cleared)
}

func TestSetDurationTiers_Success(t *testing.T) {
	var captured *model.SetDurationTiersRequest
	mockSvc := &mockListingService{
		setDurationTiersFn: func(ctx context.Context, id string, req *model.SetDurationTiersRequest) error {
			captured = req
			return nil
		},
	}
	app := setupListingApp(mockSvc)

	body := `{"tiers": [{"min_hours": 4, "discount_percent": 10}, {"min_hours": 8, "discount_percent": 20}]}`
	resp, err := app.Test(jsonRequest(http.MethodPut, "/api/listings/lst_001/duration-discounts", body))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	require.NotNil(t, captured)
	assert.Len(t, captured.Tiers, 2)
}

func TestSetDurationTiers_EmptyTable(t *testing.T) {
	app := setupListingApp(&mockListingService{})

	resp, err := app.Test(jsonRequest(http.MethodPut, "/api/listings/lst_001/duration-discounts", `{"tiers": []}`))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSetDurationTiers_ListingNotFound(t *testing.T) {
	mockSvc := &mockListingService{
		setDurationTiersFn: func(ctx context.Context, id string, req *model.SetDurationTiersRequest) error {
			return service.ErrListingNotFound
		},
	}
	app := setupListingApp(mockSvc)

	body := `{"tiers": [{"min_hours": 4, "discount_percent": 10}]}`
	resp, err := app.Test(jsonRequest(http.MethodPut, "/api/listings/lst_missing/duration-discounts", body))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSetBonusOffer_Success(t *testing.T) {
	mockSvc := &mockListingService{}
	app := setupListingApp(mockSvc)

	body := `{"min_hours": 4, "bonus_hours": 1, "label": "Book 4 get 1 free"}`
	resp, err := app.Test(jsonRequest(http.MethodPut, "/api/listings/lst_001/bonus-hours", body))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestSetBonusOffer_BonusHoursAboveCap(t *testing.T) {
	app := setupListingApp(&mockListingService{})

	body := `{"min_hours": 4, "bonus_hours": 5, "label": "Big Bonus"}`
	resp, err := app.Test(jsonRequest(http.MethodPut, "/api/listings/lst_001/bonus-hours", body))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid request: bonus_hours must be at most 3", decodeError(t, resp))
}

func TestUpdateBookingSettings_Success(t *testing.T) {
	mockSvc := &mockListingService{}
	app := setupListingApp(mockSvc)

	body := `{"min_advance_booking_hours": 24, "max_advance_booking_days": 90, "min_hours": 2, "max_hours": 10, "auto_confirm": true, "instant_booking": false}`
	resp, err := app.Test(jsonRequest(http.MethodPut, "/api/listings/lst_001/booking-settings", body))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestUpdateBookingSettings_MissingField(t *testing.T) {
	app := setupListingApp(&mockListingService{})

	body := `{"max_advance_booking_days": 90, "min_hours": 2, "max_hours": 10, "auto_confirm": true, "instant_booking": false}`
	resp, err := app.Test(jsonRequest(http.MethodPut, "/api/listings/lst_001/booking-settings", body))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid request: min_advance_booking_hours is required", decodeError(t, resp))
}

func TestRuleEdit_ServiceError(t *testing.T) {
	mockSvc := &mockListingService{
		clearBonusOfferFn: func(ctx context.Context, id string) error {
			return errors.New("database connection failed")
		},
	}
	app := setupListingApp(mockSvc)

	req := httptest.NewRequest(http.MethodDelete, "/api/listings/lst_001/bonus-hours", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "internal server error", decodeError(t, resp))
}
