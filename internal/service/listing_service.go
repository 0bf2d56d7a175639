package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/venuely/venue-pricing-service/internal/model"
	"github.com/venuely/venue-pricing-service/internal/pricing"
)

const dateLayout = "2006-01-02"

// ListingRepositoryInterface defines the interface for listing data access.
type ListingRepositoryInterface interface {
	GetByID(ctx context.Context, id string) (*model.Listing, error)
	UpdateBookingSettings(ctx context.Context, id string, s model.BookingSettings) error
	SetFlatSale(ctx context.Context, id string, percent int, from, until *time.Time, label string) error
	ClearFlatSale(ctx context.Context, id string) error
	SetDurationTiers(ctx context.Context, id string, tiers []model.DurationTier) error
	ClearDurationTiers(ctx context.Context, id string) error
	SetBonusOffer(ctx context.Context, id string, offer model.BonusHoursOffer) error
	ClearBonusOffer(ctx context.Context, id string) error
}

// BlockedDateRepositoryInterface defines the interface for blocked date data access.
type BlockedDateRepositoryInterface interface {
	ListByListing(ctx context.Context, listingID string) ([]model.BlockedDateRange, error)
	Insert(ctx context.Context, r *model.BlockedDateRange) error
	Delete(ctx context.Context, listingID, rangeID string) error
}

// SpecialPricingRepositoryInterface defines the interface for special pricing data access.
type SpecialPricingRepositoryInterface interface {
	ListByListing(ctx context.Context, listingID string) ([]model.SpecialPricingEntry, error)
	GetByDate(ctx context.Context, listingID string, date time.Time) (*model.SpecialPricingEntry, error)
	Insert(ctx context.Context, e *model.SpecialPricingEntry) error
	Delete(ctx context.Context, listingID, entryID string) error
}

// ListingService provides business logic for listing reads and host-side
// rule edits. Every rule edit runs the matching pricing validator before it
// touches storage, so a bad rule set is rejected identically here and on any
// client that replays the same checks.
type ListingService struct {
	listingRepo ListingRepositoryInterface
	blockedRepo BlockedDateRepositoryInterface
	specialRepo SpecialPricingRepositoryInterface
	now         func() time.Time
}

// NewListingService creates a new ListingService with the given repositories.
func NewListingService(listingRepo ListingRepositoryInterface, blockedRepo BlockedDateRepositoryInterface, specialRepo SpecialPricingRepositoryInterface) *ListingService {
	return &ListingService{
		listingRepo: listingRepo,
		blockedRepo: blockedRepo,
		specialRepo: specialRepo,
		now:         time.Now,
	}
}

// WithClock overrides the service clock. Primarily used for testing.
func (s *ListingService) WithClock(now func() time.Time) *ListingService {
	s.now = now
	return s
}

// GetListing retrieves a listing with its derived promotion state.
// Returns ErrListingNotFound if the listing doesn't exist.
func (s *ListingService) GetListing(ctx context.Context, id string) (*model.ListingResponse, error) {
	listing, err := s.requireListing(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return &model.ListingResponse{
		Listing:           *listing,
		CurrentlyFeatured: pricing.IsCurrentlyFeatured(listing, now),
		SaleActive:        pricing.SaleActive(listing, now),
	}, nil
}

// UpdateBookingSettings replaces a listing's booking settings.
func (s *ListingService) UpdateBookingSettings(ctx context.Context, id string, req *model.UpdateBookingSettingsRequest) error {
	if req == nil || req.MinAdvanceBookingHours == nil || req.MaxAdvanceBookingDays == nil ||
		req.MinHours == nil || req.MaxHours == nil || req.AutoConfirm == nil || req.InstantBooking == nil {
		return ErrInvalidRequest
	}
	if *req.MinHours > *req.MaxHours {
		return &pricing.RuleError{Field: "max_hours", Index: -1, Reason: "must be at least min_hours"}
	}
	err := s.listingRepo.UpdateBookingSettings(ctx, id, model.BookingSettings{
		MinAdvanceBookingHours: *req.MinAdvanceBookingHours,
		MaxAdvanceBookingDays:  *req.MaxAdvanceBookingDays,
		MinHours:               *req.MinHours,
		MaxHours:               *req.MaxHours,
		AutoConfirm:            *req.AutoConfirm,
		InstantBooking:         *req.InstantBooking,
	})
	if err != nil {
		return fmt.Errorf("update booking settings: %w", err)
	}
	return nil
}

// SetFlatSale replaces a listing's flat sale discount.
func (s *ListingService) SetFlatSale(ctx context.Context, id string, req *model.SetFlatSaleRequest) error {
	if req == nil || req.DiscountPercent == nil {
		return ErrInvalidRequest
	}
	from, err := parseOptionalDate(req.DiscountFrom)
	if err != nil {
		return err
	}
	until, err := parseOptionalDate(req.DiscountUntil)
	if err != nil {
		return err
	}
	if err := pricing.ValidateFlatSale(*req.DiscountPercent, from, until, req.Label); err != nil {
		return err
	}
	if err := s.listingRepo.SetFlatSale(ctx, id, *req.DiscountPercent, from, until, req.Label); err != nil {
		return fmt.Errorf("set flat sale: %w", err)
	}
	return nil
}

// ClearFlatSale removes a listing's flat sale discount.
func (s *ListingService) ClearFlatSale(ctx context.Context, id string) error {
	if err := s.listingRepo.ClearFlatSale(ctx, id); err != nil {
		return fmt.Errorf("clear flat sale: %w", err)
	}
	return nil
}

// SetDurationTiers replaces a listing's duration discount table.
func (s *ListingService) SetDurationTiers(ctx context.Context, id string, req *model.SetDurationTiersRequest) error {
	if req == nil {
		return ErrInvalidRequest
	}
	if err := pricing.ValidateTiers(req.Tiers, pricing.MaxTiers); err != nil {
		return err
	}
	if err := s.listingRepo.SetDurationTiers(ctx, id, req.Tiers); err != nil {
		return fmt.Errorf("set duration tiers: %w", err)
	}
	return nil
}

// ClearDurationTiers removes a listing's duration discount table.
func (s *ListingService) ClearDurationTiers(ctx context.Context, id string) error {
	if err := s.listingRepo.ClearDurationTiers(ctx, id); err != nil {
		return fmt.Errorf("clear duration tiers: %w", err)
	}
	return nil
}

// SetBonusOffer replaces a listing's bonus-hours offer.
func (s *ListingService) SetBonusOffer(ctx context.Context, id string, req *model.SetBonusOfferRequest) error {
	if req == nil || req.MinHours == nil || req.BonusHours == nil {
		return ErrInvalidRequest
	}
	if err := pricing.ValidateBonusOffer(*req.MinHours, *req.BonusHours, req.Label); err != nil {
		return err
	}
	offer := model.BonusHoursOffer{MinHours: *req.MinHours, BonusHours: *req.BonusHours, Label: req.Label}
	if err := s.listingRepo.SetBonusOffer(ctx, id, offer); err != nil {
		return fmt.Errorf("set bonus offer: %w", err)
	}
	return nil
}

// ClearBonusOffer removes a listing's bonus-hours offer.
func (s *ListingService) ClearBonusOffer(ctx context.Context, id string) error {
	if err := s.listingRepo.ClearBonusOffer(ctx, id); err != nil {
		return fmt.Errorf("clear bonus offer: %w", err)
	}
	return nil
}

// ListBlockedDates returns a listing's blocked date ranges.
func (s *ListingService) ListBlockedDates(ctx context.Context, listingID string) ([]model.BlockedDateRange, error) {
	if _, err := s.requireListing(ctx, listingID); err != nil {
		return nil, err
	}
	ranges, err := s.blockedRepo.ListByListing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("list blocked dates: %w", err)
	}
	return ranges, nil
}

// AddBlockedDates blocks [start, end] (inclusive) on a listing.
func (s *ListingService) AddBlockedDates(ctx context.Context, listingID string, req *model.AddBlockedDatesRequest) (*model.BlockedDateRange, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, &pricing.RuleError{Field: "end_date", Index: -1, Reason: "must not be before start_date"}
	}
	if _, err := s.requireListing(ctx, listingID); err != nil {
		return nil, err
	}
	r := &model.BlockedDateRange{
		ID:        uuid.NewString(),
		ListingID: listingID,
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
	}
	if err := s.blockedRepo.Insert(ctx, r); err != nil {
		return nil, fmt.Errorf("insert blocked range: %w", err)
	}
	return r, nil
}

// RemoveBlockedDates deletes one blocked range from a listing.
// Returns ErrBlockedRangeNotFound if the range doesn't exist.
func (s *ListingService) RemoveBlockedDates(ctx context.Context, listingID, rangeID string) error {
	return s.blockedRepo.Delete(ctx, listingID, rangeID)
}

// ListSpecialPricing returns a listing's per-date rate overrides.
func (s *ListingService) ListSpecialPricing(ctx context.Context, listingID string) ([]model.SpecialPricingEntry, error) {
	if _, err := s.requireListing(ctx, listingID); err != nil {
		return nil, err
	}
	entries, err := s.specialRepo.ListByListing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("list special pricing: %w", err)
	}
	return entries, nil
}

// AddSpecialPricing adds a per-date rate override. At most one entry may
// exist per date; the pre-check here and the unique index behind the
// repository both enforce it, whichever sees the duplicate first.
func (s *ListingService) AddSpecialPricing(ctx context.Context, listingID string, req *model.AddSpecialPricingRequest) (*model.SpecialPricingEntry, error) {
	if req == nil || req.HourlyRateCents == nil {
		return nil, ErrInvalidRequest
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	if err := pricing.ValidateSpecialPricing(*req.HourlyRateCents); err != nil {
		return nil, err
	}
	if _, err := s.requireListing(ctx, listingID); err != nil {
		return nil, err
	}
	existing, err := s.specialRepo.GetByDate(ctx, listingID, date)
	if err != nil {
		return nil, fmt.Errorf("check special pricing date: %w", err)
	}
	if existing != nil {
		return nil, ErrSpecialPricingExists
	}
	entry := &model.SpecialPricingEntry{
		ID:              uuid.NewString(),
		ListingID:       listingID,
		Date:            date,
		HourlyRateCents: *req.HourlyRateCents,
		Reason:          req.Reason,
	}
	if err := s.specialRepo.Insert(ctx, entry); err != nil {
		return nil, fmt.Errorf("insert special pricing: %w", err)
	}
	return entry, nil
}

// RemoveSpecialPricing deletes one rate override from a listing.
// Returns ErrSpecialPricingNotFound if the entry doesn't exist.
func (s *ListingService) RemoveSpecialPricing(ctx context.Context, listingID, entryID string) error {
	return s.specialRepo.Delete(ctx, listingID, entryID)
}

func (s *ListingService) requireListing(ctx context.Context, id string) (*model.Listing, error) {
	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get listing: %w", err)
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}
	return listing, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t.UTC(), nil
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
