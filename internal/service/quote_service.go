package service

import (
	"context"
	"fmt"
	"time"

	"github.com/venuely/venue-pricing-service/internal/availability"
	"github.com/venuely/venue-pricing-service/internal/model"
	"github.com/venuely/venue-pricing-service/internal/pricing"
)

// QuoteService runs the availability gates and the price resolution engine
// against a listing's stored rule set. Its output is an advisory preview:
// the booking API reprices authoritatively when the booking is committed.
type QuoteService struct {
	listingRepo ListingRepositoryInterface
	blockedRepo BlockedDateRepositoryInterface
	specialRepo SpecialPricingRepositoryInterface
	now         func() time.Time
}

// NewQuoteService creates a new QuoteService with the given repositories.
func NewQuoteService(listingRepo ListingRepositoryInterface, blockedRepo BlockedDateRepositoryInterface, specialRepo SpecialPricingRepositoryInterface) *QuoteService {
	return &QuoteService{
		listingRepo: listingRepo,
		blockedRepo: blockedRepo,
		specialRepo: specialRepo,
		now:         time.Now,
	}
}

// WithClock overrides the service clock. Primarily used for testing.
func (s *QuoteService) WithClock(now func() time.Time) *QuoteService {
	s.now = now
	return s
}

// Quote prices one candidate booking. An unbookable slot is a normal
// outcome, returned as QuoteResult{Available: false, Reason: ...} rather
// than an error, so the caller can surface the specific rejection.
func (s *QuoteService) Quote(ctx context.Context, req *model.QuoteRequest) (*model.QuoteResult, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	listing, err := s.listingRepo.GetByID(ctx, req.ListingID)
	if err != nil {
		return nil, fmt.Errorf("get listing: %w", err)
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	startMin, err := availability.ParseClock(req.StartTime)
	if err != nil {
		return nil, ErrInvalidTime
	}
	endMin, err := availability.ParseClock(req.EndTime)
	if err != nil {
		return nil, ErrInvalidTime
	}

	blocked, err := s.blockedRepo.ListByListing(ctx, req.ListingID)
	if err != nil {
		return nil, fmt.Errorf("list blocked dates: %w", err)
	}

	now := s.now()
	if d := availability.CheckDate(listing, blocked, date, now); !d.OK {
		return &model.QuoteResult{Reason: d.Reason}, nil
	}
	if d := availability.CheckDuration(listing, date, startMin, endMin); !d.OK {
		return &model.QuoteResult{Reason: d.Reason}, nil
	}

	special, err := s.specialRepo.ListByListing(ctx, req.ListingID)
	if err != nil {
		return nil, fmt.Errorf("list special pricing: %w", err)
	}

	breakdown, err := pricing.ResolveQuote(listing, special, pricing.QuoteInput{
		Date:     date,
		StartMin: startMin,
		EndMin:   endMin,
		Guests:   req.Guests,
		Now:      now,
	})
	if err != nil {
		return nil, fmt.Errorf("resolve quote: %w", err)
	}

	return &model.QuoteResult{Available: true, Breakdown: breakdown}, nil
}

// DayAvailability resolves whether a date is bookable and, when it is, the
// operating window and selectable start slots.
func (s *QuoteService) DayAvailability(ctx context.Context, listingID, dateStr string) (*model.DayAvailability, error) {
	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("get listing: %w", err)
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}
	date, err := parseDate(dateStr)
	if err != nil {
		return nil, err
	}
	blocked, err := s.blockedRepo.ListByListing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("list blocked dates: %w", err)
	}

	resp := &model.DayAvailability{Date: dateStr}
	if d := availability.CheckDate(listing, blocked, date, s.now()); !d.OK {
		resp.Reason = d.Reason
		return resp, nil
	}

	w := availability.DayWindow(listing, date)
	resp.Bookable = true
	resp.Open = availability.FormatClock(w.OpenMin)
	resp.Close = availability.FormatClock(w.CloseMin)
	resp.StartSlots = availability.StartSlots(listing, date)
	return resp, nil
}

// EndSlots lists the valid end times for a chosen start on a date.
func (s *QuoteService) EndSlots(ctx context.Context, listingID, dateStr, start string) ([]string, error) {
	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("get listing: %w", err)
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}
	date, err := parseDate(dateStr)
	if err != nil {
		return nil, err
	}
	if _, err := availability.ParseClock(start); err != nil {
		return nil, ErrInvalidTime
	}
	return availability.EndSlots(listing, date, start), nil
}
