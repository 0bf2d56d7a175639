// Package pricing is the pure booking price resolution engine. It combines a
// listing's base rate with special-date pricing, duration discount tiers, the
// flat sale discount and the bonus-hours offer into a single quote. Nothing
// here does I/O; callers supply the rule set and the clock.
package pricing

import (
	"errors"
	"math"
	"time"

	"github.com/venuely/venue-pricing-service/internal/model"
)

// ErrInvalidDuration is returned when a quote is requested for a non-positive
// duration. Availability gating should make this unreachable.
var ErrInvalidDuration = errors.New("pricing: booking duration must be positive")

// QuoteInput is one candidate booking to price.
type QuoteInput struct {
	Date     time.Time // calendar date of the booking, time part ignored
	StartMin int       // minutes since midnight
	EndMin   int
	Guests   int
	Now      time.Time
}

// ResolveQuote prices a candidate booking against the listing's rule set.
//
// The steps run in a fixed order: the special-date rate replaces the base
// rate before any percentage is applied; the highest qualifying duration tier
// wins and suppresses the flat sale (the two are never summed); bonus hours
// are granted independently and qualification uses paid hours only; the extra
// guest surcharge is added after discounting and is never discounted itself.
// Intermediate math stays in float64 and rounds to whole cents once.
func ResolveQuote(listing *model.Listing, special []model.SpecialPricingEntry, in QuoteInput) (*model.QuoteBreakdown, error) {
	minutes := in.EndMin - in.StartMin
	if minutes <= 0 {
		return nil, ErrInvalidDuration
	}
	hours := float64(minutes) / 60.0

	effectiveRate := listing.HourlyRateCents
	if entry := specialRateFor(special, in.Date); entry != nil {
		effectiveRate = entry.HourlyRateCents
	}

	var applied *model.AppliedDiscount
	if tier := bestTier(listing.DurationTiers, hours); tier != nil {
		applied = &model.AppliedDiscount{
			Kind:    model.DiscountKindDuration,
			Percent: tier.DiscountPercent,
		}
	} else if SaleActive(listing, in.Now) {
		applied = &model.AppliedDiscount{
			Kind:    model.DiscountKindSale,
			Percent: listing.DiscountPercent,
			Label:   listing.DiscountReason,
		}
	}

	discountPercent := 0
	if applied != nil {
		discountPercent = applied.Percent
	}
	rawSubtotal := float64(effectiveRate) * hours * (1 - float64(discountPercent)/100)

	bonusHours := 0
	if offer := listing.BonusOffer; offer != nil && hours >= float64(offer.MinHours) {
		bonusHours = offer.BonusHours
	}

	var guestFee int64
	if extra := in.Guests - listing.IncludedGuests; extra > 0 {
		guestFee = int64(extra) * listing.ExtraGuestFeeCents
	}

	subtotal := int64(math.Round(rawSubtotal))
	total := subtotal + guestFee
	if total < 0 {
		total = 0
	}

	return &model.QuoteBreakdown{
		BaseRateCents:      listing.HourlyRateCents,
		EffectiveRateCents: effectiveRate,
		Hours:              hours,
		SubtotalCents:      subtotal,
		AppliedDiscount:    applied,
		BonusHoursGranted:  bonusHours,
		ExtraGuestFeeCents: guestFee,
		TotalCents:         total,
	}, nil
}

// bestTier picks the tier with the largest MinHours not exceeding the paid
// hours. MinHours values are unique per the tier validator, so there is no
// tie to break. Discount values are taken as configured even when the host
// set them non-monotonically.
func bestTier(tiers []model.DurationTier, hours float64) *model.DurationTier {
	var best *model.DurationTier
	for i := range tiers {
		t := &tiers[i]
		if float64(t.MinHours) > hours {
			continue
		}
		if best == nil || t.MinHours > best.MinHours {
			best = t
		}
	}
	return best
}

// specialRateFor finds the override entry for the exact calendar date.
func specialRateFor(entries []model.SpecialPricingEntry, date time.Time) *model.SpecialPricingEntry {
	y, m, d := date.Date()
	for i := range entries {
		ey, em, ed := entries[i].Date.Date()
		if ey == y && em == m && ed == d {
			return &entries[i]
		}
	}
	return nil
}

// SaleActive reports whether the listing's flat sale discount applies at now.
// A nil bound leaves that side of the window open. DiscountPercent of zero
// never activates, whatever the window says.
func SaleActive(listing *model.Listing, now time.Time) bool {
	if listing.DiscountPercent <= 0 {
		return false
	}
	if listing.DiscountFrom != nil && now.Before(*listing.DiscountFrom) {
		return false
	}
	if listing.DiscountUntil != nil && now.After(*listing.DiscountUntil) {
		return false
	}
	return true
}

// IsCurrentlyFeatured derives the effective featured state. The stored
// IsFeatured flag alone is never trusted: expiry comes from FeaturedUntil at
// read time, so the answer flips the instant the window lapses.
func IsCurrentlyFeatured(listing *model.Listing, now time.Time) bool {
	if !listing.IsFeatured {
		return false
	}
	return listing.FeaturedUntil == nil || listing.FeaturedUntil.After(now)
}
