package pricing

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venuely/venue-pricing-service/internal/model"
)

var (
	quoteDate = time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	quoteNow  = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func baseListing() *model.Listing {
	return &model.Listing{
		ID:              "lst_001",
		Name:            "Riverside Loft",
		HourlyRateCents: 100000, // 1000.00 per hour
		MinHours:        1,
		MaxHours:        12,
		IncludedGuests:  10,
	}
}

func quoteFor(t *testing.T, l *model.Listing, special []model.SpecialPricingEntry, startMin, endMin, guests int) *model.QuoteBreakdown {
	t.Helper()
	b, err := ResolveQuote(l, special, QuoteInput{
		Date:     quoteDate,
		StartMin: startMin,
		EndMin:   endMin,
		Guests:   guests,
		Now:      quoteNow,
	})
	require.NoError(t, err)
	require.NotNil(t, b)
	return b
}

func TestResolveQuote_NoPromotions(t *testing.T) {
	b := quoteFor(t, baseListing(), nil, 10*60, 13*60, 4)

	assert.Equal(t, int64(100000), b.BaseRateCents)
	assert.Equal(t, int64(100000), b.EffectiveRateCents)
	assert.Equal(t, 3.0, b.Hours)
	assert.Equal(t, int64(300000), b.SubtotalCents)
	assert.Nil(t, b.AppliedDiscount)
	assert.Equal(t, int64(300000), b.TotalCents)
}

func TestResolveQuote_TierBeatsActiveSale(t *testing.T) {
	// A qualifying tier suppresses the flat sale entirely; the two are
	// never summed. 1000.00 * 8h * 0.85 = 6800.00.
	l := baseListing()
	l.DurationTiers = []model.DurationTier{{MinHours: 6, DiscountPercent: 15}}
	l.DiscountPercent = 20
	l.DiscountFrom = timePtr(quoteNow.AddDate(0, 0, -1))
	l.DiscountUntil = timePtr(quoteNow.AddDate(0, 0, 30))
	l.DiscountReason = "Autumn Sale"

	b := quoteFor(t, l, nil, 9*60, 17*60, 4)

	require.NotNil(t, b.AppliedDiscount)
	assert.Equal(t, model.DiscountKindDuration, b.AppliedDiscount.Kind)
	assert.Equal(t, 15, b.AppliedDiscount.Percent)
	assert.Equal(t, int64(680000), b.SubtotalCents)
	assert.Equal(t, int64(680000), b.TotalCents)
}

func TestResolveQuote_SaleAppliesWhenNoTierQualifies(t *testing.T) {
	l := baseListing()
	l.DurationTiers = []model.DurationTier{{MinHours: 6, DiscountPercent: 15}}
	l.DiscountPercent = 20
	l.DiscountFrom = timePtr(quoteNow.AddDate(0, 0, -1))
	l.DiscountUntil = timePtr(quoteNow.AddDate(0, 0, 30))
	l.DiscountReason = "Autumn Sale"

	// 3 hours does not reach the 6-hour tier, so the sale wins.
	b := quoteFor(t, l, nil, 10*60, 13*60, 4)

	require.NotNil(t, b.AppliedDiscount)
	assert.Equal(t, model.DiscountKindSale, b.AppliedDiscount.Kind)
	assert.Equal(t, 20, b.AppliedDiscount.Percent)
	assert.Equal(t, "Autumn Sale", b.AppliedDiscount.Label)
	assert.Equal(t, int64(240000), b.SubtotalCents)
}

func TestResolveQuote_HighestQualifyingTierWins(t *testing.T) {
	// Selection picks the largest qualifying MinHours even when the host
	// configured a smaller discount on the higher tier.
	l := baseListing()
	l.DurationTiers = []model.DurationTier{
		{MinHours: 4, DiscountPercent: 25},
		{MinHours: 8, DiscountPercent: 10},
		{MinHours: 2, DiscountPercent: 5},
	}

	b := quoteFor(t, l, nil, 9*60, 18*60, 4) // 9 paid hours

	require.NotNil(t, b.AppliedDiscount)
	assert.Equal(t, 10, b.AppliedDiscount.Percent, "highest qualifying min_hours wins, not highest discount")
}

func TestResolveQuote_BonusHoursIndependentOfTiers(t *testing.T) {
	// Booking exactly the bonus threshold: the tier discount applies to the
	// paid hours and the bonus hour rides along unpriced.
	l := baseListing()
	l.DurationTiers = []model.DurationTier{{MinHours: 4, DiscountPercent: 10}}
	l.BonusOffer = &model.BonusHoursOffer{MinHours: 4, BonusHours: 1, Label: "Book 4 get 1 free"}

	b := quoteFor(t, l, nil, 10*60, 14*60, 4) // 4 paid hours

	require.NotNil(t, b.AppliedDiscount)
	assert.Equal(t, 10, b.AppliedDiscount.Percent)
	assert.Equal(t, 4.0, b.Hours, "bonus hours must not inflate paid hours")
	assert.Equal(t, 1, b.BonusHoursGranted)
	assert.Equal(t, int64(360000), b.SubtotalCents) // 1000.00 * 4 * 0.9
}

func TestResolveQuote_BonusHoursBelowThreshold(t *testing.T) {
	l := baseListing()
	l.BonusOffer = &model.BonusHoursOffer{MinHours: 4, BonusHours: 1, Label: "Book 4 get 1 free"}

	b := quoteFor(t, l, nil, 10*60, 13*60, 4) // 3 paid hours

	assert.Equal(t, 0, b.BonusHoursGranted)
}

func TestResolveQuote_SpecialPricingOverridesBaseRate(t *testing.T) {
	// The override replaces the base rate before any percentage applies, so
	// discounts compound on the special rate, never the ordinary one.
	l := baseListing()
	l.DiscountPercent = 50
	special := []model.SpecialPricingEntry{
		{ID: "sp_1", ListingID: l.ID, Date: quoteDate, HourlyRateCents: 150000},
	}

	b := quoteFor(t, l, special, 10*60, 12*60, 4)

	assert.Equal(t, int64(100000), b.BaseRateCents)
	assert.Equal(t, int64(150000), b.EffectiveRateCents)
	assert.Equal(t, int64(150000), b.SubtotalCents) // 1500.00 * 2 * 0.5
}

func TestResolveQuote_SpecialPricingOtherDateIgnored(t *testing.T) {
	l := baseListing()
	special := []model.SpecialPricingEntry{
		{ID: "sp_1", ListingID: l.ID, Date: quoteDate.AddDate(0, 0, 1), HourlyRateCents: 150000},
	}

	b := quoteFor(t, l, special, 10*60, 12*60, 4)

	assert.Equal(t, int64(100000), b.EffectiveRateCents)
}

func TestResolveQuote_ExtraGuestsChargedUndiscounted(t *testing.T) {
	l := baseListing()
	l.DurationTiers = []model.DurationTier{{MinHours: 2, DiscountPercent: 50}}
	l.IncludedGuests = 10
	l.ExtraGuestFeeCents = 5000

	b := quoteFor(t, l, nil, 10*60, 12*60, 13) // 3 extra guests

	assert.Equal(t, int64(15000), b.ExtraGuestFeeCents, "surcharge is never discounted")
	assert.Equal(t, int64(100000), b.SubtotalCents)
	assert.Equal(t, int64(115000), b.TotalCents)
}

func TestResolveQuote_HalfHourDurations(t *testing.T) {
	l := baseListing()
	l.HourlyRateCents = 99900

	b := quoteFor(t, l, nil, 10*60, 12*60+30, 4) // 2.5 hours

	assert.Equal(t, 2.5, b.Hours)
	assert.Equal(t, int64(249750), b.SubtotalCents)
}

func TestResolveQuote_RoundsOnceAtTheEnd(t *testing.T) {
	// 33.33/h for 1.5h at 15% off = 42.495375 -> 42.50 after the single
	// final rounding; intermediate truncation would lose a cent.
	l := baseListing()
	l.HourlyRateCents = 3333
	l.DurationTiers = []model.DurationTier{{MinHours: 1, DiscountPercent: 15}}

	b := quoteFor(t, l, nil, 10*60, 11*60+30, 4)

	assert.Equal(t, int64(4250), b.SubtotalCents)
}

func TestResolveQuote_WeekendDealScenario(t *testing.T) {
	l := baseListing()
	l.HourlyRateCents = 50000
	l.DiscountPercent = 25
	l.DiscountFrom = timePtr(quoteNow.AddDate(0, 0, -1))
	l.DiscountUntil = timePtr(quoteNow.AddDate(0, 0, 1))
	l.DiscountReason = "Weekend Deal"

	b := quoteFor(t, l, nil, 14*60, 17*60, 4)

	assert.Equal(t, int64(112500), b.TotalCents) // 500.00 * 3 * 0.75
}

func TestResolveQuote_InvalidDuration(t *testing.T) {
	for _, tc := range []struct {
		name     string
		startMin int
		endMin   int
	}{
		{"zero", 10 * 60, 10 * 60},
		{"negative", 12 * 60, 10 * 60},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ResolveQuote(baseListing(), nil, QuoteInput{
				Date: quoteDate, StartMin: tc.startMin, EndMin: tc.endMin, Guests: 1, Now: quoteNow,
			})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDuration))
		})
	}
}

func TestSaleActive_ZeroPercentNeverActivates(t *testing.T) {
	l := baseListing()
	l.DiscountPercent = 0
	l.DiscountFrom = timePtr(quoteNow.AddDate(0, 0, -5))
	l.DiscountUntil = timePtr(quoteNow.AddDate(0, 0, 5))

	assert.False(t, SaleActive(l, quoteNow))
}

func TestSaleActive_OpenEndedWindows(t *testing.T) {
	l := baseListing()
	l.DiscountPercent = 10

	assert.True(t, SaleActive(l, quoteNow), "no bounds means always active")

	l.DiscountFrom = timePtr(quoteNow.AddDate(0, 0, 1))
	assert.False(t, SaleActive(l, quoteNow), "not started yet")

	l.DiscountFrom = nil
	l.DiscountUntil = timePtr(quoteNow.AddDate(0, 0, -1))
	assert.False(t, SaleActive(l, quoteNow), "already ended")
}

func TestIsCurrentlyFeatured_DerivedFromWindow(t *testing.T) {
	expiry := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)
	l := baseListing()
	l.IsFeatured = true
	l.FeaturedUntil = timePtr(expiry)

	// The answer flips at the boundary with no stored-state transition.
	assert.True(t, IsCurrentlyFeatured(l, expiry.Add(-time.Second)))
	assert.False(t, IsCurrentlyFeatured(l, expiry))
	assert.False(t, IsCurrentlyFeatured(l, expiry.Add(time.Second)))
}

func TestIsCurrentlyFeatured_NilUntilNeverExpires(t *testing.T) {
	l := baseListing()
	l.IsFeatured = true

	assert.True(t, IsCurrentlyFeatured(l, quoteNow.AddDate(10, 0, 0)))
}

func TestIsCurrentlyFeatured_FlagOffWinsOverWindow(t *testing.T) {
	l := baseListing()
	l.IsFeatured = false
	l.FeaturedUntil = timePtr(quoteNow.AddDate(0, 0, 30))

	assert.False(t, IsCurrentlyFeatured(l, quoteNow))
}
