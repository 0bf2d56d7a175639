package model

// Discount kinds reported in a quote breakdown.
const (
	DiscountKindDuration = "duration"
	DiscountKindSale     = "sale"
)

// QuoteRequest is the DTO for POST /api/quotes. Date is YYYY-MM-DD and the
// times are HH:MM on a 24-hour clock.
type QuoteRequest struct {
	ListingID string `json:"listing_id" validate:"required,notblank,max=255"`
	Date      string `json:"date" validate:"required,notblank"`
	StartTime string `json:"start_time" validate:"required,notblank"`
	EndTime   string `json:"end_time" validate:"required,notblank"`
	Guests    int    `json:"guests" validate:"gte=1"`
}

// AppliedDiscount names the single promotion that discounted a quote.
type AppliedDiscount struct {
	Kind    string `json:"kind"`
	Percent int    `json:"percent"`
	Label   string `json:"label,omitempty"`
}

// QuoteBreakdown is the priced result for an available slot. The numbers are
// an advisory preview; the booking API reprices authoritatively on commit.
type QuoteBreakdown struct {
	BaseRateCents      int64            `json:"base_rate_cents"`
	EffectiveRateCents int64            `json:"effective_rate_cents"`
	Hours              float64          `json:"hours"`
	SubtotalCents      int64            `json:"subtotal_cents"`
	AppliedDiscount    *AppliedDiscount `json:"applied_discount,omitempty"`
	BonusHoursGranted  int              `json:"bonus_hours_granted"`
	ExtraGuestFeeCents int64            `json:"extra_guest_fee_cents"`
	TotalCents         int64            `json:"total_cents"`
}

// QuoteResult is the response for POST /api/quotes. When the slot is not
// bookable, Available is false, Reason carries the rejection code and
// Breakdown is omitted.
type QuoteResult struct {
	Available bool            `json:"available"`
	Reason    string          `json:"reason,omitempty"`
	Breakdown *QuoteBreakdown `json:"breakdown,omitempty"`
}

// DayAvailability is the response for GET /api/listings/:id/availability.
type DayAvailability struct {
	Date       string   `json:"date"`
	Bookable   bool     `json:"bookable"`
	Reason     string   `json:"reason,omitempty"`
	Open       string   `json:"open,omitempty"`
	Close      string   `json:"close,omitempty"`
	StartSlots []string `json:"start_slots,omitempty"`
}
