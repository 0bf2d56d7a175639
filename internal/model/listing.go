package model

import "time"

// DurationTier grants a percentage discount once the booked hours reach MinHours.
type DurationTier struct {
	MinHours        int `json:"min_hours"`
	DiscountPercent int `json:"discount_percent"`
}

// BonusHoursOffer grants unpaid extra hours once the paid hours reach MinHours.
type BonusHoursOffer struct {
	MinHours   int    `json:"min_hours"`
	BonusHours int    `json:"bonus_hours"`
	Label      string `json:"label"`
}

// OperatingHours describes a single weekday's bookable window.
// Weekday follows time.Weekday numbering (0 = Sunday).
type OperatingHours struct {
	Weekday int    `json:"weekday"`
	Open    string `json:"open"`
	Close   string `json:"close"`
	Closed  bool   `json:"closed"`
}

// Listing represents a bookable venue and its full pricing rule set.
// All money fields are integer cents.
type Listing struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	HourlyRateCents int64  `json:"hourly_rate_cents"`

	// Flat sale discount. Active only while now falls inside
	// [DiscountFrom, DiscountUntil]; a nil bound is open-ended.
	DiscountPercent int        `json:"discount_percent"`
	DiscountFrom    *time.Time `json:"discount_from,omitempty"`
	DiscountUntil   *time.Time `json:"discount_until,omitempty"`
	DiscountReason  string     `json:"discount_reason,omitempty"`

	DurationTiers []DurationTier   `json:"duration_tiers,omitempty"`
	BonusOffer    *BonusHoursOffer `json:"bonus_hours_offer,omitempty"`

	OperatingHours []OperatingHours `json:"operating_hours,omitempty"`

	// Booking settings.
	MinAdvanceBookingHours int  `json:"min_advance_booking_hours"`
	MaxAdvanceBookingDays  int  `json:"max_advance_booking_days"`
	MinHours               int  `json:"min_hours"`
	MaxHours               int  `json:"max_hours"`
	AutoConfirm            bool `json:"auto_confirm"`
	InstantBooking         bool `json:"instant_booking"`

	// Promotion state. IsFeatured alone is not trusted; callers derive
	// the effective state via pricing.IsCurrentlyFeatured.
	IsFeatured       bool       `json:"is_featured"`
	FeaturedPriority int        `json:"featured_priority"`
	FeaturedUntil    *time.Time `json:"featured_until,omitempty"`

	Capacity           int   `json:"capacity"`
	MinCapacity        int   `json:"min_capacity"`
	IncludedGuests     int   `json:"included_guests"`
	ExtraGuestFeeCents int64 `json:"extra_guest_fee_cents"`

	CreatedAt time.Time `json:"-"`
}

// BlockedDateRange marks [StartDate, EndDate] (inclusive) as unbookable.
type BlockedDateRange struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listing_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"-"`
}

// SpecialPricingEntry overrides the listing's hourly rate for one exact date.
type SpecialPricingEntry struct {
	ID              string    `json:"id"`
	ListingID       string    `json:"listing_id"`
	Date            time.Time `json:"date"`
	HourlyRateCents int64     `json:"hourly_rate_cents"`
	Reason          string    `json:"reason,omitempty"`
	CreatedAt       time.Time `json:"-"`
}

// BookingSettings is the persisted shape of a booking-settings update.
type BookingSettings struct {
	MinAdvanceBookingHours int
	MaxAdvanceBookingDays  int
	MinHours               int
	MaxHours               int
	AutoConfirm            bool
	InstantBooking         bool
}

// ListingResponse is the API view of a listing with derived promotion state.
type ListingResponse struct {
	Listing
	CurrentlyFeatured bool `json:"currently_featured"`
	SaleActive        bool `json:"sale_active"`
}

// UpdateBookingSettingsRequest is the DTO for PUT /api/listings/:id/booking-settings.
type UpdateBookingSettingsRequest struct {
	MinAdvanceBookingHours *int  `json:"min_advance_booking_hours" validate:"required,gte=0"`
	MaxAdvanceBookingDays  *int  `json:"max_advance_booking_days" validate:"required,gte=1,lte=365"`
	MinHours               *int  `json:"min_hours" validate:"required,gte=1,lte=24"`
	MaxHours               *int  `json:"max_hours" validate:"required,gte=1,lte=24"`
	AutoConfirm            *bool `json:"auto_confirm" validate:"required"`
	InstantBooking         *bool `json:"instant_booking" validate:"required"`
}

// SetFlatSaleRequest is the DTO for PUT /api/listings/:id/discount.
// Dates use YYYY-MM-DD; either bound may be omitted for an open window.
type SetFlatSaleRequest struct {
	DiscountPercent *int   `json:"discount_percent" validate:"required,gte=1,lte=90"`
	DiscountFrom    string `json:"discount_from,omitempty"`
	DiscountUntil   string `json:"discount_until,omitempty"`
	Label           string `json:"label" validate:"required,notblank,min=3,max=255"`
}

// SetDurationTiersRequest replaces a listing's duration discount table.
type SetDurationTiersRequest struct {
	Tiers []DurationTier `json:"tiers" validate:"required,min=1,dive"`
}

// SetBonusOfferRequest is the DTO for PUT /api/listings/:id/bonus-hours.
type SetBonusOfferRequest struct {
	MinHours   *int   `json:"min_hours" validate:"required,gte=1,lte=24"`
	BonusHours *int   `json:"bonus_hours" validate:"required,gte=1,lte=3"`
	Label      string `json:"label" validate:"required,notblank,max=255"`
}

// AddBlockedDatesRequest is the DTO for POST /api/listings/:id/blocked-dates.
type AddBlockedDatesRequest struct {
	StartDate string `json:"start_date" validate:"required,notblank"`
	EndDate   string `json:"end_date" validate:"required,notblank"`
	Reason    string `json:"reason,omitempty" validate:"max=255"`
}

// AddSpecialPricingRequest is the DTO for POST /api/listings/:id/special-pricing.
type AddSpecialPricingRequest struct {
	Date            string `json:"date" validate:"required,notblank"`
	HourlyRateCents *int64 `json:"hourly_rate_cents" validate:"required"`
	Reason          string `json:"reason,omitempty" validate:"max=255"`
}
