package pricing

import (
	"fmt"
	"strings"
	"time"

	"github.com/venuely/venue-pricing-service/internal/model"
)

// Rule authoring limits. MaxTiers mirrors the hosted product's cap and is a
// configurable limit, not a law of the engine.
const (
	MaxTiers         = 5
	MinTierHours     = 1
	MaxTierHours     = 24
	MinTierPercent   = 1
	MaxTierPercent   = 50
	MinSalePercent   = 1
	MaxSalePercent   = 90
	MaxSaleSpanDays  = 90
	MinSaleLabelLen  = 3
	MinBonusHours    = 1
	MaxBonusHours    = 3
	MinPromotionDays = 3
	MaxPromotionDays = 30
)

// RuleError reports a single offending field of a rule edit. Index is the
// position inside a tier list, or -1 for scalar rules.
type RuleError struct {
	Field  string
	Index  int
	Reason string
}

func (e *RuleError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("invalid %s at index %d: %s", e.Field, e.Index, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func ruleErr(field string, index int, reason string) *RuleError {
	return &RuleError{Field: field, Index: index, Reason: reason}
}

// ValidateTiers checks a duration discount table before it is persisted.
// The same checks run on form submit and on the write path, so a bad table
// is rejected identically wherever it is replayed.
func ValidateTiers(tiers []model.DurationTier, maxTiers int) error {
	if maxTiers <= 0 {
		maxTiers = MaxTiers
	}
	if len(tiers) == 0 {
		return ruleErr("tiers", -1, "at least one tier is required")
	}
	if len(tiers) > maxTiers {
		return ruleErr("tiers", -1, fmt.Sprintf("at most %d tiers allowed", maxTiers))
	}
	seen := make(map[int]bool, len(tiers))
	for i, t := range tiers {
		if t.MinHours < MinTierHours || t.MinHours > MaxTierHours {
			return ruleErr("min_hours", i, fmt.Sprintf("must be between %d and %d", MinTierHours, MaxTierHours))
		}
		if t.DiscountPercent < MinTierPercent || t.DiscountPercent > MaxTierPercent {
			return ruleErr("discount_percent", i, fmt.Sprintf("must be between %d and %d", MinTierPercent, MaxTierPercent))
		}
		if seen[t.MinHours] {
			return ruleErr("min_hours", i, "duplicate of an earlier tier")
		}
		seen[t.MinHours] = true
	}
	return nil
}

// ValidateFlatSale checks a flat sale discount edit. Either window bound may
// be nil for an open-ended sale; when both are present the window must run
// forward and span no more than MaxSaleSpanDays.
func ValidateFlatSale(percent int, from, until *time.Time, label string) error {
	if percent < MinSalePercent || percent > MaxSalePercent {
		return ruleErr("discount_percent", -1, fmt.Sprintf("must be between %d and %d", MinSalePercent, MaxSalePercent))
	}
	if len(strings.TrimSpace(label)) < MinSaleLabelLen {
		return ruleErr("label", -1, fmt.Sprintf("must be at least %d characters", MinSaleLabelLen))
	}
	if from != nil && until != nil {
		if !from.Before(*until) {
			return ruleErr("discount_until", -1, "must be after discount_from")
		}
		if until.Sub(*from) > time.Duration(MaxSaleSpanDays)*24*time.Hour {
			return ruleErr("discount_until", -1, fmt.Sprintf("sale window cannot exceed %d days", MaxSaleSpanDays))
		}
	}
	return nil
}

// ValidateBonusOffer checks a bonus-hours offer edit.
func ValidateBonusOffer(minHours, bonusHours int, label string) error {
	if minHours < MinTierHours || minHours > MaxTierHours {
		return ruleErr("min_hours", -1, fmt.Sprintf("must be between %d and %d", MinTierHours, MaxTierHours))
	}
	if bonusHours < MinBonusHours || bonusHours > MaxBonusHours {
		return ruleErr("bonus_hours", -1, fmt.Sprintf("must be between %d and %d", MinBonusHours, MaxBonusHours))
	}
	if strings.TrimSpace(label) == "" {
		return ruleErr("label", -1, "is required")
	}
	return nil
}

// ValidateSpecialPricing checks a per-date rate override. One entry per date
// is enforced separately by the storage layer.
func ValidateSpecialPricing(rateCents int64) error {
	if rateCents <= 0 {
		return ruleErr("hourly_rate_cents", -1, "must be greater than zero")
	}
	return nil
}

// ValidatePromotionWindow checks a featured placement request window.
func ValidatePromotionWindow(start, end time.Time) error {
	if !start.Before(end) {
		return ruleErr("end_date", -1, "must be after start_date")
	}
	days := int(end.Sub(start).Hours() / 24)
	if days < MinPromotionDays {
		return ruleErr("end_date", -1, fmt.Sprintf("window must be at least %d days", MinPromotionDays))
	}
	if days > MaxPromotionDays {
		return ruleErr("end_date", -1, fmt.Sprintf("window cannot exceed %d days", MaxPromotionDays))
	}
	return nil
}
