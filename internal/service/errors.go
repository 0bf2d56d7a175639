package service

import "errors"

var (
	// ErrListingNotFound is returned when a listing cannot be found
	ErrListingNotFound = errors.New("listing not found")

	// ErrBlockedRangeNotFound is returned when a blocked date range cannot be found
	ErrBlockedRangeNotFound = errors.New("blocked date range not found")

	// ErrSpecialPricingNotFound is returned when a special pricing entry cannot be found
	ErrSpecialPricingNotFound = errors.New("special pricing entry not found")

	// ErrSpecialPricingExists is returned when a date already has a special pricing entry
	ErrSpecialPricingExists = errors.New("special pricing entry already exists for date")

	// ErrPromotionNotFound is returned when a promotion request cannot be found
	ErrPromotionNotFound = errors.New("promotion request not found")

	// ErrPromotionNotPending is returned on a lifecycle transition from a terminal status
	ErrPromotionNotPending = errors.New("promotion request is not pending")

	// ErrInvalidRequest is returned when request data is invalid or incomplete
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInvalidDate is returned when a date field is not a valid YYYY-MM-DD value
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidTime is returned when a time field is not a valid HH:MM value
	ErrInvalidTime = errors.New("invalid time")
)
