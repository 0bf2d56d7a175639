package model

import "time"

// Promotion request lifecycle. PENDING requests may be cancelled by the
// host; APPROVED and REJECTED are terminal.
const (
	PromotionPending  = "PENDING"
	PromotionApproved = "APPROVED"
	PromotionRejected = "REJECTED"
)

// PromotionRequest is a host's application for featured placement.
type PromotionRequest struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listing_id"`
	Status    string    `json:"status"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Message   string    `json:"message,omitempty"`
	AdminNote string    `json:"admin_note,omitempty"`
	CreatedAt time.Time `json:"-"`
}

// DurationDays is derived from the requested window, never stored.
func (p *PromotionRequest) DurationDays() int {
	return int(p.EndDate.Sub(p.StartDate).Hours() / 24)
}

// CreatePromotionRequest is the DTO for POST /api/promotion-requests.
type CreatePromotionRequest struct {
	ListingID string `json:"listing_id" validate:"required,notblank,max=255"`
	StartDate string `json:"start_date" validate:"required,notblank"`
	EndDate   string `json:"end_date" validate:"required,notblank"`
	Message   string `json:"message,omitempty" validate:"max=1000"`
}

// ReviewPromotionRequest carries the admin's note on approve/reject.
type ReviewPromotionRequest struct {
	AdminNote string `json:"admin_note,omitempty" validate:"max=1000"`
}
