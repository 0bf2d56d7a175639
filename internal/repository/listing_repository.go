package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/venuely/venue-pricing-service/internal/model"
	"github.com/venuely/venue-pricing-service/internal/service"
	"github.com/venuely/venue-pricing-service/pkg/database"
)

// PoolInterface defines the database operations needed by repositories.
// This allows for easier testing with mocks.
type PoolInterface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const listingColumns = `id, name, hourly_rate_cents,
		discount_percent, discount_from, discount_until, COALESCE(discount_reason, ''),
		duration_tiers, bonus_offer, operating_hours,
		min_advance_booking_hours, max_advance_booking_days, min_hours, max_hours,
		auto_confirm, instant_booking,
		is_featured, featured_priority, featured_until,
		capacity, min_capacity, included_guests, extra_guest_fee_cents, created_at`

// ListingRepository provides data access for listings using pgx. The rule
// collections (duration tiers, bonus offer, operating hours) live in jsonb
// columns and are encoded/decoded by pgx's JSON codec.
type ListingRepository struct {
	pool PoolInterface
}

// NewListingRepository creates a new ListingRepository with the given pool.
func NewListingRepository(pool *pgxpool.Pool) *ListingRepository {
	return &ListingRepository{pool: pool}
}

// NewListingRepositoryWithPool creates a new ListingRepository with a custom
// pool interface. This is primarily used for testing.
func NewListingRepositoryWithPool(pool PoolInterface) *ListingRepository {
	return &ListingRepository{pool: pool}
}

// GetByID retrieves a listing by its id.
// Returns nil, nil if the listing is not found (service layer handles this).
func (r *ListingRepository) GetByID(ctx context.Context, id string) (*model.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`

	var l model.Listing
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&l.ID, &l.Name, &l.HourlyRateCents,
		&l.DiscountPercent, &l.DiscountFrom, &l.DiscountUntil, &l.DiscountReason,
		&l.DurationTiers, &l.BonusOffer, &l.OperatingHours,
		&l.MinAdvanceBookingHours, &l.MaxAdvanceBookingDays, &l.MinHours, &l.MaxHours,
		&l.AutoConfirm, &l.InstantBooking,
		&l.IsFeatured, &l.FeaturedPriority, &l.FeaturedUntil,
		&l.Capacity, &l.MinCapacity, &l.IncludedGuests, &l.ExtraGuestFeeCents, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get listing by id %s: %w", id, err)
	}
	return &l, nil
}

// UpdateBookingSettings replaces a listing's booking settings.
// Returns service.ErrListingNotFound if the listing doesn't exist.
func (r *ListingRepository) UpdateBookingSettings(ctx context.Context, id string, s model.BookingSettings) error {
	query := `UPDATE listings SET
		min_advance_booking_hours = $2, max_advance_booking_days = $3,
		min_hours = $4, max_hours = $5, auto_confirm = $6, instant_booking = $7
	WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id,
		s.MinAdvanceBookingHours, s.MaxAdvanceBookingDays,
		s.MinHours, s.MaxHours, s.AutoConfirm, s.InstantBooking)
	if err != nil {
		return fmt.Errorf("update booking settings for %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrListingNotFound
	}
	return nil
}

// SetFlatSale replaces a listing's flat sale discount.
func (r *ListingRepository) SetFlatSale(ctx context.Context, id string, percent int, from, until *time.Time, label string) error {
	query := `UPDATE listings SET
		discount_percent = $2, discount_from = $3, discount_until = $4, discount_reason = $5
	WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, percent, from, until, label)
	if err != nil {
		return fmt.Errorf("set flat sale for %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrListingNotFound
	}
	return nil
}

// ClearFlatSale removes a listing's flat sale discount.
func (r *ListingRepository) ClearFlatSale(ctx context.Context, id string) error {
	query := `UPDATE listings SET
		discount_percent = 0, discount_from = NULL, discount_until = NULL, discount_reason = NULL
	WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("clear flat sale for %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrListingNotFound
	}
	return nil
}

// SetDurationTiers replaces a listing's duration discount table.
func (r *ListingRepository) SetDurationTiers(ctx context.Context, id string, tiers []model.DurationTier) error {
	tag, err := r.pool.Exec(ctx, `UPDATE listings SET duration_tiers = $2 WHERE id = $1`, id, tiers)
	if err != nil {
		return fmt.Errorf("set duration tiers for %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrListingNotFound
	}
	return nil
}

// ClearDurationTiers removes a listing's duration discount table.
func (r *ListingRepository) ClearDurationTiers(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE listings SET duration_tiers = NULL WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("clear duration tiers for %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrListingNotFound
	}
	return nil
}

// SetBonusOffer replaces a listing's bonus-hours offer.
func (r *ListingRepository) SetBonusOffer(ctx context.Context, id string, offer model.BonusHoursOffer) error {
	tag, err := r.pool.Exec(ctx, `UPDATE listings SET bonus_offer = $2 WHERE id = $1`, id, offer)
	if err != nil {
		return fmt.Errorf("set bonus offer for %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrListingNotFound
	}
	return nil
}

// ClearBonusOffer removes a listing's bonus-hours offer.
func (r *ListingRepository) ClearBonusOffer(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE listings SET bonus_offer = NULL WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("clear bonus offer for %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrListingNotFound
	}
	return nil
}

// SetFeatured stamps the listing's featured window. Must be called within
// the promotion approval transaction.
func (r *ListingRepository) SetFeatured(ctx context.Context, tx database.TxQuerier, id string, until time.Time) error {
	query := `UPDATE listings SET is_featured = TRUE, featured_until = $2 WHERE id = $1`

	tag, err := tx.Exec(ctx, query, id, until)
	if err != nil {
		return fmt.Errorf("set featured for %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrListingNotFound
	}
	return nil
}
