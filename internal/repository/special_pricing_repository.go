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
)

// SpecialPricingRepository provides data access for per-date rate overrides
// using pgx. A unique index on (listing_id, date) backs the one-entry-per-date
// invariant.
type SpecialPricingRepository struct {
	pool QueryPoolInterface
}

// NewSpecialPricingRepository creates a new SpecialPricingRepository with the given pool.
func NewSpecialPricingRepository(pool *pgxpool.Pool) *SpecialPricingRepository {
	return &SpecialPricingRepository{pool: pool}
}

// NewSpecialPricingRepositoryWithPool creates a new SpecialPricingRepository
// with a custom pool interface. This is primarily used for testing.
func NewSpecialPricingRepositoryWithPool(pool QueryPoolInterface) *SpecialPricingRepository {
	return &SpecialPricingRepository{pool: pool}
}

// ListByListing retrieves all overrides for a listing ordered by date.
// On success, returns an empty slice (not nil) when no entries exist.
func (r *SpecialPricingRepository) ListByListing(ctx context.Context, listingID string) ([]model.SpecialPricingEntry, error) {
	query := `SELECT id, listing_id, date, hourly_rate_cents, COALESCE(reason, ''), created_at
	FROM special_pricing WHERE listing_id = $1 ORDER BY date`

	rows, err := r.pool.Query(ctx, query, listingID)
	if err != nil {
		return nil, fmt.Errorf("list special pricing for %s: %w", listingID, err)
	}
	defer rows.Close()

	entries := []model.SpecialPricingEntry{}
	for rows.Next() {
		var e model.SpecialPricingEntry
		if err := rows.Scan(&e.ID, &e.ListingID, &e.Date, &e.HourlyRateCents, &e.Reason, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan special pricing entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate special pricing rows: %w", err)
	}
	return entries, nil
}

// GetByDate retrieves the override for an exact date.
// Returns nil, nil if no entry exists (service layer handles this).
func (r *SpecialPricingRepository) GetByDate(ctx context.Context, listingID string, date time.Time) (*model.SpecialPricingEntry, error) {
	query := `SELECT id, listing_id, date, hourly_rate_cents, COALESCE(reason, ''), created_at
	FROM special_pricing WHERE listing_id = $1 AND date = $2`

	var e model.SpecialPricingEntry
	err := r.pool.QueryRow(ctx, query, listingID, date).Scan(
		&e.ID, &e.ListingID, &e.Date, &e.HourlyRateCents, &e.Reason, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get special pricing for %s on %s: %w", listingID, date.Format("2006-01-02"), err)
	}
	return &e, nil
}

// Insert inserts a new override.
// Returns service.ErrSpecialPricingExists if the date already has one.
func (r *SpecialPricingRepository) Insert(ctx context.Context, e *model.SpecialPricingEntry) error {
	query := `INSERT INTO special_pricing (id, listing_id, date, hourly_rate_cents, reason)
	VALUES ($1, $2, $3, $4, NULLIF($5, ''))`

	_, err := r.pool.Exec(ctx, query, e.ID, e.ListingID, e.Date, e.HourlyRateCents, e.Reason)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrSpecialPricingExists
		}
		return fmt.Errorf("insert special pricing: %w", err)
	}
	return nil
}

// Delete removes one override from a listing.
// Returns service.ErrSpecialPricingNotFound if no row matches.
func (r *SpecialPricingRepository) Delete(ctx context.Context, listingID, entryID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM special_pricing WHERE id = $1 AND listing_id = $2`, entryID, listingID)
	if err != nil {
		return fmt.Errorf("delete special pricing %s: %w", entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrSpecialPricingNotFound
	}
	return nil
}
