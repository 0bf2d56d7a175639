package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/venuely/venue-pricing-service/internal/model"
	"github.com/venuely/venue-pricing-service/internal/service"
)

// QueryPoolInterface extends PoolInterface with multi-row queries.
type QueryPoolInterface interface {
	PoolInterface
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// BlockedDateRepository provides data access for blocked date ranges using pgx.
type BlockedDateRepository struct {
	pool QueryPoolInterface
}

// NewBlockedDateRepository creates a new BlockedDateRepository with the given pool.
func NewBlockedDateRepository(pool *pgxpool.Pool) *BlockedDateRepository {
	return &BlockedDateRepository{pool: pool}
}

// NewBlockedDateRepositoryWithPool creates a new BlockedDateRepository with a
// custom pool interface. This is primarily used for testing.
func NewBlockedDateRepositoryWithPool(pool QueryPoolInterface) *BlockedDateRepository {
	return &BlockedDateRepository{pool: pool}
}

// ListByListing retrieves all blocked ranges for a listing ordered by start date.
// On success, returns an empty slice (not nil) when no ranges exist.
func (r *BlockedDateRepository) ListByListing(ctx context.Context, listingID string) ([]model.BlockedDateRange, error) {
	query := `SELECT id, listing_id, start_date, end_date, COALESCE(reason, ''), created_at
	FROM blocked_date_ranges WHERE listing_id = $1 ORDER BY start_date`

	rows, err := r.pool.Query(ctx, query, listingID)
	if err != nil {
		return nil, fmt.Errorf("list blocked ranges for %s: %w", listingID, err)
	}
	defer rows.Close()

	ranges := []model.BlockedDateRange{}
	for rows.Next() {
		var br model.BlockedDateRange
		if err := rows.Scan(&br.ID, &br.ListingID, &br.StartDate, &br.EndDate, &br.Reason, &br.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan blocked range: %w", err)
		}
		ranges = append(ranges, br)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blocked range rows: %w", err)
	}
	return ranges, nil
}

// Insert inserts a new blocked range.
func (r *BlockedDateRepository) Insert(ctx context.Context, br *model.BlockedDateRange) error {
	query := `INSERT INTO blocked_date_ranges (id, listing_id, start_date, end_date, reason)
	VALUES ($1, $2, $3, $4, NULLIF($5, ''))`

	_, err := r.pool.Exec(ctx, query, br.ID, br.ListingID, br.StartDate, br.EndDate, br.Reason)
	if err != nil {
		return fmt.Errorf("insert blocked range: %w", err)
	}
	return nil
}

// Delete removes one blocked range from a listing.
// Returns service.ErrBlockedRangeNotFound if no row matches.
func (r *BlockedDateRepository) Delete(ctx context.Context, listingID, rangeID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM blocked_date_ranges WHERE id = $1 AND listing_id = $2`, rangeID, listingID)
	if err != nil {
		return fmt.Errorf("delete blocked range %s: %w", rangeID, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrBlockedRangeNotFound
	}
	return nil
}
