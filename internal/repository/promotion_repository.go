package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/venuely/venue-pricing-service/internal/model"
	"github.com/venuely/venue-pricing-service/internal/service"
	"github.com/venuely/venue-pricing-service/pkg/database"
)

// PromotionRepository provides data access for promotion requests using pgx.
type PromotionRepository struct {
	pool PoolInterface
}

// NewPromotionRepository creates a new PromotionRepository with the given pool.
func NewPromotionRepository(pool *pgxpool.Pool) *PromotionRepository {
	return &PromotionRepository{pool: pool}
}

// NewPromotionRepositoryWithPool creates a new PromotionRepository with a
// custom pool interface. This is primarily used for testing.
func NewPromotionRepositoryWithPool(pool PoolInterface) *PromotionRepository {
	return &PromotionRepository{pool: pool}
}

const promotionColumns = `id, listing_id, status, start_date, end_date,
	COALESCE(message, ''), COALESCE(admin_note, ''), created_at`

// Insert inserts a new promotion request.
func (r *PromotionRepository) Insert(ctx context.Context, p *model.PromotionRequest) error {
	query := `INSERT INTO promotion_requests (id, listing_id, status, start_date, end_date, message)
	VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))`

	_, err := r.pool.Exec(ctx, query, p.ID, p.ListingID, p.Status, p.StartDate, p.EndDate, p.Message)
	if err != nil {
		return fmt.Errorf("insert promotion request: %w", err)
	}
	return nil
}

// GetByID retrieves a promotion request by its id.
// Returns nil, nil if the request is not found (service layer handles this).
func (r *PromotionRepository) GetByID(ctx context.Context, id string) (*model.PromotionRequest, error) {
	query := `SELECT ` + promotionColumns + ` FROM promotion_requests WHERE id = $1`

	var p model.PromotionRequest
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.ListingID, &p.Status, &p.StartDate, &p.EndDate, &p.Message, &p.AdminNote, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get promotion request %s: %w", id, err)
	}
	return &p, nil
}

// GetForUpdate retrieves a promotion request with a row lock (SELECT FOR UPDATE).
// This locks the row until the transaction completes.
// Returns service.ErrPromotionNotFound if the request doesn't exist.
func (r *PromotionRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, id string) (*model.PromotionRequest, error) {
	query := `SELECT ` + promotionColumns + ` FROM promotion_requests WHERE id = $1 FOR UPDATE`

	var p model.PromotionRequest
	err := tx.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.ListingID, &p.Status, &p.StartDate, &p.EndDate, &p.Message, &p.AdminNote, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrPromotionNotFound
		}
		return nil, fmt.Errorf("get promotion request for update %s: %w", id, err)
	}
	return &p, nil
}

// SetStatus moves a request to a terminal status with the admin's note.
// Must be called within a transaction after locking the row.
func (r *PromotionRepository) SetStatus(ctx context.Context, tx database.TxQuerier, id, status, adminNote string) error {
	query := `UPDATE promotion_requests SET status = $2, admin_note = NULLIF($3, '') WHERE id = $1`

	_, err := tx.Exec(ctx, query, id, status, adminNote)
	if err != nil {
		return fmt.Errorf("set promotion status for %s: %w", id, err)
	}
	return nil
}

// Delete removes a promotion request.
// Returns service.ErrPromotionNotFound if no row matches.
func (r *PromotionRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM promotion_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete promotion request %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrPromotionNotFound
	}
	return nil
}
