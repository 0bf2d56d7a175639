package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/venuely/venue-pricing-service/internal/model"
	"github.com/venuely/venue-pricing-service/internal/pricing"
	"github.com/venuely/venue-pricing-service/pkg/database"
)

// PromotionRepositoryInterface defines the interface for promotion request data access.
type PromotionRepositoryInterface interface {
	Insert(ctx context.Context, p *model.PromotionRequest) error
	GetByID(ctx context.Context, id string) (*model.PromotionRequest, error)
	GetForUpdate(ctx context.Context, tx database.TxQuerier, id string) (*model.PromotionRequest, error)
	SetStatus(ctx context.Context, tx database.TxQuerier, id, status, adminNote string) error
	Delete(ctx context.Context, id string) error
}

// FeaturedWriter is the slice of listing persistence the approval flow needs.
type FeaturedWriter interface {
	GetByID(ctx context.Context, id string) (*model.Listing, error)
	SetFeatured(ctx context.Context, tx database.TxQuerier, id string, until time.Time) error
}

// TxBeginner defines the interface for beginning transactions.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PromotionService drives the featured-placement request lifecycle:
// created by the host as PENDING, then either cancelled by the host while
// still PENDING or moved to a terminal APPROVED/REJECTED by an admin.
type PromotionService struct {
	pool        TxBeginner
	promoRepo   PromotionRepositoryInterface
	listingRepo FeaturedWriter
}

// NewPromotionService creates a new PromotionService with the given pool and repositories.
func NewPromotionService(pool *pgxpool.Pool, promoRepo PromotionRepositoryInterface, listingRepo FeaturedWriter) *PromotionService {
	return &PromotionService{pool: pool, promoRepo: promoRepo, listingRepo: listingRepo}
}

// NewPromotionServiceWithTxBeginner creates a PromotionService with a custom
// TxBeginner. Primarily used for testing.
func NewPromotionServiceWithTxBeginner(pool TxBeginner, promoRepo PromotionRepositoryInterface, listingRepo FeaturedWriter) *PromotionService {
	return &PromotionService{pool: pool, promoRepo: promoRepo, listingRepo: listingRepo}
}

// Create files a new PENDING promotion request after validating the window.
func (s *PromotionService) Create(ctx context.Context, req *model.CreatePromotionRequest) (*model.PromotionRequest, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if err := pricing.ValidatePromotionWindow(start, end); err != nil {
		return nil, err
	}
	listing, err := s.listingRepo.GetByID(ctx, req.ListingID)
	if err != nil {
		return nil, fmt.Errorf("get listing: %w", err)
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}
	p := &model.PromotionRequest{
		ID:        uuid.NewString(),
		ListingID: req.ListingID,
		Status:    model.PromotionPending,
		StartDate: start,
		EndDate:   end,
		Message:   req.Message,
	}
	if err := s.promoRepo.Insert(ctx, p); err != nil {
		return nil, fmt.Errorf("insert promotion request: %w", err)
	}
	return p, nil
}

// Get retrieves a promotion request by id.
// Returns ErrPromotionNotFound if the request doesn't exist.
func (s *PromotionService) Get(ctx context.Context, id string) (*model.PromotionRequest, error) {
	p, err := s.promoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get promotion request: %w", err)
	}
	if p == nil {
		return nil, ErrPromotionNotFound
	}
	return p, nil
}

// Cancel deletes a request that is still PENDING.
// Returns ErrPromotionNotPending once an admin has resolved it.
func (s *PromotionService) Cancel(ctx context.Context, id string) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if p.Status != model.PromotionPending {
		return ErrPromotionNotPending
	}
	if err := s.promoRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete promotion request: %w", err)
	}
	return nil
}

// Approve atomically resolves a PENDING request and stamps the listing's
// featured window from the request dates. The request row is locked for the
// duration of the transaction so a concurrent reject or cancel cannot
// interleave.
func (s *PromotionService) Approve(ctx context.Context, id, adminNote string) error {
	return s.resolve(ctx, id, model.PromotionApproved, adminNote)
}

// Reject atomically resolves a PENDING request without touching the listing.
func (s *PromotionService) Reject(ctx context.Context, id, adminNote string) error {
	return s.resolve(ctx, id, model.PromotionRejected, adminNote)
}

func (s *PromotionService) resolve(ctx context.Context, id, status, adminNote string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // Safe: no-op if committed

	p, err := s.promoRepo.GetForUpdate(ctx, tx, id)
	if err != nil {
		return err
	}
	if p.Status != model.PromotionPending {
		return ErrPromotionNotPending
	}

	if status == model.PromotionApproved {
		if err := s.listingRepo.SetFeatured(ctx, tx, p.ListingID, p.EndDate); err != nil {
			return fmt.Errorf("set featured: %w", err)
		}
	}
	if err := s.promoRepo.SetStatus(ctx, tx, id, status, adminNote); err != nil {
		return fmt.Errorf("set status: %w", err)
	}

	return tx.Commit(ctx)
}
