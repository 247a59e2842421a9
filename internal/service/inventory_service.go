package service

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// inventoryService implements InventoryService.
type inventoryService struct {
	inventoryRepo repository.InventoryRepository
	productRepo   repository.ProductRepository
	logger        zerolog.Logger
}

// NewInventoryService creates a new inventory service.
func NewInventoryService(
	inventoryRepo repository.InventoryRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) InventoryService {
	return &inventoryService{
		inventoryRepo: inventoryRepo,
		productRepo:   productRepo,
		logger:        logger.With().Str("service", "inventory").Logger(),
	}
}

// CheckAvailability reports whether the requested quantity can be covered
// by the product's active batches. A failed read fails closed: the caller
// gets an error, never a guess.
func (s *inventoryService) CheckAvailability(ctx context.Context, productID string, requested int) (*model.Availability, error) {
	if productID == "" {
		return nil, model.ErrProductNotFound
	}
	if requested <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	available, err := s.inventoryRepo.SumAvailable(ctx, productID)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", productID).Msg("availability read failed")
		return nil, model.ErrAvailabilityUnknown
	}

	return &model.Availability{
		ProductID: productID,
		Requested: requested,
		Available: available,
		Fulfilled: available >= requested,
	}, nil
}

// Restock creates a new inventory batch for a product.
func (s *inventoryService) Restock(ctx context.Context, req *model.RestockRequest) (*model.InventoryBatch, error) {
	if req == nil {
		return nil, fmt.Errorf("restock request is nil")
	}

	if req.BatchLabel == "" || req.Quantity <= 0 {
		s.logger.Warn().
			Str("product_id", req.ProductID).
			Str("batch_label", req.BatchLabel).
			Int("quantity", req.Quantity).
			Msg("invalid restock request")
		return nil, model.ErrInvalidBatch
	}

	if err := s.productRepo.ValidateProductsExist(ctx, []string{req.ProductID}); err != nil {
		return nil, err
	}

	producedAt := req.ProducedAt
	if producedAt.IsZero() {
		producedAt = time.Now()
	}

	now := time.Now()
	batch := &model.InventoryBatch{
		ID:                uuid.New(),
		ProductID:         req.ProductID,
		BatchLabel:        req.BatchLabel,
		ProducedAt:        producedAt,
		QuantityAvailable: req.Quantity,
		Status:            model.BatchStatusActive,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.inventoryRepo.CreateBatch(ctx, batch); err != nil {
		s.logger.Error().Err(err).Str("product_id", req.ProductID).Msg("failed to restock")
		return nil, fmt.Errorf("failed to restock: %w", err)
	}

	s.logger.Info().
		Str("batch_id", batch.ID.String()).
		Str("product_id", batch.ProductID).
		Int("quantity", batch.QuantityAvailable).
		Msg("inventory batch created")

	return batch, nil
}

// ProductStock lists all batches for a product in FIFO order.
func (s *inventoryService) ProductStock(ctx context.Context, productID string) ([]model.InventoryBatch, error) {
	if productID == "" {
		return nil, model.ErrProductNotFound
	}

	batches, err := s.inventoryRepo.ListBatchesByProduct(ctx, productID)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", productID).Msg("failed to list batches")
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}

	return batches, nil
}
