package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/idempotency"
	"storefront/internal/model"
	"storefront/internal/pricing"
	"storefront/internal/repository"
	"storefront/internal/territory"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo     repository.OrderRepository
	productRepo   repository.ProductRepository
	inventoryRepo repository.InventoryRepository
	calculator    *pricing.Calculator
	territory     territory.Checker
	guard         idempotency.Guard
	numberPrefix  string
	logger        zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	inventoryRepo repository.InventoryRepository,
	calculator *pricing.Calculator,
	checker territory.Checker,
	guard idempotency.Guard,
	numberPrefix string,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		calculator:    calculator,
		territory:     checker,
		guard:         guard,
		numberPrefix:  numberPrefix,
		logger:        logger.With().Str("service", "order").Logger(),
	}
}

// PlaceOrder validates the cart, verifies stock availability, and persists
// the order header, its lines, and the FIFO batch deductions in a single
// transaction. Nothing is visible to other readers unless every step
// succeeds; any failure rolls the whole order back.
func (s *orderService) PlaceOrder(ctx context.Context, req *model.OrderRequest, idempotencyKey string) (*model.OrderResponse, error) {
	if err := s.validateOrderRequest(req); err != nil {
		return nil, err
	}

	if idempotencyKey != "" {
		claimed, err := s.guard.Claim(ctx, idempotencyKey)
		if err != nil {
			s.logger.Error().Err(err).Msg("idempotency claim failed")
			return nil, fmt.Errorf("failed to place order: %w", err)
		}
		if !claimed {
			s.logger.Warn().Str("idempotency_key", idempotencyKey).Msg("duplicate order submission")
			return nil, model.ErrDuplicateOrder
		}
	}

	resp, err := s.placeOrder(ctx, req)
	if err != nil && idempotencyKey != "" {
		// The placement failed, so the key must not block a retry.
		if relErr := s.guard.Release(ctx, idempotencyKey); relErr != nil {
			s.logger.Error().Err(relErr).Str("idempotency_key", idempotencyKey).
				Msg("failed to release idempotency key after placement failure")
		}
	}
	return resp, err
}

func (s *orderService) placeOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error) {
	productIDs := make([]string, len(req.Lines))
	for i, line := range req.Lines {
		productIDs[i] = line.ProductID
	}

	if err := s.productRepo.ValidateProductsExist(ctx, productIDs); err != nil {
		s.logger.Warn().
			Int("product_count", len(productIDs)).
			Err(err).
			Msg("product validation failed")
		return nil, err
	}

	// Advisory availability pre-check: rejects obviously unfillable orders
	// before any write. A read failure means availability is unknown, and
	// unknown availability fails closed.
	for _, line := range req.Lines {
		available, err := s.inventoryRepo.SumAvailable(ctx, line.ProductID)
		if err != nil {
			s.logger.Error().Err(err).Str("product_id", line.ProductID).
				Msg("availability check failed")
			return nil, model.ErrAvailabilityUnknown
		}
		if available < line.Quantity {
			s.logger.Warn().
				Str("product_id", line.ProductID).
				Int("requested", line.Quantity).
				Int("available", available).
				Msg("insufficient stock at pre-check")
			return nil, model.ErrInsufficientStock
		}
	}

	totals := s.calculator.Calculate(req.Lines)

	// The generated order number collides only if the timestamp and random
	// suffix both repeat; one retry with a fresh number covers it.
	var resp *model.OrderResponse
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		resp, err = s.placeOnce(ctx, req, totals)
		if err == nil || !repository.IsUniqueViolation(err) {
			return resp, err
		}
		s.logger.Warn().Int("attempt", attempt+1).Msg("order number collision, retrying")
	}
	return nil, fmt.Errorf("failed to place order after order number retry: %w", err)
}

// placeOnce runs one transactional placement attempt.
func (s *orderService) placeOnce(ctx context.Context, req *model.OrderRequest, totals pricing.Totals) (*model.OrderResponse, error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	// Roll back everything on any error below: header, lines, and batch
	// deductions all disappear together.
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && rbErr != pgx.ErrTxClosed {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	now := time.Now()
	order := &model.Order{
		ID:                 uuid.New(),
		OrderNumber:        s.newOrderNumber(now),
		BuyerID:            req.BuyerID,
		Status:             model.OrderStatusPending,
		Subtotal:           totals.Subtotal,
		Tax:                totals.Tax,
		Shipping:           totals.Shipping,
		TotalAmount:        totals.Total,
		DestinationAddress: req.DestinationAddress,
		Metadata:           req.Metadata,
		PlacedAt:           now,
		UpdatedAt:          now,
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, err
	}

	lines := make([]model.OrderLine, len(req.Lines))
	for i, cartLine := range req.Lines {
		lines[i] = model.OrderLine{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ProductID:   cartLine.ProductID,
			ProductName: cartLine.Name,
			Quantity:    cartLine.Quantity,
			UnitPrice:   cartLine.UnitPrice,
			LineTotal:   cartLine.UnitPrice * float64(cartLine.Quantity),
		}
	}

	if err = s.orderRepo.CreateOrderLines(ctx, tx, lines); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("line_count", len(lines)).
			Msg("failed to create order lines")
		return nil, fmt.Errorf("failed to create order lines: %w", err)
	}

	for _, line := range lines {
		if err = s.allocate(ctx, tx, line.ProductID, line.Quantity); err != nil {
			s.logger.Warn().
				Err(err).
				Str("order_id", order.ID.String()).
				Str("product_id", line.ProductID).
				Int("quantity", line.Quantity).
				Msg("inventory allocation failed, rolling back order")
			return nil, err
		}
	}

	if err = s.orderRepo.UpdateStatus(ctx, tx, order.ID, model.OrderStatusConfirmed); err != nil {
		return nil, fmt.Errorf("failed to confirm order: %w", err)
	}
	order.Status = model.OrderStatusConfirmed

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("order_number", order.OrderNumber).
		Int("line_count", len(lines)).
		Float64("total", order.TotalAmount).
		Msg("order placed")

	return orderResponse(order, lines), nil
}

// allocate walks the product's active batches oldest first and deducts
// until the requested quantity is satisfied. The per-batch deduction is a
// conditional update, so a concurrent order claiming the same units causes
// a shortfall here rather than oversold stock. A shortfall aborts the
// transaction; the caller surfaces a retryable conflict.
func (s *orderService) allocate(ctx context.Context, tx pgx.Tx, productID string, quantity int) error {
	batches, err := s.inventoryRepo.ListActiveBatches(ctx, tx, productID)
	if err != nil {
		return fmt.Errorf("failed to list batches for allocation: %w", err)
	}

	remaining := quantity
	for _, batch := range batches {
		if remaining == 0 {
			break
		}

		deducted, err := s.inventoryRepo.DeductFromBatch(ctx, tx, batch.ID, remaining)
		if err != nil {
			return fmt.Errorf("failed to deduct from batch %s: %w", batch.ID, err)
		}
		remaining -= deducted
	}

	if remaining > 0 {
		// The pre-check passed, so the missing units were claimed by a
		// concurrent order between the check and this walk.
		s.logger.Warn().
			Str("product_id", productID).
			Int("requested", quantity).
			Int("unfilled", remaining).
			Msg("allocation shortfall")
		return model.ErrAllocationConflict
	}

	return nil
}

// GetByID retrieves an order by its ID with all lines.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	order, lines, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, nil
	}

	return orderResponse(order, lines), nil
}

// newOrderNumber generates a human-readable order number of the form
// <PREFIX>-<unix seconds>-<random suffix>.
func (s *orderService) newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("%s-%d-%s", s.numberPrefix, now.Unix(), suffix)
}

// validateOrderRequest validates the order request.
func (s *orderService) validateOrderRequest(req *model.OrderRequest) error {
	if req == nil {
		return fmt.Errorf("order request is nil")
	}

	if req.BuyerID == "" {
		return fmt.Errorf("buyer ID is required")
	}

	if len(req.Lines) == 0 {
		return model.ErrEmptyCart
	}

	seen := make(map[string]struct{}, len(req.Lines))
	for i, line := range req.Lines {
		if line.ProductID == "" {
			return fmt.Errorf("line %d: product ID is required", i)
		}

		if line.Quantity <= 0 {
			s.logger.Warn().
				Int("line_index", i).
				Str("product_id", line.ProductID).
				Int("quantity", line.Quantity).
				Msg("invalid quantity")
			return model.ErrInvalidQuantity
		}

		if line.UnitPrice < 0 {
			return fmt.Errorf("line %d: unit price cannot be negative", i)
		}

		if _, dup := seen[line.ProductID]; dup {
			return model.ErrDuplicateCartLine
		}
		seen[line.ProductID] = struct{}{}
	}

	addr := req.DestinationAddress
	if addr.Line1 == "" || addr.City == "" || addr.PostalCode == "" {
		return model.ErrMissingAddress
	}

	if !s.territory.Serviceable(addr.PostalCode) {
		s.logger.Warn().
			Str("postal_code", addr.PostalCode).
			Msg("destination outside serviceable territory")
		return model.ErrUnserviceableArea
	}

	return nil
}

// orderResponse assembles the API response for an order and its lines.
func orderResponse(order *model.Order, lines []model.OrderLine) *model.OrderResponse {
	return &model.OrderResponse{
		ID:                 order.ID,
		OrderNumber:        order.OrderNumber,
		BuyerID:            order.BuyerID,
		Status:             order.Status,
		Subtotal:           pricing.Round2(order.Subtotal),
		Tax:                pricing.Round2(order.Tax),
		Shipping:           pricing.Round2(order.Shipping),
		TotalAmount:        pricing.Round2(order.TotalAmount),
		DestinationAddress: order.DestinationAddress,
		Lines:              lines,
		PlacedAt:           order.PlacedAt,
	}
}
