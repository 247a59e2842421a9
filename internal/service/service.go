package service

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
)

// ProductService defines operations for product catalogue access.
type ProductService interface {
	// GetAll retrieves all products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)
}

// OrderService defines operations for order placement and retrieval.
type OrderService interface {
	// PlaceOrder validates the cart, checks stock availability, and
	// persists the order together with its FIFO inventory allocation in a
	// single transaction. The idempotencyKey may be empty.
	PlaceOrder(ctx context.Context, req *model.OrderRequest, idempotencyKey string) (*model.OrderResponse, error)

	// GetByID retrieves an order by its ID with all lines.
	GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error)
}

// InventoryService defines operations for batch-level stock management.
type InventoryService interface {
	// CheckAvailability reports whether the requested quantity can be
	// covered by the product's active batches.
	CheckAvailability(ctx context.Context, productID string, requested int) (*model.Availability, error)

	// Restock creates a new inventory batch for a product.
	Restock(ctx context.Context, req *model.RestockRequest) (*model.InventoryBatch, error)

	// ProductStock lists all batches for a product in FIFO order.
	ProductStock(ctx context.Context, productID string) ([]model.InventoryBatch, error)
}
