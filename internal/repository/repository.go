package repository

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll retrieves all products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// ValidateProductsExist checks if all provided product IDs exist in the database.
	// Returns error if any product ID does not exist.
	ValidateProductsExist(ctx context.Context, ids []string) error
}

// InventoryRepository defines the interface for batch-level stock operations.
type InventoryRepository interface {
	// SumAvailable returns the total quantity available across all active
	// batches for the product. Read-only, no locks taken.
	SumAvailable(ctx context.Context, productID string) (int, error)

	// ListActiveBatches returns the product's active batches in FIFO order
	// (oldest production date first) within the provided transaction.
	ListActiveBatches(ctx context.Context, tx pgx.Tx, productID string) ([]model.InventoryBatch, error)

	// DeductFromBatch atomically deducts up to want units from the batch
	// and returns the quantity actually deducted. The deduction and the
	// depleted-status flip happen in one conditional statement, so two
	// concurrent orders cannot both claim the same units. A zero return
	// with no error means the batch was drained by a concurrent order.
	DeductFromBatch(ctx context.Context, tx pgx.Tx, batchID uuid.UUID, want int) (int, error)

	// CreateBatch inserts a new inventory batch.
	CreateBatch(ctx context.Context, batch *model.InventoryBatch) error

	// GetBatch retrieves a single batch by ID.
	GetBatch(ctx context.Context, id uuid.UUID) (*model.InventoryBatch, error)

	// ListBatchesByProduct returns all batches for a product, any status,
	// in FIFO order.
	ListBatchesByProduct(ctx context.Context, productID string) ([]model.InventoryBatch, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order header within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderLines inserts multiple order lines within the provided transaction.
	CreateOrderLines(ctx context.Context, tx pgx.Tx, lines []model.OrderLine) error

	// UpdateStatus updates the order status within the provided transaction.
	UpdateStatus(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, status string) error

	// GetByID retrieves an order by its ID along with its lines.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderLine, error)

	// GetByNumber retrieves an order by its human-readable order number.
	GetByNumber(ctx context.Context, orderNumber string) (*model.Order, []model.OrderLine, error)
}
