package repository

import (
	"context"
	"fmt"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// inventoryRepository implements the InventoryRepository interface using PostgreSQL.
type inventoryRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewInventoryRepository creates a new PostgreSQL-backed inventory repository.
func NewInventoryRepository(pool *pgxpool.Pool, logger zerolog.Logger) InventoryRepository {
	return &inventoryRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "inventory").Logger(),
	}
}

// SumAvailable returns the total quantity available across all active batches.
func (r *inventoryRepository) SumAvailable(ctx context.Context, productID string) (int, error) {
	query := `
		SELECT COALESCE(SUM(quantity_available), 0)
		FROM inventory_batches
		WHERE product_id = $1 AND status = 'active'
	`

	var total int
	if err := r.pool.QueryRow(ctx, query, productID).Scan(&total); err != nil {
		r.logger.Error().Err(err).Str("product_id", productID).Msg("failed to sum available stock")
		return 0, fmt.Errorf("failed to sum available stock: %w", err)
	}

	return total, nil
}

// ListActiveBatches returns active batches in FIFO order within the transaction.
// Ties on produced_at break on id so the walk order is deterministic.
func (r *inventoryRepository) ListActiveBatches(ctx context.Context, tx pgx.Tx, productID string) ([]model.InventoryBatch, error) {
	query := `
		SELECT id, product_id, batch_label, produced_at, quantity_available, status, created_at, updated_at
		FROM inventory_batches
		WHERE product_id = $1 AND status = 'active'
		ORDER BY produced_at ASC, id ASC
	`

	rows, err := tx.Query(ctx, query, productID)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", productID).Msg("failed to query active batches")
		return nil, fmt.Errorf("failed to query active batches: %w", err)
	}
	defer rows.Close()

	return scanBatches(rows)
}

// DeductFromBatch atomically deducts up to want units from one batch.
// The row is locked and the old quantity is read in the same statement, so
// the deducted amount is exact even under concurrent contention. The status
// flips to depleted in the same write when the quantity reaches zero.
func (r *inventoryRepository) DeductFromBatch(ctx context.Context, tx pgx.Tx, batchID uuid.UUID, want int) (int, error) {
	if want <= 0 {
		return 0, fmt.Errorf("deduction quantity must be positive, got %d", want)
	}

	query := `
		WITH locked AS (
			SELECT id, quantity_available
			FROM inventory_batches
			WHERE id = $1 AND status = 'active' AND quantity_available > 0
			FOR UPDATE
		)
		UPDATE inventory_batches b
		SET quantity_available = locked.quantity_available - LEAST(locked.quantity_available, $2),
		    status = CASE
		        WHEN locked.quantity_available - LEAST(locked.quantity_available, $2) = 0
		        THEN 'depleted' ELSE b.status
		    END,
		    updated_at = NOW()
		FROM locked
		WHERE b.id = locked.id
		RETURNING LEAST(locked.quantity_available, $2)
	`

	var deducted int
	err := tx.QueryRow(ctx, query, batchID, want).Scan(&deducted)
	if err != nil {
		if err == pgx.ErrNoRows {
			// Batch was depleted by a concurrent order between listing and
			// deduction. Not an error; the caller moves to the next batch.
			r.logger.Debug().
				Str("batch_id", batchID.String()).
				Msg("batch drained before deduction")
			return 0, nil
		}
		r.logger.Error().
			Err(err).
			Str("batch_id", batchID.String()).
			Int("want", want).
			Msg("failed to deduct from batch")
		return 0, fmt.Errorf("failed to deduct from batch: %w", err)
	}

	r.logger.Debug().
		Str("batch_id", batchID.String()).
		Int("want", want).
		Int("deducted", deducted).
		Msg("batch deduction applied")

	return deducted, nil
}

// CreateBatch inserts a new inventory batch.
func (r *inventoryRepository) CreateBatch(ctx context.Context, batch *model.InventoryBatch) error {
	query := `
		INSERT INTO inventory_batches
			(id, product_id, batch_label, produced_at, quantity_available, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		batch.ID, batch.ProductID, batch.BatchLabel, batch.ProducedAt,
		batch.QuantityAvailable, batch.Status, batch.CreatedAt, batch.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("product_id", batch.ProductID).
			Str("batch_label", batch.BatchLabel).
			Msg("failed to create inventory batch")
		return fmt.Errorf("failed to create inventory batch: %w", err)
	}

	r.logger.Debug().
		Str("batch_id", batch.ID.String()).
		Str("product_id", batch.ProductID).
		Int("quantity", batch.QuantityAvailable).
		Msg("inventory batch created")

	return nil
}

// GetBatch retrieves a single batch by ID.
func (r *inventoryRepository) GetBatch(ctx context.Context, id uuid.UUID) (*model.InventoryBatch, error) {
	query := `
		SELECT id, product_id, batch_label, produced_at, quantity_available, status, created_at, updated_at
		FROM inventory_batches
		WHERE id = $1
	`

	var b model.InventoryBatch
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.ProductID, &b.BatchLabel, &b.ProducedAt,
		&b.QuantityAvailable, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("batch_id", id.String()).Msg("failed to query batch")
		return nil, fmt.Errorf("failed to query batch: %w", err)
	}

	return &b, nil
}

// ListBatchesByProduct returns all batches for a product in FIFO order.
func (r *inventoryRepository) ListBatchesByProduct(ctx context.Context, productID string) ([]model.InventoryBatch, error) {
	query := `
		SELECT id, product_id, batch_label, produced_at, quantity_available, status, created_at, updated_at
		FROM inventory_batches
		WHERE product_id = $1
		ORDER BY produced_at ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", productID).Msg("failed to query batches")
		return nil, fmt.Errorf("failed to query batches: %w", err)
	}
	defer rows.Close()

	return scanBatches(rows)
}

// scanBatches collects batch rows into a slice.
func scanBatches(rows pgx.Rows) ([]model.InventoryBatch, error) {
	var batches []model.InventoryBatch
	for rows.Next() {
		var b model.InventoryBatch
		err := rows.Scan(
			&b.ID, &b.ProductID, &b.BatchLabel, &b.ProducedAt,
			&b.QuantityAvailable, &b.Status, &b.CreatedAt, &b.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan batch: %w", err)
		}
		batches = append(batches, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating batches: %w", err)
	}

	return batches, nil
}
