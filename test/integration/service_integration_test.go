package integration

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"storefront/internal/idempotency"
	"storefront/internal/model"
	"storefront/internal/pricing"
	"storefront/internal/repository"
	"storefront/internal/service"
	"storefront/internal/territory"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderService(testDB *TestDB) service.OrderService {
	logger := zerolog.Nop()

	productRepo := repository.NewProductRepository(testDB.Pool, logger)
	orderRepo := repository.NewOrderRepository(testDB.Pool, logger)
	inventoryRepo := repository.NewInventoryRepository(testDB.Pool, logger)

	calculator := pricing.NewCalculator(pricing.Config{
		TaxRate:               0.08,
		FreeShippingThreshold: 50.00,
		FlatShippingFee:       5.99,
	})

	return service.NewOrderService(
		orderRepo, productRepo, inventoryRepo,
		calculator, territory.AllowAll{}, idempotency.Noop{},
		"ORD", logger,
	)
}

func testAddress() model.Address {
	return model.Address{
		Line1:      "1 Harbour St",
		City:       "Sydney",
		Region:     "NSW",
		PostalCode: "2000",
		Country:    "AU",
	}
}

func TestPlaceOrder_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	ctx := context.Background()
	orderService := newOrderService(testDB)

	t.Run("allocates oldest batch first and splits across batches", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		older := SeedBatch(t, testDB.Pool, "P001", "LOT-JAN01", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 4)
		newer := SeedBatch(t, testDB.Pool, "P001", "LOT-JAN05", time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), 10)

		resp, err := orderService.PlaceOrder(ctx, &model.OrderRequest{
			BuyerID: "buyer-1",
			Lines: []model.CartLine{
				{ProductID: "P001", Name: "Cold Brew Concentrate", UnitPrice: 10.00, Quantity: 6},
			},
			DestinationAddress: testAddress(),
		}, "")
		require.NoError(t, err)
		require.NotNil(t, resp)

		assert.Equal(t, model.OrderStatusConfirmed, resp.Status)
		assert.Equal(t, 60.00, resp.Subtotal)
		assert.Equal(t, 4.80, resp.Tax)
		assert.Equal(t, 0.00, resp.Shipping)
		assert.Equal(t, 64.80, resp.TotalAmount)
		require.Len(t, resp.Lines, 1)
		assert.Equal(t, 6, resp.Lines[0].Quantity)

		// Oldest batch drained completely and flipped; remainder came
		// from the newer batch.
		oldQty, oldStatus := BatchState(t, testDB.Pool, older)
		assert.Equal(t, 0, oldQty)
		assert.Equal(t, model.BatchStatusDepleted, oldStatus)

		newQty, newStatus := BatchState(t, testDB.Pool, newer)
		assert.Equal(t, 8, newQty)
		assert.Equal(t, model.BatchStatusActive, newStatus)
	})

	t.Run("insufficient stock leaves no trace", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		batchID := SeedBatch(t, testDB.Pool, "P001", "LOT-A", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 10)

		resp, err := orderService.PlaceOrder(ctx, &model.OrderRequest{
			BuyerID: "buyer-2",
			Lines: []model.CartLine{
				{ProductID: "P001", Name: "Cold Brew Concentrate", UnitPrice: 10.00, Quantity: 20},
			},
			DestinationAddress: testAddress(),
		}, "")
		require.ErrorIs(t, err, model.ErrInsufficientStock)
		assert.Nil(t, resp)

		assert.Equal(t, 0, CountRows(t, testDB.Pool, "orders"))
		assert.Equal(t, 0, CountRows(t, testDB.Pool, "order_lines"))

		quantity, status := BatchState(t, testDB.Pool, batchID)
		assert.Equal(t, 10, quantity)
		assert.Equal(t, model.BatchStatusActive, status)
	})

	t.Run("unknown product rejects the whole order", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)
		SeedBatch(t, testDB.Pool, "P001", "LOT-A", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 10)

		resp, err := orderService.PlaceOrder(ctx, &model.OrderRequest{
			BuyerID: "buyer-3",
			Lines: []model.CartLine{
				{ProductID: "P001", Name: "Cold Brew Concentrate", UnitPrice: 10.00, Quantity: 1},
				{ProductID: "GHOST", Name: "No Such Product", UnitPrice: 1.00, Quantity: 1},
			},
			DestinationAddress: testAddress(),
		}, "")
		require.Error(t, err)
		assert.Nil(t, resp)
		assert.Equal(t, 0, CountRows(t, testDB.Pool, "orders"))
	})

	t.Run("multi-line order allocates each product independently", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		brew := SeedBatch(t, testDB.Pool, "P001", "LOT-BREW", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), 5)
		beans := SeedBatch(t, testDB.Pool, "P002", "LOT-BEANS", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), 5)

		resp, err := orderService.PlaceOrder(ctx, &model.OrderRequest{
			BuyerID: "buyer-4",
			Lines: []model.CartLine{
				{ProductID: "P001", Name: "Cold Brew Concentrate", UnitPrice: 10.00, Quantity: 2},
				{ProductID: "P002", Name: "Single Origin Beans", UnitPrice: 20.00, Quantity: 1},
			},
			DestinationAddress: testAddress(),
		}, "")
		require.NoError(t, err)
		require.Len(t, resp.Lines, 2)

		// Subtotal 40 is under the free-shipping threshold.
		assert.Equal(t, 40.00, resp.Subtotal)
		assert.Equal(t, 5.99, resp.Shipping)

		brewQty, _ := BatchState(t, testDB.Pool, brew)
		beansQty, _ := BatchState(t, testDB.Pool, beans)
		assert.Equal(t, 3, brewQty)
		assert.Equal(t, 4, beansQty)
	})

	t.Run("placed order is retrievable by ID", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)
		SeedBatch(t, testDB.Pool, "P001", "LOT-A", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 10)

		placed, err := orderService.PlaceOrder(ctx, &model.OrderRequest{
			BuyerID: "buyer-5",
			Lines: []model.CartLine{
				{ProductID: "P001", Name: "Cold Brew Concentrate", UnitPrice: 10.00, Quantity: 2},
			},
			DestinationAddress: testAddress(),
		}, "")
		require.NoError(t, err)

		got, err := orderService.GetByID(ctx, placed.ID)
		require.NoError(t, err)
		assert.Equal(t, placed.OrderNumber, got.OrderNumber)
		assert.Equal(t, model.OrderStatusConfirmed, got.Status)
		require.Len(t, got.Lines, 1)
		assert.Equal(t, "Cold Brew Concentrate", got.Lines[0].ProductName)
	})
}

func TestPlaceOrder_ConcurrentContention(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	ctx := context.Background()
	orderService := newOrderService(testDB)

	CleanupDB(t, testDB.Pool)
	SeedProducts(t, testDB.Pool)
	batchID := SeedBatch(t, testDB.Pool, "P001", "LOT-A", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 10)

	// Two orders of 6 against 10 units. The row lock on the batch
	// serialises the deductions, so exactly one order can be covered.
	results := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, err := orderService.PlaceOrder(ctx, &model.OrderRequest{
				BuyerID: "buyer-concurrent",
				Lines: []model.CartLine{
					{ProductID: "P001", Name: "Cold Brew Concentrate", UnitPrice: 10.00, Quantity: 6},
				},
				DestinationAddress: testAddress(),
			}, "")
			results[idx] = err
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
			continue
		}
		// The loser fails either at the availability pre-check or during
		// allocation, depending on timing. Both are clean rejections.
		ok := errors.Is(err, model.ErrAllocationConflict) ||
			errors.Is(err, model.ErrInsufficientStock)
		assert.True(t, ok, "unexpected error: %v", err)
	}
	assert.Equal(t, 1, successes)

	// Only the winner's rows exist and only its units are gone.
	assert.Equal(t, 1, CountRows(t, testDB.Pool, "orders"))
	assert.Equal(t, 1, CountRows(t, testDB.Pool, "order_lines"))

	quantity, status := BatchState(t, testDB.Pool, batchID)
	assert.Equal(t, 4, quantity)
	assert.Equal(t, model.BatchStatusActive, status)
}
