package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCheckAvailability_Fulfilled(t *testing.T) {
	ctx := context.Background()

	inventoryRepo := new(MockInventoryRepository)
	inventoryRepo.On("SumAvailable", ctx, "P001").Return(14, nil)

	svc := NewInventoryService(inventoryRepo, new(MockProductRepository), zerolog.Nop())

	avail, err := svc.CheckAvailability(ctx, "P001", 6)
	require.NoError(t, err)
	assert.True(t, avail.Fulfilled)
	assert.Equal(t, 14, avail.Available)
	assert.Equal(t, 6, avail.Requested)
}

func TestCheckAvailability_NotFulfilled(t *testing.T) {
	ctx := context.Background()

	inventoryRepo := new(MockInventoryRepository)
	inventoryRepo.On("SumAvailable", ctx, "P001").Return(3, nil)

	svc := NewInventoryService(inventoryRepo, new(MockProductRepository), zerolog.Nop())

	avail, err := svc.CheckAvailability(ctx, "P001", 6)
	require.NoError(t, err)
	assert.False(t, avail.Fulfilled)
}

func TestCheckAvailability_ReadErrorFailsClosed(t *testing.T) {
	ctx := context.Background()

	inventoryRepo := new(MockInventoryRepository)
	inventoryRepo.On("SumAvailable", ctx, "P001").Return(0, errors.New("timeout"))

	svc := NewInventoryService(inventoryRepo, new(MockProductRepository), zerolog.Nop())

	_, err := svc.CheckAvailability(ctx, "P001", 6)
	require.ErrorIs(t, err, model.ErrAvailabilityUnknown)
}

func TestCheckAvailability_InvalidQuantity(t *testing.T) {
	svc := NewInventoryService(new(MockInventoryRepository), new(MockProductRepository), zerolog.Nop())

	_, err := svc.CheckAvailability(context.Background(), "P001", 0)
	require.ErrorIs(t, err, model.ErrInvalidQuantity)
}

func TestRestock_Success(t *testing.T) {
	ctx := context.Background()

	inventoryRepo := new(MockInventoryRepository)
	productRepo := new(MockProductRepository)

	productRepo.On("ValidateProductsExist", ctx, []string{"P001"}).Return(nil)
	inventoryRepo.On("CreateBatch", ctx, mock.AnythingOfType("*model.InventoryBatch")).Return(nil)

	svc := NewInventoryService(inventoryRepo, productRepo, zerolog.Nop())

	producedAt := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	batch, err := svc.Restock(ctx, &model.RestockRequest{
		ProductID:  "P001",
		BatchLabel: "JAN-05",
		ProducedAt: producedAt,
		Quantity:   10,
	})

	require.NoError(t, err)
	assert.Equal(t, model.BatchStatusActive, batch.Status)
	assert.Equal(t, 10, batch.QuantityAvailable)
	assert.Equal(t, producedAt, batch.ProducedAt)

	inventoryRepo.AssertExpectations(t)
	productRepo.AssertExpectations(t)
}

func TestRestock_InvalidRequest(t *testing.T) {
	svc := NewInventoryService(new(MockInventoryRepository), new(MockProductRepository), zerolog.Nop())

	_, err := svc.Restock(context.Background(), &model.RestockRequest{
		ProductID: "P001", BatchLabel: "", Quantity: 10,
	})
	require.ErrorIs(t, err, model.ErrInvalidBatch)

	_, err = svc.Restock(context.Background(), &model.RestockRequest{
		ProductID: "P001", BatchLabel: "JAN-05", Quantity: 0,
	})
	require.ErrorIs(t, err, model.ErrInvalidBatch)
}

func TestRestock_UnknownProduct(t *testing.T) {
	ctx := context.Background()

	productRepo := new(MockProductRepository)
	productRepo.On("ValidateProductsExist", ctx, []string{"ghost"}).Return(model.ErrProductNotFound)

	svc := NewInventoryService(new(MockInventoryRepository), productRepo, zerolog.Nop())

	_, err := svc.Restock(ctx, &model.RestockRequest{
		ProductID: "ghost", BatchLabel: "JAN-05", Quantity: 10,
	})
	require.ErrorIs(t, err, model.ErrProductNotFound)
}

func TestProductStock(t *testing.T) {
	ctx := context.Background()

	batches := []model.InventoryBatch{
		{ProductID: "P001", BatchLabel: "JAN-01", QuantityAvailable: 0, Status: model.BatchStatusDepleted},
		{ProductID: "P001", BatchLabel: "JAN-05", QuantityAvailable: 8, Status: model.BatchStatusActive},
	}

	inventoryRepo := new(MockInventoryRepository)
	inventoryRepo.On("ListBatchesByProduct", ctx, "P001").Return(batches, nil)

	svc := NewInventoryService(inventoryRepo, new(MockProductRepository), zerolog.Nop())

	got, err := svc.ProductStock(ctx, "P001")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
