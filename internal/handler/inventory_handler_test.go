package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockInventoryService is a mock implementation of InventoryService.
type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) CheckAvailability(ctx context.Context, productID string, requested int) (*model.Availability, error) {
	args := m.Called(ctx, productID, requested)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Availability), args.Error(1)
}

func (m *MockInventoryService) Restock(ctx context.Context, req *model.RestockRequest) (*model.InventoryBatch, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InventoryBatch), args.Error(1)
}

func (m *MockInventoryService) ProductStock(ctx context.Context, productID string) ([]model.InventoryBatch, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.InventoryBatch), args.Error(1)
}

func TestInventoryHandler_Availability(t *testing.T) {
	mockService := new(MockInventoryService)
	h := NewInventoryHandler(mockService, zerolog.Nop())

	mockService.On("CheckAvailability", mock.Anything, "P001", 6).
		Return(&model.Availability{ProductID: "P001", Requested: 6, Available: 14, Fulfilled: true}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/inventory/P001/availability?quantity=6", nil)
	rec := httptest.NewRecorder()

	h.Availability(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got model.Availability
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.True(t, got.Fulfilled)
	assert.Equal(t, 14, got.Available)
}

func TestInventoryHandler_Availability_Unknown(t *testing.T) {
	mockService := new(MockInventoryService)
	h := NewInventoryHandler(mockService, zerolog.Nop())

	mockService.On("CheckAvailability", mock.Anything, "P001", 1).
		Return(nil, model.ErrAvailabilityUnknown)

	req := httptest.NewRequest(http.MethodGet, "/api/inventory/P001/availability", nil)
	rec := httptest.NewRecorder()

	h.Availability(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestInventoryHandler_Restock(t *testing.T) {
	mockService := new(MockInventoryService)
	h := NewInventoryHandler(mockService, zerolog.Nop())

	batch := &model.InventoryBatch{
		ID: uuid.New(), ProductID: "P001", BatchLabel: "JAN-05",
		ProducedAt: time.Now(), QuantityAvailable: 10, Status: model.BatchStatusActive,
	}
	mockService.On("Restock", mock.Anything, mock.AnythingOfType("*model.RestockRequest")).
		Return(batch, nil)

	body, _ := json.Marshal(model.RestockRequest{ProductID: "P001", BatchLabel: "JAN-05", Quantity: 10})
	req := httptest.NewRequest(http.MethodPost, "/api/inventory/batches", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Restock(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var got model.InventoryBatch
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, model.BatchStatusActive, got.Status)
}

func TestInventoryHandler_Restock_InvalidBatch(t *testing.T) {
	mockService := new(MockInventoryService)
	h := NewInventoryHandler(mockService, zerolog.Nop())

	mockService.On("Restock", mock.Anything, mock.AnythingOfType("*model.RestockRequest")).
		Return(nil, model.ErrInvalidBatch)

	body, _ := json.Marshal(model.RestockRequest{ProductID: "P001", Quantity: 0})
	req := httptest.NewRequest(http.MethodPost, "/api/inventory/batches", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Restock(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInventoryHandler_Batches(t *testing.T) {
	mockService := new(MockInventoryService)
	h := NewInventoryHandler(mockService, zerolog.Nop())

	mockService.On("ProductStock", mock.Anything, "P001").
		Return([]model.InventoryBatch{
			{ID: uuid.New(), ProductID: "P001", BatchLabel: "JAN-01", Status: model.BatchStatusDepleted},
			{ID: uuid.New(), ProductID: "P001", BatchLabel: "JAN-05", QuantityAvailable: 8, Status: model.BatchStatusActive},
		}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/inventory/P001/batches", nil)
	rec := httptest.NewRecorder()

	h.Batches(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got []model.InventoryBatch
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Len(t, got, 2)
}
