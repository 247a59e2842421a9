package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// InventoryHandler handles batch and availability HTTP requests.
type InventoryHandler struct {
	service service.InventoryService
	logger  zerolog.Logger
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(service service.InventoryService, logger zerolog.Logger) *InventoryHandler {
	return &InventoryHandler{
		service: service,
		logger:  logger.With().Str("handler", "inventory").Logger(),
	}
}

// Availability handles GET /api/inventory/{productId}/availability?quantity=n.
func (h *InventoryHandler) Availability(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	productID := inventoryPathProduct(r.URL.Path, "/availability")
	if productID == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "product ID is required", h.logger)
		return
	}

	quantity := parseQueryInt(r, "quantity", 1)

	avail, err := h.service.CheckAvailability(r.Context(), productID, quantity)
	if err != nil {
		var domainErr *model.DomainError
		if errors.As(err, &domainErr) {
			writeDomainError(w, domainErr, h.logger)
			return
		}
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to check availability", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, avail)
}

// Batches handles GET /api/inventory/{productId}/batches.
func (h *InventoryHandler) Batches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	productID := inventoryPathProduct(r.URL.Path, "/batches")
	if productID == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "product ID is required", h.logger)
		return
	}

	batches, err := h.service.ProductStock(r.Context(), productID)
	if err != nil {
		var domainErr *model.DomainError
		if errors.As(err, &domainErr) {
			writeDomainError(w, domainErr, h.logger)
			return
		}
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to list batches", h.logger)
		return
	}

	if batches == nil {
		batches = []model.InventoryBatch{}
	}

	writeJSON(w, http.StatusOK, batches)
}

// Restock handles POST /api/inventory/batches.
func (h *InventoryHandler) Restock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	var req model.RestockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	batch, err := h.service.Restock(r.Context(), &req)
	if err != nil {
		var domainErr *model.DomainError
		if errors.As(err, &domainErr) {
			writeDomainError(w, domainErr, h.logger)
			return
		}
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to restock", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, batch)
}

// inventoryPathProduct extracts the product ID from paths of the form
// /api/inventory/{productId}<suffix>.
func inventoryPathProduct(path, suffix string) string {
	trimmed := strings.TrimPrefix(path, "/api/inventory/")
	if trimmed == path {
		return ""
	}
	return strings.TrimSuffix(trimmed, suffix)
}
