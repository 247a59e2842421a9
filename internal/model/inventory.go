package model

import (
	"time"

	"github.com/google/uuid"
)

// Batch status values. A batch is active while it has stock remaining and
// becomes depleted exactly when quantity_available reaches zero.
const (
	BatchStatusActive   = "active"
	BatchStatusDepleted = "depleted"
)

// InventoryBatch is a dated lot of stock for one product. Batches for the
// same product are depleted independently, oldest production date first.
type InventoryBatch struct {
	ID                uuid.UUID `json:"id" db:"id"`
	ProductID         string    `json:"productId" db:"product_id"`
	BatchLabel        string    `json:"batchLabel" db:"batch_label"`
	ProducedAt        time.Time `json:"producedAt" db:"produced_at"`
	QuantityAvailable int       `json:"quantityAvailable" db:"quantity_available"`
	Status            string    `json:"status" db:"status"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at"`
}

// RestockRequest is the payload for creating a new inventory batch.
type RestockRequest struct {
	ProductID  string    `json:"productId"`
	BatchLabel string    `json:"batchLabel"`
	ProducedAt time.Time `json:"producedAt"`
	Quantity   int       `json:"quantity"`
}

// Availability reports summed active stock for a product against a
// requested quantity.
type Availability struct {
	ProductID string `json:"productId"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
	Fulfilled bool   `json:"fulfilled"`
}
