package model

import (
	"time"

	"github.com/google/uuid"
)

// Order status values. Transitions are forward-only:
// pending -> confirmed, or pending -> failed/cancelled.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusFailed    = "failed"
	OrderStatusCancelled = "cancelled"
)

// Order is a persisted order header.
type Order struct {
	ID                 uuid.UUID         `json:"id" db:"id"`
	OrderNumber        string            `json:"orderNumber" db:"order_number"`
	BuyerID            string            `json:"buyerId" db:"buyer_id"`
	Status             string            `json:"status" db:"status"`
	Subtotal           float64           `json:"subtotal" db:"subtotal"`
	Tax                float64           `json:"tax" db:"tax"`
	Shipping           float64           `json:"shipping" db:"shipping"`
	TotalAmount        float64           `json:"totalAmount" db:"total_amount"`
	DestinationAddress Address           `json:"destinationAddress" db:"destination_address"`
	Metadata           map[string]string `json:"metadata,omitempty" db:"metadata"`
	PlacedAt           time.Time         `json:"placedAt" db:"placed_at"`
	UpdatedAt          time.Time         `json:"updatedAt" db:"updated_at"`
}

// OrderLine is one immutable line of a persisted order. The product name
// is snapshotted so later catalogue edits do not rewrite order history.
type OrderLine struct {
	ID          uuid.UUID `json:"-" db:"id"`
	OrderID     uuid.UUID `json:"-" db:"order_id"`
	ProductID   string    `json:"productId" db:"product_id"`
	ProductName string    `json:"productName" db:"product_name"`
	Quantity    int       `json:"quantity" db:"quantity"`
	UnitPrice   float64   `json:"unitPrice" db:"unit_price"`
	LineTotal   float64   `json:"lineTotal" db:"line_total"`
}

// Address is a shipping destination.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	Region     string `json:"region"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// OrderRequest is the request payload for placing an order.
type OrderRequest struct {
	BuyerID            string            `json:"buyerId"`
	Lines              []CartLine        `json:"lines"`
	DestinationAddress Address           `json:"destinationAddress"`
	Metadata           map[string]string `json:"metadata,omitempty"`
}

// OrderResponse is the response payload for a placed or retrieved order.
type OrderResponse struct {
	ID                 uuid.UUID   `json:"id"`
	OrderNumber        string      `json:"orderNumber"`
	BuyerID            string      `json:"buyerId"`
	Status             string      `json:"status"`
	Subtotal           float64     `json:"subtotal"`
	Tax                float64     `json:"tax"`
	Shipping           float64     `json:"shipping"`
	TotalAmount        float64     `json:"totalAmount"`
	DestinationAddress Address     `json:"destinationAddress"`
	Lines              []OrderLine `json:"lines"`
	PlacedAt           time.Time   `json:"placedAt"`
}
