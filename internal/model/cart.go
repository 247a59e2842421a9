package model

// CartLine is one line of the buyer's cart as submitted at checkout.
// Lines are unique per product; the price is the unit price the buyer saw
// and is snapshotted onto the order line at placement time.
type CartLine struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Category  string  `json:"category,omitempty"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
}
