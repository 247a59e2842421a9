package model

import "time"

// Product represents a catalogue product.
// Wholesale and retail prices are carried separately because distributor
// and storefront buyers see different price lists.
type Product struct {
	ID             string            `json:"id" db:"id"`
	Name           string            `json:"name" db:"name"`
	WholesalePrice float64           `json:"wholesalePrice" db:"wholesale_price"`
	RetailPrice    float64           `json:"retailPrice" db:"retail_price"`
	Category       string            `json:"category" db:"category"`
	Attributes     map[string]string `json:"attributes,omitempty" db:"attributes"`
	CreatedAt      time.Time         `json:"createdAt" db:"created_at"`
}
