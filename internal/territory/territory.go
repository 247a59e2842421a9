package territory

import (
	"context"
)

// Checker answers whether a destination postal code falls inside the
// serviceable shipping territory.
type Checker interface {
	// Serviceable reports whether orders can ship to the postal code.
	Serviceable(postalCode string) bool
}

// ZoneSet holds postal-code prefixes for fast serviceability lookups.
type ZoneSet interface {
	// Covers checks whether the postal code matches any zone prefix.
	Covers(postalCode string) bool

	// Size returns the number of zone prefixes in the set.
	Size() int
}

// Loader loads a gzipped zone file (one postal prefix per line) into a ZoneSet.
type Loader interface {
	Load(ctx context.Context, path string) (ZoneSet, error)
}

// AllowAll is a Checker that accepts every destination. Used when territory
// checking is disabled in configuration.
type AllowAll struct{}

// Serviceable always returns true.
func (AllowAll) Serviceable(string) bool { return true }
