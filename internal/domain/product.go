package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID   int64
	Name string
}

// Product is a catalog entry. The catalog is managed externally; the
// storefront only reads it.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	CategoryID  int64
	ImageURL    string
	CreatedAt   time.Time
}
