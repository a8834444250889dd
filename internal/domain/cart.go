package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one (user, product) row of the cart ledger. Quantity is
// always >= 1; a row that would drop to zero is deleted instead.
type CartItem struct {
	UserID    int64
	ProductID int64
	Quantity  int
	AddedAt   time.Time
	UpdatedAt time.Time
}

// CartLine joins a cart item with the current catalog name and price.
// Prices here are live, not frozen; freezing happens at checkout.
type CartLine struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Cart struct {
	UserID int64           `json:"user_id"`
	Lines  []CartLine      `json:"lines"`
	Total  decimal.Decimal `json:"total"`
}
