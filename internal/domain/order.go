package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "PENDING"
	OrderStatusPaid    OrderStatus = "PAID"
	OrderStatusFailed  OrderStatus = "FAILED"
)

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusPaid || s == OrderStatusFailed
}

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo reports whether an order may move from one status to
// another. PAID and FAILED are terminal.
func CanTransitionTo(from, to OrderStatus) bool {
	if from.IsTerminal() {
		return false
	}
	return from == OrderStatusPending && (to == OrderStatusPaid || to == OrderStatusFailed)
}

// OrderItem is a frozen copy of a cart line at checkout time. Catalog
// price changes after checkout never reach these fields.
type OrderItem struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Order struct {
	ID          uuid.UUID
	UserID      int64
	TotalAmount decimal.Decimal
	Currency    string
	Status      OrderStatus
	Items       []OrderItem

	// Correlation identifiers returned by the payment gateway; empty
	// until the order is paid.
	GatewayOrderID   string
	GatewayPaymentID string

	CreatedAt time.Time
	UpdatedAt time.Time
}
