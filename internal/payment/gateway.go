package payment

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrDeclined means the gateway processed the charge and refused it. It is
// a business outcome, distinct from transport or timeout errors.
var ErrDeclined = errors.New("payment declined by gateway")

type ChargeRequest struct {
	OrderID  string
	Amount   decimal.Decimal
	Currency string
}

// ChargeResult carries the gateway's correlation identifiers for a
// successful charge.
type ChargeResult struct {
	GatewayOrderID   string
	GatewayPaymentID string
}

type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}
