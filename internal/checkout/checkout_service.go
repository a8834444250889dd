package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ecom-labs/storefront/internal/domain"
	"github.com/ecom-labs/storefront/internal/payment"
	"github.com/ecom-labs/storefront/internal/repository"
	"github.com/google/uuid"
)

type Service struct {
	orders  repository.OrderRepository
	gateway payment.Gateway

	currency      string
	chargeTimeout time.Duration
}

func NewService(orders repository.OrderRepository, gateway payment.Gateway, chargeTimeout time.Duration) *Service {
	return &Service{
		orders:        orders,
		gateway:       gateway,
		currency:      "USD",
		chargeTimeout: chargeTimeout,
	}
}

// Checkout snapshots the user's cart into a PENDING order (clearing the
// cart in the same transaction), then charges the payment gateway and
// settles the order as PAID or FAILED. The order's total and line items are
// frozen at snapshot time; a failed or timed-out charge never touches them.
//
// On payment failure the FAILED order is returned together with the
// payment error so the caller can surface both.
func (s *Service) Checkout(ctx context.Context, userID int64) (*domain.Order, error) {
	order, err := s.orders.CreateOrderFromCart(ctx, userID, s.currency)
	if err != nil {
		if errors.Is(err, repository.ErrEmptyCart) {
			return nil, ErrEmptyCart
		}
		return nil, fmt.Errorf("create order from cart: %w", err)
	}

	chargeCtx, cancel := context.WithTimeout(ctx, s.chargeTimeout)
	defer cancel()

	result, payErr := s.gateway.Charge(chargeCtx, payment.ChargeRequest{
		OrderID:  order.ID.String(),
		Amount:   order.TotalAmount,
		Currency: order.Currency,
	})
	if payErr != nil {
		// Decline, timeout, transport failure, open breaker: all of them
		// settle the order as FAILED rather than leaving it PENDING.
		if err := s.settle(ctx, order, domain.OrderStatusFailed, nil); err != nil {
			log.Printf("failed to mark order %v as failed: %v", order.ID, err)
		}
		return order, fmt.Errorf("payment for order %v: %w", order.ID, payErr)
	}

	if err := s.settle(ctx, order, domain.OrderStatusPaid, result); err != nil {
		return order, err
	}

	return order, nil
}

func (s *Service) settle(ctx context.Context, order *domain.Order, status domain.OrderStatus, result *payment.ChargeResult) error {
	if !domain.CanTransitionTo(order.Status, status) {
		return ErrIllegalTransition
	}

	// The order may outlive a cancelled request context; settling must not.
	if ctx.Err() != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
	}

	switch status {
	case domain.OrderStatusPaid:
		if err := s.orders.MarkPaid(ctx, order.ID, result.GatewayOrderID, result.GatewayPaymentID); err != nil {
			return fmt.Errorf("mark order paid: %w", err)
		}
		order.GatewayOrderID = result.GatewayOrderID
		order.GatewayPaymentID = result.GatewayPaymentID
	case domain.OrderStatusFailed:
		if err := s.orders.MarkFailed(ctx, order.ID); err != nil {
			return fmt.Errorf("mark order failed: %w", err)
		}
	default:
		return ErrIllegalTransition
	}

	order.Status = status
	return nil
}

// GetOrder returns the user's order; other users' orders are invisible.
func (s *Service) GetOrder(ctx context.Context, userID int64, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.orders.GetOrderByID(ctx, orderID)
	if errors.Is(err, repository.ErrOrderNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrOrderNotFound
	}

	return order, nil
}

func (s *Service) ListOrders(ctx context.Context, userID int64) ([]*domain.Order, error) {
	return s.orders.ListOrdersByUserID(ctx, userID)
}
