package checkout

import (
	"context"

	"github.com/ecom-labs/storefront/internal/domain"
	"github.com/ecom-labs/storefront/internal/payment"
	"github.com/ecom-labs/storefront/internal/repository"
	"github.com/google/uuid"
)

// MockOrderRepository implements repository.OrderRepository for testing
type MockOrderRepository struct {
	CreatedOrder *domain.Order
	CreateErr    error

	Order  *domain.Order
	Orders []*domain.Order
	GetErr error

	MarkPaidErr   error
	MarkFailedErr error

	// Captures what the service settled with
	PaidID           *uuid.UUID
	PaidGatewayOrder string
	PaidGatewayPay   string
	FailedID         *uuid.UUID
}

func (m *MockOrderRepository) CreateOrderFromCart(_ context.Context, _ int64, _ string) (*domain.Order, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	return m.CreatedOrder, nil
}

func (m *MockOrderRepository) MarkPaid(_ context.Context, id uuid.UUID, gatewayOrderID, gatewayPaymentID string) error {
	if m.MarkPaidErr != nil {
		return m.MarkPaidErr
	}
	m.PaidID = &id
	m.PaidGatewayOrder = gatewayOrderID
	m.PaidGatewayPay = gatewayPaymentID
	return nil
}

func (m *MockOrderRepository) MarkFailed(_ context.Context, id uuid.UUID) error {
	if m.MarkFailedErr != nil {
		return m.MarkFailedErr
	}
	m.FailedID = &id
	return nil
}

func (m *MockOrderRepository) GetOrderByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if m.Order == nil || m.Order.ID != id {
		return nil, repository.ErrOrderNotFound
	}
	return m.Order, nil
}

func (m *MockOrderRepository) ListOrdersByUserID(_ context.Context, _ int64) ([]*domain.Order, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.Orders, nil
}

// MockGateway implements payment.Gateway for testing
type MockGateway struct {
	Result *payment.ChargeResult
	Err    error

	// Captures the last charge request
	Request *payment.ChargeRequest
}

func (m *MockGateway) Charge(_ context.Context, req payment.ChargeRequest) (*payment.ChargeResult, error) {
	m.Request = &req
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}
