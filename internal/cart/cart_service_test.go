package cart

import (
	"context"
	"database/sql"
	"testing"

	"github.com/ecom-labs/storefront/internal/domain"
	"github.com/ecom-labs/storefront/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockCartRepository implements repository.CartRepository for testing
type MockCartRepository struct {
	Item  *domain.CartItem
	Lines []domain.CartLine
	Err   error

	// Captures the quantity passed to UpdateQuantity; nil means not called
	UpdatedQuantity *int
	Removed         bool
}

func (m *MockCartRepository) AddItem(_ context.Context, userID, productID int64) (*domain.CartItem, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Item, nil
}

func (m *MockCartRepository) GetItem(_ context.Context, _, _ int64) (*domain.CartItem, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Item, nil
}

func (m *MockCartRepository) UpdateQuantity(_ context.Context, userID, productID int64, quantity int) (*domain.CartItem, error) {
	m.UpdatedQuantity = &quantity
	updated := *m.Item
	updated.Quantity = quantity
	return &updated, nil
}

func (m *MockCartRepository) RemoveItem(_ context.Context, _, _ int64) error {
	if m.Err != nil {
		return m.Err
	}
	m.Removed = true
	return nil
}

func (m *MockCartRepository) ListLines(_ context.Context, _ int64) ([]domain.CartLine, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Lines, nil
}

func (m *MockCartRepository) ListLinesForUpdate(_ context.Context, _ *sql.Tx, _ int64) ([]domain.CartLine, error) {
	return m.Lines, m.Err
}

func (m *MockCartRepository) ClearCart(_ context.Context, _ *sql.Tx, _ int64) error {
	return m.Err
}

func TestAdjustQuantity_Increase(t *testing.T) {
	repo := &MockCartRepository{Item: &domain.CartItem{UserID: 1, ProductID: 7, Quantity: 2}}
	svc := NewService(repo)

	item, err := svc.AdjustQuantity(context.Background(), 1, 7, AdjustIncrease)

	require.NoError(t, err)
	assert.Equal(t, 3, item.Quantity)
	require.NotNil(t, repo.UpdatedQuantity)
	assert.Equal(t, 3, *repo.UpdatedQuantity)
}

func TestAdjustQuantity_Decrease(t *testing.T) {
	repo := &MockCartRepository{Item: &domain.CartItem{UserID: 1, ProductID: 7, Quantity: 2}}
	svc := NewService(repo)

	item, err := svc.AdjustQuantity(context.Background(), 1, 7, AdjustDecrease)

	require.NoError(t, err)
	assert.Equal(t, 1, item.Quantity)
}

func TestAdjustQuantity_DecreaseAtOneIsNoOp(t *testing.T) {
	repo := &MockCartRepository{Item: &domain.CartItem{UserID: 1, ProductID: 7, Quantity: 1}}
	svc := NewService(repo)

	item, err := svc.AdjustQuantity(context.Background(), 1, 7, AdjustDecrease)

	require.NoError(t, err)
	assert.Equal(t, 1, item.Quantity)
	assert.Nil(t, repo.UpdatedQuantity, "quantity 1 must not be written back")
}

func TestAdjustQuantity_UnknownAction(t *testing.T) {
	repo := &MockCartRepository{Item: &domain.CartItem{UserID: 1, ProductID: 7, Quantity: 1}}
	svc := NewService(repo)

	item, err := svc.AdjustQuantity(context.Background(), 1, 7, AdjustAction("double"))

	assert.Nil(t, item)
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestAdjustQuantity_ItemMissing(t *testing.T) {
	repo := &MockCartRepository{Err: repository.ErrCartItemNotFound}
	svc := NewService(repo)

	item, err := svc.AdjustQuantity(context.Background(), 1, 7, AdjustIncrease)

	assert.Nil(t, item)
	assert.ErrorIs(t, err, repository.ErrCartItemNotFound)
}

func TestList_TotalsAcrossLines(t *testing.T) {
	repo := &MockCartRepository{Lines: []domain.CartLine{
		{ProductID: 1, ProductName: "productA", Quantity: 2, UnitPrice: decimal.NewFromInt(10)},
		{ProductID: 2, ProductName: "productB", Quantity: 1, UnitPrice: decimal.NewFromInt(15)},
	}}
	svc := NewService(repo)

	cart, err := svc.List(context.Background(), 1)

	require.NoError(t, err)
	assert.Len(t, cart.Lines, 2)
	assert.Equal(t, "35", cart.Total.String())
	assert.Equal(t, "20", cart.Lines[0].Subtotal().String())
}

func TestList_EmptyCart(t *testing.T) {
	repo := &MockCartRepository{}
	svc := NewService(repo)

	cart, err := svc.List(context.Background(), 1)

	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
	assert.True(t, cart.Total.IsZero())
}
