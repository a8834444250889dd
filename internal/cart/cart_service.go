package cart

import (
	"context"
	"fmt"

	"github.com/ecom-labs/storefront/internal/domain"
	"github.com/ecom-labs/storefront/internal/repository"
	"github.com/shopspring/decimal"
)

type AdjustAction string

const (
	AdjustIncrease AdjustAction = "increase"
	AdjustDecrease AdjustAction = "decrease"
)

var ErrUnknownAction = fmt.Errorf("unknown cart adjust action")

type Service struct {
	repo repository.CartRepository
}

func NewService(repo repository.CartRepository) *Service {
	return &Service{repo: repo}
}

// Add puts one unit of the product into the user's cart: a new row starts
// at quantity 1, an existing one is incremented. Safe to call repeatedly.
func (s *Service) Add(ctx context.Context, userID, productID int64) (*domain.CartItem, error) {
	return s.repo.AddItem(ctx, userID, productID)
}

// AdjustQuantity moves an existing item up or down by one. Decrease at
// quantity 1 is a no-op; the row is never driven to zero here.
func (s *Service) AdjustQuantity(ctx context.Context, userID, productID int64, action AdjustAction) (*domain.CartItem, error) {
	item, err := s.repo.GetItem(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	switch action {
	case AdjustIncrease:
		return s.repo.UpdateQuantity(ctx, userID, productID, item.Quantity+1)
	case AdjustDecrease:
		if item.Quantity <= 1 {
			return item, nil
		}
		return s.repo.UpdateQuantity(ctx, userID, productID, item.Quantity-1)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
}

func (s *Service) Remove(ctx context.Context, userID, productID int64) error {
	return s.repo.RemoveItem(ctx, userID, productID)
}

// List returns the cart lines priced at current catalog prices plus the
// live total. Totals are frozen only at checkout.
func (s *Service) List(ctx context.Context, userID int64) (*domain.Cart, error) {
	lines, err := s.repo.ListLines(ctx, userID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal())
	}

	return &domain.Cart{
		UserID: userID,
		Lines:  lines,
		Total:  total,
	}, nil
}
