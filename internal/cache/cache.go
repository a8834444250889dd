package cache

import (
	"context"
	"errors"

	"github.com/ecom-labs/storefront/internal/domain"
)

type ProductCache interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	SetProduct(ctx context.Context, product *domain.Product) error
	GetProductList(ctx context.Context) ([]*domain.Product, error)
	SetProductList(ctx context.Context, products []*domain.Product) error
}

var ErrCacheMiss = errors.New("cache miss")
