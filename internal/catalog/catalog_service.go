package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/ecom-labs/storefront/internal/cache"
	"github.com/ecom-labs/storefront/internal/domain"
	"github.com/ecom-labs/storefront/internal/repository"
	"golang.org/x/sync/singleflight"
)

// Service serves catalog reads through a Redis read-through cache. Cache
// trouble degrades to the repository, never to a caller-visible error.
type Service struct {
	repo  repository.ProductRepository
	cache cache.ProductCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewService(repo repository.ProductRepository, cache cache.ProductCache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	v, err, _ := s.sfg.Do(fmt.Sprintf("product:%d", id), func() (interface{}, error) {
		product, err := s.cache.GetProduct(ctx, id)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		product, errGet := s.repo.GetProduct(ctx, id)
		if errGet != nil {
			return nil, errGet
		}

		go func() {
			if errSet := s.cache.SetProduct(context.Background(), product); errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return product, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*domain.Product), nil
}

func (s *Service) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	v, err, _ := s.sfg.Do("products:all", func() (interface{}, error) {
		products, err := s.cache.GetProductList(ctx)
		if err == nil {
			return products, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err)
		}

		products, errList := s.repo.ListProducts(ctx)
		if errList != nil {
			return nil, errList
		}

		go func() {
			if errSet := s.cache.SetProductList(context.Background(), products); errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return products, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]*domain.Product), nil
}

func (s *Service) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.repo.ListCategories(ctx)
}
