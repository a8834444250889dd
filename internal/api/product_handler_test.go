package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ecom-labs/storefront/internal/domain"
	"github.com/ecom-labs/storefront/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// CatalogServiceMock implements CatalogService for testing
type CatalogServiceMock struct {
	Product    *domain.Product
	Products   []*domain.Product
	Categories []*domain.Category
	Err        error
}

func (m *CatalogServiceMock) GetProduct(_ context.Context, _ int64) (*domain.Product, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Product, nil
}

func (m *CatalogServiceMock) ListProducts(_ context.Context) ([]*domain.Product, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Products, nil
}

func (m *CatalogServiceMock) ListCategories(_ context.Context) ([]*domain.Category, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Categories, nil
}

func TestListProducts_Success(t *testing.T) {
	mock := &CatalogServiceMock{Products: []*domain.Product{
		{ID: 1, Name: "productA", Price: decimal.RequireFromString("10.00"), CategoryID: 1},
		{ID: 2, Name: "productB", Price: decimal.RequireFromString("15.00"), CategoryID: 1},
	}}
	handler := NewProductHandler(mock, 5*time.Second)

	recorder := httptest.NewRecorder()
	handler.List(recorder, httptest.NewRequest("GET", "/api/v1/products", nil))

	require.Equal(t, http.StatusOK, recorder.Code)

	var response ProductsResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	require.Len(t, response.Products, 2)
	assert.Equal(t, "productA", response.Products[0].Name)
}

func TestGetProduct_Success(t *testing.T) {
	mock := &CatalogServiceMock{Product: &domain.Product{
		ID: 1, Name: "productA", Price: decimal.RequireFromString("10.00"), CategoryID: 1,
	}}
	handler := NewProductHandler(mock, 5*time.Second)

	request := withURLParam(httptest.NewRequest("GET", "/api/v1/products/1", nil), "id", "1")
	recorder := httptest.NewRecorder()
	handler.Get(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var response ProductResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, int64(1), response.ID)
	assert.True(t, response.Price.Equal(decimal.NewFromInt(10)))
}

func TestGetProduct_NotFound(t *testing.T) {
	handler := NewProductHandler(&CatalogServiceMock{Err: repository.ErrProductNotFound}, 5*time.Second)

	request := withURLParam(httptest.NewRequest("GET", "/api/v1/products/999", nil), "id", "999")
	recorder := httptest.NewRecorder()
	handler.Get(recorder, request)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestGetProduct_BadID(t *testing.T) {
	handler := NewProductHandler(&CatalogServiceMock{}, 5*time.Second)

	request := withURLParam(httptest.NewRequest("GET", "/api/v1/products/abc", nil), "id", "abc")
	recorder := httptest.NewRecorder()
	handler.Get(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestListCategories_Success(t *testing.T) {
	mock := &CatalogServiceMock{Categories: []*domain.Category{{ID: 1, Name: "books"}}}
	handler := NewProductHandler(mock, 5*time.Second)

	recorder := httptest.NewRecorder()
	handler.ListCategories(recorder, httptest.NewRequest("GET", "/api/v1/categories", nil))

	require.Equal(t, http.StatusOK, recorder.Code)

	var response []CategoryResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	require.Len(t, response, 1)
	assert.Equal(t, "books", response[0].Name)
}
