package http_test

import (
	"context"

	"github.com/co-developer342/fyp-wednesday/internal/cart"
	"github.com/co-developer342/fyp-wednesday/internal/catalog"
	"github.com/co-developer342/fyp-wednesday/internal/orders"
	"github.com/co-developer342/fyp-wednesday/internal/payment"
)

type CatalogClientMock struct {
	ListProductsFunc    func(ctx context.Context) ([]catalog.Product, error)
	GetProductFunc      func(ctx context.Context, slug string) (*catalog.Product, error)
	RelatedProductsFunc func(ctx context.Context, productID, categoryID string) ([]catalog.Product, error)
}

func (m *CatalogClientMock) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	if m.ListProductsFunc != nil {
		return m.ListProductsFunc(ctx)
	}
	return nil, nil
}

func (m *CatalogClientMock) GetProduct(ctx context.Context, slug string) (*catalog.Product, error) {
	if m.GetProductFunc != nil {
		return m.GetProductFunc(ctx, slug)
	}
	return nil, nil
}

func (m *CatalogClientMock) RelatedProducts(ctx context.Context, productID, categoryID string) ([]catalog.Product, error) {
	if m.RelatedProductsFunc != nil {
		return m.RelatedProductsFunc(ctx, productID, categoryID)
	}
	return nil, nil
}

type OrdersClientMock struct {
	CreateFunc     func(ctx context.Context, nonce string, items []cart.LineItem) (*orders.Confirmation, error)
	ListByUserFunc func(ctx context.Context, userID string) ([]orders.Order, error)
}

func (m *OrdersClientMock) Create(ctx context.Context, nonce string, items []cart.LineItem) (*orders.Confirmation, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, nonce, items)
	}
	return &orders.Confirmation{OrderID: "order-1", Status: "pending"}, nil
}

func (m *OrdersClientMock) ListByUser(ctx context.Context, userID string) ([]orders.Order, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

type ProviderMock struct {
	ClientTokenFunc func(ctx context.Context) (string, error)
}

func (m *ProviderMock) ClientToken(ctx context.Context) (string, error) {
	if m.ClientTokenFunc != nil {
		return m.ClientTokenFunc(ctx)
	}
	return "tok-1", nil
}

type MethodMock struct {
	RequestNonceFunc func(ctx context.Context) (string, error)
}

func (m *MethodMock) RequestNonce(ctx context.Context) (string, error) {
	if m.RequestNonceFunc != nil {
		return m.RequestNonceFunc(ctx)
	}
	return "nonce-1", nil
}

type MethodSourceMock struct {
	MethodFunc func(clientToken string) payment.Method
}

func (m *MethodSourceMock) Method(clientToken string) payment.Method {
	if m.MethodFunc != nil {
		return m.MethodFunc(clientToken)
	}
	return &MethodMock{}
}
