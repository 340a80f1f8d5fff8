package service

import (
	"context"
	"errors"

	"github.com/CampiteliRafael/cartEcommerce/internal/domain"
	"github.com/CampiteliRafael/cartEcommerce/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CatalogService is the read-only product catalog.
type CatalogService struct {
	products repository.ProductRepository
}

func NewCatalogService(products repository.ProductRepository) *CatalogService {
	return &CatalogService{products: products}
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.products.GetAllProducts(ctx)
	if err != nil {
		return nil, internalError("failed to list products", err)
	}
	return products, nil
}

// GetProduct treats a malformed id like an unknown one.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	product, err := s.products.GetProduct(ctx, oid)
	if errors.Is(err, repository.ErrProductNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, internalError("failed to get product", err)
	}
	return product, nil
}

// Seed replaces the whole catalog.
func (s *CatalogService) Seed(ctx context.Context, products []domain.Product) ([]*domain.Product, error) {
	inserted, err := s.products.ReplaceAll(ctx, products)
	if err != nil {
		return nil, internalError("failed to seed products", err)
	}
	return inserted, nil
}
