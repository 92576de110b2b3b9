package repository

import (
	"context"
	"github.com/kahvecikaan/product-catalog-api/internal/domain"
)

// ProductRepository is the persistence contract for products.
//
// Save inserts a product with a store-assigned id when p.ID is zero. A non-zero
// id updates the stored row when it exists and otherwise inserts a new row with
// a store-assigned id. FindByID and Delete return domain.ErrProductNotFound
// when the product is absent.
type ProductRepository interface {
	Save(ctx context.Context, p *domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	FindAll(ctx context.Context, req domain.PageRequest) (*domain.Page, error)
	Delete(ctx context.Context, p *domain.Product) error
}
