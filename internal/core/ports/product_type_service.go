package ports

import (
	"context"

	"github.com/streck/storefront-api/internal/core/domain"
)

// CreateProductTypeInput carries the fields accepted by POST /api/product-types.
type CreateProductTypeInput struct {
	Name           string
	Slug           string
	Description    *string
	Status         string
	SortOrder      *int
	IdempotencyKey string
}

type ProductTypeService interface {
	List(ctx context.Context, status string) ([]domain.ProductType, error)
	Create(ctx context.Context, input CreateProductTypeInput) (*domain.ProductType, error)
}
