package ports

import (
	"context"

	"github.com/streck/storefront-api/internal/core/domain"
)

// ProductTypeFilter narrows List results. Zero values mean "no filter".
type ProductTypeFilter struct {
	Status domain.ProductTypeStatus
}

// ProductTypeRepository defines persistence for product types.
type ProductTypeRepository interface {
	// List returns matching records ordered by sort_order, then name.
	List(ctx context.Context, filter ProductTypeFilter) ([]domain.ProductType, error)
	// FindBySlug returns domain.ErrProductTypeMissing when nothing matches.
	FindBySlug(ctx context.Context, slug string) (*domain.ProductType, error)
	// Create returns domain.ErrDuplicateSlug on a unique-slug violation.
	Create(ctx context.Context, pt *domain.ProductType) error
}

// IdempotencyStore remembers request keys that were already seen.
type IdempotencyStore interface {
	// Claim returns false when key was claimed before.
	Claim(ctx context.Context, scope, key string) (bool, error)
	// Release forgets a claimed key so the request can be retried.
	Release(ctx context.Context, scope, key string) error
}
