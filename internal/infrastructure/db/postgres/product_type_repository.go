package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/streck/storefront-api/internal/core/domain"
	"github.com/streck/storefront-api/internal/core/ports"
)

// ProductTypeRepository implements ports.ProductTypeRepository with GORM.
type ProductTypeRepository struct {
	db *gorm.DB
}

func NewProductTypeRepository(db *gorm.DB) *ProductTypeRepository {
	return &ProductTypeRepository{db: db}
}

func (r *ProductTypeRepository) List(ctx context.Context, filter ports.ProductTypeFilter) ([]domain.ProductType, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := r.db.WithContext(ctx).Model(&domain.ProductType{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	items := make([]domain.ProductType, 0)
	if err := q.Order("sort_order ASC").Order("name ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list product types: %w", err)
	}
	return items, nil
}

func (r *ProductTypeRepository) FindBySlug(ctx context.Context, slug string) (*domain.ProductType, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var pt domain.ProductType
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&pt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductTypeMissing
		}
		return nil, fmt.Errorf("find product type: %w", err)
	}
	return &pt, nil
}

func (r *ProductTypeRepository) Create(ctx context.Context, pt *domain.ProductType) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(pt).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateSlug
		}
		return fmt.Errorf("insert product type: %w", err)
	}
	return nil
}
