package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/streck/storefront-api/internal/core/domain"
	"github.com/streck/storefront-api/internal/core/ports"
)

const idempotencyScope = "product-types"

type ProductTypeService struct {
	repo        ports.ProductTypeRepository
	idempotency ports.IdempotencyStore // optional
	log         zerolog.Logger
}

// NewProductTypeService wires the service. idempotency may be nil, in which
// case Idempotency-Key headers are ignored.
func NewProductTypeService(repo ports.ProductTypeRepository, idempotency ports.IdempotencyStore, log zerolog.Logger) *ProductTypeService {
	return &ProductTypeService{repo: repo, idempotency: idempotency, log: log}
}

// List returns product types ordered by sort order. An empty status returns
// every record; an unknown status simply matches nothing.
func (s *ProductTypeService) List(ctx context.Context, status string) ([]domain.ProductType, error) {
	items, err := s.repo.List(ctx, ports.ProductTypeFilter{Status: domain.ProductTypeStatus(status)})
	if err != nil {
		return nil, fmt.Errorf("list product types: %w", err)
	}
	return items, nil
}

func (s *ProductTypeService) Create(ctx context.Context, in ports.CreateProductTypeInput) (*domain.ProductType, error) {
	if in.Name == "" || in.Slug == "" {
		return nil, domain.NewValidationError("Name and slug are required")
	}

	status := domain.ProductTypeActive
	if in.Status != "" {
		status = domain.ProductTypeStatus(in.Status)
		if !status.Valid() {
			return nil, &domain.ValidationError{Message: domain.ErrInvalidStatus.Error(), Cause: domain.ErrInvalidStatus}
		}
	}
	sortOrder := 0
	if in.SortOrder != nil {
		sortOrder = *in.SortOrder
	}

	claimed := false
	if in.IdempotencyKey != "" && s.idempotency != nil {
		fresh, err := s.idempotency.Claim(ctx, idempotencyScope, in.IdempotencyKey)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("idempotency claim failed, creating anyway")
		case !fresh:
			return nil, domain.ErrDuplicateRequest
		default:
			claimed = true
		}
	}

	pt, err := s.insert(ctx, in, status, sortOrder)
	if err != nil {
		if claimed {
			s.release(ctx, in.IdempotencyKey)
		}
		return nil, err
	}

	s.log.Info().Str("id", pt.ID.String()).Str("slug", pt.Slug).Msg("product type created")
	return pt, nil
}

func (s *ProductTypeService) insert(ctx context.Context, in ports.CreateProductTypeInput, status domain.ProductTypeStatus, sortOrder int) (*domain.ProductType, error) {
	if _, err := s.repo.FindBySlug(ctx, in.Slug); err == nil {
		return nil, domain.ErrDuplicateSlug
	} else if !errors.Is(err, domain.ErrProductTypeMissing) {
		return nil, fmt.Errorf("check slug: %w", err)
	}

	pt := &domain.ProductType{
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		Status:      status,
		SortOrder:   sortOrder,
	}
	if err := s.repo.Create(ctx, pt); err != nil {
		if errors.Is(err, domain.ErrDuplicateSlug) {
			return nil, err
		}
		return nil, fmt.Errorf("create product type: %w", err)
	}
	return pt, nil
}

// release frees a claimed key after a failed create. It ignores cancellation
// of the request context.
func (s *ProductTypeService) release(ctx context.Context, key string) {
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := s.idempotency.Release(rctx, idempotencyScope, key); err != nil {
		s.log.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency release failed")
	}
}
