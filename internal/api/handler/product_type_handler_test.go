package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/streck/storefront-api/internal/core/domain"
	"github.com/streck/storefront-api/internal/core/ports"
)

type stubProductTypeService struct {
	listFn   func(ctx context.Context, status string) ([]domain.ProductType, error)
	createFn func(ctx context.Context, in ports.CreateProductTypeInput) (*domain.ProductType, error)
}

func (s *stubProductTypeService) List(ctx context.Context, status string) ([]domain.ProductType, error) {
	return s.listFn(ctx, status)
}

func (s *stubProductTypeService) Create(ctx context.Context, in ports.CreateProductTypeInput) (*domain.ProductType, error) {
	return s.createFn(ctx, in)
}

func TestProductTypeHandler_List(t *testing.T) {
	stub := &stubProductTypeService{
		listFn: func(_ context.Context, status string) ([]domain.ProductType, error) {
			if status != "active" {
				t.Fatalf("expected status filter, got %q", status)
			}
			return []domain.ProductType{{ID: uuid.New(), Name: "Caps", Slug: "caps", Status: domain.ProductTypeActive}}, nil
		},
	}

	c, rec := newJSONContext(http.MethodGet, "/api/product-types?status=active", "")
	if err := NewProductTypeHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0]["slug"] != "caps" {
		t.Fatalf("unexpected data: %+v", resp.Data)
	}
}

func TestProductTypeHandler_List_EmptyIsArray(t *testing.T) {
	stub := &stubProductTypeService{
		listFn: func(context.Context, string) ([]domain.ProductType, error) {
			return []domain.ProductType{}, nil
		},
	}

	c, rec := newJSONContext(http.MethodGet, "/api/product-types", "")
	if err := NewProductTypeHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := rec.Body.String(); got != "{\"data\":[]}\n" {
		t.Fatalf("expected empty array, got %q", got)
	}
}

func TestProductTypeHandler_Create(t *testing.T) {
	stub := &stubProductTypeService{
		createFn: func(_ context.Context, in ports.CreateProductTypeInput) (*domain.ProductType, error) {
			if in.Name != "Posters" || in.Slug != "posters" || in.IdempotencyKey != "req-1" {
				t.Fatalf("unexpected input: %+v", in)
			}
			if in.SortOrder == nil || *in.SortOrder != 2 {
				t.Fatalf("expected sort order 2")
			}
			return &domain.ProductType{ID: uuid.New(), Name: in.Name, Slug: in.Slug, Status: domain.ProductTypeActive, SortOrder: 2}, nil
		},
	}

	c, rec := newJSONContext(http.MethodPost, "/api/product-types", `{"name":"Posters","slug":"posters","sortOrder":2}`)
	c.Request().Header.Set("Idempotency-Key", "req-1")

	if err := NewProductTypeHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Data["slug"] != "posters" || resp.Data["sortOrder"] != float64(2) {
		t.Fatalf("unexpected data: %+v", resp.Data)
	}
}

func TestProductTypeHandler_Create_InvalidStatus(t *testing.T) {
	stub := &stubProductTypeService{
		createFn: func(context.Context, ports.CreateProductTypeInput) (*domain.ProductType, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}

	c, _ := newJSONContext(http.MethodPost, "/api/product-types", `{"name":"A","slug":"a","status":"archived"}`)
	err := NewProductTypeHandler(stub).Create(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestProductTypeHandler_Create_InvalidPayload(t *testing.T) {
	stub := &stubProductTypeService{}

	c, _ := newJSONContext(http.MethodPost, "/api/product-types", "not-json")
	err := NewProductTypeHandler(stub).Create(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestProductTypeHandler_Create_DuplicateSlug(t *testing.T) {
	stub := &stubProductTypeService{
		createFn: func(context.Context, ports.CreateProductTypeInput) (*domain.ProductType, error) {
			return nil, domain.ErrDuplicateSlug
		},
	}

	c, _ := newJSONContext(http.MethodPost, "/api/product-types", `{"name":"A","slug":"a"}`)
	if err := NewProductTypeHandler(stub).Create(c); !errors.Is(err, domain.ErrDuplicateSlug) {
		t.Fatalf("expected ErrDuplicateSlug, got %v", err)
	}
}
