package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/streck/storefront-api/internal/api/metrics"
	"github.com/streck/storefront-api/internal/core/ports"
)

// ProductTypeHandler handles HTTP requests for product types.
type ProductTypeHandler struct {
	service ports.ProductTypeService
}

func NewProductTypeHandler(service ports.ProductTypeService) *ProductTypeHandler {
	return &ProductTypeHandler{service: service}
}

// List handles GET /api/product-types.
//
// @Summary      List product types
// @Tags         product-types
// @Produce      json
// @Param        status  query     string  false  "Filter by status"  Enums(active, inactive)
// @Success      200     {object}  productTypeListResponse
// @Failure      500     {object}  errorResponse
// @Router       /api/product-types [get]
func (h *ProductTypeHandler) List(c echo.Context) error {
	items, err := h.service.List(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productTypeListResponse{Data: items})
}

// Create handles POST /api/product-types.
//
// @Summary      Create a product type
// @Tags         product-types
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string                    false  "Replay protection key"
// @Param        body             body      createProductTypeRequest  true   "Product type"
// @Success      201              {object}  productTypeResponse
// @Failure      400              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Failure      500              {object}  errorResponse
// @Router       /api/product-types [post]
func (h *ProductTypeHandler) Create(c echo.Context) error {
	var req createProductTypeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	pt, err := h.service.Create(c.Request().Context(), ports.CreateProductTypeInput{
		Name:           req.Name,
		Slug:           req.Slug,
		Description:    req.Description,
		Status:         req.Status,
		SortOrder:      req.SortOrder,
		IdempotencyKey: idempotencyKey(c.Request()),
	})
	if err != nil {
		return err
	}

	metrics.ProductTypesCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, productTypeResponse{Data: *pt})
}
