package handler

import (
	"net/http"
	"strconv"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/dto"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductsHandler struct{ svc service.ProductService }

func NewProductsHandler(svc service.ProductService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

// Create godoc
// @Summary      Create a product
// @Description  Margin is derived from cost and selling price. A selling price below cost answers 409 with advisory "selling_below_cost" unless confirm_below_cost is set.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateProductRequest  true  "Product"
// @Success      201   {object}  dto.ProductResponse
// @Failure      409   {object}  apierror.AdvisoryError
// @Failure      422   {object}  apierror.ValidationError
// @Router       /v1/products [post]
func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        search       query     string  false  "Case-insensitive name search"
// @Param        category_id  query     string  false  "Category UUID"
// @Param        tag_id       query     string  false  "Tag UUID"
// @Param        low_stock    query     bool    false  "Only products under their low-stock threshold"
// @Param        page         query     int     false  "Page (default 1)"
// @Param        limit        query     int     false  "Page size (default 50, max 500)"
// @Success      200          {object}  dto.ProductListResponse
// @Router       /v1/products [get]
func (h *ProductsHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Update a product
// @Description  Only present fields change. Price changes are recorded in the price history.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id    path      string                    true  "Product UUID"
// @Param        body  body      dto.UpdateProductRequest  true  "Changes"
// @Success      200   {object}  dto.ProductResponse
// @Failure      404   {object}  apierror.APIError
// @Failure      409   {object}  apierror.AdvisoryError
// @Router       /v1/products/{id} [put]
func (h *ProductsHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PriceHistory godoc
// @Summary      Price history of a product
// @Description  Append-only list of price changes, newest first.
// @Tags         products
// @Param        id     path      string  true   "Product UUID"
// @Param        page   query     int     false  "Page (default 1)"
// @Param        limit  query     int     false  "Page size (default 50, max 200)"
// @Success      200    {object}  dto.PriceHistoryListResponse
// @Router       /v1/products/{id}/price-history [get]
func (h *ProductsHandler) PriceHistory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	rows, total, err := h.svc.PriceHistory(c.Request.Context(), id, page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PriceHistoryListResponse{
		Data:  rows,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}
