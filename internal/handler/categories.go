package handler

import (
	"net/http"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/dto"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type CategoriesHandler struct{ svc service.CategoryService }

func NewCategoriesHandler(svc service.CategoryService) *CategoriesHandler {
	return &CategoriesHandler{svc: svc}
}

func (h *CategoriesHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryRequest
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

func (h *CategoriesHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CategoriesHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateCategoryRequest
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

// Delete leaves the category's products pointing at the removed id.
func (h *CategoriesHandler) Delete(c *gin.Context) {
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

// BulkPriceUpdate godoc
// @Summary      Bulk price update for a category
// @Description  Applies percentage changes to every product of the category. selling_price_percentage takes precedence; otherwise the selling price follows the cost and margin. Each changed product gets a price history row.
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id    path      string                      true  "Category UUID"
// @Param        body  body      dto.BulkPriceUpdateRequest  true  "Percentages"
// @Success      200   {object}  dto.BulkPriceUpdateResponse
// @Failure      404   {object}  apierror.APIError
// @Failure      422   {object}  apierror.ValidationError
// @Router       /v1/categories/{id}/bulk-price-update [post]
func (h *CategoriesHandler) BulkPriceUpdate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.BulkPriceUpdateRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.BulkUpdatePrices(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
