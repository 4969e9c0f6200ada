package handler

import (
	"net/http"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/dto"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type SalesHandler struct{ svc service.SaleService }

func NewSalesHandler(svc service.SaleService) *SalesHandler {
	return &SalesHandler{svc: svc}
}

// Complete godoc
// @Summary      Complete a sale
// @Description  Creates the sale, records its cash transaction and decrements stock (floored at zero). The steps are not transactional: a failure stops the sequence and is logged for reconciliation.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateSaleRequest  true  "Sale"
// @Success      201   {object}  dto.SaleResponse
// @Failure      422   {object}  apierror.ValidationError
// @Failure      500   {object}  apierror.APIError
// @Router       /v1/sales [post]
func (h *SalesHandler) Complete(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Complete(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List sales
// @Tags         sales
// @Produce      json
// @Param        range           query     string  false  "all | monthly | custom"
// @Param        start           query     string  false  "Custom range start"
// @Param        end             query     string  false  "Custom range end (a date-only value covers the whole day)"
// @Param        payment_method  query     string  false  "Payment method"
// @Param        page            query     int     false  "Page (default 1)"
// @Param        limit           query     int     false  "Page size (default 50, max 500)"
// @Success      200             {object}  dto.SaleListResponse
// @Router       /v1/sales [get]
func (h *SalesHandler) List(c *gin.Context) {
	var filter dto.SaleFilter
	if !bindQuery(c, &filter) {
		return
	}
	rng, ok := parseRange(c, filter.RangeQuery)
	if !ok {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter, rng)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SalesHandler) Get(c *gin.Context) {
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

// Delete godoc
// @Summary      Delete a sale
// @Description  Restores stock, deletes the sale's cash transaction, then the sale.
// @Tags         sales
// @Param        id   path  string  true  "Sale UUID"
// @Success      204
// @Failure      404  {object}  apierror.APIError
// @Router       /v1/sales/{id} [delete]
func (h *SalesHandler) Delete(c *gin.Context) {
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
