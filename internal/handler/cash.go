package handler

import (
	"net/http"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/apierror"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/dto"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/model"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type CashHandler struct{ svc service.CashService }

func NewCashHandler(svc service.CashService) *CashHandler {
	return &CashHandler{svc: svc}
}

// Record godoc
// @Summary      Record a manual cash movement
// @Description  Expense, deposit or withdrawal. Sale movements are created by sales.
// @Tags         cash
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateCashTransactionRequest  true  "Movement"
// @Success      201   {object}  dto.CashTransactionResponse
// @Failure      422   {object}  apierror.ValidationError
// @Router       /v1/cash/transactions [post]
func (h *CashHandler) Record(c *gin.Context) {
	var req dto.CreateCashTransactionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Record(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CashHandler) List(c *gin.Context) {
	var filter dto.CashTransactionFilter
	if !bindQuery(c, &filter) {
		return
	}
	rng, ok := parseRange(c, filter.RangeQuery)
	if !ok {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter.Type, rng)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete refuses sale-typed rows: those go away with their sale.
func (h *CashHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	tx, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if tx.Type == string(model.CashSale) {
		c.JSON(http.StatusConflict, apierror.New("sale transactions are deleted together with their sale"))
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CashHandler) Balance(c *gin.Context) {
	resp, err := h.svc.Balance(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Summary godoc
// @Summary      Cash summary for a period
// @Description  Totals per movement type. Net income is sales minus expenses; deposits and withdrawals are reported apart.
// @Tags         cash
// @Produce      json
// @Param        range  query     string  false  "all | monthly | custom"
// @Param        start  query     string  false  "Custom range start"
// @Param        end    query     string  false  "Custom range end"
// @Success      200    {object}  dto.CashSummaryResponse
// @Failure      422    {object}  apierror.ValidationError
// @Router       /v1/cash/summary [get]
func (h *CashHandler) Summary(c *gin.Context) {
	var q dto.RangeQuery
	if !bindQuery(c, &q) {
		return
	}
	rng, ok := parseRange(c, q)
	if !ok {
		return
	}
	resp, err := h.svc.Summary(c.Request.Context(), rng)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Sync backfills the cash transaction of sales that lack one.
func (h *CashHandler) Sync(c *gin.Context) {
	resp, err := h.svc.SyncSales(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
