package handler

import (
	"net/http"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/dto"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type QuotesHandler struct{ svc service.QuoteService }

func NewQuotesHandler(svc service.QuoteService) *QuotesHandler {
	return &QuotesHandler{svc: svc}
}

func (h *QuotesHandler) Create(c *gin.Context) {
	var req dto.CreateQuoteRequest
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

func (h *QuotesHandler) List(c *gin.Context) {
	var filter dto.QuoteFilter
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

func (h *QuotesHandler) Get(c *gin.Context) {
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

func (h *QuotesHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateQuoteRequest
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

func (h *QuotesHandler) ChangeStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.ChangeQuoteStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ChangeStatus(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Convert godoc
// @Summary      Convert a quote into a sale
// @Description  Only pending or approved quotes convert. The sale copies the quoted lines and total.
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        id    path      string                   true  "Quote UUID"
// @Param        body  body      dto.ConvertQuoteRequest  true  "Payment"
// @Success      201   {object}  dto.ConvertQuoteResponse
// @Failure      404   {object}  apierror.APIError
// @Failure      409   {object}  apierror.APIError
// @Router       /v1/quotes/{id}/convert [post]
func (h *QuotesHandler) Convert(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.ConvertQuoteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Convert(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *QuotesHandler) Delete(c *gin.Context) {
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
