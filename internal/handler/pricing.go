package handler

import (
	"net/http"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/dto"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type PricingHandler struct{ svc service.PricingService }

func NewPricingHandler(svc service.PricingService) *PricingHandler {
	return &PricingHandler{svc: svc}
}

// Resolve godoc
// @Summary      Resolve the price triangle
// @Description  Recomputes the dependent price field after the user edits cost, selling price or margin. Stateless.
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ResolvePriceRequest  true  "Form state and edited field"
// @Success      200   {object}  dto.ResolvePriceResponse
// @Failure      422   {object}  apierror.ValidationError
// @Router       /v1/pricing/resolve [post]
func (h *PricingHandler) Resolve(c *gin.Context) {
	var req dto.ResolvePriceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Resolve(req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
