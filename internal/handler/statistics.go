package handler

import (
	"net/http"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/dto"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct{ svc service.StatisticsService }

func NewStatisticsHandler(svc service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{svc: svc}
}

// Potential godoc
// @Summary      Catalog statistics
// @Description  Invested money, potential income and profit of the current stock.
// @Tags         statistics
// @Produce      json
// @Success      200  {object}  dto.PotentialStatsResponse
// @Router       /v1/statistics/potential [get]
func (h *StatisticsHandler) Potential(c *gin.Context) {
	resp, err := h.svc.Potential(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Realized godoc
// @Summary      Realized statistics for a period
// @Tags         statistics
// @Produce      json
// @Param        range  query     string  false  "all | monthly | custom"
// @Param        start  query     string  false  "Custom range start"
// @Param        end    query     string  false  "Custom range end"
// @Success      200    {object}  dto.RealizedStatsResponse
// @Failure      422    {object}  apierror.ValidationError
// @Router       /v1/statistics/realized [get]
func (h *StatisticsHandler) Realized(c *gin.Context) {
	var q dto.RangeQuery
	if !bindQuery(c, &q) {
		return
	}
	rng, ok := parseRange(c, q)
	if !ok {
		return
	}
	resp, err := h.svc.Realized(c.Request.Context(), rng)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
