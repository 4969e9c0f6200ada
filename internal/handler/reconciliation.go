package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/repository"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// ReconciliationHandler lists multi-step operations that stopped partway.
// rdb is nil without Redis; there is no dead letter queue then.
type ReconciliationHandler struct {
	repo repository.SagaLogRepository
	rdb  *redis.Client
}

func NewReconciliationHandler(repo repository.SagaLogRepository, rdb *redis.Client) *ReconciliationHandler {
	return &ReconciliationHandler{repo: repo, rdb: rdb}
}

type sagaLogResponse struct {
	ID             string   `json:"id"`
	Operation      string   `json:"operation"`
	Reference      string   `json:"reference"`
	CompletedSteps []string `json:"completed_steps"`
	FailedStep     string   `json:"failed_step"`
	Error          string   `json:"error"`
	CreatedAt      string   `json:"created_at"`
}

// List godoc
// @Summary      Failed multi-step operations
// @Description  Newest first. Each entry names the steps that did complete, so the partial state can be fixed by hand.
// @Tags         reconciliation
// @Param        limit  query     int  false  "Max rows (default 100, max 500)"
// @Success      200    {array}   handler.sagaLogResponse
// @Router       /v1/reconciliation [get]
func (h *ReconciliationHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	rows, err := h.repo.List(c.Request.Context(), limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	out := make([]sagaLogResponse, 0, len(rows))
	for _, r := range rows {
		steps := []string{}
		if r.CompletedSteps != "" {
			steps = strings.Split(r.CompletedSteps, ",")
		}
		out = append(out, sagaLogResponse{
			ID:             r.ID.String(),
			Operation:      r.Operation,
			Reference:      r.Reference,
			CompletedSteps: steps,
			FailedStep:     r.FailedStep,
			Error:          r.Error,
			CreatedAt:      r.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	c.JSON(http.StatusOK, out)
}

// DeadLetters lists reconcile jobs that could not be persisted even after
// retries. Their payload is the saga report itself.
func (h *ReconciliationHandler) DeadLetters(c *gin.Context) {
	if h.rdb == nil {
		c.JSON(http.StatusOK, []worker.DLQEntry{})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	entries, err := worker.ListDLQ(c.Request.Context(), h.rdb, worker.QueueReconcile, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
