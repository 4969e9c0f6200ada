package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/model"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/repository"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/saga"

	"github.com/rs/zerolog/log"
)

// ReconcileWorker persists failed saga reports as SagaLog rows, the list an
// operator works through to fix partial writes by hand.
type ReconcileWorker struct {
	repo repository.SagaLogRepository
}

func NewReconcileWorker(repo repository.SagaLogRepository) *ReconcileWorker {
	return &ReconcileWorker{repo: repo}
}

// Process is the Handler for JobReconcile. A malformed payload is returned
// as an error so it reaches the dead letter queue.
func (w *ReconcileWorker) Process(ctx context.Context, payload json.RawMessage) error {
	var r saga.Report
	if err := json.Unmarshal(payload, &r); err != nil {
		return fmt.Errorf("reconcile_worker: invalid payload: %w", err)
	}
	return w.persist(ctx, r)
}

// ReportFailure implements saga.Reporter for deployments without Redis:
// the report is written synchronously.
func (w *ReconcileWorker) ReportFailure(ctx context.Context, r saga.Report) error {
	return w.persist(ctx, r)
}

func (w *ReconcileWorker) persist(ctx context.Context, r saga.Report) error {
	entry := &model.SagaLog{
		Operation:      r.Operation,
		Reference:      r.Reference,
		CompletedSteps: strings.Join(r.CompletedSteps, ","),
		FailedStep:     r.FailedStep,
		Error:          r.Error,
	}
	if !r.FailedAt.IsZero() {
		entry.CreatedAt = r.FailedAt
	}
	if err := w.repo.Create(ctx, entry); err != nil {
		return err
	}
	log.Info().
		Str("operation", r.Operation).
		Str("reference", r.Reference).
		Str("failed_step", r.FailedStep).
		Msg("saga failure logged for reconciliation")
	return nil
}

// SagaLogReporter persists reports directly through repo.
func SagaLogReporter(repo repository.SagaLogRepository) saga.Reporter {
	return NewReconcileWorker(repo)
}
