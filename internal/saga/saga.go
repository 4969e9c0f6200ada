// Package saga records the progress of multi-step writes that span several
// tables without a surrounding transaction. Steps run in order and stop at the
// first failure. Nothing is rolled back: the failure is logged and handed to a
// Reporter so an operator can reconcile the partial state.
package saga

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Report describes how far a saga got.
type Report struct {
	Operation      string    `json:"operation"`
	Reference      string    `json:"reference"`
	CompletedSteps []string  `json:"completed_steps"`
	FailedStep     string    `json:"failed_step,omitempty"`
	Error          string    `json:"error,omitempty"`
	FailedAt       time.Time `json:"failed_at,omitempty"`
}

func (r Report) Failed() bool { return r.FailedStep != "" }

// Reporter receives the report of every failed saga.
type Reporter interface {
	ReportFailure(ctx context.Context, r Report) error
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(ctx context.Context, r Report) error

func (f ReporterFunc) ReportFailure(ctx context.Context, r Report) error { return f(ctx, r) }

type Saga struct {
	operation string
	reference string
	reporter  Reporter

	completed []string
	failed    string
	err       error
	failedAt  time.Time
}

// New starts a saga. reporter may be nil, in which case failures are only
// logged.
func New(operation, reference string, reporter Reporter) *Saga {
	return &Saga{operation: operation, reference: reference, reporter: reporter}
}

// Step runs fn unless an earlier step failed. The returned error wraps fn's
// error so callers can still match sentinels with errors.Is.
func (s *Saga) Step(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	if s.err != nil {
		return s.err
	}
	if err := fn(ctx); err != nil {
		s.failed = name
		s.failedAt = time.Now().UTC()
		s.err = fmt.Errorf("%s: %s: %w", s.operation, name, err)
		s.fail(ctx, err)
		return s.err
	}
	s.completed = append(s.completed, name)
	return nil
}

func (s *Saga) Err() error { return s.err }

func (s *Saga) Report() Report {
	r := Report{
		Operation:      s.operation,
		Reference:      s.reference,
		CompletedSteps: append([]string(nil), s.completed...),
		FailedStep:     s.failed,
		FailedAt:       s.failedAt,
	}
	if s.err != nil {
		r.Error = s.err.Error()
	}
	return r
}

func (s *Saga) fail(ctx context.Context, cause error) {
	ev := log.Warn()
	if len(s.completed) > 0 {
		// partial side effects are now persisted
		ev = log.Error()
	}
	ev.Err(cause).
		Str("operation", s.operation).
		Str("reference", s.reference).
		Strs("completed_steps", s.completed).
		Str("failed_step", s.failed).
		Msg("saga: step failed, manual reconciliation may be required")

	if s.reporter == nil {
		return
	}
	// the caller's context may already be cancelled; the report must still go out
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.reporter.ReportFailure(rctx, s.Report()); err != nil {
		log.Error().Err(err).Str("operation", s.operation).Msg("saga: failed to report failure")
	}
}
