package saga

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func ok(context.Context) error   { return nil }
func fail(context.Context) error { return errBoom }

func TestSagaCompletes(t *testing.T) {
	s := New("sale.complete", "ref-1", nil)

	require.NoError(t, s.Step(context.Background(), "create_sale", ok))
	require.NoError(t, s.Step(context.Background(), "record_cash", ok))

	r := s.Report()
	assert.False(t, r.Failed())
	assert.Equal(t, []string{"create_sale", "record_cash"}, r.CompletedSteps)
	assert.NoError(t, s.Err())
}

func TestSagaStopsAtFirstFailureAndReports(t *testing.T) {
	var got []Report
	reporter := ReporterFunc(func(_ context.Context, r Report) error {
		got = append(got, r)
		return nil
	})
	s := New("quote.convert", "q-1", reporter)
	ctx := context.Background()

	require.NoError(t, s.Step(ctx, "create_sale", ok))
	err := s.Step(ctx, "record_cash", fail)
	assert.ErrorIs(t, err, errBoom)

	ran := false
	err = s.Step(ctx, "decrement_stock", func(context.Context) error {
		ran = true
		return nil
	})
	assert.ErrorIs(t, err, errBoom)
	assert.False(t, ran)

	require.Len(t, got, 1)
	assert.Equal(t, "quote.convert", got[0].Operation)
	assert.Equal(t, "q-1", got[0].Reference)
	assert.Equal(t, []string{"create_sale"}, got[0].CompletedSteps)
	assert.Equal(t, "record_cash", got[0].FailedStep)
	assert.Contains(t, got[0].Error, "boom")
	assert.False(t, got[0].FailedAt.IsZero())
}

func TestSagaReporterErrorDoesNotMaskCause(t *testing.T) {
	reporter := ReporterFunc(func(context.Context, Report) error { return errors.New("queue down") })
	s := New("sale.delete", "s-1", reporter)

	err := s.Step(context.Background(), "restore_stock", fail)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, "restore_stock", s.Report().FailedStep)
}
