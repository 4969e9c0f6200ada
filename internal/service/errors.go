package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/pricing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateName     = errors.New("name already in use")
	ErrQuoteConverted    = errors.New("quote already converted")
	ErrInvalidTransition = errors.New("invalid quote status transition")
)

// ValidationError reports user input that can never succeed as sent. Fields
// is keyed by request field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// AdvisoryError is a non-blocking condition: the same request succeeds once
// resubmitted with explicit confirmation.
type AdvisoryError struct {
	Code    pricing.Advisory
	Message string
}

func (e *AdvisoryError) Error() string { return e.Message }

var errBelowCost = &AdvisoryError{
	Code:    pricing.AdvisoryBelowCost,
	Message: "selling price is below cost price; resend with confirm_below_cost to save anyway",
}

// notFound translates gorm's sentinel so handlers never import gorm.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}

func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, invalid(field, "invalid id")
	}
	return id, nil
}

// priceError maps the pricing save rules onto request fields.
func priceError(err error) error {
	switch {
	case errors.Is(err, pricing.ErrCostPriceRequired):
		return invalid("cost_price", err.Error())
	case errors.Is(err, pricing.ErrSellingPriceRequired):
		return invalid("selling_price", err.Error())
	}
	return err
}
