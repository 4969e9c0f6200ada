package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/apierror"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/dates"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/dto"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/report"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// report fields by their wire names
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	return runValidation(c, req)
}

// bindQuery is bindAndValidate for query strings.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid query: "+err.Error()))
		return false
	}
	return runValidation(c, req)
}

func runValidation(c *gin.Context, req interface{}) bool {
	err := validate.Struct(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return false
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe)] = fe.Tag()
	}
	c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
	return false
}

// fieldPath drops the root struct name: "CreateSaleRequest.items[0].quantity"
// becomes "items[0].quantity".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	if ns == "" {
		return fe.Field()
	}
	return ns
}

func paramID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return uuid.Nil, false
	}
	return id, true
}

// writeError maps service errors onto the API envelope. Anything unexpected
// goes to the ErrorHandler middleware, which logs it and answers 500.
func writeError(c *gin.Context, err error) {
	var (
		verr *service.ValidationError
		adv  *service.AdvisoryError
	)
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(verr.Fields))
	case errors.As(err, &adv):
		c.JSON(http.StatusConflict, apierror.NewAdvisory(string(adv.Code), adv.Message))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrDuplicateName),
		errors.Is(err, service.ErrQuoteConverted),
		errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	default:
		_ = c.Error(err)
	}
}

// parseRange turns the range query into a report.Range. Custom bounds take
// any representation dates.Normalize accepts; a date-only end covers the
// whole day.
func parseRange(c *gin.Context, q dto.RangeQuery) (report.Range, bool) {
	rng := report.Range{Kind: report.RangeKind(q.Range)}
	fields := map[string]string{}
	if q.Start != "" {
		t, err := dates.Normalize(q.Start)
		if err != nil {
			fields["start"] = "unparseable date"
		}
		rng.Start = t
	}
	if q.End != "" {
		t, err := dates.Normalize(q.End)
		if err != nil {
			fields["end"] = "unparseable date"
		}
		if len(strings.TrimSpace(q.End)) == len("2006-01-02") {
			t = dates.EndOfDay(t)
		}
		rng.End = t
	}
	if rng.Kind == report.RangeCustom {
		if q.Start == "" {
			fields["start"] = "required for custom range"
		}
		if q.End == "" {
			fields["end"] = "required for custom range"
		}
	}
	if len(fields) > 0 {
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return rng, false
	}
	return rng, true
}
