package handler

import (
	"errors"
	"net/http"
	"reflect"

	"signrecipes/internal/apierror"
	"signrecipes/internal/repository"
	"signrecipes/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
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
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// writeError maps the domain error taxonomy to HTTP responses. Every handler
// funnels service errors through here so status codes stay consistent.
func writeError(c *gin.Context, err error) {
	var vErr *service.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusUnprocessableEntity, apierror.RecipeError{
			Detail:   vErr.Detail,
			Kind:     string(vErr.Kind),
			Sequence: vErr.Sequence,
			Code:     vErr.Code,
		})
		return
	}
	var bErr *service.BatchError
	if errors.As(err, &bErr) {
		c.JSON(http.StatusUnprocessableEntity, apierror.ImportError{
			Detail: bErr.Reason,
			Entity: bErr.Entity,
			Row:    bErr.Row,
		})
		return
	}
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, apierror.New("Not found"))
	case errors.Is(err, repository.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, apierror.New("Store temporarily unavailable"))
	default:
		c.Error(err) // surfaced by the ErrorHandler middleware as a 500
	}
}
