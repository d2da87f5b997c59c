package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/pedropoiani/SimplesCaixa/internal/apierror"
	"github.com/pedropoiani/SimplesCaixa/internal/service"

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
		c.JSON(http.StatusBadRequest, apierror.New("JSON inválido: "+err.Error()))
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

// respondServiceError maps domain sentinels to HTTP statuses. Anything wrapped
// in ErrColaborador is an infrastructure fault: logged by the middleware,
// surfaced as an opaque 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCaixaNaoEncontrado),
		errors.Is(err, service.ErrVendaNaoEncontrada),
		errors.Is(err, service.ErrSubscricaoNaoEncontrada):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrCaixaJaAberto),
		errors.Is(err, service.ErrSemCaixaAberto),
		errors.Is(err, service.ErrVendaJaEstornada):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrColaborador):
		_ = c.Error(err)
		c.Abort()
	default:
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	}
}
