package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/sweetshop/api/internal/repo"
	"github.com/sweetshop/api/internal/service"
	"github.com/sweetshop/api/internal/transport"
	"github.com/sweetshop/api/pkg/logging"
)

// Validator plugs go-playground/validator into echo's c.Validate hook, with
// json tag names so failure details point at wire fields.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

func (cv *Validator) Validate(i any) error {
	return cv.validate.Struct(i)
}

func respondData(c echo.Context, status int, data any, message string) error {
	return c.JSON(status, transport.APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

func respondError(c echo.Context, status int, msg string) error {
	return c.JSON(status, transport.APIResponse{
		Success: false,
		Error:   msg,
	})
}

func respondValidation(c echo.Context, verrs validator.ValidationErrors) error {
	details := make([]transport.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, transport.FieldError{
			Path:    fieldPath(fe),
			Message: fieldMessage(fe),
		})
	}
	return c.JSON(http.StatusBadRequest, transport.ValidationErrorResponse{
		Error:   "Validation failed",
		Details: details,
	})
}

func fieldPath(fe validator.FieldError) string {
	// drop the root struct name: "CreateOrderRequest.items[0].quantity" ->
	// "items[0].quantity"
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters or items", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters or items", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be %s or greater", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "uuid4":
		return "must be a valid UUID"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// bindAndValidate decodes the body and runs struct validation. Failures are
// returned to the handler, which must bail out; HTTPErrorHandler renders them,
// so the rejection is always a single response document and the service layer
// never sees the payload.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	return c.Validate(req)
}

// errMessage strips the sentinel wrapping before the text reaches a client.
func errMessage(err error) string {
	msg := err.Error()
	msg = strings.TrimSuffix(msg, ": "+gorm.ErrRecordNotFound.Error())
	for _, sentinel := range []error{
		service.ErrValidation,
		service.ErrUnauthorized,
		service.ErrForbidden,
		service.ErrNotFound,
		service.ErrConflict,
	} {
		msg = strings.TrimPrefix(msg, sentinel.Error()+": ")
	}
	return msg
}

func respondServiceError(c echo.Context, err error) error {
	var stockErr *repo.StockError
	switch {
	case errors.As(err, &stockErr):
		return respondError(c, http.StatusBadRequest, stockErr.Error())
	case errors.Is(err, service.ErrValidation):
		return respondError(c, http.StatusBadRequest, errMessage(err))
	case errors.Is(err, service.ErrUnauthorized):
		return respondError(c, http.StatusUnauthorized, errMessage(err))
	case errors.Is(err, service.ErrForbidden):
		return respondError(c, http.StatusForbidden, errMessage(err))
	case errors.Is(err, service.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return respondError(c, http.StatusNotFound, errMessage(err))
	case errors.Is(err, service.ErrConflict):
		return respondError(c, http.StatusConflict, errMessage(err))
	default:
		logging.FromContext(c.Request().Context()).Error("internal_error", "error", err)
		return respondError(c, http.StatusInternalServerError, "internal error")
	}
}

// HTTPErrorHandler renders middleware and binding failures (auth, routing,
// validation) in the same envelope the handlers use.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		_ = respondValidation(c, verrs)
		return
	}

	status := http.StatusInternalServerError
	msg := "internal error"

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.Code
		if s, ok := httpErr.Message.(string); ok {
			msg = s
		} else {
			msg = http.StatusText(status)
		}
	}

	if status >= 500 {
		logging.FromContext(c.Request().Context()).Error("internal_error", "error", err)
		msg = "internal error"
	}

	_ = respondError(c, status, msg)
}
