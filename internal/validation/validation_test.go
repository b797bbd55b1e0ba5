package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/cassandra-sample/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pathRequest struct {
	ID     int    `param:"id" validate:"required,min=1"`
	Gender string `query:"gender" validate:"omitempty,oneof=F M"`
}

func (r *pathRequest) Validate() error {
	return validator.New().Struct(r)
}

type customRequest struct{}

func (r *customRequest) Validate() error {
	return CustomValidationErrors{{Field: "range", Message: "start must be before end"}}
}

func newContext(target string, id string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func TestBindAndValidate(t *testing.T) {
	req := &pathRequest{}
	require.NoError(t, BindAndValidate(newContext("/x/3?gender=F", "3"), req))
	assert.Equal(t, 3, req.ID)
	assert.Equal(t, "F", req.Gender)
}

func TestBindAndValidateFieldErrors(t *testing.T) {
	err := BindAndValidate(newContext("/x/0?gender=X", "0"), &pathRequest{})

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "Validation failed", httpErr.Message)
	assert.ElementsMatch(t, []errs.FieldError{
		{Field: "id", Error: "is required"},
		{Field: "gender", Error: "must be one of: F M"},
	}, httpErr.Errors)
}

func TestBindAndValidateBindError(t *testing.T) {
	err := BindAndValidate(newContext("/x/abc", "abc"), &pathRequest{})

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, "BAD_REQUEST", httpErr.Code)
	assert.NotEmpty(t, httpErr.Message)
	assert.Empty(t, httpErr.Errors)
}

func TestBindAndValidateCustomErrors(t *testing.T) {
	err := BindAndValidate(newContext("/x/1", "1"), &customRequest{})

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, []errs.FieldError{{Field: "range", Error: "start must be before end"}}, httpErr.Errors)
}
