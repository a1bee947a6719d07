package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scopeRequest struct {
	StoreID int64  `validate:"gt=0"`
	Query   string `validate:"required"`
}

func TestFormatValidationErrors_FindsWrappedErrors(t *testing.T) {
	err := validator.New().Struct(scopeRequest{StoreID: -1})
	require.Error(t, err)

	wrapped := fmt.Errorf("invalid argument: %w", err)
	formatted := FormatValidationErrors(wrapped)

	require.Len(t, formatted, 2)
	assert.Equal(t, "StoreID", formatted[0].Field)
	assert.Equal(t, "Value must be greater than 0", formatted[0].Message)
	assert.Equal(t, "Query", formatted[1].Field)
	assert.Equal(t, "This field is required", formatted[1].Message)
}

func TestFormatValidationErrors_IgnoresOtherErrors(t *testing.T) {
	assert.Empty(t, FormatValidationErrors(fmt.Errorf("boom")))
	assert.Empty(t, FormatValidationErrors(nil))
}

func requestWithParam(name, value string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(name, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestParseIDParam(t *testing.T) {
	id, verr := ParseIDParam(requestWithParam("storeID", "42"), "storeID")
	assert.Nil(t, verr)
	assert.Equal(t, int64(42), id)

	_, verr = ParseIDParam(requestWithParam("storeID", "abc"), "storeID")
	require.NotNil(t, verr)
	assert.Equal(t, "storeID", verr.Field)
}

func TestParseOptionalIDQuery(t *testing.T) {
	id, verr := ParseOptionalIDQuery(httptest.NewRequest(http.MethodGet, "/", nil), "parent_id")
	assert.Nil(t, verr)
	assert.Zero(t, id)

	id, verr = ParseOptionalIDQuery(httptest.NewRequest(http.MethodGet, "/?parent_id=7", nil), "parent_id")
	assert.Nil(t, verr)
	assert.Equal(t, int64(7), id)

	_, verr = ParseOptionalIDQuery(httptest.NewRequest(http.MethodGet, "/?parent_id=x", nil), "parent_id")
	assert.NotNil(t, verr)
}

// Feature: storefront-search, Property 15: integer path params round-trip
func TestProperty_ParseIDParamAcceptsAnyInteger(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("any int64 rendered in base 10 parses back", prop.ForAll(
		func(n int64) bool {
			id, verr := ParseIDParam(requestWithParam("productID", strconv.FormatInt(n, 10)), "productID")
			return verr == nil && id == n
		},
		gen.Int64(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
