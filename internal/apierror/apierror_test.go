package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	verr := NewValidationError()
	verr.Add("customer_name", "is required")

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", verr, http.StatusUnprocessableEntity},
		{"below minimum", &BelowMinimumOrderError{Minimum: decimal.NewFromInt(50000)}, http.StatusUnprocessableEntity},
		{"wrapped not found", NotFound("product"), http.StatusNotFound},
		{"empty cart", ErrEmptyCart, http.StatusBadRequest},
		{"insufficient stock", fmt.Errorf("adjust: %w", ErrInsufficientStock), http.StatusConflict},
		{"conflict", Conflict("used by orders"), http.StatusConflict},
		{"forbidden", ErrForbidden, http.StatusForbidden},
		{"credentials", ErrInvalidCredentials, http.StatusUnauthorized},
		{"system", errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Status(tc.err))
		})
	}
}

func TestFromErrorHidesSystemErrors(t *testing.T) {
	resp := FromError(errors.New("pq: relation \"orders\" does not exist"), "Failed to create order")
	assert.False(t, resp.Success)
	assert.Equal(t, "Failed to create order", resp.Message)
}

func TestFromErrorBelowMinimumSurfacesMinimum(t *testing.T) {
	resp := FromError(&BelowMinimumOrderError{Minimum: decimal.NewFromInt(50000), Subtotal: decimal.NewFromInt(20000)}, "")
	assert.Equal(t, "50000", resp.Errors["min_order_amount"])
	assert.Contains(t, resp.Message, "50000")
}

func TestValidationErrorKeepsFirstMessage(t *testing.T) {
	verr := NewValidationError()
	assert.Nil(t, verr.OrNil())

	verr.Add("phone", "is required")
	verr.Add("phone", "is invalid")
	assert.Equal(t, "is required", verr.Fields["phone"])
	assert.Error(t, verr.OrNil())
}
