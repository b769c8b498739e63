// Package apierror provides the error taxonomy shared by services and the
// JSON envelope returned to clients. Handlers map domain errors to HTTP
// status codes through Status; anything unrecognised is a system error and
// is reported with a generic message so database details never leak.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Response is the canonical envelope for every JSON response body.
type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func New(msg string) *Response {
	return &Response{Success: false, Message: msg}
}

func NewValidation(fields map[string]string) *Response {
	return &Response{Success: false, Message: "Validation failed", Errors: fields}
}

// ── Domain errors ─────────────────────────────────────────────────────────────

var (
	ErrNotFound            = errors.New("not found")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrReferentialConflict = errors.New("record is still referenced")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrForbidden           = errors.New("access denied")
	ErrUnauthorized        = errors.New("authentication required")
	ErrInvalidCredentials  = errors.New("invalid username or password")
)

// ValidationError collects field-level messages for a rejected input.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records the first message for field; later messages for the same field are ignored.
func (e *ValidationError) Add(field, msg string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) HasErrors() bool { return len(e.Fields) > 0 }

// OrNil returns e when it holds at least one field error, otherwise nil.
func (e *ValidationError) OrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// BelowMinimumOrderError is returned by checkout when the subtotal does not
// reach the configured minimum order amount.
type BelowMinimumOrderError struct {
	Minimum  decimal.Decimal
	Subtotal decimal.Decimal
}

func (e *BelowMinimumOrderError) Error() string {
	return fmt.Sprintf("minimum order amount is %s (current subtotal %s)", e.Minimum.StringFixed(0), e.Subtotal.StringFixed(0))
}

// NotFound wraps ErrNotFound with the missing entity name.
func NotFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

// Conflict wraps ErrReferentialConflict with a human readable reason.
func Conflict(reason string) error {
	return fmt.Errorf("%w: %s", ErrReferentialConflict, reason)
}

// Status maps an error to the HTTP status code the handlers respond with.
func Status(err error) int {
	var verr *ValidationError
	var minErr *BelowMinimumOrderError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &minErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmptyCart), errors.Is(err, ErrInvalidTransition):
		return http.StatusBadRequest
	case errors.Is(err, ErrInsufficientStock), errors.Is(err, ErrReferentialConflict):
		return http.StatusConflict
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// FromError builds the client-facing envelope for err. System errors get
// fallback as their message.
func FromError(err error, fallback string) *Response {
	var verr *ValidationError
	var minErr *BelowMinimumOrderError
	switch {
	case errors.As(err, &verr):
		return NewValidation(verr.Fields)
	case errors.As(err, &minErr):
		return &Response{
			Message: minErr.Error(),
			Errors:  map[string]string{"min_order_amount": minErr.Minimum.StringFixed(0)},
		}
	case Status(err) == http.StatusInternalServerError:
		return New(fallback)
	default:
		return New(err.Error())
	}
}
