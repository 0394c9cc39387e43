package core

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is returned by repositories when a lookup matches no row.
// Services translate it into a typed NotFound error naming the entity.
var ErrNotFound = errors.New("not found")

// ErrorKind is the machine-readable code carried by operational errors.
type ErrorKind string

const (
	KindNotFound              ErrorKind = "NOT_FOUND"
	KindPaymentMismatch       ErrorKind = "PAYMENT_MISMATCH"
	KindInsufficientStock     ErrorKind = "INSUFFICIENT_STOCK"
	KindInvalidStatus         ErrorKind = "INVALID_STATUS"
	KindBusinessRule          ErrorKind = "BUSINESS_RULE_VIOLATION"
	KindInvalidAdjustmentType ErrorKind = "INVALID_ADJUSTMENT_TYPE"
	KindValidation            ErrorKind = "VALIDATION_ERROR"
	KindConflict              ErrorKind = "CONFLICT"
)

// Error is an operational error: an expected business failure that is safe to
// show to the caller as-is.
type Error struct {
	Kind    ErrorKind
	Message string
	Status  int
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind ErrorKind, status int, format string, args ...any) *Error {
	return &Error{Kind: kind, Status: status, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing entity, e.g. NotFound("customer", 42).
func NotFound(entity string, id any) *Error {
	return newError(KindNotFound, http.StatusNotFound, "%s %v not found", entity, id)
}

func PaymentMismatch(paid, total string) *Error {
	return newError(KindPaymentMismatch, http.StatusBadRequest,
		"payment total %s does not match bill total %s", paid, total)
}

func InsufficientStock(format string, args ...any) *Error {
	return newError(KindInsufficientStock, http.StatusBadRequest, format, args...)
}

func InvalidStatus(format string, args ...any) *Error {
	return newError(KindInvalidStatus, http.StatusConflict, format, args...)
}

func BusinessRuleViolation(format string, args ...any) *Error {
	return newError(KindBusinessRule, http.StatusUnprocessableEntity, format, args...)
}

func InvalidAdjustmentType(t string) *Error {
	return newError(KindInvalidAdjustmentType, http.StatusBadRequest,
		"invalid adjustment type %q: expected add, subtract or set", t)
}

func Validation(format string, args ...any) *Error {
	return newError(KindValidation, http.StatusBadRequest, format, args...)
}

// Conflict reports a write that lost a race with a concurrent request; the
// caller may retry it.
func Conflict(format string, args ...any) *Error {
	return newError(KindConflict, http.StatusConflict, format, args...)
}

// AsError returns the operational error wrapped in err, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err wraps an operational error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	e, ok := AsError(err)
	return ok && e.Kind == kind
}
