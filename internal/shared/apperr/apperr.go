// Package apperr carries a failure kind alongside wrapped errors so callers can
// tell a missing record from a provider outage or a rejected input.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindUpstreamUnavailable
	KindValidationFailed
	KindPersistenceFailed
	KindUnauthorized
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUpstreamUnavailable:
		return "upstream_unavailable"
	case KindValidationFailed:
		return "validation_failed"
	case KindPersistenceFailed:
		return "persistence_failed"
	case KindUnauthorized:
		return "unauthorized"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// HTTPStatus maps a kind to the status code handlers respond with.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstreamUnavailable:
		return http.StatusBadGateway
	case KindValidationFailed:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is a failure tagged with the operation that produced it.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func NotFound(op string, err error) error {
	return New(KindNotFound, op, err)
}

func Upstream(op string, err error) error {
	return New(KindUpstreamUnavailable, op, err)
}

func Validation(op string, err error) error {
	return New(KindValidationFailed, op, err)
}

func Persistence(op string, err error) error {
	return New(KindPersistenceFailed, op, err)
}

func Unauthorized(op string, err error) error {
	return New(KindUnauthorized, op, err)
}

// Wrap tags err with op, keeping a kind already present in the chain and
// using fallback otherwise.
func Wrap(fallback Kind, op string, err error) error {
	if k := KindOf(err); k != KindUnknown {
		return New(k, op, err)
	}
	return New(fallback, op, err)
}

// KindOf returns the kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
