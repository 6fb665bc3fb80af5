package model

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies a failure. The set is closed.
type Kind int

const (
	KindUnknown Kind = iota
	// KindUsage is a caller mistake; the run does not proceed.
	KindUsage
	// KindEnumeration stops pagination but keeps what was collected.
	KindEnumeration
	// KindResolution is a per-post metadata failure.
	KindResolution
	// KindTransfer is a per-stream download failure.
	KindTransfer
	// KindMux is a per-post remux failure.
	KindMux
	// KindInterrupt aborts the whole run.
	KindInterrupt
)

func (k Kind) String() string {
	switch k {
	case KindUsage:
		return "usage"
	case KindEnumeration:
		return "enumeration"
	case KindResolution:
		return "resolution"
	case KindTransfer:
		return "transfer"
	case KindMux:
		return "mux"
	case KindInterrupt:
		return "interrupt"
	default:
		return "unknown"
	}
}

// Error wraps an underlying error with its Kind and the operation that failed.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s failed", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds an *Error. Context cancellation is always reported as
// KindInterrupt regardless of the kind requested.
func NewError(kind Kind, op string, err error) *Error {
	if errors.Is(err, context.Canceled) {
		kind = KindInterrupt
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf reports the Kind of err. Context cancellation anywhere in the chain
// is KindInterrupt.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	if errors.Is(err, context.Canceled) {
		return KindInterrupt
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsInterrupt reports whether err stems from an interrupt.
func IsInterrupt(err error) bool {
	return KindOf(err) == KindInterrupt
}
