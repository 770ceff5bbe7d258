package extractor

import (
	"errors"
	"fmt"
)

// ErrorKind classifies extractor failures so callers can decide whether a
// failure is worth retrying without inspecting error text.
type ErrorKind int

const (
	KindOther ErrorKind = iota
	KindInvalidInput
	KindRateLimited
	KindNotFound
	KindNetwork
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid input"
	case KindRateLimited:
		return "rate limited"
	case KindNotFound:
		return "not found"
	case KindNetwork:
		return "network error"
	default:
		return "other"
	}
}

// Error is the error type returned by extractors
type Error struct {
	Kind ErrorKind
	Op   string // "validate", "resolve", "stream", "fetch"
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first *Error in err's chain, or KindOther.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindOther
}

// IsRateLimited reports whether err signals a rate-limit/forbidden response
func IsRateLimited(err error) bool {
	return KindOf(err) == KindRateLimited
}

// InvalidInput builds a KindInvalidInput error
func InvalidInput(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Op: "validate", Err: fmt.Errorf(format, args...)}
}
