// Package errors provides the error taxonomy for the loan client.
// Each failure is tagged with a Kind so callers can render a specific message
// without parsing error strings.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind identifies the category of a client failure.
type Kind int

const (
	KindUnknown Kind = iota
	// KindInvalidInput: the caller passed a value the API cannot accept
	// (non-numeric or negative loan id).
	KindInvalidInput
	// KindNotFound: the server answered 404 for a single-loan lookup.
	KindNotFound
	// KindParse: the response body did not match the expected JSON shape.
	KindParse
	// KindNetwork: transport-level failure (DNS, refused connection, timeout).
	KindNetwork
	// KindCreationFailed: create answered with anything other than 201.
	KindCreationFailed
	// KindUnexpectedStatus: a read answered with a non-2xx status other than 404.
	KindUnexpectedStatus
	// KindNotImplemented: the operation exists but is switched off.
	KindNotImplemented
)

// Sentinels matched by (*Error).Is, one per Kind.
var (
	ErrInvalidInput     = stderrors.New("invalid input")
	ErrNotFound         = stderrors.New("not found")
	ErrParse            = stderrors.New("could not parse response")
	ErrNetwork          = stderrors.New("network failure")
	ErrCreationFailed   = stderrors.New("creation failed")
	ErrUnexpectedStatus = stderrors.New("unexpected status")
	ErrNotImplemented   = stderrors.New("not implemented")
)

var sentinels = map[Kind]error{
	KindInvalidInput:     ErrInvalidInput,
	KindNotFound:         ErrNotFound,
	KindParse:            ErrParse,
	KindNetwork:          ErrNetwork,
	KindCreationFailed:   ErrCreationFailed,
	KindUnexpectedStatus: ErrUnexpectedStatus,
	KindNotImplemented:   ErrNotImplemented,
}

// String returns a short, stable label. Metrics use it as the outcome label.
func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindNotFound:
		return "not_found"
	case KindParse:
		return "parse"
	case KindNetwork:
		return "network"
	case KindCreationFailed:
		return "creation_failed"
	case KindUnexpectedStatus:
		return "unexpected_status"
	case KindNotImplemented:
		return "not_implemented"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Error is the single error type returned by the API layer.
type Error struct {
	Kind       Kind
	Op         string // operation name, e.g. "get loan"
	Subject    string // loan id, member id or rejected input, when relevant
	StatusCode int    // HTTP status (0 when no response was received)
	Body       string // response body for debugging
	Err        error  // underlying cause
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Op + ": " + sentinelFor(e.Kind).Error()
	if e.Subject != "" {
		msg += " (" + e.Subject + ")"
	}
	if e.StatusCode > 0 {
		msg += fmt.Sprintf(": HTTP %d", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error for error chain compatibility.
func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrNotFound) and friends work on *Error.
func (e *Error) Is(target error) bool {
	s, ok := sentinels[e.Kind]
	return ok && s == target
}

func sentinelFor(k Kind) error {
	if s, ok := sentinels[k]; ok {
		return s
	}
	return stderrors.New(k.String())
}

// KindOf returns the Kind carried by err, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
