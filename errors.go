package client

import (
	apierrors "github.com/svmahh/25Jun-API-medical-classwork/internal/errors"
)

// Re-export the error taxonomy so callers compare against a single symbol.
type (
	// Error is returned by every Client operation; use errors.As to inspect it.
	Error = apierrors.Error
	// ErrorKind tags an Error.
	ErrorKind = apierrors.Kind
)

const (
	KindUnknown          = apierrors.KindUnknown
	KindInvalidInput     = apierrors.KindInvalidInput
	KindNotFound         = apierrors.KindNotFound
	KindParse            = apierrors.KindParse
	KindNetwork          = apierrors.KindNetwork
	KindCreationFailed   = apierrors.KindCreationFailed
	KindUnexpectedStatus = apierrors.KindUnexpectedStatus
	KindNotImplemented   = apierrors.KindNotImplemented
)

var (
	ErrInvalidInput     = apierrors.ErrInvalidInput
	ErrNotFound         = apierrors.ErrNotFound
	ErrParse            = apierrors.ErrParse
	ErrNetwork          = apierrors.ErrNetwork
	ErrCreationFailed   = apierrors.ErrCreationFailed
	ErrUnexpectedStatus = apierrors.ErrUnexpectedStatus
	ErrNotImplemented   = apierrors.ErrNotImplemented
)

// KindOf returns the ErrorKind carried by err, or KindUnknown.
func KindOf(err error) ErrorKind { return apierrors.KindOf(err) }

// NewInvalidInput builds the error front ends report when they reject input
// before calling the API.
func NewInvalidInput(op, input string, cause error) *Error {
	return apierrors.NewInvalidInput(op, input, cause)
}
