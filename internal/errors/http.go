package errors

import "strconv"

// ClassifyReadStatus maps a non-2xx status of a read operation to an error.
// 404 becomes KindNotFound with subject as the looked-up key; anything else is
// KindUnexpectedStatus.
func ClassifyReadStatus(op, subject string, statusCode int, body string) *Error {
	kind := KindUnexpectedStatus
	if statusCode == 404 {
		kind = KindNotFound
	}
	return &Error{Kind: kind, Op: op, Subject: subject, StatusCode: statusCode, Body: body}
}

// NewNotFound creates a not-found error for a loan id.
func NewNotFound(op string, id int) *Error {
	return &Error{Kind: KindNotFound, Op: op, Subject: strconv.Itoa(id), StatusCode: 404}
}

// NewParseError reports a body that did not decode into the expected shape.
func NewParseError(op string, statusCode int, body string, err error) *Error {
	return &Error{Kind: KindParse, Op: op, StatusCode: statusCode, Body: body, Err: err}
}

// NewNetworkError creates an error for transport-level failures.
func NewNetworkError(op string, err error) *Error {
	return &Error{Kind: KindNetwork, Op: op, Err: err}
}

// NewCreationFailed reports a create call that did not answer 201.
func NewCreationFailed(op string, statusCode int, body string) *Error {
	return &Error{Kind: KindCreationFailed, Op: op, StatusCode: statusCode, Body: body}
}

// NewInvalidInput reports a caller-side validation failure.
func NewInvalidInput(op, input string, err error) *Error {
	return &Error{Kind: KindInvalidInput, Op: op, Subject: input, Err: err}
}

// NewNotImplemented reports an operation that is present but disabled.
func NewNotImplemented(op, subject string) *Error {
	return &Error{Kind: KindNotImplemented, Op: op, Subject: subject}
}
