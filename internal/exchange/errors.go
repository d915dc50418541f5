// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package exchange

import "errors"

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the exchange client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	// ErrTypeTransport: no usable reply (network, timeout, undecodable body).
	ErrTypeTransport
	// ErrTypeRejected: a well-formed reply whose success flag is false.
	ErrTypeRejected
)

// String returns the error type name used in logs.
func (t ErrorType) String() string {
	switch t {
	case ErrTypeTransport:
		return "transport"
	case ErrTypeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Sentinel errors for easy checking.
var (
	ErrTimeout         = &ClientError{Type: ErrTypeTransport, Message: "request timed out"}
	ErrInvalidResponse = &ClientError{Type: ErrTypeTransport, Message: "invalid response from server"}
)

// User-facing notices for each failure class.
const (
	MsgTransport = "Connection error. Please check your internet connection."
	MsgRejected  = "Failed to get response. Please try again."
	MsgExport    = "Failed to export chat."
	MsgClear     = "Failed to clear chat."
)

// TypeOf returns the ErrorType of err, or ErrTypeUnknown when err is not a
// *ClientError.
func TypeOf(err error) ErrorType {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Type
	}
	return ErrTypeUnknown
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	return TypeOf(err) == ErrTypeTransport
}

// IsRejected reports whether err is an application-level rejection.
func IsRejected(err error) bool {
	return TypeOf(err) == ErrTypeRejected
}

// SendFailureText picks the toast text for a failed send. Anything that is
// not a rejection counts as a connectivity problem.
func SendFailureText(err error) string {
	if IsRejected(err) {
		return MsgRejected
	}
	return MsgTransport
}
