package rpc

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingField is wrapped by a DecodeError when a required member is absent.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidEncoding is wrapped by a DecodeError when a value has the wrong JSON kind or bad hex.
	ErrInvalidEncoding = errors.New("invalid encoding")
	// ErrNullResult is wrapped by a DecodeError when the node answers with "result": null.
	ErrNullResult = errors.New("null result")
)

// TransportError reports a failed round trip: the request could not be sent,
// the endpoint answered with a non-2xx status, or the body was not JSON.
type TransportError struct {
	Method     string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: transport: HTTP %d: %v", e.Method, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: transport: %v", e.Method, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IOError reports a failure while reading the response body.
type IOError struct {
	Method string
	Err    error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: read response: %v", e.Method, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// DecodeError names the field path that failed to decode and the raw JSON
// value found there.
type DecodeError struct {
	Field string
	Raw   string
	Err   error
}

func (e *DecodeError) Error() string {
	msg := "decode"
	if e.Field != "" {
		msg += " " + e.Field
	}
	if e.Raw == "" {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return fmt.Sprintf("%s: %v (raw %s)", msg, e.Err, truncate(e.Raw, 96))
}

func (e *DecodeError) Unwrap() error { return e.Err }

// RPCError is the error member of a JSON-RPC 2.0 response.
//
// Standard codes: -32700 parse error, -32600 invalid request, -32601 method
// not found, -32602 invalid params, -32603 internal error. Nodes use -32000
// and friends for their own failures.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// prefixed re-roots err under field. Errors that are already DecodeErrors get
// their path extended; anything else becomes a DecodeError at field.
func prefixed(field string, raw []byte, err error) error {
	var de *DecodeError
	if errors.As(err, &de) {
		path := field
		switch {
		case de.Field == "":
		case de.Field[0] == '[':
			path += de.Field
		default:
			path += "." + de.Field
		}
		return &DecodeError{Field: path, Raw: de.Raw, Err: de.Err}
	}
	return &DecodeError{Field: field, Raw: string(raw), Err: err}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
