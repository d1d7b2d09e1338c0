package rpc

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Request is a JSON-RPC 2.0 request. The ID is always 1: every call is a
// single synchronous HTTP exchange, so there is nothing to correlate.
type Request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

func newRequest(method string, params ...any) Request {
	if params == nil {
		params = []any{}
	}
	return Request{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	}
}

// Response unwraps the result member of a JSON-RPC 2.0 response and decodes
// it with T's own rules. The jsonrpc and id members are ignored.
//
// An error member is returned as *RPCError. A missing result fails with
// ErrMissingField, a null one with ErrNullResult.
type Response[T any] struct {
	Result T
}

func (r *Response[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return &DecodeError{Raw: string(data), Err: fmt.Errorf("%w: expected JSON-RPC response object", ErrInvalidEncoding)}
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return &DecodeError{Raw: string(data), Err: fmt.Errorf("%w: %v", ErrInvalidEncoding, err)}
	}

	if raw, ok := members["error"]; ok && !isNull(raw) {
		var rpcErr RPCError
		if err := json.Unmarshal(raw, &rpcErr); err != nil {
			return prefixed("error", raw, classify(err))
		}
		return &rpcErr
	}

	raw, ok := members["result"]
	if !ok {
		return &DecodeError{Field: "result", Err: ErrMissingField}
	}
	if isNull(raw) {
		return &DecodeError{Field: "result", Raw: "null", Err: ErrNullResult}
	}

	var result T
	if err := json.Unmarshal(raw, &result); err != nil {
		return prefixed("result", raw, classify(err))
	}
	r.Result = result
	return nil
}

// DecodeResult decodes a complete response body and returns its result.
func DecodeResult[T any](body []byte) (T, error) {
	var resp Response[T]
	if err := json.Unmarshal(body, &resp); err != nil {
		var zero T
		return zero, err
	}
	return resp.Result, nil
}
