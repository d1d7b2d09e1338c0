package rpc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// field binds one JSON member to the value that decodes it.
type field struct {
	name     string
	target   json.Unmarshaler
	optional bool
}

func required(name string, target json.Unmarshaler) field {
	return field{name: name, target: target}
}

// optional fields may be absent; null handling belongs to the target type.
func optional(name string, target json.Unmarshaler) field {
	return field{name: name, target: target, optional: true}
}

// decodeFields decodes a JSON object member by member. The first failure
// aborts the decode and is returned as a DecodeError rooted at the member.
func decodeFields(data []byte, fields ...field) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return &DecodeError{Raw: string(data), Err: fmt.Errorf("%w: expected JSON object", ErrInvalidEncoding)}
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return &DecodeError{Raw: string(data), Err: fmt.Errorf("%w: %v", ErrInvalidEncoding, err)}
	}

	for _, f := range fields {
		raw, ok := members[f.name]
		if !ok {
			if f.optional {
				continue
			}
			return &DecodeError{Field: f.name, Err: ErrMissingField}
		}
		if err := f.target.UnmarshalJSON(raw); err != nil {
			return prefixed(f.name, raw, classify(err))
		}
	}
	return nil
}

// listOf decodes a JSON array using the element type's own rules.
type listOf[T any] struct {
	dst *[]T
}

func list[T any](dst *[]T) listOf[T] {
	return listOf[T]{dst: dst}
}

func (l listOf[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return fmt.Errorf("%w: expected JSON array", ErrInvalidEncoding)
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}

	out := make([]T, len(elems))
	for i, raw := range elems {
		if err := json.Unmarshal(raw, &out[i]); err != nil {
			return prefixed(fmt.Sprintf("[%d]", i), raw, classify(err))
		}
	}
	*l.dst = out
	return nil
}

// classify makes sure foreign decode errors (go-ethereum's hexutil, the json
// package) carry ErrInvalidEncoding.
func classify(err error) error {
	var de *DecodeError
	switch {
	case errors.As(err, &de),
		errors.Is(err, ErrInvalidEncoding),
		errors.Is(err, ErrMissingField),
		errors.Is(err, ErrNullResult):
		return err
	}
	return fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
}
