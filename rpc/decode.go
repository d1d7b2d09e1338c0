package rpc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// =============================================================================
// Field-level decoding primitives
// =============================================================================
//
// Ethereum's JSON-RPC returns every number as a hex string ("0x12eda1") and
// uses null for values that do not exist yet (the hash of a pending block,
// the recipient of a contract creation). Each wrapper type below owns exactly
// one of those wire rules. Models compose them field by field, so a rule is
// written once no matter how many models use it.
//
//   HexQuantity          "0x12eda1"           → 1240481 (256-bit unsigned)
//   OptionalHexQuantity  null | "0x..."       → absent | quantity
//   OptionalHash         null | "0x" + 64hex  → absent | common.Hash
//   OptionalAddress      null | "0x" + 40hex  → absent | common.Address
//   HexBytes             "0x1234" | "1234"    → []byte{0x12, 0x34}
//
// Absent and zero are never conflated: a null number decodes to Valid=false,
// "0x0" decodes to Valid=true with a zero quantity.
// =============================================================================

// HexQuantity is an unsigned 256-bit integer encoded on the wire as a hex string.
type HexQuantity uint256.Int

// DecodeQuantity decodes a JSON string holding base-16 digits. A leading "0x"
// or "0X" is accepted; leading zeros are allowed (block nonces are zero-padded).
func DecodeQuantity(raw json.RawMessage) (HexQuantity, error) {
	s, err := jsonString(raw, "quantity")
	if err != nil {
		return HexQuantity{}, err
	}
	return parseQuantity(s)
}

func parseQuantity(s string) (HexQuantity, error) {
	digits := trimHexPrefix(s)
	if digits == "" {
		return HexQuantity{}, fmt.Errorf("%w: empty quantity %q", ErrInvalidEncoding, s)
	}
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return HexQuantity{}, nil
	}
	var v uint256.Int
	if err := v.SetFromHex("0x" + digits); err != nil {
		return HexQuantity{}, fmt.Errorf("%w: quantity %q: %v", ErrInvalidEncoding, s, err)
	}
	return HexQuantity(v), nil
}

// NewHexQuantity returns the quantity holding n.
func NewHexQuantity(n uint64) HexQuantity {
	return HexQuantity(*uint256.NewInt(n))
}

func (q *HexQuantity) UnmarshalJSON(input []byte) error {
	v, err := DecodeQuantity(input)
	if err != nil {
		return err
	}
	*q = v
	return nil
}

// MarshalText encodes q as minimal lowercase hex with a "0x" prefix.
func (q HexQuantity) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

// String returns the canonical "0x"-prefixed minimal lowercase hex form.
func (q HexQuantity) String() string {
	v := uint256.Int(q)
	return v.Hex()
}

// Int returns a copy of q as a *uint256.Int.
func (q HexQuantity) Int() *uint256.Int {
	v := uint256.Int(q)
	return &v
}

// Big returns q as a *big.Int.
func (q HexQuantity) Big() *big.Int {
	v := uint256.Int(q)
	return v.ToBig()
}

// Uint64 returns the low 64 bits of q and whether q fits in them.
func (q HexQuantity) Uint64() (uint64, bool) {
	v := uint256.Int(q)
	return v.Uint64(), v.IsUint64()
}

// OptionalHexQuantity is a quantity that may be null on the wire.
type OptionalHexQuantity struct {
	Quantity HexQuantity
	Valid    bool // Valid is true if Quantity was present and non-null
}

// DecodeQuantityOptional decodes null as absent and anything else with
// DecodeQuantity. Values that are neither null nor a string fail.
func DecodeQuantityOptional(raw json.RawMessage) (OptionalHexQuantity, error) {
	if isNull(raw) {
		return OptionalHexQuantity{}, nil
	}
	q, err := DecodeQuantity(raw)
	if err != nil {
		return OptionalHexQuantity{}, err
	}
	return OptionalHexQuantity{Quantity: q, Valid: true}, nil
}

func (o *OptionalHexQuantity) UnmarshalJSON(input []byte) error {
	v, err := DecodeQuantityOptional(input)
	if err != nil {
		return err
	}
	*o = v
	return nil
}

func (o OptionalHexQuantity) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Quantity)
}

// Int returns the quantity, or nil when absent.
func (o OptionalHexQuantity) Int() *uint256.Int {
	if !o.Valid {
		return nil
	}
	return o.Quantity.Int()
}

// OptionalHash is a 32-byte hash that may be null on the wire.
type OptionalHash struct {
	Hash  common.Hash
	Valid bool
}

// DecodeHashOptional decodes null as absent; anything else must be a
// "0x"-prefixed string of exactly 64 hex digits.
func DecodeHashOptional(raw json.RawMessage) (OptionalHash, error) {
	if isNull(raw) {
		return OptionalHash{}, nil
	}
	var h common.Hash
	if err := h.UnmarshalJSON(raw); err != nil {
		return OptionalHash{}, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return OptionalHash{Hash: h, Valid: true}, nil
}

func (o *OptionalHash) UnmarshalJSON(input []byte) error {
	v, err := DecodeHashOptional(input)
	if err != nil {
		return err
	}
	*o = v
	return nil
}

func (o OptionalHash) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Hash)
}

// OptionalAddress is a 20-byte address that may be null on the wire.
type OptionalAddress struct {
	Address common.Address
	Valid   bool
}

// DecodeAddressOptional decodes null as absent; anything else must be a
// "0x"-prefixed string of exactly 40 hex digits.
func DecodeAddressOptional(raw json.RawMessage) (OptionalAddress, error) {
	if isNull(raw) {
		return OptionalAddress{}, nil
	}
	var a common.Address
	if err := a.UnmarshalJSON(raw); err != nil {
		return OptionalAddress{}, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return OptionalAddress{Address: a, Valid: true}, nil
}

func (o *OptionalAddress) UnmarshalJSON(input []byte) error {
	v, err := DecodeAddressOptional(input)
	if err != nil {
		return err
	}
	*o = v
	return nil
}

func (o OptionalAddress) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Address)
}

// HexBytes is a byte payload encoded as hex, with or without a "0x" prefix.
type HexBytes []byte

// DecodeBytes strips an optional "0x" or "0X" and hex-decodes the rest. Odd-length
// or non-hex input fails.
func DecodeBytes(raw json.RawMessage) (HexBytes, error) {
	s, err := jsonString(raw, "bytes")
	if err != nil {
		return nil, err
	}
	b, err := hexutil.Decode("0x" + trimHexPrefix(s))
	if err != nil {
		return nil, fmt.Errorf("%w: bytes %q: %v", ErrInvalidEncoding, truncate(s, 32), err)
	}
	return b, nil
}

func (b *HexBytes) UnmarshalJSON(input []byte) error {
	v, err := DecodeBytes(input)
	if err != nil {
		return err
	}
	*b = v
	return nil
}

func (b HexBytes) MarshalText() ([]byte, error) {
	return []byte(hexutil.Encode(b)), nil
}

func (b HexBytes) String() string {
	return hexutil.Encode(b)
}

// isNull reports whether raw is the JSON literal null. Empty input is not
// null and is left for the caller's decoder to reject.
func isNull(raw []byte) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// trimHexPrefix strips a "0x" or "0X" prefix, the same prefixes hexutil
// accepts for hashes and addresses.
func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

func jsonString(raw []byte, what string) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", fmt.Errorf("%w: %s must be a JSON string", ErrInvalidEncoding, what)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return s, nil
}
