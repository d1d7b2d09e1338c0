package rpc

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeQuantity(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string // canonical form
		wantErr bool
	}{
		{"zero", `"0x0"`, "0x0", false},
		{"gas", `"0x12eda1"`, "0x12eda1", false},
		{"uppercase digits", `"0xABCDEF"`, "0xabcdef", false},
		{"padded nonce", `"0x0000000000000000"`, "0x0", false},
		{"leading zeros", `"0x00ff"`, "0xff", false},
		{"no prefix", `"12eda1"`, "0x12eda1", false},
		{"uppercase prefix", `"0X1f"`, "0x1f", false},
		{"max uint256", `"0x` + strings.Repeat("f", 64) + `"`, "0x" + strings.Repeat("f", 64), false},
		{"over 256 bits", `"0x1` + strings.Repeat("0", 64) + `"`, "", true},
		{"empty digits", `"0x"`, "", true},
		{"empty string", `""`, "", true},
		{"non hex", `"0xzz"`, "", true},
		{"negative", `"-0x1"`, "", true},
		{"signed digits", `"0x+1"`, "", true},
		{"number literal", `1240481`, "", true},
		{"null", `null`, "", true},
		{"object", `{}`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := DecodeQuantity(json.RawMessage(tt.raw))
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidEncoding)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, q.String())
		})
	}
}

func TestDecodeQuantityRoundTrip(t *testing.T) {
	for _, s := range []string{"0x0", "0x1", "0x12eda1", "0xe0b862", "0xde0b6b3a7640000", "0x" + strings.Repeat("f", 64)} {
		q, err := DecodeQuantity(json.RawMessage(`"` + s + `"`))
		require.NoError(t, err)
		assert.Equal(t, s, q.String())

		again, err := DecodeQuantity(json.RawMessage(`"` + q.String() + `"`))
		require.NoError(t, err)
		assert.Equal(t, q, again)
	}
}

func TestHexQuantityAccessors(t *testing.T) {
	q := NewHexQuantity(1240481)
	n, ok := q.Uint64()
	assert.True(t, ok)
	assert.Equal(t, uint64(1240481), n)
	assert.Equal(t, "1240481", q.Big().String())
	assert.Equal(t, uint64(1240481), q.Int().Uint64())

	big, err := DecodeQuantity(json.RawMessage(`"0x10000000000000000"`))
	require.NoError(t, err)
	_, ok = big.Uint64()
	assert.False(t, ok)
}

func TestDecodeQuantityOptional(t *testing.T) {
	absent, err := DecodeQuantityOptional(json.RawMessage(`null`))
	require.NoError(t, err)
	assert.False(t, absent.Valid)
	assert.Nil(t, absent.Int())

	zero, err := DecodeQuantityOptional(json.RawMessage(`"0x0"`))
	require.NoError(t, err)
	assert.True(t, zero.Valid)
	assert.True(t, zero.Int().IsZero())

	for _, raw := range []string{`1`, `true`, `{}`, `[]`, ``, `  `} {
		_, err := DecodeQuantityOptional(json.RawMessage(raw))
		assert.ErrorIs(t, err, ErrInvalidEncoding, raw)
	}
}

// Only the literal null is absent; empty input is malformed for every
// optional primitive.
func TestOptionalRejectsEmptyInput(t *testing.T) {
	for _, raw := range []string{``, ` `, "\n"} {
		_, err := DecodeQuantityOptional(json.RawMessage(raw))
		assert.ErrorIs(t, err, ErrInvalidEncoding, "quantity %q", raw)

		_, err = DecodeHashOptional(json.RawMessage(raw))
		assert.ErrorIs(t, err, ErrInvalidEncoding, "hash %q", raw)

		_, err = DecodeAddressOptional(json.RawMessage(raw))
		assert.ErrorIs(t, err, ErrInvalidEncoding, "address %q", raw)
	}

	q, err := DecodeQuantityOptional(json.RawMessage(` null `))
	require.NoError(t, err)
	assert.False(t, q.Valid)
}

// "0x" and "0X" are accepted alike by every primitive.
func TestHexPrefixCaseIsUniform(t *testing.T) {
	const hash = "330909900e704a480cf4a8f00742a9356f9c901bab3b4a8099fd20c1cb8e6ebc"
	const addr = "d9e1ce17f2641f24ae83637ab66a2cca9c378b9f"

	for _, prefix := range []string{"0x", "0X"} {
		t.Run(prefix, func(t *testing.T) {
			q, err := DecodeQuantity(json.RawMessage(`"` + prefix + `1f"`))
			require.NoError(t, err)
			assert.Equal(t, "0x1f", q.String())

			b, err := DecodeBytes(json.RawMessage(`"` + prefix + `1234"`))
			require.NoError(t, err)
			assert.Equal(t, []byte{0x12, 0x34}, []byte(b))

			h, err := DecodeHashOptional(json.RawMessage(`"` + prefix + hash + `"`))
			require.NoError(t, err)
			assert.Equal(t, common.HexToHash(hash), h.Hash)

			a, err := DecodeAddressOptional(json.RawMessage(`"` + prefix + addr + `"`))
			require.NoError(t, err)
			assert.Equal(t, common.HexToAddress(addr), a.Address)
		})
	}
}

func TestDecodeHashOptional(t *testing.T) {
	valid := "0x330909900e704a480cf4a8f00742a9356f9c901bab3b4a8099fd20c1cb8e6ebc"

	tests := []struct {
		name      string
		raw       string
		wantValid bool
		wantErr   bool
	}{
		{"null", `null`, false, false},
		{"66 chars", `"` + valid + `"`, true, false},
		{"too short", `"` + valid[:64] + `"`, false, true},
		{"too long", `"` + valid + `00"`, false, true},
		{"missing prefix", `"` + valid[2:] + `"`, false, true},
		{"non hex", `"0x` + strings.Repeat("g", 64) + `"`, false, true},
		{"number", `1`, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := DecodeHashOptional(json.RawMessage(tt.raw))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidEncoding)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, h.Valid)
			if tt.wantValid {
				assert.Equal(t, common.HexToHash(valid), h.Hash)
			}
		})
	}
}

func TestDecodeAddressOptional(t *testing.T) {
	a, err := DecodeAddressOptional(json.RawMessage(`null`))
	require.NoError(t, err)
	assert.False(t, a.Valid)

	a, err = DecodeAddressOptional(json.RawMessage(`"0xd9e1ce17f2641f24ae83637ab66a2cca9c378b9f"`))
	require.NoError(t, err)
	assert.True(t, a.Valid)
	assert.Equal(t, common.HexToAddress("0xd9e1ce17f2641f24ae83637ab66a2cca9c378b9f"), a.Address)

	_, err = DecodeAddressOptional(json.RawMessage(`"0xd9e1ce17"`))
	assert.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestDecodeBytes(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []byte
		wantErr bool
	}{
		{"prefixed", `"0x1234"`, []byte{0x12, 0x34}, false},
		{"unprefixed", `"1234"`, []byte{0x12, 0x34}, false},
		{"uppercase prefix", `"0X1234"`, []byte{0x12, 0x34}, false},
		{"empty code", `"0x"`, []byte{}, false},
		{"odd length", `"0x123"`, nil, true},
		{"non hex", `"0xzz"`, nil, true},
		{"not a string", `4660`, nil, true},
		{"null", `null`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := DecodeBytes(json.RawMessage(tt.raw))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidEncoding)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, []byte(b))
		})
	}
}

func TestWrappersMarshalCanonicalHex(t *testing.T) {
	v := struct {
		Q  HexQuantity         `json:"q"`
		OQ OptionalHexQuantity `json:"oq"`
		OH OptionalHash        `json:"oh"`
		OA OptionalAddress     `json:"oa"`
		B  HexBytes            `json:"b"`
	}{
		Q:  NewHexQuantity(255),
		OQ: OptionalHexQuantity{},
		OH: OptionalHash{},
		OA: OptionalAddress{Address: common.HexToAddress("0x01"), Valid: true},
		B:  HexBytes{0x12, 0x34},
	}

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"q": "0xff",
		"oq": null,
		"oh": null,
		"oa": "0x0000000000000000000000000000000000000001",
		"b": "0x1234"
	}`, string(out))
}
