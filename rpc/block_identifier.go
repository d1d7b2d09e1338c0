package rpc

import (
	"fmt"
	"strconv"
	"strings"
)

// BlockTag names a block relative to the node's view of the chain.
type BlockTag string

const (
	TagLatest   BlockTag = "latest"
	TagEarliest BlockTag = "earliest"
	TagPending  BlockTag = "pending"
)

// BlockIdentifier selects a block either by tag or by number. The zero value
// selects block 0.
type BlockIdentifier struct {
	tag    BlockTag
	number uint64
}

var (
	Latest   = BlockIdentifier{tag: TagLatest}
	Earliest = BlockIdentifier{tag: TagEarliest}
	Pending  = BlockIdentifier{tag: TagPending}
)

// AtBlock selects the block with the given number.
func AtBlock(number uint64) BlockIdentifier {
	return BlockIdentifier{number: number}
}

// Tag returns the tag and true if b selects by tag.
func (b BlockIdentifier) Tag() (BlockTag, bool) {
	return b.tag, b.tag != ""
}

// Number returns the block number and true if b selects by number.
func (b BlockIdentifier) Number() (uint64, bool) {
	return b.number, b.tag == ""
}

// String renders "latest", "earliest", "pending", or "0x" followed by the
// minimal lowercase hex of the block number.
func (b BlockIdentifier) String() string {
	if b.tag != "" {
		return string(b.tag)
	}
	return "0x" + strconv.FormatUint(b.number, 16)
}

// MarshalText lets a BlockIdentifier be passed directly as a JSON-RPC parameter.
func (b BlockIdentifier) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// ParseBlockIdentifier accepts a tag name, a "0x"-prefixed hex number or a
// decimal number. An empty string selects the latest block.
func ParseBlockIdentifier(s string) (BlockIdentifier, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	switch BlockTag(s) {
	case "", TagLatest:
		return Latest, nil
	case TagEarliest:
		return Earliest, nil
	case TagPending:
		return Pending, nil
	}

	if strings.HasPrefix(s, "0x") {
		n, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return BlockIdentifier{}, fmt.Errorf("invalid hex block number: %s", s)
		}
		return AtBlock(n), nil
	}

	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return BlockIdentifier{}, fmt.Errorf("invalid block number: %s (use decimal, hex with 0x prefix, or a tag)", s)
	}
	return AtBlock(n), nil
}
