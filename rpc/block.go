package rpc

import (
	"github.com/ethereum/go-ethereum/common"
)

// TxRepr is the set of transaction representations a block can carry:
// bare hashes (eth_getBlockByNumber with false) or full records (with true).
type TxRepr interface {
	common.Hash | Transaction
}

// Block is an eth_getBlockByNumber result. The scalar header fields are the
// same for both transaction representations; only Transactions differs.
//
// Number and Hash are both null while the block is pending.
type Block[T TxRepr] struct {
	Number        OptionalHexQuantity `json:"number"`
	Hash          OptionalHash        `json:"hash"`
	ParentHash    common.Hash         `json:"parentHash"`
	Nonce         HexQuantity         `json:"nonce"`
	Miner         common.Address      `json:"miner"`
	Difficulty    HexQuantity         `json:"difficulty"`
	GasLimit      HexQuantity         `json:"gasLimit"`
	GasUsed       HexQuantity         `json:"gasUsed"`
	Timestamp     HexQuantity         `json:"timestamp"`
	BaseFeePerGas OptionalHexQuantity `json:"baseFeePerGas"` // absent before London
	Transactions  []T                 `json:"transactions"`
	Uncles        []common.Hash       `json:"uncles"`
}

// SummaryBlock lists its transactions by hash.
type SummaryBlock = Block[common.Hash]

// FullBlock embeds every transaction record.
type FullBlock = Block[Transaction]

func (b *Block[T]) UnmarshalJSON(data []byte) error {
	var dec Block[T]
	err := decodeFields(data,
		optional("number", &dec.Number),
		optional("hash", &dec.Hash),
		required("parentHash", &dec.ParentHash),
		required("nonce", &dec.Nonce),
		required("miner", &dec.Miner),
		required("difficulty", &dec.Difficulty),
		required("gasLimit", &dec.GasLimit),
		required("gasUsed", &dec.GasUsed),
		required("timestamp", &dec.Timestamp),
		optional("baseFeePerGas", &dec.BaseFeePerGas),
		required("transactions", list(&dec.Transactions)),
		required("uncles", list(&dec.Uncles)),
	)
	if err != nil {
		return err
	}
	*b = dec
	return nil
}

// IsPending reports whether the node returned the block without a number.
func (b *Block[T]) IsPending() bool {
	return !b.Number.Valid
}

// TxHashes returns the hash of every transaction regardless of representation.
func (b *Block[T]) TxHashes() []common.Hash {
	hashes := make([]common.Hash, len(b.Transactions))
	for i, tx := range b.Transactions {
		switch v := any(tx).(type) {
		case common.Hash:
			hashes[i] = v
		case Transaction:
			hashes[i] = v.Hash
		}
	}
	return hashes
}
