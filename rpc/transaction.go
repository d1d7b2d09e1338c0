package rpc

import (
	"github.com/ethereum/go-ethereum/common"
)

// Transaction is an eth_getTransactionByHash result, or one element of a
// FullBlock.
//
// BlockHash, BlockNumber and TransactionIndex are null while the transaction
// is pending. To is null exactly for contract creation. Legacy transactions
// carry GasPrice; EIP-1559 transactions carry MaxPriorityFeePerGas and
// MaxFeePerGas. The pairings are not cross-checked.
type Transaction struct {
	BlockHash            OptionalHash        `json:"blockHash"`
	BlockNumber          OptionalHexQuantity `json:"blockNumber"`
	From                 common.Address      `json:"from"`
	Gas                  HexQuantity         `json:"gas"`
	GasPrice             OptionalHexQuantity `json:"gasPrice"`
	MaxPriorityFeePerGas OptionalHexQuantity `json:"maxPriorityFeePerGas"`
	MaxFeePerGas         OptionalHexQuantity `json:"maxFeePerGas"`
	Hash                 common.Hash         `json:"hash"`
	Input                HexBytes            `json:"input"`
	Nonce                HexQuantity         `json:"nonce"`
	To                   OptionalAddress     `json:"to"`
	TransactionIndex     OptionalHexQuantity `json:"transactionIndex"`
	Value                HexQuantity         `json:"value"`
	Type                 OptionalHexQuantity `json:"type"`
	ChainID              OptionalHexQuantity `json:"chainId"`
	V                    HexQuantity         `json:"v"`
	R                    HexQuantity         `json:"r"`
	S                    HexQuantity         `json:"s"`
}

func (t *Transaction) UnmarshalJSON(data []byte) error {
	var dec Transaction
	err := decodeFields(data,
		optional("blockHash", &dec.BlockHash),
		optional("blockNumber", &dec.BlockNumber),
		required("from", &dec.From),
		required("gas", &dec.Gas),
		optional("gasPrice", &dec.GasPrice),
		optional("maxPriorityFeePerGas", &dec.MaxPriorityFeePerGas),
		optional("maxFeePerGas", &dec.MaxFeePerGas),
		required("hash", &dec.Hash),
		required("input", &dec.Input),
		required("nonce", &dec.Nonce),
		optional("to", &dec.To),
		optional("transactionIndex", &dec.TransactionIndex),
		required("value", &dec.Value),
		optional("type", &dec.Type),
		optional("chainId", &dec.ChainID),
		required("v", &dec.V),
		required("r", &dec.R),
		required("s", &dec.S),
	)
	if err != nil {
		return err
	}
	*t = dec
	return nil
}

// IsPending reports whether the transaction has not been mined yet.
func (t *Transaction) IsPending() bool {
	return !t.BlockHash.Valid
}

// IsContractCreation reports whether the transaction deploys a contract.
func (t *Transaction) IsContractCreation() bool {
	return !t.To.Valid
}
