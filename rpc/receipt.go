package rpc

import (
	"github.com/ethereum/go-ethereum/common"
)

// Receipt status codes since Byzantium.
const (
	ReceiptStatusFailed     = 0
	ReceiptStatusSuccessful = 1
)

// TransactionReceipt is an eth_getTransactionReceipt result.
type TransactionReceipt struct {
	TransactionHash   common.Hash         `json:"transactionHash"`
	TransactionIndex  HexQuantity         `json:"transactionIndex"`
	BlockHash         common.Hash         `json:"blockHash"`
	BlockNumber       HexQuantity         `json:"blockNumber"`
	From              common.Address      `json:"from"`
	To                OptionalAddress     `json:"to"` // null for contract creation
	CumulativeGasUsed HexQuantity         `json:"cumulativeGasUsed"`
	GasUsed           HexQuantity         `json:"gasUsed"`
	EffectiveGasPrice OptionalHexQuantity `json:"effectiveGasPrice"`
	ContractAddress   OptionalAddress     `json:"contractAddress"`
	Status            HexQuantity         `json:"status"`
}

func (r *TransactionReceipt) UnmarshalJSON(data []byte) error {
	var dec TransactionReceipt
	err := decodeFields(data,
		required("transactionHash", &dec.TransactionHash),
		required("transactionIndex", &dec.TransactionIndex),
		required("blockHash", &dec.BlockHash),
		required("blockNumber", &dec.BlockNumber),
		required("from", &dec.From),
		optional("to", &dec.To),
		required("cumulativeGasUsed", &dec.CumulativeGasUsed),
		required("gasUsed", &dec.GasUsed),
		optional("effectiveGasPrice", &dec.EffectiveGasPrice),
		optional("contractAddress", &dec.ContractAddress),
		required("status", &dec.Status),
	)
	if err != nil {
		return err
	}
	*r = dec
	return nil
}

// Succeeded reports whether the status code is 1.
func (r *TransactionReceipt) Succeeded() bool {
	status, ok := r.Status.Uint64()
	return ok && status == ReceiptStatusSuccessful
}
