package rpc

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	block14727266Hash = "0xfb3901b3b182eb620d7531bad297a280b8bf2844b72073f107d242da33db7de9"
	fixtureTxHash     = "0x330909900e704a480cf4a8f00742a9356f9c901bab3b4a8099fd20c1cb8e6ebc"
)

const pendingTxJSON = `{
	"blockHash": null,
	"blockNumber": null,
	"from": "0x829bd824b016326a401d083b33d092293333a830",
	"gas": "0x12eda1",
	"gasPrice": "0x9c7652400",
	"maxFeePerGas": null,
	"maxPriorityFeePerGas": null,
	"hash": "0x330909900e704a480cf4a8f00742a9356f9c901bab3b4a8099fd20c1cb8e6ebc",
	"input": "0xa9059cbb",
	"nonce": "0x1",
	"to": "0xd9e1ce17f2641f24ae83637ab66a2cca9c378b9f",
	"transactionIndex": null,
	"value": "0x0",
	"v": "0x25",
	"r": "0x1",
	"s": "0x2"
}`

// fixtureResult returns the result member of a recorded response.
func fixtureResult(t *testing.T, name string) json.RawMessage {
	t.Helper()
	body, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)

	var env struct {
		Result json.RawMessage `json:"result"`
	}
	require.NoError(t, json.Unmarshal(body, &env))
	return env.Result
}

func TestTransactionPending(t *testing.T) {
	var tx Transaction
	require.NoError(t, json.Unmarshal([]byte(pendingTxJSON), &tx))

	assert.False(t, tx.BlockHash.Valid)
	assert.False(t, tx.BlockNumber.Valid)
	assert.False(t, tx.MaxFeePerGas.Valid)
	assert.False(t, tx.MaxPriorityFeePerGas.Valid)
	assert.False(t, tx.TransactionIndex.Valid)
	assert.False(t, tx.Type.Valid, "absent member decodes as absent")
	assert.True(t, tx.GasPrice.Valid)
	assert.True(t, tx.IsPending())
	assert.False(t, tx.IsContractCreation())

	gas, ok := tx.Gas.Uint64()
	require.True(t, ok)
	assert.Equal(t, uint64(1240481), gas)
	assert.Equal(t, []byte{0xa9, 0x05, 0x9c, 0xbb}, []byte(tx.Input))
	assert.Equal(t, common.HexToHash(fixtureTxHash), tx.Hash)
}

func TestTransactionFixture(t *testing.T) {
	var tx Transaction
	require.NoError(t, json.Unmarshal(fixtureResult(t, "eth_getTransactionByHash.json"), &tx))

	assert.Equal(t, common.HexToHash(block14727266Hash), tx.BlockHash.Hash)
	assert.Equal(t, "0xe0b862", tx.BlockNumber.Quantity.String())
	assert.Equal(t, "0x12a05f2000", tx.MaxFeePerGas.Quantity.String())
	assert.Equal(t, "0x2", tx.Type.Quantity.String())
	assert.Empty(t, tx.Input)
	assert.Equal(t, common.HexToAddress("0xd9e1ce17f2641f24ae83637ab66a2cca9c378b9f"), tx.To.Address)
}

func TestTransactionDecodeFailures(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(m map[string]any)
		wantField string
		wantErr   error
	}{
		{"missing from", func(m map[string]any) { delete(m, "from") }, "from", ErrMissingField},
		{"null gas", func(m map[string]any) { m["gas"] = nil }, "gas", ErrInvalidEncoding},
		{"numeric value", func(m map[string]any) { m["value"] = 5 }, "value", ErrInvalidEncoding},
		{"short hash", func(m map[string]any) { m["hash"] = "0x3309" }, "hash", ErrInvalidEncoding},
		{"odd input", func(m map[string]any) { m["input"] = "0x123" }, "input", ErrInvalidEncoding},
		{"bad optional", func(m map[string]any) { m["maxFeePerGas"] = true }, "maxFeePerGas", ErrInvalidEncoding},
		{"short recipient", func(m map[string]any) { m["to"] = "0xd9e1" }, "to", ErrInvalidEncoding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m map[string]any
			require.NoError(t, json.Unmarshal([]byte(pendingTxJSON), &m))
			tt.mutate(m)
			data, err := json.Marshal(m)
			require.NoError(t, err)

			var tx Transaction
			err = json.Unmarshal(data, &tx)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var de *DecodeError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.wantField, de.Field)
		})
	}
}

func TestContractCreation(t *testing.T) {
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(pendingTxJSON), &m))
	m["to"] = nil
	data, err := json.Marshal(m)
	require.NoError(t, err)

	var tx Transaction
	require.NoError(t, json.Unmarshal(data, &tx))
	assert.True(t, tx.IsContractCreation())
}

func TestSummaryBlockFixture(t *testing.T) {
	var block SummaryBlock
	require.NoError(t, json.Unmarshal(fixtureResult(t, "eth_getBlockByNumber_14727266.json"), &block))

	require.True(t, block.Hash.Valid)
	assert.Equal(t, common.HexToHash(block14727266Hash), block.Hash.Hash)
	number, ok := block.Number.Quantity.Uint64()
	require.True(t, ok)
	assert.Equal(t, uint64(14727266), number)
	assert.False(t, block.IsPending())
	assert.Equal(t, "0x3a4b7f2c9d1e0a55", block.Nonce.String())
	assert.Equal(t, common.HexToAddress("0xea674fdde714fd979de3edf0f56aa9716b898ec8"), block.Miner)
	assert.Equal(t, "0x1c9c380", block.GasLimit.String())
	assert.True(t, block.BaseFeePerGas.Valid)
	require.Len(t, block.Transactions, 2)
	assert.Equal(t, common.HexToHash(fixtureTxHash), block.Transactions[0])
	assert.Empty(t, block.Uncles)
	assert.Equal(t, block.Transactions, block.TxHashes())
}

func TestFullBlockFixture(t *testing.T) {
	var block FullBlock
	require.NoError(t, json.Unmarshal(fixtureResult(t, "eth_getBlockByNumber_14727266_full.json"), &block))

	assert.Equal(t, common.HexToHash(block14727266Hash), block.Hash.Hash)
	require.Len(t, block.Transactions, 2)

	first := block.Transactions[0]
	assert.Equal(t, common.HexToHash(fixtureTxHash), first.Hash)
	assert.True(t, first.MaxFeePerGas.Valid)

	second := block.Transactions[1]
	assert.True(t, second.IsContractCreation())
	assert.False(t, second.MaxFeePerGas.Valid)
	assert.True(t, second.GasPrice.Valid)

	assert.Equal(t, []common.Hash{first.Hash, second.Hash}, block.TxHashes())
}

func TestBlockShapesAreNotInterchangeable(t *testing.T) {
	var summary SummaryBlock
	err := json.Unmarshal(fixtureResult(t, "eth_getBlockByNumber_14727266_full.json"), &summary)
	require.Error(t, err)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "transactions[0]", de.Field)
	assert.ErrorIs(t, err, ErrInvalidEncoding)

	var full FullBlock
	err = json.Unmarshal(fixtureResult(t, "eth_getBlockByNumber_14727266.json"), &full)
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "transactions[0]", de.Field)
}

func TestFullBlockNestedFieldPath(t *testing.T) {
	var m map[string]any
	require.NoError(t, json.Unmarshal(fixtureResult(t, "eth_getBlockByNumber_14727266_full.json"), &m))
	txs := m["transactions"].([]any)
	delete(txs[1].(map[string]any), "gas")
	data, err := json.Marshal(m)
	require.NoError(t, err)

	var block FullBlock
	err = json.Unmarshal(data, &block)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "transactions[1].gas", de.Field)
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestPendingBlock(t *testing.T) {
	var m map[string]any
	require.NoError(t, json.Unmarshal(fixtureResult(t, "eth_getBlockByNumber_14727266.json"), &m))
	m["number"] = nil
	m["hash"] = nil
	delete(m, "baseFeePerGas")
	data, err := json.Marshal(m)
	require.NoError(t, err)

	var block SummaryBlock
	require.NoError(t, json.Unmarshal(data, &block))
	assert.True(t, block.IsPending())
	assert.False(t, block.Hash.Valid)
	assert.False(t, block.BaseFeePerGas.Valid)
}

func TestReceiptFixture(t *testing.T) {
	var receipt TransactionReceipt
	require.NoError(t, json.Unmarshal(fixtureResult(t, "eth_getTransactionReceipt.json"), &receipt))

	assert.True(t, receipt.Succeeded())
	assert.False(t, receipt.To.Valid)
	require.True(t, receipt.ContractAddress.Valid)
	assert.Equal(t, common.HexToAddress("0x2e7d2c03a9507ae265ecf5b5356885a53393a202"), receipt.ContractAddress.Address)
	assert.Equal(t, "0x1e8480", receipt.GasUsed.String())
	assert.Equal(t, "0x3f2a11", receipt.CumulativeGasUsed.String())
	assert.Equal(t, common.HexToHash(block14727266Hash), receipt.BlockHash)
}

func TestReceiptMissingStatus(t *testing.T) {
	var m map[string]any
	require.NoError(t, json.Unmarshal(fixtureResult(t, "eth_getTransactionReceipt.json"), &m))
	delete(m, "status")
	data, err := json.Marshal(m)
	require.NoError(t, err)

	var receipt TransactionReceipt
	err = json.Unmarshal(data, &receipt)
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestDecodeIsAllOrNothing(t *testing.T) {
	tx := Transaction{Gas: NewHexQuantity(7)}
	err := json.Unmarshal([]byte(`{"gas": "0x1"}`), &tx)
	require.Error(t, err)
	n, _ := tx.Gas.Uint64()
	assert.Equal(t, uint64(7), n, "failed decode leaves the target untouched")
}

func TestBlockMarshalUsesWireNames(t *testing.T) {
	var block SummaryBlock
	require.NoError(t, json.Unmarshal(fixtureResult(t, "eth_getBlockByNumber_14727266.json"), &block))

	out, err := json.Marshal(block)
	require.NoError(t, err)

	var again SummaryBlock
	require.NoError(t, json.Unmarshal(out, &again))
	assert.Equal(t, block, again)
}
