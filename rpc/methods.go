package rpc

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// GetBalance calls eth_getBalance and returns the balance in wei.
func (c *Client) GetBalance(ctx context.Context, account common.Address, at BlockIdentifier) (*uint256.Int, error) {
	q, err := call[HexQuantity](ctx, c, "eth_getBalance", account, at)
	if err != nil {
		return nil, err
	}
	return q.Int(), nil
}

// GetStorageAt calls eth_getStorageAt and returns the 32-byte slot value.
func (c *Client) GetStorageAt(ctx context.Context, account common.Address, slot common.Hash, at BlockIdentifier) (common.Hash, error) {
	return call[common.Hash](ctx, c, "eth_getStorageAt", account, slot, at)
}

// GetBlockNumber calls eth_blockNumber and returns the current block height.
func (c *Client) GetBlockNumber(ctx context.Context) (uint64, error) {
	q, err := call[HexQuantity](ctx, c, "eth_blockNumber")
	if err != nil {
		return 0, err
	}
	n, ok := q.Uint64()
	if !ok {
		return 0, fmt.Errorf("eth_blockNumber: %w", &DecodeError{
			Field: "result",
			Raw:   q.String(),
			Err:   fmt.Errorf("%w: block number overflows uint64", ErrInvalidEncoding),
		})
	}
	return n, nil
}

// GetTransactionCount calls eth_getTransactionCount and returns the
// account nonce.
func (c *Client) GetTransactionCount(ctx context.Context, account common.Address, at BlockIdentifier) (*uint256.Int, error) {
	q, err := call[HexQuantity](ctx, c, "eth_getTransactionCount", account, at)
	if err != nil {
		return nil, err
	}
	return q.Int(), nil
}

// GetCode calls eth_getCode. Accounts without code return an empty slice.
func (c *Client) GetCode(ctx context.Context, account common.Address, at BlockIdentifier) ([]byte, error) {
	code, err := call[HexBytes](ctx, c, "eth_getCode", account, at)
	if err != nil {
		return nil, err
	}
	return code, nil
}

// GetBlockByNumber calls eth_getBlockByNumber with transaction hashes only.
func (c *Client) GetBlockByNumber(ctx context.Context, at BlockIdentifier) (*SummaryBlock, error) {
	block, err := call[SummaryBlock](ctx, c, "eth_getBlockByNumber", at, false)
	if err != nil {
		return nil, err
	}
	return &block, nil
}

// GetFullBlockByNumber calls eth_getBlockByNumber with full transactions.
func (c *Client) GetFullBlockByNumber(ctx context.Context, at BlockIdentifier) (*FullBlock, error) {
	block, err := call[FullBlock](ctx, c, "eth_getBlockByNumber", at, true)
	if err != nil {
		return nil, err
	}
	return &block, nil
}

// GetTransactionByHash calls eth_getTransactionByHash. Unknown hashes fail
// with ErrNullResult.
func (c *Client) GetTransactionByHash(ctx context.Context, hash common.Hash) (*Transaction, error) {
	tx, err := call[Transaction](ctx, c, "eth_getTransactionByHash", hash)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// GetTransactionReceipt calls eth_getTransactionReceipt. Unknown or pending
// transactions fail with ErrNullResult.
func (c *Client) GetTransactionReceipt(ctx context.Context, hash common.Hash) (*TransactionReceipt, error) {
	receipt, err := call[TransactionReceipt](ctx, c, "eth_getTransactionReceipt", hash)
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}
