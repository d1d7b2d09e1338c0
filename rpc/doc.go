// Package rpc is a typed client for Ethereum JSON-RPC endpoints.
//
// The wire format is loose: numbers are hex strings, hashes and numbers are
// null until a block or transaction is mined, and eth_getBlockByNumber returns
// either transaction hashes or full transaction objects depending on a flag.
// This package decodes all of it into strict values:
//
//	client := rpc.NewClient("http://localhost:8545")
//	block, err := client.GetBlockByNumber(ctx, rpc.AtBlock(14727266))
//	full, err := client.GetFullBlockByNumber(ctx, rpc.Latest)
//
// Decode failures are *DecodeError values naming the offending field path
// (for example "result.transactions[3].gas") and raw value. Transport
// failures are *TransportError, body read failures *IOError and node-side
// errors *RPCError. Nothing is retried.
package rpc
