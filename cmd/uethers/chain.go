package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/guanqun/uethers/internal/output"
	"github.com/guanqun/uethers/rpc"
)

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

func parseHash(s string) (common.Hash, error) {
	var h common.Hash
	if err := h.UnmarshalText([]byte(s)); err != nil {
		return common.Hash{}, fmt.Errorf("invalid hash %q: %w", s, err)
	}
	return h, nil
}

// parseSlot accepts a decimal or 0x-prefixed slot index and left-pads it to
// 32 bytes.
func parseSlot(s string) (common.Hash, error) {
	var n uint256.Int
	if err := n.SetFromDecimal(s); err == nil {
		return common.Hash(n.Bytes32()), nil
	}
	if !strings.HasPrefix(s, "0x") || len(s) > 66 {
		return common.Hash{}, fmt.Errorf("invalid storage slot %q", s)
	}
	b, err := hexutil.Decode("0x" + strings.Repeat("0", len(s)%2) + s[2:])
	if err != nil {
		return common.Hash{}, fmt.Errorf("invalid storage slot %q: %w", s, err)
	}
	return common.BytesToHash(b), nil
}

// accountQuery wires the shared <address> [--block] shape of the account
// commands.
func accountQuery(a *app, use, short string, run func(cmd *cobra.Command, c *rpc.Client, addr common.Address, at rpc.BlockIdentifier, args []string) error) *cobra.Command {
	var block string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			at, err := rpc.ParseBlockIdentifier(block)
			if err != nil {
				return err
			}
			c, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			return run(cmd, c, addr, at, args[1:])
		},
	}
	cmd.Flags().StringVarP(&block, "block", "b", "latest", "Block: latest, earliest, pending, a number or 0x-hex")
	return cmd
}

func balanceCmd(a *app) *cobra.Command {
	return accountQuery(a, "balance <address>", "Get an account balance (eth_getBalance)",
		func(cmd *cobra.Command, c *rpc.Client, addr common.Address, at rpc.BlockIdentifier, _ []string) error {
			ctx, cancel := a.requestContext(cmd.Context())
			defer cancel()

			start := time.Now()
			wei, err := c.GetBalance(ctx, addr, at)
			if err != nil {
				return err
			}
			m := output.NewMeta(c.Name(), time.Since(start))
			return a.printer.Value(m, "balance", wei.Dec(), fmt.Sprintf("%s ETH (%s wei)", output.FormatEther(wei), wei.Dec()))
		})
}

func nonceCmd(a *app) *cobra.Command {
	return accountQuery(a, "nonce <address>", "Get an account nonce (eth_getTransactionCount)",
		func(cmd *cobra.Command, c *rpc.Client, addr common.Address, at rpc.BlockIdentifier, _ []string) error {
			ctx, cancel := a.requestContext(cmd.Context())
			defer cancel()

			start := time.Now()
			nonce, err := c.GetTransactionCount(ctx, addr, at)
			if err != nil {
				return err
			}
			return a.printer.Value(output.NewMeta(c.Name(), time.Since(start)), "nonce", nonce.Dec(), nonce.Dec())
		})
}

func codeCmd(a *app) *cobra.Command {
	return accountQuery(a, "code <address>", "Get contract bytecode (eth_getCode)",
		func(cmd *cobra.Command, c *rpc.Client, addr common.Address, at rpc.BlockIdentifier, _ []string) error {
			ctx, cancel := a.requestContext(cmd.Context())
			defer cancel()

			start := time.Now()
			code, err := c.GetCode(ctx, addr, at)
			if err != nil {
				return err
			}
			hex := hexutil.Encode(code)
			return a.printer.Value(output.NewMeta(c.Name(), time.Since(start)), "code", hex, fmt.Sprintf("%s (%d bytes)", hex, len(code)))
		})
}

func storageCmd(a *app) *cobra.Command {
	cmd := accountQuery(a, "storage <address> <slot>", "Read a storage slot (eth_getStorageAt)",
		func(cmd *cobra.Command, c *rpc.Client, addr common.Address, at rpc.BlockIdentifier, rest []string) error {
			slot, err := parseSlot(rest[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.requestContext(cmd.Context())
			defer cancel()

			start := time.Now()
			value, err := c.GetStorageAt(ctx, addr, slot, at)
			if err != nil {
				return err
			}
			return a.printer.Value(output.NewMeta(c.Name(), time.Since(start)), "value", value, value.Hex())
		})
	cmd.Args = cobra.ExactArgs(2)
	return cmd
}

func accountCmd(a *app) *cobra.Command {
	return accountQuery(a, "account <address>", "Fetch balance, nonce and code concurrently",
		func(cmd *cobra.Command, c *rpc.Client, addr common.Address, at rpc.BlockIdentifier, _ []string) error {
			ctx, cancel := a.requestContext(cmd.Context())
			defer cancel()

			acct := &output.Account{Address: addr, Block: at.String()}
			start := time.Now()

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() (err error) {
				acct.Balance, err = c.GetBalance(gctx, addr, at)
				return err
			})
			g.Go(func() (err error) {
				acct.Nonce, err = c.GetTransactionCount(gctx, addr, at)
				return err
			})
			g.Go(func() (err error) {
				acct.Code, err = c.GetCode(gctx, addr, at)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}
			return a.printer.Account(output.NewMeta(c.Name(), time.Since(start)), acct)
		})
}

func blockNumberCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "block-number",
		Short: "Get the current head (eth_blockNumber)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			ctx, cancel := a.requestContext(cmd.Context())
			defer cancel()

			start := time.Now()
			n, err := c.GetBlockNumber(ctx)
			if err != nil {
				return err
			}
			return a.printer.Value(output.NewMeta(c.Name(), time.Since(start)), "blockNumber", n, fmt.Sprintf("%d", n))
		},
	}
}

func blockCmd(a *app) *cobra.Command {
	var full, raw bool

	cmd := &cobra.Command{
		Use:   "block [latest|earliest|pending|number]",
		Short: "Fetch a block (eth_getBlockByNumber)",
		Long: `Fetch a block by number or tag.

Examples:
  uethers block
  uethers block 14727266
  uethers block 0xe0b862 --full
  uethers block latest --raw`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel := ""
			if len(args) > 0 {
				sel = args[0]
			}
			at, err := rpc.ParseBlockIdentifier(sel)
			if err != nil {
				return err
			}
			c, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			ctx, cancel := a.requestContext(cmd.Context())
			defer cancel()

			start := time.Now()
			if raw {
				res, err := c.Call(ctx, "eth_getBlockByNumber", at, full)
				if err != nil {
					return err
				}
				return a.printer.Raw(res)
			}
			if full {
				b, err := c.GetFullBlockByNumber(ctx, at)
				if err != nil {
					return err
				}
				return output.Block(a.printer, output.NewMeta(c.Name(), time.Since(start)), b)
			}
			b, err := c.GetBlockByNumber(ctx, at)
			if err != nil {
				return err
			}
			return output.Block(a.printer, output.NewMeta(c.Name(), time.Since(start)), b)
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "Include full transaction objects")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the undecoded result member")
	return cmd
}

func txCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tx <hash>",
		Short: "Fetch a transaction (eth_getTransactionByHash)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := parseHash(args[0])
			if err != nil {
				return err
			}
			c, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			ctx, cancel := a.requestContext(cmd.Context())
			defer cancel()

			start := time.Now()
			tx, err := c.GetTransactionByHash(ctx, hash)
			if err != nil {
				return err
			}
			return a.printer.Transaction(output.NewMeta(c.Name(), time.Since(start)), tx)
		},
	}
}

func receiptCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "receipt <hash>",
		Short: "Fetch a transaction receipt (eth_getTransactionReceipt)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := parseHash(args[0])
			if err != nil {
				return err
			}
			c, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			ctx, cancel := a.requestContext(cmd.Context())
			defer cancel()

			start := time.Now()
			r, err := c.GetTransactionReceipt(ctx, hash)
			if err != nil {
				return err
			}
			return a.printer.Receipt(output.NewMeta(c.Name(), time.Since(start)), r)
		},
	}
}

func callCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "call <method> [param...]",
		Short: "Send any JSON-RPC method and print the raw result",
		Long: `Each param is parsed as JSON; anything that is not valid JSON is sent as a string.

Examples:
  uethers call eth_chainId
  uethers call eth_getBlockByNumber latest false`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := make([]any, 0, len(args)-1)
			for _, p := range args[1:] {
				var v any
				if err := json.Unmarshal([]byte(p), &v); err != nil {
					v = p
				}
				params = append(params, v)
			}
			c, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			ctx, cancel := a.requestContext(cmd.Context())
			defer cancel()

			res, err := c.Call(ctx, args[0], params...)
			if err != nil {
				return err
			}
			return a.printer.Raw(res)
		},
	}
}
