package output

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/rodaine/table"

	"github.com/guanqun/uethers/rpc"
)

// Raw pretty-prints a result member exactly as the node sent it.
func (p *Printer) Raw(raw json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		_, err = p.w.Write(append(raw, '\n'))
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(p.w)
	return err
}

// Value prints a single labeled scalar, or {"meta":..,"<label>":value} in
// JSON mode.
func (p *Printer) Value(m Meta, label string, value any, display string) error {
	if p.JSONMode() {
		return p.JSON(map[string]any{"meta": m, label: value})
	}
	p.printf("%s %s\n", cyan(label+":"), display)
	p.printf("%s\n", dim("via "+m.Provider+" ("+formatDuration(time.Duration(m.LatencyMs)*time.Millisecond)+")"))
	return nil
}

// Account is the combined state of one address.
type Account struct {
	Address common.Address `json:"address"`
	Block   string         `json:"block"`
	Balance *uint256.Int   `json:"balance"`
	Nonce   *uint256.Int   `json:"nonce"`
	Code    rpc.HexBytes   `json:"code"`
}

func (p *Printer) Account(m Meta, a *Account) error {
	if p.JSONMode() {
		return p.JSON(struct {
			Meta    Meta     `json:"meta"`
			Account *Account `json:"account"`
		}{m, a})
	}

	kind := "externally owned"
	if len(a.Code) > 0 {
		kind = "contract"
	}
	p.println()
	p.println(bold(a.Address.Hex()))
	p.printf("  %s  %s\n", cyan("Block:"), a.Block)
	p.printf("  %s %s ETH\n", cyan("Balance:"), FormatEther(a.Balance))
	p.printf("  %s   %s\n", cyan("Nonce:"), a.Nonce.Dec())
	p.printf("  %s    %s (%d bytes)\n", cyan("Kind:"), kind, len(a.Code))
	p.printf("  %s %s\n", cyan("Fetched via:"), m.Provider)
	p.println()
	return nil
}

// Block renders a summary or full block.
func Block[T rpc.TxRepr](p *Printer, m Meta, b *rpc.Block[T]) error {
	if p.JSONMode() {
		return p.JSON(struct {
			Meta  Meta          `json:"meta"`
			Block *rpc.Block[T] `json:"block"`
		}{m, b})
	}

	title := "Pending block"
	if b.Number.Valid {
		title = "Block #" + uint64Of(b.Number.Quantity)
	}
	hash := "(pending)"
	if b.Hash.Valid {
		hash = b.Hash.Hash.Hex()
	}
	ts, _ := b.Timestamp.Uint64()
	used, _ := b.GasUsed.Uint64()
	limit, _ := b.GasLimit.Uint64()

	p.println()
	p.println(bold(title))
	p.println("═══════════════════════════════════════════════════════")
	p.printf("  %s           %s\n", cyan("Hash:"), hash)
	p.printf("  %s         %s\n", cyan("Parent:"), b.ParentHash.Hex())
	p.printf("  %s          %s\n", cyan("Miner:"), b.Miner.Hex())
	p.printf("  %s      %s\n", cyan("Timestamp:"), formatBlockTime(ts, time.Now()))
	p.println()
	p.printf("  %s       %s / %s (%s)\n", cyan("Gas Used:"),
		formatWithCommas(used), formatWithCommas(limit), formatGasPercent(used, limit))
	p.printf("  %s       %s\n", cyan("Base Fee:"), formatGwei(b.BaseFeePerGas.Int(), "- (pre-London)"))
	p.printf("  %s   %d\n", cyan("Transactions:"), len(b.Transactions))
	p.printf("  %s         %d\n", cyan("Uncles:"), len(b.Uncles))
	p.println()

	if full, ok := any(b).(*rpc.FullBlock); ok && len(full.Transactions) > 0 {
		tbl := table.New("#", "Hash", "From", "To", "Value (ETH)", "Gas").WithWriter(p.w)
		tbl.WithHeaderFormatter(headerFmt)
		for i := range full.Transactions {
			tx := &full.Transactions[i]
			tbl.AddRow(i, shortHash(tx.Hash), shortAddr(tx.From), recipient(tx), FormatEther(tx.Value.Int()), uint64Of(tx.Gas))
		}
		tbl.Print()
		p.println()
	}

	p.printf("  %s    %s (%dms)\n", cyan("Fetched via:"), m.Provider, m.LatencyMs)
	p.println()
	return nil
}

func (p *Printer) Transaction(m Meta, tx *rpc.Transaction) error {
	if p.JSONMode() {
		return p.JSON(struct {
			Meta        Meta             `json:"meta"`
			Transaction *rpc.Transaction `json:"transaction"`
		}{m, tx})
	}

	p.println()
	p.println(bold("Transaction " + tx.Hash.Hex()))
	p.println("═══════════════════════════════════════════════════════")
	if tx.IsPending() {
		p.printf("  %s          %s\n", cyan("Block:"), yellow("pending"))
	} else {
		p.printf("  %s          %s (index %s)\n", cyan("Block:"), uint64Of(tx.BlockNumber.Quantity), uint64Of(tx.TransactionIndex.Quantity))
	}
	p.printf("  %s           %s\n", cyan("From:"), tx.From.Hex())
	p.printf("  %s             %s\n", cyan("To:"), recipient(tx))
	p.printf("  %s          %s ETH\n", cyan("Value:"), FormatEther(tx.Value.Int()))
	p.printf("  %s          %s\n", cyan("Nonce:"), uint64Of(tx.Nonce))
	p.printf("  %s            %s\n", cyan("Gas:"), uint64Of(tx.Gas))
	if tx.MaxFeePerGas.Valid {
		p.printf("  %s   %s\n", cyan("Max Fee:"), formatGwei(tx.MaxFeePerGas.Int(), "-"))
		p.printf("  %s  %s\n", cyan("Priority:"), formatGwei(tx.MaxPriorityFeePerGas.Int(), "-"))
	} else {
		p.printf("  %s      %s\n", cyan("Gas Price:"), formatGwei(tx.GasPrice.Int(), "-"))
	}
	p.printf("  %s          %d bytes\n", cyan("Input:"), len(tx.Input))
	p.println()
	p.printf("  %s    %s (%dms)\n", cyan("Fetched via:"), m.Provider, m.LatencyMs)
	p.println()
	return nil
}

func (p *Printer) Receipt(m Meta, r *rpc.TransactionReceipt) error {
	if p.JSONMode() {
		return p.JSON(struct {
			Meta    Meta                    `json:"meta"`
			Receipt *rpc.TransactionReceipt `json:"receipt"`
		}{m, r})
	}

	status := green("success")
	if !r.Succeeded() {
		status = red("failed")
	}

	p.println()
	p.println(bold("Receipt " + r.TransactionHash.Hex()))
	p.println("═══════════════════════════════════════════════════════")
	p.printf("  %s         %s\n", cyan("Status:"), status)
	p.printf("  %s          %s (index %s)\n", cyan("Block:"), uint64Of(r.BlockNumber), uint64Of(r.TransactionIndex))
	p.printf("  %s           %s\n", cyan("From:"), r.From.Hex())
	if r.ContractAddress.Valid {
		p.printf("  %s        %s\n", cyan("Created:"), r.ContractAddress.Address.Hex())
	} else if r.To.Valid {
		p.printf("  %s             %s\n", cyan("To:"), r.To.Address.Hex())
	}
	p.printf("  %s       %s (cumulative %s)\n", cyan("Gas Used:"), uint64Of(r.GasUsed), uint64Of(r.CumulativeGasUsed))
	if r.EffectiveGasPrice.Valid {
		p.printf("  %s  %s\n", cyan("Gas Price:"), formatGwei(r.EffectiveGasPrice.Int(), "-"))
	}
	p.println()
	p.printf("  %s    %s (%dms)\n", cyan("Fetched via:"), m.Provider, m.LatencyMs)
	p.println()
	return nil
}

func recipient(tx *rpc.Transaction) string {
	if tx.IsContractCreation() {
		return dim("(contract creation)")
	}
	return tx.To.Address.Hex()
}

func shortHash(h common.Hash) string {
	s := h.Hex()
	return s[:10] + "…" + s[len(s)-6:]
}

func shortAddr(a common.Address) string {
	s := a.Hex()
	return s[:8] + "…" + s[len(s)-4:]
}
