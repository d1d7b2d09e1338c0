package output

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/holiman/uint256"

	"github.com/guanqun/uethers/internal/metrics"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()

	headerFmt = color.New(color.FgCyan, color.Underline).SprintfFunc()
)

const weiDecimals = 18

// FormatEther renders wei as a decimal ether amount with trailing zeros
// trimmed, e.g. 1.5 for 1500000000000000000.
func FormatEther(wei *uint256.Int) string {
	if wei == nil {
		return "-"
	}
	digits := wei.Dec()
	if len(digits) <= weiDecimals {
		digits = strings.Repeat("0", weiDecimals-len(digits)+1) + digits
	}
	whole, frac := digits[:len(digits)-weiDecimals], strings.TrimRight(digits[len(digits)-weiDecimals:], "0")
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}

// formatGwei renders wei in gwei with two decimals; nil means the field was
// absent.
func formatGwei(wei *uint256.Int, absent string) string {
	if wei == nil {
		return absent
	}
	gwei := new(big.Float).Quo(new(big.Float).SetInt(wei.ToBig()), big.NewFloat(1e9))
	f, _ := gwei.Float64()
	return fmt.Sprintf("%.2f gwei", f)
}

func formatWithCommas(n uint64) string {
	s := strconv.FormatUint(n, 10)
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}

func formatGasPercent(used, limit uint64) string {
	if limit == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(used)/float64(limit)*100)
}

func formatBlockTime(ts uint64, now time.Time) string {
	t := time.Unix(int64(ts), 0).UTC()
	ago := now.Sub(t)

	var agoStr string
	switch {
	case ago < 0:
		agoStr = "in the future"
	case ago < time.Minute:
		agoStr = fmt.Sprintf("%d seconds ago", int(ago.Seconds()))
	case ago < time.Hour:
		agoStr = fmt.Sprintf("%d minutes ago", int(ago.Minutes()))
	case ago < 24*time.Hour:
		agoStr = fmt.Sprintf("%d hours ago", int(ago.Hours()))
	default:
		agoStr = fmt.Sprintf("%d days ago", int(ago.Hours()/24))
	}
	return fmt.Sprintf("%s (%s)", t.Format("2006-01-02 15:04:05 UTC"), agoStr)
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return "-"
	}
	return fmt.Sprintf("%dms", d.Milliseconds())
}

func colorLatency(d time.Duration) string {
	ms := d.Milliseconds()
	switch {
	case ms < 100:
		return green(fmt.Sprintf("%dms", ms))
	case ms < 300:
		return yellow(fmt.Sprintf("%dms", ms))
	default:
		return red(fmt.Sprintf("%dms", ms))
	}
}

func formatStatus(s metrics.ProviderStatus) string {
	switch s {
	case metrics.StatusUp:
		return green("● UP")
	case metrics.StatusSlow:
		return yellow("◐ SLOW")
	case metrics.StatusDegraded:
		return yellow("◑ DEGRADED")
	default:
		return red("○ DOWN")
	}
}

func formatSuccessRate(rate float64) string {
	s := fmt.Sprintf("%.1f%%", rate)
	switch {
	case rate >= 99:
		return green(s)
	case rate >= 90:
		return yellow(s)
	default:
		return red(s)
	}
}

func formatErrorCount(n int) string {
	if n == 0 {
		return dim("0")
	}
	return red(strconv.Itoa(n))
}

// uint64Of renders q in decimal, or hex when it does not fit.
func uint64Of(q interface {
	Uint64() (uint64, bool)
	String() string
}) string {
	if n, ok := q.Uint64(); ok {
		return formatWithCommas(n)
	}
	return q.String()
}
