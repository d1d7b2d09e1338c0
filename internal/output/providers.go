package output

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rodaine/table"

	"github.com/guanqun/uethers/internal/metrics"
)

// HealthReport is the result of sampling every provider.
type HealthReport struct {
	Timestamp time.Time                `json:"timestamp"`
	Samples   int                      `json:"samples"`
	Providers []metrics.ProviderHealth `json:"providers"`
}

func (p *Printer) Health(r *HealthReport) error {
	if p.JSONMode() {
		return p.JSON(r)
	}

	p.println()
	p.printf("%s  %s, %d samples per provider\n", bold("Provider Health"), r.Timestamp.Format("2006-01-02 15:04:05 MST"), r.Samples)
	p.println()

	tbl := table.New("Provider", "Status", "Block", "Mean", "p50", "p95", "p99", "Max", "Success").WithWriter(p.w)
	tbl.WithHeaderFormatter(headerFmt)
	failures := false
	for _, h := range r.Providers {
		failures = failures || h.Failures > 0
		tbl.AddRow(
			h.Name,
			formatStatus(h.Status),
			formatWithCommas(h.LatestBlock),
			formatDuration(h.Latency.Mean),
			formatDuration(h.Latency.P50),
			formatDuration(h.Latency.P95),
			formatDuration(h.Latency.P99),
			formatDuration(h.Latency.Max),
			formatSuccessRate(h.SuccessRate),
		)
	}
	tbl.Print()
	p.println()

	if !failures {
		p.println(green("No errors recorded during sampling."))
		p.println()
		return nil
	}

	p.println(bold("Error Breakdown"))
	outcomes := []string{metrics.OutcomeTimeout, metrics.OutcomeTransport, metrics.OutcomeIO, metrics.OutcomeDecode, metrics.OutcomeRPC, metrics.OutcomeOther}
	header := []any{"Provider"}
	for _, o := range outcomes {
		header = append(header, o)
	}
	errTbl := table.New(header...).WithWriter(p.w)
	errTbl.WithHeaderFormatter(headerFmt)
	for _, h := range r.Providers {
		row := []any{h.Name}
		for _, o := range outcomes {
			row = append(row, formatErrorCount(h.Errors[o]))
		}
		errTbl.AddRow(row...)
	}
	errTbl.Print()
	p.println()
	return nil
}

// AutoSelected notes which provider automatic selection picked. JSON output
// already names the provider in its meta block.
func (p *Printer) AutoSelected(name string, successRate float64, p95 time.Duration) {
	if p.JSONMode() {
		return
	}
	p.printf("%s\n", dim(fmt.Sprintf("[auto-selected %s: %.0f%% success, %s p95]", name, successRate, formatDuration(p95))))
}

// CompareRow is one provider's view of the compared block.
type CompareRow struct {
	Provider string        `json:"provider"`
	Height   uint64        `json:"height,omitempty"`
	Hash     common.Hash   `json:"hash"`
	Latency  time.Duration `json:"-"`
	Err      error         `json:"-"`
}

// CompareReport lists every provider's answer plus the consistency verdict.
type CompareReport struct {
	Block       string
	Rows        []CompareRow
	Consistency *metrics.ConsistencyReport
}

func (r *CompareReport) MarshalJSON() ([]byte, error) {
	type row struct {
		CompareRow
		LatencyMs int64  `json:"latencyMs"`
		Error     string `json:"error,omitempty"`
	}
	rows := make([]row, len(r.Rows))
	for i, cr := range r.Rows {
		rows[i] = row{CompareRow: cr, LatencyMs: cr.Latency.Milliseconds()}
		if cr.Err != nil {
			rows[i].Error = cr.Err.Error()
		}
	}
	return json.Marshal(map[string]any{
		"block":      r.Block,
		"providers":  rows,
		"consistent": r.Consistency.Consistent && len(r.Consistency.HashGroups) > 0,
		"heights":    r.Consistency.Heights,
		"hashGroups": r.Consistency.HashGroups,
		"issues":     r.Consistency.Issues,
	})
}

func (p *Printer) Compare(r *CompareReport) error {
	if p.JSONMode() {
		return p.JSON(r)
	}

	p.println()
	tbl := table.New("Provider", "Latency", "Height", "Block Hash").WithWriter(p.w)
	tbl.WithHeaderFormatter(headerFmt)
	for _, cr := range r.Rows {
		if cr.Err != nil {
			tbl.AddRow(cr.Provider, "-", "-", red("ERROR: "+cr.Err.Error()))
			continue
		}
		tbl.AddRow(cr.Provider, colorLatency(cr.Latency), formatWithCommas(cr.Height), cr.Hash.Hex())
	}
	tbl.Print()
	p.println()

	c := r.Consistency
	switch {
	case len(c.HashGroups) == 0:
		p.printf("%s No providers responded successfully\n", red("✗"))
	case c.HashConsensus:
		p.printf("%s All providers agree on block %s\n", green("✓"), r.Block)
	default:
		p.printf("%s HASH MISMATCH DETECTED\n", yellow("⚠"))
		for _, g := range c.HashGroups {
			p.printf("  %s  →  %s\n", shortHash(g.Hash), strings.Join(g.Providers, ", "))
		}
		for _, issue := range c.Issues {
			p.printf("  %s\n", issue)
		}
	}
	if len(c.Heights) > 0 {
		drift := metrics.FormatHeightDrift(c.HeightVariance)
		if c.HeightConsensus {
			p.printf("  Heads: %s\n", green(drift))
		} else {
			p.printf("  Heads: %s (highest %s at #%s)\n", yellow(drift), c.AuthoritativeProvider, formatWithCommas(c.MaxHeight))
		}
	}
	p.println()
	return nil
}

// EventSeverity ranks watch events.
type EventSeverity int

const (
	SeverityInfo EventSeverity = iota
	SeverityWarning
	SeverityError
)

// WatchEvent is a notable change seen between refreshes.
type WatchEvent struct {
	Timestamp time.Time
	Provider  string
	Message   string
	Severity  EventSeverity
}

// WatchProvider is the latest probe result for one provider.
type WatchProvider struct {
	Name      string        `json:"name"`
	Latency   time.Duration `json:"latency"`
	Height    uint64        `json:"height"`
	Hash      common.Hash   `json:"hash"`
	LastError string        `json:"lastError,omitempty"`
}

// WatchState carries what the watch loop displays between refreshes.
type WatchState struct {
	Providers map[string]*WatchProvider
	Events    []WatchEvent // newest first
	MaxEvents int
	Refresh   time.Duration
}

func NewWatchState(refresh time.Duration, maxEvents int) *WatchState {
	return &WatchState{
		Providers: make(map[string]*WatchProvider),
		MaxEvents: maxEvents,
		Refresh:   refresh,
	}
}

func (w *WatchState) AddEvent(now time.Time, provider, message string, severity EventSeverity) {
	w.Events = append([]WatchEvent{{Timestamp: now, Provider: provider, Message: message, Severity: severity}}, w.Events...)
	if len(w.Events) > w.MaxEvents {
		w.Events = w.Events[:w.MaxEvents]
	}
}

// Update records a probe result and emits events for state changes: a
// provider failing, recovering, or its head moving backwards.
func (w *WatchState) Update(now time.Time, name string, latency time.Duration, height uint64, hash common.Hash, err error) {
	prev, seen := w.Providers[name]
	cur := &WatchProvider{Name: name, Latency: latency, Height: height, Hash: hash}
	if err != nil {
		cur.LastError = err.Error()
		if prev != nil {
			cur.Height, cur.Hash = prev.Height, prev.Hash
		}
	}

	switch {
	case err != nil && (!seen || prev.LastError == ""):
		w.AddEvent(now, name, "error: "+err.Error(), SeverityError)
	case err == nil && seen && prev.LastError != "":
		w.AddEvent(now, name, "recovered", SeverityInfo)
	case err == nil && seen && height < prev.Height:
		w.AddEvent(now, name, fmt.Sprintf("head went back from #%d to #%d", prev.Height, height), SeverityWarning)
	}
	w.Providers[name] = cur
}

// ClearScreen moves the cursor home and clears the terminal.
func (p *Printer) ClearScreen() {
	p.printf("\033[2J\033[H")
}

func (p *Printer) Watch(now time.Time, state *WatchState, consistency *metrics.ConsistencyReport) error {
	if p.JSONMode() {
		names := sortedNames(state.Providers)
		rows := make([]*WatchProvider, len(names))
		for i, n := range names {
			rows[i] = state.Providers[n]
		}
		return p.JSON(map[string]any{
			"timestamp":   now,
			"providers":   rows,
			"consistency": consistency,
		})
	}

	p.ClearScreen()
	p.printf("%s uethers watch ─────────────────── %s (refresh: %s) %s\n",
		cyan("╭─"), now.Format("15:04:05"), state.Refresh, cyan("─╮"))

	for _, name := range sortedNames(state.Providers) {
		wp := state.Providers[name]
		status := green("✓ UP  ")
		latency := colorLatency(wp.Latency)
		if wp.LastError != "" {
			status, latency = red("✗ DOWN"), dim("-")
		}
		p.printf("  %-12s %s  %8s  #%s\n", wp.Name, status, latency, formatWithCommas(wp.Height))
	}
	p.println()

	if consistency != nil {
		switch {
		case consistency.HeightConsensus && consistency.HashConsensus:
			p.printf("  Block Sync: %s\n", green("✓ "+metrics.FormatHeightDrift(consistency.HeightVariance)))
		case !consistency.HashConsensus:
			p.printf("  Block Sync: %s at #%d\n", yellow("⚠ Hash mismatch"), consistency.ReferenceHeight)
			for i, g := range consistency.HashGroups {
				suffix := ""
				if i > 0 {
					suffix = " ← minority"
				}
				p.printf("    %s: %s%s\n", shortHash(g.Hash), strings.Join(g.Providers, ", "), suffix)
			}
		default:
			p.printf("  Block Sync: %s\n", yellow("⚠ "+metrics.FormatHeightDrift(consistency.HeightVariance)))
		}
		p.println()
	}

	p.printf("  %s\n", bold("Recent Events:"))
	if len(state.Events) == 0 {
		p.println("    (no events)")
	}
	for _, e := range state.Events {
		line := fmt.Sprintf("%s  %-12s  %s", e.Timestamp.Format("15:04:05"), e.Provider, e.Message)
		switch e.Severity {
		case SeverityError:
			line = red(line)
		case SeverityWarning:
			line = yellow(line)
		}
		p.printf("    %s\n", line)
	}
	p.println()
	p.println(cyan("╰───────────────────────────────────────────────────────────────────╯"))
	p.println("Press Ctrl+C to exit")
	return nil
}

func sortedNames(m map[string]*WatchProvider) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
