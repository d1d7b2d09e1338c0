// Package output renders command results either as colored terminal text
// or as indented JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Format selects how a Printer renders.
type Format string

const (
	FormatTerminal Format = "terminal"
	FormatJSON     Format = "json"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatTerminal, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format %q (expected terminal or json)", s)
	}
}

// Printer writes results to w.
type Printer struct {
	w      io.Writer
	format Format
}

func New(w io.Writer, format Format) *Printer {
	return &Printer{w: w, format: format}
}

func (p *Printer) JSONMode() bool { return p.format == FormatJSON }

// Meta describes where a result came from.
type Meta struct {
	Provider  string `json:"provider"`
	LatencyMs int64  `json:"latencyMs"`
}

func NewMeta(provider string, latency time.Duration) Meta {
	return Meta{Provider: provider, LatencyMs: latency.Milliseconds()}
}

// JSON writes v indented, followed by a newline.
func (p *Printer) JSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *Printer) printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) println(args ...any) {
	fmt.Fprintln(p.w, args...)
}
