package console

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Printer writes the human-facing result lines of a command: the deployer account,
// deployed addresses and transaction hashes. Diagnostics go through slog instead.
type Printer struct {
	out     io.Writer
	label   *color.Color
	value   *color.Color
	warning *color.Color
}

func NewPrinter(out io.Writer) *Printer {
	return &Printer{
		out:     out,
		label:   color.New(color.FgHiBlue),
		value:   color.New(color.FgHiGreen, color.Bold),
		warning: color.New(color.FgYellow),
	}
}

func (p *Printer) Result(label string, value any) {
	p.label.Fprintf(p.out, "%s: ", label)
	p.value.Fprintln(p.out, value)
}

func (p *Printer) Line(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) Warn(format string, args ...any) {
	p.warning.Fprintf(p.out, format+"\n", args...)
}
