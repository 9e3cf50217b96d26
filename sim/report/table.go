package report

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/mitchellh/colorstring"

	"github.com/cashflow-sim/cashflow-sim/sim"
)

// TableOptions controls WriteTable.
type TableOptions struct {
	Color       bool
	Year        int     // restrict the totals block to this year; 0 means every year
	InitialCash float64 // shown above the table
}

var tableHeader = []string{
	"Mese", "Esito", "Incassi", "Costi fissi", "Debito iniziale",
	"Costi fornitori", "Uscite", "Saldo", "Cumulato",
}

type cell struct {
	text  string
	color string // colorstring name, empty for none
}

// WriteTable renders the concise ledger followed by per-year totals.
// Saldo is green when non-negative and red otherwise; Cumulato is cyan or
// yellow.
func WriteTable(w io.Writer, rows []sim.Row, opts TableOptions) error {
	colorize := colorstring.Colorize{
		Colors:  colorstring.DefaultColors,
		Disable: !opts.Color,
		Reset:   true,
	}

	lines := make([][]cell, 0, len(rows)+1)
	head := make([]cell, len(tableHeader))
	for i, h := range tableHeader {
		head[i] = cell{text: h, color: "bold"}
	}
	lines = append(lines, head)
	for _, r := range rows {
		lines = append(lines, []cell{
			{text: r.Label},
			{text: Outcome(r.Net), color: signColor(r.Net, "green", "red")},
			{text: FormatEUR(r.CashIn)},
			{text: FormatEUR(r.FixedCost)},
			{text: FormatEUR(r.InitialDebt)},
			{text: FormatEUR(r.SupplierCash)},
			{text: FormatEUR(r.CashOut)},
			{text: FormatEUR(r.Net), color: signColor(r.Net, "green", "red")},
			{text: FormatEUR(r.Cumulative), color: signColor(r.Cumulative, "cyan", "yellow")},
		})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Prospetto di cassa (cumulato iniziale: %s)\n", FormatEUR(opts.InitialCash))
	writeCells(&b, colorize, lines)

	years := sim.Years(rows)
	if opts.Year != 0 {
		years = []int{opts.Year}
	}
	for _, y := range years {
		t := sim.Summarize(rows, sim.InYear(y))
		if t.Periods == 0 {
			continue
		}
		fmt.Fprintf(&b, "\nTotale %d (%d mesi)\n", y, t.Periods)
		writeCells(&b, colorize, [][]cell{
			{{text: "Incassi"}, {text: FormatEUR(t.CashIn)}},
			{{text: "Costi fissi"}, {text: FormatEUR(t.FixedCost)}},
			{{text: "Debito iniziale"}, {text: FormatEUR(t.InitialDebt)}},
			{{text: "Costi fornitori"}, {text: FormatEUR(t.SupplierCash)}},
			{{text: "Uscite"}, {text: FormatEUR(t.CashOut)}},
			{{text: "Saldo"}, {text: FormatEUR(t.Net), color: signColor(t.Net, "green", "red")}},
		})
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func signColor(v float64, nonNegative, negative string) string {
	if v >= 0 {
		return nonNegative
	}
	return negative
}

// writeCells pads every column to its widest cell, then applies color so
// escape codes do not count toward the width.
func writeCells(b *strings.Builder, colorize colorstring.Colorize, lines [][]cell) {
	var widths []int
	for _, line := range lines {
		for i, c := range line {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if n := utf8.RuneCountInString(c.text); n > widths[i] {
				widths[i] = n
			}
		}
	}
	for _, line := range lines {
		for i, c := range line {
			pad := strings.Repeat(" ", widths[i]-utf8.RuneCountInString(c.text))
			text := c.text
			if i > 0 {
				text = pad + text
				b.WriteString("  ")
			} else {
				text += pad
			}
			if c.color != "" {
				text = colorize.Color("[" + c.color + "]" + text)
			}
			b.WriteString(text)
		}
		b.WriteString("\n")
	}
}
