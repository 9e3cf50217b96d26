// Package report renders a simulated ledger for people: CSV export,
// euro formatting, and a terminal table with year totals.
package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/cashflow-sim/cashflow-sim/sim"
)

// CSVFilename is the suggested download name for WriteCSV output.
const CSVFilename = "prospetto_cassa.csv"

// CSVHeader is the first record written by WriteCSV.
var CSVHeader = []string{
	"Mese", "Esito", "Incassi", "Costi fissi", "Debito iniziale",
	"Costi fornitori", "Uscite", "Saldo netto", "Cumulato",
}

// Outcome returns "OK" for a non-negative net balance and "NEG" otherwise.
func Outcome(net float64) string {
	if net >= 0 {
		return "OK"
	}
	return "NEG"
}

// WriteCSV writes one record per row after CSVHeader. Amounts are rounded
// to whole units, halves toward +Inf.
func WriteCSV(w io.Writer, rows []sim.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			r.Label,
			Outcome(r.Net),
			RoundHalfUp(r.CashIn),
			RoundHalfUp(r.FixedCost),
			RoundHalfUp(r.InitialDebt),
			RoundHalfUp(r.SupplierCash),
			RoundHalfUp(r.CashOut),
			RoundHalfUp(r.Net),
			RoundHalfUp(r.Cumulative),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing csv row %s: %w", r.Period, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

// RoundHalfUp rounds v to an integer string, with halves going toward
// +Inf: 2.5 -> "3", -2.5 -> "-2". Non-finite values render as "0".
func RoundHalfUp(v float64) string {
	d, ok := toDecimal(v)
	if !ok {
		return "0"
	}
	return d.Add(decimal.NewFromFloat(0.5)).Floor().String()
}
