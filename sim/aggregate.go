package sim

import (
	"math"

	"github.com/shopspring/decimal"
)

// Totals sums the flow fields of a set of rows.
type Totals struct {
	Periods       int     `json:"periods"`
	Revenue       float64 `json:"revenue"`
	CashIn        float64 `json:"cash_in"`
	VariableCost  float64 `json:"variable_cost"`
	InventoryUsed float64 `json:"inventory_used"`
	PurchaseNeed  float64 `json:"purchase_need"`
	MinTopUp      float64 `json:"min_top_up"`
	PaidUpfront   float64 `json:"paid_upfront"`
	PayableDue    float64 `json:"payable_due"`
	NewlyDeferred float64 `json:"newly_deferred"`
	FixedCost     float64 `json:"fixed_cost"`
	InitialDebt   float64 `json:"initial_debt"`
	SupplierCash  float64 `json:"supplier_cash"`
	CashOut       float64 `json:"cash_out"`
	Net           float64 `json:"net"`
}

// Summarize sums every flow field over the rows accepted by keep.
// A nil keep accepts every row. Sums are accumulated in decimal, so the
// result does not depend on row order. Non-finite values count as 0.
func Summarize(rows []Row, keep func(Row) bool) Totals {
	var acc [14]decimal.Decimal
	n := 0
	for _, r := range rows {
		if keep != nil && !keep(r) {
			continue
		}
		n++
		for i, v := range flowFields(r) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			acc[i] = acc[i].Add(decimal.NewFromFloat(v))
		}
	}
	f := func(i int) float64 { return acc[i].InexactFloat64() }
	return Totals{
		Periods:       n,
		Revenue:       f(0),
		CashIn:        f(1),
		VariableCost:  f(2),
		InventoryUsed: f(3),
		PurchaseNeed:  f(4),
		MinTopUp:      f(5),
		PaidUpfront:   f(6),
		PayableDue:    f(7),
		NewlyDeferred: f(8),
		FixedCost:     f(9),
		InitialDebt:   f(10),
		SupplierCash:  f(11),
		CashOut:       f(12),
		Net:           f(13),
	}
}

func flowFields(r Row) [14]float64 {
	return [14]float64{
		r.Revenue, r.CashIn, r.VariableCost, r.InventoryUsed, r.PurchaseNeed,
		r.MinTopUp, r.PaidUpfront, r.PayableDue, r.NewlyDeferred, r.FixedCost,
		r.InitialDebt, r.SupplierCash, r.CashOut, r.Net,
	}
}

// InYear keeps rows of the given calendar year. Within a horizon this is
// the same as keeping labels ending in the year's last two digits.
func InYear(year int) func(Row) bool {
	return func(r Row) bool { return r.Period.Year == year }
}

// Between keeps rows from from to to inclusive.
func Between(from, to Period) func(Row) bool {
	return func(r Row) bool {
		return Compare(r.Period, from) >= 0 && Compare(r.Period, to) <= 0
	}
}

// Years returns the distinct calendar years covered by rows, in order.
func Years(rows []Row) []int {
	var out []int
	for _, r := range rows {
		if len(out) == 0 || out[len(out)-1] != r.Period.Year {
			out = append(out, r.Period.Year)
		}
	}
	return out
}

// LowestCash returns the row with the smallest cumulative cash. The first
// such row wins ties. ok is false for an empty slice.
func LowestCash(rows []Row) (low Row, ok bool) {
	for i, r := range rows {
		if i == 0 || r.Cumulative < low.Cumulative {
			low = r
		}
	}
	return low, len(rows) > 0
}

// NegativeMonths counts rows whose net balance is below zero.
func NegativeMonths(rows []Row) int {
	n := 0
	for _, r := range rows {
		if r.Net < 0 {
			n++
		}
	}
	return n
}
