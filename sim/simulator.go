package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/cashflow-sim/cashflow-sim/sim/trace"
)

// Row is the fully derived ledger line for one period.
type Row struct {
	Period Period `json:"period"`
	Label  string `json:"label"`
	Regime Regime `json:"regime"`

	Revenue       float64 `json:"revenue"`
	CashIn        float64 `json:"cash_in"` // collected receivables + extra receipts
	VariableCost  float64 `json:"variable_cost"`
	InventoryUsed float64 `json:"inventory_used"`
	PurchaseNeed  float64 `json:"purchase_need"`
	MinTopUp      float64 `json:"min_top_up"`
	PaidUpfront   float64 `json:"paid_upfront"`
	PayableDue    float64 `json:"payable_due"` // deferred purchases maturing this period
	NewlyDeferred float64 `json:"newly_deferred"`
	FixedCost     float64 `json:"fixed_cost"`
	InitialDebt   float64 `json:"initial_debt"`
	SupplierCash  float64 `json:"supplier_cash"`
	CashOut       float64 `json:"cash_out"`
	Net           float64 `json:"net"`
	Cumulative    float64 `json:"cumulative"`

	EndingInventory float64 `json:"ending_inventory"`
}

// TotalPurchase returns the purchase total the terms were applied to.
func (r Row) TotalPurchase() float64 { return r.PurchaseNeed + r.MinTopUp }

// Finite returns an error naming the first field of r that is NaN or infinite.
func (r Row) Finite() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"revenue", r.Revenue}, {"cash_in", r.CashIn}, {"variable_cost", r.VariableCost},
		{"inventory_used", r.InventoryUsed}, {"purchase_need", r.PurchaseNeed}, {"min_top_up", r.MinTopUp},
		{"paid_upfront", r.PaidUpfront}, {"payable_due", r.PayableDue}, {"newly_deferred", r.NewlyDeferred},
		{"fixed_cost", r.FixedCost}, {"initial_debt", r.InitialDebt}, {"supplier_cash", r.SupplierCash},
		{"cash_out", r.CashOut}, {"net", r.Net}, {"cumulative", r.Cumulative},
		{"ending_inventory", r.EndingInventory},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%s: %s overflowed to %v", r.Label, f.name, f.v)
		}
	}
	return nil
}

// Result is the outcome of one simulation pass.
type Result struct {
	Rows      []Row
	FinalCash float64 // cumulative cash after the last period (InitialCash if no periods)
	Trace     *trace.ScheduleTrace
}

// Finite reports the first non-finite value in the result, if any. Finite
// inputs can still overflow float64 when they are extreme.
func (res *Result) Finite() error {
	for _, r := range res.Rows {
		if err := r.Finite(); err != nil {
			return err
		}
	}
	if math.IsNaN(res.FinalCash) || math.IsInf(res.FinalCash, 0) {
		return fmt.Errorf("final cash overflowed to %v", res.FinalCash)
	}
	return nil
}

// Simulate runs one forward pass over periods and returns one row per period.
func Simulate(periods []Period, inputs MonthlyInputs, cfg Config) []Row {
	return Run(periods, inputs, cfg).Rows
}

// Run performs the forward pass and also returns the terminal cumulative
// cash and the record of amounts dropped at the horizon boundaries.
//
// Receivables are fully propagated before the main loop; inventory and
// deferred payables carry state forward and require chronological order.
func Run(periods []Period, inputs MonthlyInputs, cfg Config) *Result {
	tr := trace.NewScheduleTrace(len(periods))

	receivables := NewSchedule(trace.KindReceivable, periods, tr)
	for i, p := range periods {
		receivables.Forward(inputs.Revenue.At(p), i, cfg.CollectionLag)
	}

	payables := NewSchedule(trace.KindPayable, periods, tr)
	stock := NewInventoryTracker(cfg.Inventory, cfg.Purchases.Minimum)
	cum := cfg.InitialCash

	rows := make([]Row, 0, len(periods))
	for i, p := range periods {
		revenue := inputs.Revenue.At(p)
		cashIn := receivables.Due(i) + inputs.ExtraReceipts.At(p)

		variableCost := revenue * cfg.CostVarPct / 100
		inv := stock.Step(variableCost, cfg.Purchases.Months.Contains(p))

		terms, regime := cfg.Terms.Resolve(p)
		upfront, deferred := terms.Split(inv.TotalPurchase)
		payables.Forward(deferred, i, PayableDeferralLag)
		due := payables.Due(i)

		supplier := upfront + due
		fixed := inputs.FixedCost.At(p)
		debt := inputs.InitialDebt.At(p)
		cashOut := fixed + debt + supplier
		net := cashIn - cashOut
		cum += net

		row := Row{
			Period:          p,
			Label:           p.Label(),
			Regime:          regime,
			Revenue:         revenue,
			CashIn:          cashIn,
			VariableCost:    variableCost,
			InventoryUsed:   inv.Draw,
			PurchaseNeed:    inv.PurchaseNeed,
			MinTopUp:        inv.MinTopUp,
			PaidUpfront:     upfront,
			PayableDue:      due,
			NewlyDeferred:   deferred,
			FixedCost:       fixed,
			InitialDebt:     debt,
			SupplierCash:    supplier,
			CashOut:         cashOut,
			Net:             net,
			Cumulative:      cum,
			EndingInventory: inv.EndingLevel,
		}
		rows = append(rows, row)

		logrus.Debugf("[%s] in=%.2f out=%.2f net=%.2f cum=%.2f stock=%.2f %s",
			row.Label, cashIn, cashOut, net, cum, inv.EndingLevel, regime)
	}

	return &Result{Rows: rows, FinalCash: cum, Trace: tr}
}
