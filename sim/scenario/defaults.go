package scenario

import "github.com/cashflow-sim/cashflow-sim/sim"

// Default planning values.
const (
	DefaultInitialCash       = 5000
	DefaultMarginPct         = 35
	DefaultInitialInventory  = 70000
	DefaultMonthlyUse        = 7000
	DefaultMinPurchase       = 5000
	DefaultMinPurchaseMonths = "Set-25, Ott-25"
	DefaultCutoff            = "2025-12"
	DefaultCollectionLag     = 1

	defaultRevenue   = 120000
	defaultFixedCost = 25000
	rampRevenue      = 20000
	debtInstallment  = 13000
	startupReceipt   = 5000
)

var (
	defaultStart = sim.Period{Year: 2025, Month: 9}
	defaultEnd   = sim.Period{Year: 2026, Month: 12}
)

// Default returns the built-in scenario: Sep-25 to Dic-26, a two-month
// ramp-up at reduced revenue, legacy debt paid off by Gen-26, and supplier
// terms tightening after Dic-25.
func Default() *Scenario {
	a := func(v float64) *Amount { return Amount(v).Ptr() }
	return &Scenario{
		Version:     "1",
		Horizon:     HorizonSpec{Start: defaultStart.Key(), End: defaultEnd.Key()},
		InitialCash: DefaultInitialCash,
		MarginPct:   DefaultMarginPct,
		Inventory:   InventorySpec{Initial: DefaultInitialInventory, MonthlyUse: DefaultMonthlyUse},
		MinPurchase: MinPurchaseSpec{Amount: DefaultMinPurchase, Months: DefaultMinPurchaseMonths},
		Terms: TermsSpec{
			Cutoff:  DefaultCutoff,
			Regime1: TermSpec{UpfrontPct: 60, DeferredPct: 40},
			Regime2: TermSpec{UpfrontPct: 10, DeferredPct: 90},
		},
		CollectionLag: DefaultCollectionLag,
		Monthly: MonthlySpec{
			Defaults: MonthValues{
				Revenue:       a(defaultRevenue),
				FixedCost:     a(defaultFixedCost),
				InitialDebt:   a(0),
				ExtraReceipts: a(0),
			},
			Overrides: map[string]MonthValues{
				"Set-25": {Revenue: a(rampRevenue), FixedCost: a(12000), InitialDebt: a(debtInstallment), ExtraReceipts: a(startupReceipt)},
				"Ott-25": {Revenue: a(rampRevenue), FixedCost: a(12000), InitialDebt: a(debtInstallment)},
				"Nov-25": {FixedCost: a(17000), InitialDebt: a(debtInstallment)},
				"Dic-25": {FixedCost: a(17000), InitialDebt: a(debtInstallment)},
				"Gen-26": {InitialDebt: a(debtInstallment)},
			},
		},
	}
}

// DefaultPeriods returns the default horizon.
func DefaultPeriods() []sim.Period {
	return sim.PeriodRange(defaultStart, defaultEnd)
}
