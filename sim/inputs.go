package sim

// Series maps periods to monetary amounts. Lookups of missing periods yield 0.
type Series map[Period]float64

// At returns the amount for p, or 0. Safe on a nil Series.
func (s Series) At(p Period) float64 { return s[p] }

// Sum returns the total over periods.
func (s Series) Sum(periods []Period) float64 {
	total := 0.0
	for _, p := range periods {
		total += s.At(p)
	}
	return total
}

// MonthlyInputs are the per-period amounts supplied by the caller.
type MonthlyInputs struct {
	Revenue       Series
	FixedCost     Series
	InitialDebt   Series // legacy debt installments due
	ExtraReceipts Series // cash received outside the revenue/collection cycle
}

// NewMonthlyInputs returns inputs with empty, writable series.
func NewMonthlyInputs() MonthlyInputs {
	return MonthlyInputs{
		Revenue:       Series{},
		FixedCost:     Series{},
		InitialDebt:   Series{},
		ExtraReceipts: Series{},
	}
}

// Clone returns a deep copy, so callers can override one period without
// touching the original.
func (in MonthlyInputs) Clone() MonthlyInputs {
	cp := func(s Series) Series {
		out := make(Series, len(s))
		for k, v := range s {
			out[k] = v
		}
		return out
	}
	return MonthlyInputs{
		Revenue:       cp(in.Revenue),
		FixedCost:     cp(in.FixedCost),
		InitialDebt:   cp(in.InitialDebt),
		ExtraReceipts: cp(in.ExtraReceipts),
	}
}
