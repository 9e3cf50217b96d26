package trace

// TraceSummary aggregates statistics from a ScheduleTrace.
type TraceSummary struct {
	TotalDrops        int     `json:"total_drops"`
	ReceivableDrops   int     `json:"receivable_drops"`
	PayableDrops      int     `json:"payable_drops"`
	ReceivableDropped float64 `json:"receivable_dropped"`
	PayableDropped    float64 `json:"payable_dropped"`
	// BeforeHorizon counts drops whose target index is negative.
	BeforeHorizon int `json:"before_horizon"`
}

// Summarize computes aggregate statistics from a ScheduleTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *ScheduleTrace) *TraceSummary {
	summary := &TraceSummary{}
	if st == nil {
		return summary
	}

	summary.TotalDrops = len(st.Drops)
	for _, d := range st.Drops {
		switch d.Kind {
		case KindReceivable:
			summary.ReceivableDrops++
			summary.ReceivableDropped += d.Amount
		case KindPayable:
			summary.PayableDrops++
			summary.PayableDropped += d.Amount
		}
		if d.TargetIndex < 0 {
			summary.BeforeHorizon++
		}
	}
	return summary
}
