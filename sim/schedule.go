package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/cashflow-sim/cashflow-sim/sim/trace"
)

// PayableDeferralLag is the number of periods between a deferred purchase
// and its cash settlement.
const PayableDeferralLag = 3

// ScheduleTarget returns origin+lag and whether it lies in [0, horizon).
func ScheduleTarget(origin, lag, horizon int) (int, bool) {
	target := origin + lag
	return target, target >= 0 && target < horizon
}

// Schedule holds per-period amounts shifted forward from earlier periods.
// Buckets are index-aligned with the horizon's period slice.
type Schedule struct {
	kind    trace.Kind
	periods []Period
	buckets []float64
	trace   *trace.ScheduleTrace
}

// NewSchedule creates an empty schedule over periods. tr may be nil.
func NewSchedule(kind trace.Kind, periods []Period, tr *trace.ScheduleTrace) *Schedule {
	return &Schedule{
		kind:    kind,
		periods: periods,
		buckets: make([]float64, len(periods)),
		trace:   tr,
	}
}

// Forward accumulates amount into the bucket lag periods after origin.
// Amounts landing outside the horizon are dropped; non-zero drops are
// recorded on the trace.
func (s *Schedule) Forward(amount float64, origin, lag int) (int, bool) {
	target, ok := ScheduleTarget(origin, lag, len(s.buckets))
	if ok {
		s.buckets[target] += amount
		return target, true
	}
	if amount != 0 {
		rec := trace.DropRecord{
			Kind:        s.kind,
			OriginIndex: origin,
			TargetIndex: target,
			Lag:         lag,
			Amount:      amount,
		}
		if origin >= 0 && origin < len(s.periods) {
			rec.Origin = s.periods[origin].Key()
		}
		s.trace.RecordDrop(rec)
		logrus.Debugf("[%s] %s %.2f lands on index %d outside horizon of %d, dropped",
			rec.Origin, s.kind, amount, target, len(s.buckets))
	}
	return target, false
}

// Due returns the amount accumulated for the period at idx; 0 if idx is out of range.
func (s *Schedule) Due(idx int) float64 {
	if idx < 0 || idx >= len(s.buckets) {
		return 0
	}
	return s.buckets[idx]
}
