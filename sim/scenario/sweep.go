package scenario

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/cashflow-sim/cashflow-sim/sim"
)

// SweepParam names the scalar a sweep varies.
type SweepParam string

const (
	ParamMargin        SweepParam = "margin"
	ParamInitialCash   SweepParam = "initial-cash"
	ParamCollectionLag SweepParam = "collection-lag"
	ParamMonthlyUse    SweepParam = "monthly-inventory-use"
	ParamMinPurchase   SweepParam = "min-purchase"
)

// SweepParams lists the supported parameters in display order.
var SweepParams = []SweepParam{
	ParamMargin, ParamInitialCash, ParamCollectionLag, ParamMonthlyUse, ParamMinPurchase,
}

// ParseSweepParam validates a parameter name.
func ParseSweepParam(name string) (SweepParam, error) {
	for _, p := range SweepParams {
		if string(p) == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown sweep parameter %q; valid: %v", name, SweepParams)
}

// SweepPoint is the outcome of one pass with the parameter set to Value.
type SweepPoint struct {
	Value          float64    `json:"value"`
	FinalCash      float64    `json:"final_cash"`
	LowestCash     float64    `json:"lowest_cash"`
	LowestPeriod   sim.Period `json:"lowest_period"`
	NegativeMonths int        `json:"negative_months"`
}

// MaxSweepValues caps the number of passes in one sweep.
const MaxSweepValues = 10000

// SweepValues returns from, from+step, ... up to and including to.
func SweepValues(from, to, step float64) ([]float64, error) {
	if step <= 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		return nil, fmt.Errorf("step must be a positive finite number, got %v", step)
	}
	if to < from {
		return nil, fmt.Errorf("to (%v) must not be below from (%v)", to, from)
	}
	q := (to-from)/step + 1e-9
	if math.IsNaN(q) || q >= MaxSweepValues {
		return nil, fmt.Errorf("range %v..%v with step %v exceeds %d values", from, to, step, MaxSweepValues)
	}
	values := make([]float64, int(math.Floor(q))+1)
	for i := range values {
		values[i] = from + float64(i)*step
	}
	return values, nil
}

// Sweep runs one pass per value with param overridden on a copy of base.
// onStep, if non-nil, is called after each pass.
func Sweep(base *Scenario, param SweepParam, values []float64, onStep func(i int, pt SweepPoint)) ([]SweepPoint, error) {
	if _, err := ParseSweepParam(string(param)); err != nil {
		return nil, err
	}
	points := make([]SweepPoint, 0, len(values))
	for i, v := range values {
		s := *base
		s.apply(param, v)
		plan, err := s.Build()
		if err != nil {
			return nil, fmt.Errorf("sweep %s=%v: %w", param, v, err)
		}
		res := plan.Run()
		pt := SweepPoint{Value: v, FinalCash: res.FinalCash, NegativeMonths: sim.NegativeMonths(res.Rows)}
		if low, ok := sim.LowestCash(res.Rows); ok {
			pt.LowestCash, pt.LowestPeriod = low.Cumulative, low.Period
		}
		logrus.Debugf("sweep %s=%v final=%.2f lowest=%.2f@%s", param, v, pt.FinalCash, pt.LowestCash, pt.LowestPeriod)
		points = append(points, pt)
		if onStep != nil {
			onStep(i, pt)
		}
	}
	return points, nil
}

func (s *Scenario) apply(param SweepParam, v float64) {
	switch param {
	case ParamMargin:
		s.MarginPct = Amount(v)
	case ParamInitialCash:
		s.InitialCash = Amount(v)
	case ParamCollectionLag:
		s.CollectionLag = CountFromFloat(v)
	case ParamMonthlyUse:
		s.Inventory.MonthlyUse = Amount(v)
	case ParamMinPurchase:
		s.MinPurchase.Amount = Amount(v)
	}
}
