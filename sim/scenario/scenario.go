// Package scenario reads, validates and builds the input document for one
// cash-flow projection.
//
// A Scenario is the editable form of the inputs: scalar parameters,
// per-month defaults, and sparse per-month overrides keyed by label
// ("Set-25") or key ("2025-09"). Build turns it into the dense
// sim.MonthlyInputs and sim.Config the engine consumes.
package scenario

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/cashflow-sim/cashflow-sim/sim"
)

// Scenario is the top-level scenario document.
// Loaded from YAML via LoadScenario(path) or from JSON by the server.
type Scenario struct {
	Version       string          `yaml:"version" json:"version"`
	Horizon       HorizonSpec     `yaml:"horizon" json:"horizon"`
	InitialCash   Amount          `yaml:"initial_cash" json:"initial_cash"`
	MarginPct     Amount          `yaml:"margin_pct" json:"margin_pct"`
	Inventory     InventorySpec   `yaml:"inventory" json:"inventory"`
	MinPurchase   MinPurchaseSpec `yaml:"min_purchase" json:"min_purchase"`
	Terms         TermsSpec       `yaml:"terms" json:"terms"`
	CollectionLag Count           `yaml:"collection_lag" json:"collection_lag"`
	Monthly       MonthlySpec     `yaml:"monthly" json:"monthly"`
}

// HorizonSpec bounds the planning horizon, both ends inclusive.
type HorizonSpec struct {
	Start string `yaml:"start" json:"start"`
	End   string `yaml:"end" json:"end"`
}

// InventorySpec configures the opening stock and the fixed monthly draw.
type InventorySpec struct {
	Initial    Amount `yaml:"initial" json:"initial"`
	MonthlyUse Amount `yaml:"monthly_use" json:"monthly_use"`
}

// MinPurchaseSpec is the minimum supplier order and the months it applies to.
// Months is free text, e.g. "Set-25, Ott-25".
type MinPurchaseSpec struct {
	Amount Amount `yaml:"amount" json:"amount"`
	Months string `yaml:"months" json:"months"`
}

// TermsSpec holds the payment-term cutoff and both regimes.
type TermsSpec struct {
	Cutoff  string   `yaml:"cutoff" json:"cutoff"`
	Regime1 TermSpec `yaml:"regime1" json:"regime1"`
	Regime2 TermSpec `yaml:"regime2" json:"regime2"`
}

// TermSpec is one regime's upfront and deferred share, in percent.
type TermSpec struct {
	UpfrontPct  Amount `yaml:"upfront_pct" json:"upfront_pct"`
	DeferredPct Amount `yaml:"deferred_pct" json:"deferred_pct"`
}

// MonthlySpec holds per-month amounts: defaults for every month of the
// horizon, and overrides for individual months.
type MonthlySpec struct {
	Defaults  MonthValues            `yaml:"defaults" json:"defaults"`
	Overrides map[string]MonthValues `yaml:"overrides,omitempty" json:"overrides,omitempty"`
}

// MonthValues are the per-month inputs. A nil field in an override keeps
// the default; a nil field in defaults means 0.
type MonthValues struct {
	Revenue       *Amount `yaml:"revenue,omitempty" json:"revenue,omitempty"`
	FixedCost     *Amount `yaml:"fixed_cost,omitempty" json:"fixed_cost,omitempty"`
	InitialDebt   *Amount `yaml:"initial_debt,omitempty" json:"initial_debt,omitempty"`
	ExtraReceipts *Amount `yaml:"extra_receipts,omitempty" json:"extra_receipts,omitempty"`
}

// Plan is a built scenario, ready for sim.Run.
type Plan struct {
	Periods []sim.Period
	Inputs  sim.MonthlyInputs
	Config  sim.Config
}

// Run executes the engine over the plan.
func (p *Plan) Run() *sim.Result {
	return sim.Run(p.Periods, p.Inputs, p.Config)
}

// LoadScenario reads and parses a YAML scenario file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return DecodeScenario(bytes.NewReader(data))
}

// DecodeScenario parses a YAML scenario from r with strict key checking.
func DecodeScenario(r io.Reader) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	return &s, nil
}

// Validate checks that all fields in the scenario are usable.
func (s *Scenario) Validate() error {
	if s.Version != "" && s.Version != "1" {
		return fmt.Errorf("version: unsupported version %q; valid: 1", s.Version)
	}
	start, end, err := s.horizon()
	if err != nil {
		return err
	}
	if end.Before(start) {
		return fmt.Errorf("horizon: end %s precedes start %s", end, start)
	}
	if _, err := sim.ParsePeriodOrLabel(s.Terms.Cutoff); err != nil {
		return fmt.Errorf("terms.cutoff: %w", err)
	}
	seen := make(map[sim.Period]string, len(s.Monthly.Overrides))
	for key := range s.Monthly.Overrides {
		p, err := sim.ParsePeriodOrLabel(key)
		if err != nil {
			return fmt.Errorf("monthly.overrides.%s: %w", key, err)
		}
		if p.Before(start) || p.After(end) {
			return fmt.Errorf("monthly.overrides.%s: %s is outside the horizon %s..%s", key, p, start, end)
		}
		if prev, dup := seen[p]; dup {
			return fmt.Errorf("monthly.overrides.%s: %s is already overridden by %q", key, p, prev)
		}
		seen[p] = key
	}
	return nil
}

func (s *Scenario) horizon() (start, end sim.Period, err error) {
	if start, err = sim.ParsePeriodOrLabel(s.Horizon.Start); err != nil {
		return start, end, fmt.Errorf("horizon.start: %w", err)
	}
	if end, err = sim.ParsePeriodOrLabel(s.Horizon.End); err != nil {
		return start, end, fmt.Errorf("horizon.end: %w", err)
	}
	return start, end, nil
}

// Build validates the scenario and expands it into engine inputs.
// Every month of the horizon receives an entry in every series.
func (s *Scenario) Build() (*Plan, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	start, end, _ := s.horizon()
	cutoff, _ := sim.ParsePeriodOrLabel(s.Terms.Cutoff)
	periods := sim.PeriodRange(start, end)

	overrides := make(map[sim.Period]MonthValues, len(s.Monthly.Overrides))
	for key, v := range s.Monthly.Overrides {
		p, _ := sim.ParsePeriodOrLabel(key)
		overrides[p] = v
	}

	inputs := sim.NewMonthlyInputs()
	for _, p := range periods {
		v := s.Monthly.Defaults.merge(overrides[p])
		inputs.Revenue[p] = v.Revenue.orZero()
		inputs.FixedCost[p] = v.FixedCost.orZero()
		inputs.InitialDebt[p] = v.InitialDebt.orZero()
		inputs.ExtraReceipts[p] = v.ExtraReceipts.orZero()
	}

	lag := s.CollectionLag.Int()
	if lag < 0 {
		logrus.Warnf("collection_lag %d is negative, using 0", lag)
		lag = 0
	}

	cfg := sim.Config{
		InitialCash: s.InitialCash.Float(),
		CostVarPct:  sim.CostVarPctFromMargin(s.MarginPct.Float()),
		Inventory:   sim.NewInventoryConfig(s.Inventory.Initial.Float(), s.Inventory.MonthlyUse.Float()),
		Purchases:   sim.NewPurchaseConfig(s.MinPurchase.Amount.Float(), ParsePeriodList(s.MinPurchase.Months)),
		Terms: sim.NewTermsConfig(cutoff,
			s.Terms.Regime1.terms(), s.Terms.Regime2.terms()),
		CollectionLag: lag,
	}
	logrus.Debugf("built scenario: %d periods %s..%s, cost_var=%.2f%%, lag=%d",
		len(periods), start, end, cfg.CostVarPct, lag)
	return &Plan{Periods: periods, Inputs: inputs, Config: cfg}, nil
}

func (t TermSpec) terms() sim.PaymentTerms {
	return sim.PaymentTerms{UpfrontPct: t.UpfrontPct.Float(), DeferredPct: t.DeferredPct.Float()}
}

// merge returns base with every non-nil field of over applied.
func (base MonthValues) merge(over MonthValues) MonthValues {
	if over.Revenue != nil {
		base.Revenue = over.Revenue
	}
	if over.FixedCost != nil {
		base.FixedCost = over.FixedCost
	}
	if over.InitialDebt != nil {
		base.InitialDebt = over.InitialDebt
	}
	if over.ExtraReceipts != nil {
		base.ExtraReceipts = over.ExtraReceipts
	}
	return base
}

func (a *Amount) orZero() float64 {
	if a == nil {
		return 0
	}
	return a.Float()
}

// ParsePeriodList parses a comma-separated list of labels ("Set-25") or
// keys ("2025-09"). Tokens that name no month are dropped.
func ParsePeriodList(text string) sim.PeriodSet {
	set := sim.NewPeriodSet()
	for _, tok := range strings.Split(text, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		p, err := sim.ParsePeriodOrLabel(tok)
		if err != nil {
			logrus.Debugf("ignoring period list entry %q: %v", tok, err)
			continue
		}
		set.Add(p)
	}
	return set
}
