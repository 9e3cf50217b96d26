package scenario

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashflow-sim/cashflow-sim/sim"
	"github.com/cashflow-sim/cashflow-sim/sim/internal/testutil"
)

func TestMain(m *testing.M) {
	logrus.SetLevel(logrus.WarnLevel)
	os.Exit(m.Run())
}

const minimalYAML = `
horizon: {start: 2025-01, end: 2025-03}
initial_cash: 1000
margin_pct: 50
terms:
  cutoff: 2025-12
  regime1: {upfront_pct: 100, deferred_pct: 0}
  regime2: {upfront_pct: 100, deferred_pct: 0}
collection_lag: 1
monthly:
  defaults: {revenue: 100}
`

func TestDefault_MatchesGoldenDataset(t *testing.T) {
	// GIVEN the built-in scenario and its golden ledger
	want := testutil.LoadGoldenDataset(t).Case(t, "default")

	// WHEN it is built and run
	plan, err := Default().Build()
	require.NoError(t, err)
	res := plan.Run()

	// THEN every row matches
	require.Len(t, res.Rows, 16)
	require.Len(t, want.Rows, 16)
	const tol = 1e-9
	for i, g := range want.Rows {
		r := res.Rows[i]
		assert.Equal(t, g.Period, r.Period.Key())
		name := func(f string) string { return g.Period + "." + f }
		testutil.AssertFloat64Equal(t, name("revenue"), g.Revenue, r.Revenue, tol)
		testutil.AssertFloat64Equal(t, name("cash_in"), g.CashIn, r.CashIn, tol)
		testutil.AssertFloat64Equal(t, name("variable_cost"), g.VariableCost, r.VariableCost, tol)
		testutil.AssertFloat64Equal(t, name("inventory_used"), g.InventoryUsed, r.InventoryUsed, tol)
		testutil.AssertFloat64Equal(t, name("purchase_need"), g.PurchaseNeed, r.PurchaseNeed, tol)
		testutil.AssertFloat64Equal(t, name("min_top_up"), g.MinTopUp, r.MinTopUp, tol)
		testutil.AssertFloat64Equal(t, name("paid_upfront"), g.PaidUpfront, r.PaidUpfront, tol)
		testutil.AssertFloat64Equal(t, name("payable_due"), g.PayableDue, r.PayableDue, tol)
		testutil.AssertFloat64Equal(t, name("newly_deferred"), g.NewlyDeferred, r.NewlyDeferred, tol)
		testutil.AssertFloat64Equal(t, name("fixed_cost"), g.FixedCost, r.FixedCost, tol)
		testutil.AssertFloat64Equal(t, name("initial_debt"), g.InitialDebt, r.InitialDebt, tol)
		testutil.AssertFloat64Equal(t, name("supplier_cash"), g.SupplierCash, r.SupplierCash, tol)
		testutil.AssertFloat64Equal(t, name("cash_out"), g.CashOut, r.CashOut, tol)
		testutil.AssertFloat64Equal(t, name("net"), g.Net, r.Net, tol)
		testutil.AssertFloat64Equal(t, name("cumulative"), g.Cumulative, r.Cumulative, tol)
		testutil.AssertFloat64Equal(t, name("ending_inventory"), g.EndingInventory, r.EndingInventory, tol)
	}
	testutil.AssertFloat64Equal(t, "final_cash", want.FinalCash, res.FinalCash, tol)
}

func TestDefault_Inputs(t *testing.T) {
	plan, err := Default().Build()
	require.NoError(t, err)
	assert.Equal(t, DefaultPeriods(), plan.Periods)

	set25, gen26, feb26 := sim.Period{Year: 2025, Month: 9}, sim.Period{Year: 2026, Month: 1}, sim.Period{Year: 2026, Month: 2}
	in := plan.Inputs
	assert.Equal(t, 20000.0, in.Revenue.At(set25))
	assert.Equal(t, 12000.0, in.FixedCost.At(set25))
	assert.Equal(t, 5000.0, in.ExtraReceipts.At(set25))
	assert.Equal(t, 13000.0, in.InitialDebt.At(gen26))
	assert.Equal(t, 120000.0, in.Revenue.At(gen26))
	assert.Equal(t, 0.0, in.InitialDebt.At(feb26))
	assert.Equal(t, 25000.0, in.FixedCost.At(feb26))
	for _, p := range plan.Periods {
		for _, series := range []sim.Series{in.Revenue, in.FixedCost, in.InitialDebt, in.ExtraReceipts} {
			_, ok := series[p]
			assert.True(t, ok, "missing entry for %s", p.Label())
		}
	}
}

func TestDefault_Config(t *testing.T) {
	plan, err := Default().Build()
	require.NoError(t, err)
	cfg := plan.Config
	assert.Equal(t, 5000.0, cfg.InitialCash)
	assert.Equal(t, 65.0, cfg.CostVarPct)
	assert.Equal(t, sim.NewInventoryConfig(70000, 7000), cfg.Inventory)
	assert.Equal(t, []sim.Period{{Year: 2025, Month: 9}, {Year: 2025, Month: 10}}, cfg.Purchases.Months.Sorted())
	assert.Equal(t, sim.Period{Year: 2025, Month: 12}, cfg.Terms.Cutoff)
	assert.Equal(t, sim.PaymentTerms{UpfrontPct: 10, DeferredPct: 90}, cfg.Terms.Regime2)
	assert.Equal(t, 1, cfg.CollectionLag)
}

func TestLoadScenario_DefaultFileMatchesDefault(t *testing.T) {
	// GIVEN the checked-in default scenario file
	s, err := LoadScenario(filepath.Join("..", "..", "testdata", "default.yaml"))
	require.NoError(t, err)

	// WHEN both are built
	fromFile, err := s.Build()
	require.NoError(t, err)
	builtin, err := Default().Build()
	require.NoError(t, err)

	// THEN they describe the same projection
	assert.Equal(t, builtin, fromFile)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading scenario")
}

func TestDecodeScenario_UnknownKeyRejected(t *testing.T) {
	_, err := DecodeScenario(strings.NewReader(minimalYAML + "colection_lag: 2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colection_lag")
}

func TestDecodeScenario_GarbageAmountIsZero(t *testing.T) {
	doc := strings.Replace(minimalYAML, "initial_cash: 1000", `initial_cash: "abc"`, 1)
	s, err := DecodeScenario(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, Amount(0), s.InitialCash)
}

func TestDecodeScenario_NonScalarAmountRejected(t *testing.T) {
	doc := strings.Replace(minimalYAML, "initial_cash: 1000", "initial_cash: [1, 2]", 1)
	_, err := DecodeScenario(strings.NewReader(doc))
	assert.Error(t, err)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want Amount
	}{
		{"1200", 1200},
		{" -50.5 ", -50.5},
		{"1e3", 1000},
		{"", 0},
		{"12abc", 0},
		{"NaN", 0},
		{"Inf", 0},
		{"-Infinity", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseAmount(tt.in), "input %q", tt.in)
	}
}

func TestAmount_UnmarshalJSON_Lenient(t *testing.T) {
	var v struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
		C Amount `json:"c"`
		D Amount `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 12.5, "b": "300", "c": "x", "d": null}`), &v))
	assert.Equal(t, Amount(12.5), v.A)
	assert.Equal(t, Amount(300), v.B)
	assert.Equal(t, Amount(0), v.C)
	assert.Equal(t, Amount(0), v.D)
}

func TestAmount_UnmarshalJSON_NonScalarRejected(t *testing.T) {
	for _, body := range []string{`{"initial_cash":{"a":1}}`, `{"initial_cash":[1]}`} {
		var s Scenario
		assert.Error(t, json.Unmarshal([]byte(body), &s), body)
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		in   string
		want Count
	}{
		{"2", 2},
		{" 3 ", 3},
		{"1.6", 2},
		{"-1", -1},
		{"", 0},
		{"abc", 0},
		{"NaN", 0},
		{"Inf", 0},
		{"1e300", MaxCount},
		{"-1e300", -MaxCount},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseCount(tt.in), "input %q", tt.in)
	}
}

func TestDecodeScenario_GarbageCollectionLagIsZero(t *testing.T) {
	s, err := DecodeScenario(strings.NewReader(strings.Replace(minimalYAML, "collection_lag: 1", "collection_lag: abc", 1)))
	require.NoError(t, err)
	assert.Equal(t, Count(0), s.CollectionLag)

	_, err = DecodeScenario(strings.NewReader(strings.Replace(minimalYAML, "collection_lag: 1", "collection_lag: [1]", 1)))
	assert.Error(t, err)
}

func TestCount_UnmarshalJSON_Lenient(t *testing.T) {
	var v struct {
		A Count `json:"a"`
		B Count `json:"b"`
		C Count `json:"c"`
		D Count `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 2, "b": "1", "c": "x", "d": null}`), &v))
	assert.Equal(t, Count(2), v.A)
	assert.Equal(t, Count(1), v.B)
	assert.Equal(t, Count(0), v.C)
	assert.Equal(t, Count(0), v.D)

	var s Scenario
	assert.Error(t, json.Unmarshal([]byte(`{"collection_lag":{"n":1}}`), &s))
}

func TestScenario_JSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(Default())
	require.NoError(t, err)
	var s Scenario
	require.NoError(t, json.Unmarshal(data, &s))
	assert.Equal(t, Default(), &s)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Scenario)
		wantErr string
	}{
		{"version", func(s *Scenario) { s.Version = "2" }, "version"},
		{"horizon start", func(s *Scenario) { s.Horizon.Start = "2025-13" }, "horizon.start"},
		{"horizon end", func(s *Scenario) { s.Horizon.End = "" }, "horizon.end"},
		{"horizon order", func(s *Scenario) { s.Horizon.End = "2025-01" }, "precedes"},
		{"cutoff", func(s *Scenario) { s.Terms.Cutoff = "dicembre" }, "terms.cutoff"},
		{"override key", func(s *Scenario) { s.Monthly.Overrides["Foo-25"] = MonthValues{} }, "monthly.overrides.Foo-25"},
		{"override outside horizon", func(s *Scenario) { s.Monthly.Overrides["2027-01"] = MonthValues{} }, "outside the horizon"},
		{"duplicate override", func(s *Scenario) { s.Monthly.Overrides["2025-09"] = MonthValues{} }, "already overridden"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(s)
			err := s.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			_, err = s.Build()
			assert.Error(t, err)
		})
	}
}

func TestValidate_Default_OK(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestBuild_PartialOverrideKeepsDefaults(t *testing.T) {
	// GIVEN an override that sets only revenue
	s, err := DecodeScenario(strings.NewReader(minimalYAML + `
  overrides:
    Feb-25: {revenue: 0}
`))
	require.NoError(t, err)

	// WHEN built
	plan, err := s.Build()
	require.NoError(t, err)

	// THEN only that field of that month changes
	feb := sim.Period{Year: 2025, Month: 2}
	assert.Equal(t, 0.0, plan.Inputs.Revenue.At(feb))
	assert.Equal(t, 100.0, plan.Inputs.Revenue.At(sim.Period{Year: 2025, Month: 1}))
	assert.Equal(t, 0.0, plan.Inputs.FixedCost.At(feb))
	assert.Len(t, plan.Periods, 3)
}

func TestBuild_NegativeLagClampedToZero(t *testing.T) {
	s := Default()
	s.CollectionLag = -2
	plan, err := s.Build()
	require.NoError(t, err)
	assert.Equal(t, 0, plan.Config.CollectionLag)
}

func TestBuild_DoesNotMutateScenario(t *testing.T) {
	s := Default()
	_, err := s.Build()
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestParsePeriodList(t *testing.T) {
	got := ParsePeriodList("Set-25, 2025-10,, bogus , Dic-26")
	assert.Equal(t, []sim.Period{{Year: 2025, Month: 9}, {Year: 2025, Month: 10}, {Year: 2026, Month: 12}}, got.Sorted())

	assert.Empty(t, ParsePeriodList(""))
	assert.Empty(t, ParsePeriodList("nothing here"))
}
