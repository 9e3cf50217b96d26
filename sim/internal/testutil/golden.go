// Package testutil provides shared test infrastructure for the cash-flow
// engine. It consolidates golden dataset types and assertion helpers used
// across sim/ and its sub-package tests.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is one scenario with its expected ledger.
type GoldenTestCase struct {
	Name      string      `json:"name"`
	FinalCash float64     `json:"final_cash"`
	Rows      []GoldenRow `json:"rows"`
}

// GoldenRow holds the expected values of one period.
type GoldenRow struct {
	Period          string  `json:"period"`
	Revenue         float64 `json:"revenue"`
	CashIn          float64 `json:"cash_in"`
	VariableCost    float64 `json:"variable_cost"`
	InventoryUsed   float64 `json:"inventory_used"`
	PurchaseNeed    float64 `json:"purchase_need"`
	MinTopUp        float64 `json:"min_top_up"`
	PaidUpfront     float64 `json:"paid_upfront"`
	PayableDue      float64 `json:"payable_due"`
	NewlyDeferred   float64 `json:"newly_deferred"`
	FixedCost       float64 `json:"fixed_cost"`
	InitialDebt     float64 `json:"initial_debt"`
	SupplierCash    float64 `json:"supplier_cash"`
	CashOut         float64 `json:"cash_out"`
	Net             float64 `json:"net"`
	Cumulative      float64 `json:"cumulative"`
	EndingInventory float64 `json:"ending_inventory"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: three levels up, then testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// Case returns the named test case or fails the test.
func (d *GoldenDataset) Case(t *testing.T, name string) GoldenTestCase {
	t.Helper()
	for _, tc := range d.Tests {
		if tc.Name == name {
			return tc
		}
	}
	t.Fatalf("golden case %q not found", name)
	return GoldenTestCase{}
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
// Values within 1e-9 of each other in absolute terms always pass, so sums
// that should be zero do not fail on rounding noise.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	diff := math.Abs(want - got)
	if diff <= 1e-9 {
		return
	}
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
