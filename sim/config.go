package sim

// InventoryConfig groups the stock seed and the fixed monthly draw.
type InventoryConfig struct {
	Initial    float64 // stock value at the start of the horizon
	MonthlyUse float64 // draw attempted every period, clamped to the available stock
}

// PurchaseConfig groups the mandatory minimum purchase rule.
type PurchaseConfig struct {
	Minimum float64   // minimum spend in flagged periods
	Months  PeriodSet // periods flagged for the minimum
}

// PaymentTerms splits a period's total purchases into an upfront and a
// deferred share, in percent. The two shares are independent and are not
// required to sum to 100.
type PaymentTerms struct {
	UpfrontPct  float64 `yaml:"upfront_pct" json:"upfront_pct"`
	DeferredPct float64 `yaml:"deferred_pct" json:"deferred_pct"`
}

// TermsConfig selects between two payment-term regimes by a cutoff period.
// Periods up to and including Cutoff use Regime1.
type TermsConfig struct {
	Cutoff  Period
	Regime1 PaymentTerms
	Regime2 PaymentTerms
}

// Config holds the parameters of one simulation pass. It is read-only
// during the pass.
type Config struct {
	InitialCash   float64 // seed of the cumulative balance
	CostVarPct    float64 // variable cost as percent of revenue
	Inventory     InventoryConfig
	Purchases     PurchaseConfig
	Terms         TermsConfig
	CollectionLag int // periods between revenue and its cash receipt
}

// NewInventoryConfig creates an InventoryConfig.
func NewInventoryConfig(initial, monthlyUse float64) InventoryConfig {
	return InventoryConfig{Initial: initial, MonthlyUse: monthlyUse}
}

// NewPurchaseConfig creates a PurchaseConfig.
func NewPurchaseConfig(minimum float64, months PeriodSet) PurchaseConfig {
	return PurchaseConfig{Minimum: minimum, Months: months}
}

// NewTermsConfig creates a TermsConfig.
func NewTermsConfig(cutoff Period, regime1, regime2 PaymentTerms) TermsConfig {
	return TermsConfig{Cutoff: cutoff, Regime1: regime1, Regime2: regime2}
}

// CostVarPctFromMargin derives the variable cost share from a gross margin.
func CostVarPctFromMargin(marginPct float64) float64 {
	return 100 - marginPct
}
