package sim

import "fmt"

// Regime identifies which payment-term configuration applies to a period.
type Regime int

const (
	Regime1 Regime = iota + 1
	Regime2
)

// String method for Regime enum
func (r Regime) String() string {
	switch r {
	case Regime1:
		return "regime1"
	case Regime2:
		return "regime2"
	default:
		return "unknown"
	}
}

// MarshalText encodes the regime by name.
func (r Regime) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// ResolveTerms returns regime1 for periods up to and including cutoff and
// regime2 for every later period.
func ResolveTerms(p, cutoff Period, regime1, regime2 PaymentTerms) (PaymentTerms, Regime) {
	if Compare(p, cutoff) <= 0 {
		return regime1, Regime1
	}
	return regime2, Regime2
}

// Resolve applies ResolveTerms with the configured cutoff and regimes.
func (t TermsConfig) Resolve(p Period) (PaymentTerms, Regime) {
	return ResolveTerms(p, t.Cutoff, t.Regime1, t.Regime2)
}

// Split divides a purchase total into its upfront and deferred parts.
func (pt PaymentTerms) Split(total float64) (upfront, deferred float64) {
	return total * pt.UpfrontPct / 100, total * pt.DeferredPct / 100
}

// UnmarshalText decodes a regime name produced by MarshalText.
func (r *Regime) UnmarshalText(text []byte) error {
	switch string(text) {
	case "regime1":
		*r = Regime1
	case "regime2":
		*r = Regime2
	default:
		return fmt.Errorf("unknown regime %q", string(text))
	}
	return nil
}
