// Package trace provides horizon-truncation records for schedule propagation.
// It has no dependencies on sim/ and stores pure data types only.
package trace

// Kind identifies which schedule produced a record.
type Kind string

const (
	// KindReceivable marks revenue whose collection falls outside the horizon.
	KindReceivable Kind = "receivable"
	// KindPayable marks deferred purchases maturing outside the horizon.
	KindPayable Kind = "payable"
)

// DropRecord captures an amount that a schedule could not place in the horizon.
type DropRecord struct {
	Kind        Kind    `json:"kind"`
	Origin      string  `json:"origin"`       // period key the amount originated in
	OriginIndex int     `json:"origin_index"` // index of Origin in the horizon
	TargetIndex int     `json:"target_index"` // out-of-range index the amount would land on
	Lag         int     `json:"lag"`
	Amount      float64 `json:"amount"`
}
