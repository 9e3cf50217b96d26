package sim

import "math"

// InventoryStep is the outcome of one period's inventory rules.
type InventoryStep struct {
	Draw          float64 // stock consumed as cost of goods, never more than available
	PurchaseNeed  float64 // variable cost not covered by the draw
	MinTopUp      float64 // extra bought to reach the minimum purchase, stocked
	TotalPurchase float64 // PurchaseNeed + MinTopUp
	EndingLevel   float64
}

// InventoryTracker carries the stock level from one period to the next.
type InventoryTracker struct {
	level       float64
	monthlyUse  float64
	minPurchase float64
}

// NewInventoryTracker seeds a tracker with the configured initial stock.
func NewInventoryTracker(cfg InventoryConfig, minPurchase float64) *InventoryTracker {
	return &InventoryTracker{
		level:       cfg.Initial,
		monthlyUse:  cfg.MonthlyUse,
		minPurchase: minPurchase,
	}
}

// Level returns the current stock level.
func (t *InventoryTracker) Level() float64 { return t.level }

// Step applies one period: draw, purchase need, minimum top-up, total.
// The order matters; the top-up is added back after the draw.
func (t *InventoryTracker) Step(variableCost float64, minimumFlagged bool) InventoryStep {
	draw := math.Min(t.monthlyUse, math.Max(t.level, 0))
	t.level -= draw

	need := math.Max(0, variableCost-draw)

	var topUp float64
	if minimumFlagged {
		topUp = math.Max(0, t.minPurchase-need)
		t.level += topUp
	}

	return InventoryStep{
		Draw:          draw,
		PurchaseNeed:  need,
		MinTopUp:      topUp,
		TotalPurchase: need + topUp,
		EndingLevel:   t.level,
	}
}
