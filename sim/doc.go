// Package sim provides the monthly cash-flow simulation engine.
//
// # Reading Guide
//
// Start with these files to understand the engine:
//   - period.go: Period (year, month), labels, ranges and ordering
//   - schedule.go: forward propagation of amounts by a lag, with horizon truncation
//   - inventory.go: stock draw, purchase need and minimum-purchase top-up
//   - simulator.go: the single forward pass producing one Row per period
//
// # Architecture
//
// The engine is a pure function of (periods, inputs, config). Run builds the
// receivables schedule for the whole horizon first, then walks the periods in
// order carrying two pieces of state: the inventory level and the deferred
// payable schedule. Nothing is revised after a row is emitted.
//
// Sub-packages:
//   - sim/trace/: records of amounts dropped at the horizon boundaries
//   - sim/scenario/: scenario documents (YAML/JSON), defaults, parameter sweeps
//   - sim/report/: CSV export, currency formatting and terminal tables
//
// Amounts that a schedule would place outside the horizon are not modeled.
// They are dropped and listed in Result.Trace so a caller can see how much
// money fell off either end.
package sim
