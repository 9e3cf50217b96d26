package trace

// ScheduleTrace collects drop records during one simulation pass.
type ScheduleTrace struct {
	Horizon int
	Drops   []DropRecord
}

// NewScheduleTrace creates a ScheduleTrace ready for recording.
func NewScheduleTrace(horizon int) *ScheduleTrace {
	return &ScheduleTrace{
		Horizon: horizon,
		Drops:   make([]DropRecord, 0),
	}
}

// RecordDrop appends a drop record. Safe on a nil trace (no-op).
func (st *ScheduleTrace) RecordDrop(record DropRecord) {
	if st == nil {
		return
	}
	st.Drops = append(st.Drops, record)
}

// DropsOf returns the records of the given kind, in recording order.
func (st *ScheduleTrace) DropsOf(kind Kind) []DropRecord {
	if st == nil {
		return nil
	}
	var out []DropRecord
	for _, d := range st.Drops {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}
