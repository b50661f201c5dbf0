package analysis

import "github.com/Viderspace/smooth-axis/internal/trace"

// Direction is the commanded direction of travel for a transition. It is
// set by the caller from test construction (a rising ramp, a falling step),
// not inferred from the trace.
type Direction int

const (
	Rising Direction = iota
	Falling
)

func (d Direction) String() string {
	if d == Falling {
		return "falling"
	}
	return "rising"
}

// UpdateStats counts update events emitted during one transition and how
// many of them regressed against the commanded direction. A regressing
// event ("false update") is a correctness defect in the filter: output must
// never move backwards during a single monotonic transition.
type UpdateStats struct {
	False int
	Total int
}

// CheckMonotonic scans the trace's update events in time order and counts
// consecutive pairs whose later value moves opposite to dir. With one or
// zero events there is no pair to compare and the violation count is zero.
func CheckMonotonic(tr *trace.Trace, dir Direction) UpdateStats {
	events := tr.Events()
	stats := UpdateStats{Total: len(events)}

	for i := 1; i < len(events); i++ {
		diff := events[i].Out - events[i-1].Out
		if (dir == Rising && diff < 0) || (dir == Falling && diff > 0) {
			stats.False++
		}
	}
	return stats
}
