// Package trace loads recorded smooth_axis test logs. A trace is an ordered
// sequence of samples covering one scenario: the commanded baseline, the
// noisy raw input, the filtered output, and the discrete update events the
// filter emitted. Columns are resolved by header name so ramp logs, step
// logs, and logs with optional diagnostic channels all load through the same
// path.
package trace

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Sample is one row of a trace log. T is always in seconds.
type Sample struct {
	T      float64
	Base   float64 // commanded reference value
	Noisy  float64 // raw input with noise applied
	Out    float64 // filtered output, bounded counts (e.g. 0-1023)
	HasNew bool    // filter emitted an update event this sample

	// Optional diagnostic channels; valid only when the owning Trace
	// reports HasDiagnostics.
	NoiseNorm  float64 // normalised noise estimate
	ThreshNorm float64 // normalised activation threshold

	// Crossed marks the 95%-to-target crossing in step-response logs;
	// valid only when the owning Trace reports HasCrossed.
	Crossed bool
}

// Trace is an immutable, time-ordered recording of one scenario.
type Trace struct {
	Samples        []Sample
	HasDiagnostics bool
	HasCrossed     bool
}

// Times returns the timestamp column.
func (tr *Trace) Times() []float64 {
	out := make([]float64, len(tr.Samples))
	for i, s := range tr.Samples {
		out[i] = s.T
	}
	return out
}

// Outputs returns the filtered output column.
func (tr *Trace) Outputs() []float64 {
	out := make([]float64, len(tr.Samples))
	for i, s := range tr.Samples {
		out[i] = s.Out
	}
	return out
}

// Events returns the samples where the filter emitted an update event, in
// time order.
func (tr *Trace) Events() []Sample {
	var out []Sample
	for _, s := range tr.Samples {
		if s.HasNew {
			out = append(out, s)
		}
	}
	return out
}

// Load reads a trace CSV from path. The header row determines the column
// layout; the time column may be "t_sec"/"time_sec" (seconds) or "time_ms"
// (milliseconds, converted on load).
func Load(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read parses trace CSV content from r.
func Read(r io.Reader) (*Trace, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read trace header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	timeIdx, timeScale := -1, 1.0
	for _, c := range []string{"t_sec", "time_sec"} {
		if i, ok := col[c]; ok {
			timeIdx = i
			break
		}
	}
	if timeIdx < 0 {
		if i, ok := col["time_ms"]; ok {
			timeIdx, timeScale = i, 1e-3
		}
	}
	if timeIdx < 0 {
		return nil, fmt.Errorf("trace has no time column (t_sec, time_sec or time_ms)")
	}

	baseIdx, hasBase := anyColumn(col, "raw_base", "baseline")
	noisyIdx, hasNoisy := anyColumn(col, "raw_noisy", "raw_input")
	outIdx, hasOut := col["out_u16"]
	if !hasOut {
		return nil, fmt.Errorf("trace has no out_u16 column")
	}

	hasNewIdx, hasNew := col["has_new"]
	noiseIdx, hasNoiseNorm := col["noise_norm"]
	threshIdx, hasThreshNorm := col["thresh_norm"]
	crossedIdx, hasCrossed := col["crossed_95"]

	tr := &Trace{
		HasDiagnostics: hasNoiseNorm && hasThreshNorm,
		HasCrossed:     hasCrossed,
	}

	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read trace line %d: %w", line, err)
		}

		var s Sample
		if s.T, err = field(record, timeIdx); err != nil {
			return nil, fmt.Errorf("trace line %d: %w", line, err)
		}
		s.T *= timeScale

		if hasBase {
			if s.Base, err = field(record, baseIdx); err != nil {
				return nil, fmt.Errorf("trace line %d: %w", line, err)
			}
		}
		if hasNoisy {
			if s.Noisy, err = field(record, noisyIdx); err != nil {
				return nil, fmt.Errorf("trace line %d: %w", line, err)
			}
		}
		if s.Out, err = field(record, outIdx); err != nil {
			return nil, fmt.Errorf("trace line %d: %w", line, err)
		}

		if hasNew {
			v, err := field(record, hasNewIdx)
			if err != nil {
				return nil, fmt.Errorf("trace line %d: %w", line, err)
			}
			s.HasNew = v != 0
		}
		if tr.HasDiagnostics {
			if s.NoiseNorm, err = field(record, noiseIdx); err != nil {
				return nil, fmt.Errorf("trace line %d: %w", line, err)
			}
			if s.ThreshNorm, err = field(record, threshIdx); err != nil {
				return nil, fmt.Errorf("trace line %d: %w", line, err)
			}
		}
		if hasCrossed {
			v, err := field(record, crossedIdx)
			if err != nil {
				return nil, fmt.Errorf("trace line %d: %w", line, err)
			}
			s.Crossed = v != 0
		}

		tr.Samples = append(tr.Samples, s)
	}

	return tr, nil
}

// anyColumn returns the index of the first present column name.
func anyColumn(col map[string]int, names ...string) (int, bool) {
	for _, n := range names {
		if i, ok := col[n]; ok {
			return i, true
		}
	}
	return -1, false
}

func field(record []string, idx int) (float64, error) {
	if idx >= len(record) {
		return 0, fmt.Errorf("missing column %d", idx)
	}
	v, err := strconv.ParseFloat(record[idx], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q: %w", record[idx], err)
	}
	return v, nil
}
