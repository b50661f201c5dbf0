// Package analysis grades recorded smooth_axis traces: it estimates settle
// delay with a truncated-area method, counts monotonicity violations among
// update events, and aggregates both across a batch of scenarios.
package analysis

import (
	"gonum.org/v1/gonum/integrate"

	"github.com/Viderspace/smooth-axis/internal/trace"
)

// stepNoiseFloor is the minimum step height, in output counts, treated as
// real motion. Anything smaller settles immediately by definition.
const stepNoiseFloor = 1.0

// tauToDelay converts the fitted time constant to a settle delay. Three
// time constants bring a first-order exponential within ~5% of its final
// value; the estimate is an approximation for non-exponential responses.
const tauToDelay = 3.0

// SettleEstimate is the result of one settle-time measurement.
type SettleEstimate struct {
	SettledAt float64 // absolute timestamp, seconds
	Delay     float64 // seconds after motion end
}

// MeasureSettleTime estimates when the filtered output settles after the
// commanded input stops moving at motionEnd.
//
// A pointwise threshold-crossing detector is fooled by noise spikes that
// transiently cross the threshold, so this integrates the absolute tracking
// error over the window between motion end and the first crossing of the
// steady-state value, then normalises by step height to recover an
// effective time constant. Returns nil when the trace has no samples at or
// after motionEnd, or when no steady-state window exists.
func MeasureSettleTime(tr *trace.Trace, motionEnd float64) *SettleEstimate {
	tail := tailFrom(tr, motionEnd)
	if len(tail) == 0 {
		return nil
	}

	yStart := interpAt(tr.Times(), tr.Outputs(), motionEnd)

	// Steady state: mean output over the second half of the tail window.
	tMid := (tail[0].T + tail[len(tail)-1].T) / 2
	var steadySum float64
	var steadyN int
	for _, s := range tail {
		if s.T > tMid {
			steadySum += s.Out
			steadyN++
		}
	}
	if steadyN == 0 {
		return nil
	}
	yFinal := steadySum / float64(steadyN)

	stepHeight := yFinal - yStart
	if stepHeight < stepNoiseFloor && stepHeight > -stepNoiseFloor {
		return &SettleEstimate{SettledAt: motionEnd, Delay: 0}
	}

	// Truncate at the first sample that reaches or passes the final value
	// in the direction of travel; keep the whole tail if none does.
	cut := len(tail)
	for i, s := range tail {
		if (stepHeight > 0 && s.Out >= yFinal) || (stepHeight < 0 && s.Out <= yFinal) {
			cut = i + 1
			break
		}
	}
	valid := tail[:cut]

	ts := make([]float64, len(valid))
	errs := make([]float64, len(valid))
	for i, s := range valid {
		ts[i] = s.T
		e := yFinal - s.Out
		if e < 0 {
			e = -e
		}
		errs[i] = e
	}

	var area float64
	if len(valid) >= 2 {
		area = integrate.Trapezoidal(ts, errs)
	}

	absStep := stepHeight
	if absStep < 0 {
		absStep = -absStep
	}
	delay := tauToDelay * area / absStep

	return &SettleEstimate{SettledAt: motionEnd + delay, Delay: delay}
}

// tailFrom returns the samples with timestamp >= t0.
func tailFrom(tr *trace.Trace, t0 float64) []trace.Sample {
	for i, s := range tr.Samples {
		if s.T >= t0 {
			return tr.Samples[i:]
		}
	}
	return nil
}

// interpAt evaluates the piecewise-linear signal (xs, ys) at x, clamping to
// the endpoint values outside the sampled range. Duplicate abscissae are
// tolerated: timestamps are only guaranteed non-decreasing.
func interpAt(xs, ys []float64, x float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	if x <= xs[0] {
		return ys[0]
	}
	if x >= xs[len(xs)-1] {
		return ys[len(ys)-1]
	}
	for i := 1; i < len(xs); i++ {
		if xs[i] < x {
			continue
		}
		if xs[i] == xs[i-1] {
			return ys[i]
		}
		t := (x - xs[i-1]) / (xs[i] - xs[i-1])
		return ys[i-1] + t*(ys[i]-ys[i-1])
	}
	return ys[len(ys)-1]
}
