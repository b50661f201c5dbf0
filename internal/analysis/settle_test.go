package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Viderspace/smooth-axis/internal/trace"
)

// syntheticTrace builds a trace from parallel time/output slices.
func syntheticTrace(ts, outs []float64) *trace.Trace {
	tr := &trace.Trace{Samples: make([]trace.Sample, len(ts))}
	for i := range ts {
		tr.Samples[i] = trace.Sample{T: ts[i], Out: outs[i]}
	}
	return tr
}

// exponentialTrace samples final - (final-start)*exp(-(t-t0)/tau) densely.
func exponentialTrace(start, final, t0, tau, dt, end float64) *trace.Trace {
	var ts, outs []float64
	for t := 0.0; t <= end; t += dt {
		y := start
		if t >= t0 {
			y = final - (final-start)*math.Exp(-(t-t0)/tau)
		}
		ts = append(ts, t)
		outs = append(outs, y)
	}
	return syntheticTrace(ts, outs)
}

func TestMeasureSettleTime_EmptyTail(t *testing.T) {
	tr := syntheticTrace([]float64{0, 0.1, 0.2}, []float64{100, 100, 100})
	require.Nil(t, MeasureSettleTime(tr, 1.0))
}

func TestMeasureSettleTime_DegenerateStep(t *testing.T) {
	// Flat output around the motion end: step height below the noise floor.
	ts := []float64{0, 0.5, 1.0, 1.5, 2.0, 2.5, 3.0}
	outs := []float64{500, 500, 500, 500.2, 499.9, 500.1, 500}
	est := MeasureSettleTime(syntheticTrace(ts, outs), 1.0)

	require.NotNil(t, est)
	require.Equal(t, 0.0, est.Delay)
	require.Equal(t, 1.0, est.SettledAt)
}

func TestMeasureSettleTime_RecoversExponentialTau(t *testing.T) {
	const tau = 0.05
	tr := exponentialTrace(100, 900, 1.0, tau, 0.001, 3.0)

	est := MeasureSettleTime(tr, 1.0)
	require.NotNil(t, est)

	want := 3 * tau
	require.InEpsilon(t, want, est.Delay, 0.05, "delay should be ~3*tau")
	require.InDelta(t, 1.0+est.Delay, est.SettledAt, 1e-12)
}

func TestMeasureSettleTime_FallingStep(t *testing.T) {
	const tau = 0.1
	tr := exponentialTrace(900, 100, 1.0, tau, 0.001, 4.0)

	est := MeasureSettleTime(tr, 1.0)
	require.NotNil(t, est)
	require.InEpsilon(t, 3*tau, est.Delay, 0.05)
}

func TestMeasureSettleTime_Deterministic(t *testing.T) {
	tr := exponentialTrace(100, 900, 1.0, 0.2, 0.002, 5.0)

	a := MeasureSettleTime(tr, 1.0)
	b := MeasureSettleTime(tr, 1.0)
	require.NotNil(t, a)
	require.NotNil(t, b)
	require.Equal(t, *a, *b)
}

func TestMeasureSettleTime_NoSteadyHalf(t *testing.T) {
	// Single tail sample: the strict second half of the window is empty.
	tr := syntheticTrace([]float64{0, 1.0}, []float64{100, 900})
	require.Nil(t, MeasureSettleTime(tr, 1.0))
}

func TestInterpAt(t *testing.T) {
	xs := []float64{0, 1, 2}
	ys := []float64{0, 10, 20}

	testCases := []struct {
		name string
		x    float64
		want float64
	}{
		{"below_range_clamps", -1, 0},
		{"above_range_clamps", 5, 20},
		{"exact_knot", 1, 10},
		{"midpoint", 0.5, 5},
		{"upper_segment", 1.75, 17.5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := interpAt(xs, ys, tc.x)
			if math.Abs(got-tc.want) > 1e-12 {
				t.Errorf("interpAt(%v) = %v, want %v", tc.x, got, tc.want)
			}
		})
	}
}

func TestInterpAt_DuplicateTimestamps(t *testing.T) {
	xs := []float64{0, 1, 1, 2}
	ys := []float64{0, 10, 12, 20}

	got := interpAt(xs, ys, 1)
	if got != 10 && got != 12 {
		t.Errorf("interpAt at duplicate knot = %v, want one of the knot values", got)
	}
}
