package report

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Viderspace/smooth-axis/internal/analysis"
	"github.com/Viderspace/smooth-axis/internal/trace"
)

func TestMAPE(t *testing.T) {
	results := []trace.StepResult{
		{SettleMs: 20, ErrorPct: 7.5},
		{SettleMs: 50, ErrorPct: -4.0},
		{SettleMs: 200, ErrorPct: 0.5},
	}
	require.InDelta(t, 4.0, MAPE(results), 1e-12)
	require.Equal(t, 0.0, MAPE(nil))
}

func TestWriteStepSummary(t *testing.T) {
	clean := []trace.StepResult{
		{SettleMs: 20, MeasuredMs: 21.5, ErrorPct: 7.5},
		{SettleMs: 50, MeasuredMs: 48.0, ErrorPct: -4.0},
	}
	noisy := []trace.StepResult{
		{SettleMs: 20, MeasuredMs: 23.0, ErrorPct: 15.0},
		{SettleMs: 50, MeasuredMs: 51.0, ErrorPct: 2.0},
	}

	var b strings.Builder
	require.NoError(t, WriteStepSummary(&b, clean, noisy))
	out := b.String()

	require.Contains(t, out, "Step Response Test Summary")
	require.Contains(t, out, "MAPE: 5.75%")        // clean: (7.5+4.0)/2
	require.Contains(t, out, "MAPE: 8.50%")        // noisy: (15+2)/2
	require.Contains(t, out, "Max error: 7.50% (at 20ms)")
	require.Contains(t, out, "Max error: 15.00% (at 20ms)")
	require.Contains(t, out, "20ms: clean=  21.5ms (  7.5%), noisy=  23.0ms ( 15.0%)")
}

func TestWriteStepSummary_MissingNoisyRow(t *testing.T) {
	clean := []trace.StepResult{{SettleMs: 500, MeasuredMs: 510, ErrorPct: 2.0}}

	var b strings.Builder
	require.NoError(t, WriteStepSummary(&b, clean, nil))
	// Falls back to the commanded value with zero error.
	require.Contains(t, b.String(), "noisy= 500.0ms (  0.0%)")
}

func TestWriteBatchReport(t *testing.T) {
	var acc analysis.Accumulator
	acc.AddUpdates(analysis.UpdateStats{False: 1, Total: 100})
	acc.AddTimingSample(0.1, 0.11)

	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	var b strings.Builder
	require.NoError(t, WriteBatchReport(&b, id, acc.Finalize()))
	out := b.String()

	require.Contains(t, out, "Run 6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	require.Contains(t, out, "Overall Monotonic Accuracy: 99.00000% (False updates: 1/100)")
	require.Contains(t, out, "Average Timing Inaccuracy:  10.00% (MAPE over 1 tests)")
}

func TestWriteBatchReport_Undefined(t *testing.T) {
	var acc analysis.Accumulator
	var b strings.Builder
	require.NoError(t, WriteBatchReport(&b, uuid.Nil, acc.Finalize()))
	out := b.String()

	require.Contains(t, out, "n/a (no update events recorded)")
	require.Contains(t, out, "n/a (no timing samples)")
}
