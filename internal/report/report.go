// Package report formats the batch-level results of a graded smooth_axis
// run: the step-response summary table and the end-of-batch accuracy lines.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/Viderspace/smooth-axis/internal/analysis"
	"github.com/Viderspace/smooth-axis/internal/trace"
)

// MAPE returns the mean absolute percentage error over a step-result table,
// in percent. Returns 0 for an empty table.
func MAPE(results []trace.StepResult) float64 {
	if len(results) == 0 {
		return 0
	}
	errs := make([]float64, len(results))
	for i, r := range results {
		errs[i] = math.Abs(r.ErrorPct)
	}
	return stat.Mean(errs, nil)
}

// maxAbsError returns the largest absolute error in the table and the
// commanded settle time it occurred at.
func maxAbsError(results []trace.StepResult) (errPct, settleMs float64) {
	for _, r := range results {
		if a := math.Abs(r.ErrorPct); a >= errPct {
			errPct = a
			settleMs = r.SettleMs
		}
	}
	return errPct, settleMs
}

// WriteStepSummary writes the step-response test summary: per-condition
// MAPE, worst-case error, and the individual clean/noisy result pairs.
func WriteStepSummary(w io.Writer, clean, noisy []trace.StepResult) error {
	rule := strings.Repeat("=", 70)

	cleanMax, cleanMaxAt := maxAbsError(clean)
	noisyMax, noisyMaxAt := maxAbsError(noisy)

	lines := []string{
		rule,
		"Step Response Test Summary",
		rule,
		"",
		"Clean Conditions:",
		fmt.Sprintf("  MAPE: %.2f%%", MAPE(clean)),
		fmt.Sprintf("  Max error: %.2f%% (at %dms)", cleanMax, int(cleanMaxAt)),
		"",
		"Noisy Conditions (4% noise, 8% jitter):",
		fmt.Sprintf("  MAPE: %.2f%%", MAPE(noisy)),
		fmt.Sprintf("  Max error: %.2f%% (at %dms)", noisyMax, int(noisyMaxAt)),
		"",
		"Individual Results:",
		strings.Repeat("-", 70),
	}

	for _, c := range clean {
		n, ok := trace.FindStepResult(noisy, c.SettleMs)
		if !ok {
			n = trace.StepResult{SettleMs: c.SettleMs, MeasuredMs: c.SettleMs}
		}
		lines = append(lines, fmt.Sprintf(
			"  %4dms: clean=%6.1fms (%5.1f%%), noisy=%6.1fms (%5.1f%%)",
			int(c.SettleMs), c.MeasuredMs, c.ErrorPct, n.MeasuredMs, n.ErrorPct))
	}
	lines = append(lines, rule)

	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

// WriteBatchReport writes the end-of-batch accuracy lines from a finalized
// accumulator. Undefined ratios (no contributing samples) are reported as
// such rather than as zero.
func WriteBatchReport(w io.Writer, runID uuid.UUID, sum analysis.Summary) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Run %s\n", runID)

	if sum.MonotonicAccuracy != nil {
		fmt.Fprintf(&b, "Overall Monotonic Accuracy: %.5f%% (False updates: %d/%d)\n",
			*sum.MonotonicAccuracy*100, sum.FalseUpdates, sum.TotalUpdates)
	} else {
		fmt.Fprintf(&b, "Overall Monotonic Accuracy: n/a (no update events recorded)\n")
	}

	if sum.MeanTimingError != nil {
		fmt.Fprintf(&b, "Average Timing Inaccuracy:  %.2f%% (MAPE over %d tests)\n",
			*sum.MeanTimingError*100, sum.TimingSamples)
	} else {
		fmt.Fprintf(&b, "Average Timing Inaccuracy:  n/a (no timing samples)\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
