package trace

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// StepResult is one row of a pre-computed step-response summary: the
// commanded settle time, the settle delay the test harness measured, and
// the signed percent error between them.
type StepResult struct {
	SettleMs   float64
	MeasuredMs float64
	ErrorPct   float64
}

// LoadStepResults reads a step-response summary CSV with columns
// settle_time_ms, measured_settle_ms, and error_pct.
func LoadStepResults(path string) ([]StepResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadStepResults(f)
}

// ReadStepResults parses step-response summary CSV content from r.
func ReadStepResults(r io.Reader) ([]StepResult, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read summary header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	settleIdx, ok := col["settle_time_ms"]
	if !ok {
		return nil, fmt.Errorf("summary has no settle_time_ms column")
	}
	measuredIdx, ok := col["measured_settle_ms"]
	if !ok {
		return nil, fmt.Errorf("summary has no measured_settle_ms column")
	}
	errIdx, ok := col["error_pct"]
	if !ok {
		return nil, fmt.Errorf("summary has no error_pct column")
	}

	var out []StepResult
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read summary line %d: %w", line, err)
		}

		var sr StepResult
		if sr.SettleMs, err = field(record, settleIdx); err != nil {
			return nil, fmt.Errorf("summary line %d: %w", line, err)
		}
		if sr.MeasuredMs, err = field(record, measuredIdx); err != nil {
			return nil, fmt.Errorf("summary line %d: %w", line, err)
		}
		if sr.ErrorPct, err = field(record, errIdx); err != nil {
			return nil, fmt.Errorf("summary line %d: %w", line, err)
		}
		out = append(out, sr)
	}

	return out, nil
}

// FindStepResult returns the row for the given commanded settle time, or
// false when the summary has no entry for it.
func FindStepResult(results []StepResult, settleMs float64) (StepResult, bool) {
	for _, r := range results {
		if r.SettleMs == settleMs {
			return r, true
		}
	}
	return StepResult{}, false
}
