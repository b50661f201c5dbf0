package trace

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReadStepResults(t *testing.T) {
	csv := strings.Join([]string{
		"settle_time_ms,measured_settle_ms,error_pct",
		"20,21.5,7.5",
		"50,48.0,-4.0",
		"200,203.1,1.55",
	}, "\n")

	got, err := ReadStepResults(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ReadStepResults: %v", err)
	}

	want := []StepResult{
		{SettleMs: 20, MeasuredMs: 21.5, ErrorPct: 7.5},
		{SettleMs: 50, MeasuredMs: 48.0, ErrorPct: -4.0},
		{SettleMs: 200, MeasuredMs: 203.1, ErrorPct: 1.55},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestReadStepResults_MissingColumn(t *testing.T) {
	csv := "settle_time_ms,error_pct\n20,7.5\n"
	if _, err := ReadStepResults(strings.NewReader(csv)); err == nil {
		t.Error("expected error for missing measured_settle_ms column")
	}
}

func TestFindStepResult(t *testing.T) {
	results := []StepResult{
		{SettleMs: 20, MeasuredMs: 21.5, ErrorPct: 7.5},
		{SettleMs: 50, MeasuredMs: 48.0, ErrorPct: -4.0},
	}

	if r, ok := FindStepResult(results, 50); !ok || r.MeasuredMs != 48.0 {
		t.Errorf("FindStepResult(50) = %+v, %v", r, ok)
	}
	if _, ok := FindStepResult(results, 500); ok {
		t.Error("FindStepResult(500) should report absence")
	}
}
