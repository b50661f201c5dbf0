package board

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Viderspace/smooth-axis/internal/analysis"
	"github.com/Viderspace/smooth-axis/internal/scenario"
)

// writeRampTrace writes a synthetic ramp trace: 102 -> 921 over [0, 1],
// then steady, with periodic update events.
func writeRampTrace(t *testing.T, path string) {
	t.Helper()
	var b strings.Builder
	b.WriteString("t_sec,raw_base,raw_noisy,out_u16,has_new,noise_norm,thresh_norm\n")
	for i := 0; i <= 300; i++ {
		ts := float64(i) * 0.01
		base := 102.0 + 819.0*ts
		if ts > 1 {
			base = 921
		}
		hasNew := 0
		if i%10 == 0 {
			hasNew = 1
		}
		fmt.Fprintf(&b, "%.3f,%.1f,%.1f,%.1f,%d,0.02,0.01\n", ts, base, base+3, base, hasNew)
	}
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
}

// writeStepTrace writes a synthetic falling step trace in milliseconds.
func writeStepTrace(t *testing.T, path string) {
	t.Helper()
	var b strings.Builder
	b.WriteString("time_ms,raw_input,out_u16,has_new,crossed_95\n")
	for i := 0; i <= 150; i++ {
		ms := i * 10
		raw, out := 900.0, 900.0
		if ms >= 1000 {
			raw = 100
			out = 900 - float64(ms-1000) // linear fall for the fixture
			if out < 100 {
				out = 100
			}
		}
		hasNew, crossed := 0, 0
		if ms >= 1000 && i%2 == 0 {
			hasNew = 1
			if out <= 140 && out > 120 {
				crossed = 1
			}
		}
		fmt.Fprintf(&b, "%d,%.0f,%.0f,%d,%d\n", ms, raw, out, hasNew, crossed)
	}
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
}

func TestRampBoardRender(t *testing.T) {
	dataDir := t.TempDir()
	outDir := t.TempDir()

	names := []string{
		"smooth_axis_1023bit_ramp_t_0.2_dt=0.01_jit=0.00_noise=0.00_ramp_102_to_921.csv",
		"smooth_axis_1023bit_ramp_t_0.2_dt=0.01_jit=0.02_noise=0.02_ramp_102_to_921.csv",
	}
	for _, n := range names {
		writeRampTrace(t, filepath.Join(dataDir, n))
	}

	scens, err := scenario.Discover(dataDir)
	require.NoError(t, err)
	require.Len(t, scens, 2)

	var acc analysis.Accumulator
	b := NewRampBoard(outDir)
	out, err := b.Render(scens, &acc)
	require.NoError(t, err)

	info, err := os.Stat(out)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0), "board PNG should not be empty")

	// Both panels contributed update events to the batch.
	require.Equal(t, 62, acc.TotalUpdates)
	require.Equal(t, 0, acc.FalseUpdates)
	require.Equal(t, 2, acc.TimingSamples())
}

func TestRampBoardRender_NoScenarios(t *testing.T) {
	var acc analysis.Accumulator
	b := NewRampBoard(t.TempDir())
	_, err := b.Render(nil, &acc)
	require.Error(t, err)
}

func TestStepBoardRender(t *testing.T) {
	dataDir := t.TempDir()
	outDir := t.TempDir()

	summary := "settle_time_ms,measured_settle_ms,error_pct\n20,21.0,5.0\n"
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "step_results_clean.csv"), []byte(summary), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "step_results_noisy.csv"), []byte(summary), 0o644))

	for _, cond := range Conditions {
		writeStepTrace(t, filepath.Join(dataDir, fmt.Sprintf("step_trace_%s_20ms.csv", cond)))
	}

	var acc analysis.Accumulator
	b := NewStepBoard(dataDir, outDir)
	out, err := b.Render(&acc)
	require.NoError(t, err)

	info, err := os.Stat(out)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))

	// The falling step never regresses in the fixture.
	require.Equal(t, 0, acc.FalseUpdates)
	require.Greater(t, acc.TotalUpdates, 0)
}

func TestStepBoardRender_MissingSummaries(t *testing.T) {
	var acc analysis.Accumulator
	b := NewStepBoard(t.TempDir(), t.TempDir())
	_, err := b.Render(&acc)
	require.Error(t, err)
}

func TestRenderHTML(t *testing.T) {
	dataDir := t.TempDir()
	outDir := t.TempDir()
	writeRampTrace(t, filepath.Join(dataDir,
		"smooth_axis_1023bit_ramp_t_0.2_dt=0.01_jit=0.00_noise=0.00_ramp_102_to_921.csv"))

	scens, err := scenario.Discover(dataDir)
	require.NoError(t, err)

	out, err := RenderHTML(scens, outDir)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	html := string(data)
	require.Contains(t, html, "echarts")
	// Chart titles use the row/column labels with a plain separator.
	require.Contains(t, html, "pure (0.0%, 0.0%) - 200 ms")
	// The noisy-input series renders at half opacity.
	require.Contains(t, html, `"opacity":0.5`)
}

func TestMapRanges(t *testing.T) {
	testCases := []struct {
		name                            string
		x, inMin, inMax, outMin, outMax float64
		want                            float64
	}{
		{"midpoint", 5, 0, 10, 0, 100, 50},
		{"lower_bound", 0, 0, 10, 0, 100, 0},
		{"upper_bound", 10, 0, 10, 0, 100, 100},
		{"degenerate_input_range", 5, 3, 3, 0, 100, 0},
		{"inverted_output", 5, 0, 10, 100, 0, 50},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := mapRanges(tc.x, tc.inMin, tc.inMax, tc.outMin, tc.outMax)
			if got != tc.want {
				t.Errorf("mapRanges = %v, want %v", got, tc.want)
			}
		})
	}
}
