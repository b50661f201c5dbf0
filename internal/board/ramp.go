package board

import (
	"fmt"
	"log"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/Viderspace/smooth-axis/internal/analysis"
	"github.com/Viderspace/smooth-axis/internal/scenario"
	"github.com/Viderspace/smooth-axis/internal/trace"
)

// RampBoard renders the settle-time behavior matrix: environment presets as
// rows, commanded settle times as columns, one ramp scenario per cell.
type RampBoard struct {
	OutDir    string
	MotionEnd float64 // instant the commanded ramp reaches its target
	OutMax    float64 // output range ceiling, e.g. 1023
	MinThresh float64 // activation-threshold display range, in counts
	MaxThresh float64
	Colors    Palette
}

// NewRampBoard returns a board with the reference display configuration.
func NewRampBoard(outDir string) *RampBoard {
	return &RampBoard{
		OutDir:    outDir,
		MotionEnd: 1.0,
		OutMax:    1023,
		MinThresh: 3.0,
		MaxThresh: 31.0,
		Colors:    DefaultPalette(),
	}
}

// Render draws the matrix for the canonical ramp scenarios among scens,
// folding each panel's monotonicity and timing metrics into acc. It returns
// the path of the written PNG. Scenarios whose traces fail to load are
// skipped with a warning; they contribute nothing to acc.
func (b *RampBoard) Render(scens []*scenario.Descriptor, acc *analysis.Accumulator) (string, error) {
	matrix := scenario.BuildEnvMatrix(scenario.FilterEnvMatrix(scens))
	if len(matrix.EnvPairs) == 0 || len(matrix.Settles) == 0 {
		return "", fmt.Errorf("no env-matrix scenarios found")
	}

	panels := make([][]*plot.Plot, len(matrix.EnvPairs))
	for i, pair := range matrix.EnvPairs {
		panels[i] = make([]*plot.Plot, len(matrix.Settles))
		for j, settle := range matrix.Settles {
			meta := matrix.Lookup(pair.Jitter, pair.Noise, settle)
			if meta == nil {
				continue
			}

			tr, err := trace.Load(meta.Path)
			if err != nil {
				log.Printf("WARNING: skipping %s: %v", meta.Basename, err)
				continue
			}

			p, err := b.renderPanel(tr, meta, acc)
			if err != nil {
				return "", fmt.Errorf("panel %s: %w", meta.Basename, err)
			}

			if i == 0 {
				p.Title.Text = columnTitle(settle)
			}
			if j == 0 {
				p.Y.Label.Text = rowLabel(pair.Jitter, pair.Noise)
			}
			if i == len(matrix.EnvPairs)-1 {
				p.X.Label.Text = "t (s)"
			}
			panels[i][j] = p
		}
	}

	out := filepath.Join(b.OutDir, "settle_time_behavior_matrix.png")
	if err := saveGrid(panels, 3.6*vg.Inch, 3.2*vg.Inch, out); err != nil {
		return "", err
	}
	return out, nil
}

// renderPanel draws one scenario and records its metrics.
func (b *RampBoard) renderPanel(tr *trace.Trace, meta *scenario.Descriptor, acc *analysis.Accumulator) (*plot.Plot, error) {
	p := newPanel(b.OutMax)

	ts := tr.Times()
	base := make([]float64, len(tr.Samples))
	noisy := make([]float64, len(tr.Samples))
	for i, s := range tr.Samples {
		base[i] = s.Base
		noisy[i] = s.Noisy
	}

	if _, err := addLine(p, ts, base, b.Colors.Baseline, vg.Points(0.4)); err != nil {
		return nil, err
	}
	if _, err := addLine(p, ts, noisy, b.Colors.Noisy, vg.Points(0.2)); err != nil {
		return nil, err
	}
	if _, err := addLine(p, ts, tr.Outputs(), b.Colors.Smooth, vg.Points(0.8)); err != nil {
		return nil, err
	}

	events := tr.Events()
	exs := make([]float64, len(events))
	eys := make([]float64, len(events))
	for i, e := range events {
		exs[i] = e.T
		eys[i] = e.Out
	}
	if err := addEvents(p, exs, eys, b.Colors.Event); err != nil {
		return nil, err
	}

	if tr.HasDiagnostics {
		noiseLine := make([]float64, len(tr.Samples))
		threshLine := make([]float64, len(tr.Samples))
		for i, s := range tr.Samples {
			noiseLine[i] = s.NoiseNorm * b.OutMax
			threshLine[i] = mapRanges(s.ThreshNorm*b.OutMax, b.MinThresh, b.MaxThresh, 0, b.OutMax-1)
		}
		if err := addDashedLine(p, ts, noiseLine, b.Colors.NoiseLine, []vg.Length{vg.Points(4), vg.Points(2)}); err != nil {
			return nil, err
		}
		if err := addDashedLine(p, ts, threshLine, b.Colors.ThreshL, []vg.Length{vg.Points(1), vg.Points(2)}); err != nil {
			return nil, err
		}
	}

	// Update statistics. Ramp scenarios command a rising 10%->90% transit.
	stats := analysis.CheckMonotonic(tr, analysis.Rising)
	acc.AddUpdates(stats)
	lastT := b.MotionEnd
	if len(ts) > 0 {
		lastT = ts[len(ts)-1]
	}
	if err := addLabel(p, lastT, 0.03*b.OutMax, fmt.Sprintf("false: %d / %d", stats.False, stats.Total)); err != nil {
		return nil, err
	}

	// Settle-time analysis and markers.
	if est := analysis.MeasureSettleTime(tr, b.MotionEnd); est != nil {
		if meta.SettleTime != nil {
			acc.AddTimingSample(*meta.SettleTime, est.Delay)
		}
		if err := addVLine(p, b.MotionEnd, b.OutMax, b.Colors.Threshold, vg.Points(0.6)); err != nil {
			return nil, err
		}
		if err := addVLine(p, est.SettledAt, b.OutMax, b.Colors.Baseline, vg.Points(0.8)); err != nil {
			return nil, err
		}
		midT := (b.MotionEnd + est.SettledAt) / 2
		if err := addLabel(p, midT, 0.08*b.OutMax, fmt.Sprintf("settle: %.0f ms", est.Delay*1000)); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// columnTitle labels a settle-time column, using the preset display name
// when one exists.
func columnTitle(settleSec float64) string {
	ms := int(settleSec*1000 + 0.5)
	if scenario.SettleLabel(settleSec) != "" {
		return fmt.Sprintf("%d ms", ms)
	}
	return fmt.Sprintf("t_settle=%d ms", ms)
}

// rowLabel labels an environment row with its nearest preset name.
func rowLabel(jitter, noise float64) string {
	env := scenario.ClassifyEnvironment(jitter, noise)
	return fmt.Sprintf("%s (%.1f%%, %.1f%%)", env, jitter*100, noise*100)
}
