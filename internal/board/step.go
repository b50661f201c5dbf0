package board

import (
	"fmt"
	"image/color"
	"log"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/Viderspace/smooth-axis/internal/analysis"
	"github.com/Viderspace/smooth-axis/internal/trace"
)

// StepBoard renders the step-response accuracy grid: clean and noisy
// conditions as rows, commanded settle times as columns. Each panel shows
// the 900->100 falling step, the 95%-to-target threshold, and the measured
// crossing point with its pre-computed error from the summary tables.
type StepBoard struct {
	Dir       string // directory holding trace and summary CSVs
	OutDir    string
	OutMax    float64
	Threshold float64 // 95%-to-target threshold, in counts
	SettleMs  []int   // column order
	Colors    Palette
}

// Conditions are the step-test rows, in render order.
var Conditions = []string{"clean", "noisy"}

// NewStepBoard returns a board with the reference step-test configuration.
func NewStepBoard(dir, outDir string) *StepBoard {
	return &StepBoard{
		Dir:       dir,
		OutDir:    outDir,
		OutMax:    1023,
		Threshold: 140,
		SettleMs:  []int{20, 50, 200, 500, 1000},
		Colors:    DefaultPalette(),
	}
}

// tracePath names the trace file for one condition and settle time.
func (b *StepBoard) tracePath(condition string, settleMs int) string {
	return filepath.Join(b.Dir, fmt.Sprintf("step_trace_%s_%dms.csv", condition, settleMs))
}

// summaryPath names the pre-computed results table for one condition.
func (b *StepBoard) summaryPath(condition string) string {
	return filepath.Join(b.Dir, fmt.Sprintf("step_results_%s.csv", condition))
}

// Render draws the grid and folds each panel's monotonicity metrics into
// acc. The settle delay is not re-derived from the traces here: the summary
// tables are the already-computed metrics feed, and their per-test errors
// are folded into acc as timing samples. Returns the written PNG path.
func (b *StepBoard) Render(acc *analysis.Accumulator) (string, error) {
	summaries := make(map[string][]trace.StepResult, len(Conditions))
	for _, cond := range Conditions {
		results, err := trace.LoadStepResults(b.summaryPath(cond))
		if err != nil {
			return "", fmt.Errorf("load %s summary: %w", cond, err)
		}
		summaries[cond] = results
	}

	panels := make([][]*plot.Plot, len(Conditions))
	for i, cond := range Conditions {
		panels[i] = make([]*plot.Plot, len(b.SettleMs))
		for j, settleMs := range b.SettleMs {
			tr, err := trace.Load(b.tracePath(cond, settleMs))
			if err != nil {
				log.Printf("WARNING: skipping step trace %s/%dms: %v", cond, settleMs, err)
				continue
			}

			p, err := b.renderPanel(tr, summaries[cond], settleMs, acc)
			if err != nil {
				return "", fmt.Errorf("panel %s/%dms: %w", cond, settleMs, err)
			}

			if i == 0 {
				p.Title.Text = fmt.Sprintf("%d ms", settleMs)
			}
			if j == 0 {
				if cond == "clean" {
					p.Y.Label.Text = "pure (0.0%, 0.0%)"
				} else {
					p.Y.Label.Text = "noisy (8.0%, 4.0%)"
				}
			}
			if i == len(Conditions)-1 {
				p.X.Label.Text = "t (s)"
			}
			panels[i][j] = p
		}
	}

	out := filepath.Join(b.OutDir, "step_response_accuracy.png")
	if err := saveGrid(panels, 3.6*vg.Inch, 2.8*vg.Inch, out); err != nil {
		return "", err
	}
	return out, nil
}

func (b *StepBoard) renderPanel(tr *trace.Trace, summary []trace.StepResult, settleMs int, acc *analysis.Accumulator) (*plot.Plot, error) {
	p := newPanel(b.OutMax)

	ts := tr.Times()
	noisy := make([]float64, len(tr.Samples))
	for i, s := range tr.Samples {
		noisy[i] = s.Noisy
	}

	// Ideal baseline: high level until the commanded step, low after.
	if stepStart, ok := findStepStart(tr); ok {
		base := make([]float64, len(tr.Samples))
		for i, s := range tr.Samples {
			if s.T < stepStart {
				base[i] = 900
			} else {
				base[i] = 100
			}
		}
		if _, err := addLine(p, ts, base, b.Colors.Baseline, vg.Points(0.5)); err != nil {
			return nil, err
		}
	}

	if _, err := addLine(p, ts, noisy, b.Colors.Noisy, vg.Points(0.3)); err != nil {
		return nil, err
	}
	if _, err := addLine(p, ts, tr.Outputs(), b.Colors.Smooth, vg.Points(1.0)); err != nil {
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

	lastT := 0.0
	if len(ts) > 0 {
		lastT = ts[len(ts)-1]
	}
	if err := addHLine(p, b.Threshold, 0, lastT, b.Colors.Threshold); err != nil {
		return nil, err
	}

	// Measured crossing point plus the pre-computed accuracy annotation.
	measuredMs, errorPct := float64(settleMs), 0.0
	if row, ok := trace.FindStepResult(summary, float64(settleMs)); ok {
		measuredMs, errorPct = row.MeasuredMs, row.ErrorPct
	}
	if cp, ok := findCrossing(tr); ok {
		if err := addRingMarker(p, cp.T, cp.Out); err != nil {
			return nil, err
		}
		text := fmt.Sprintf("%.1fms (%.1f%%)", measuredMs, errorPct)
		if err := addLabel(p, cp.T, cp.Out+0.06*b.OutMax, text); err != nil {
			return nil, err
		}
	}

	// False updates: the 900->100 step commands a falling transition.
	stats := analysis.CheckMonotonic(tr, analysis.Falling)
	acc.AddUpdates(stats)
	acc.AddTimingSample(float64(settleMs)/1000, measuredMs/1000)
	if err := addLabel(p, lastT, 0.03*b.OutMax, fmt.Sprintf("false: %d / %d", stats.False, stats.Total)); err != nil {
		return nil, err
	}

	return p, nil
}

// findStepStart locates the commanded 900->100 transition in the raw input.
func findStepStart(tr *trace.Trace) (float64, bool) {
	for i := 1; i < len(tr.Samples); i++ {
		if tr.Samples[i-1].Noisy >= 800 && tr.Samples[i].Noisy <= 200 {
			return tr.Samples[i].T, true
		}
	}
	return 0, false
}

// findCrossing returns the first update event flagged as the 95%-to-target
// crossing.
func findCrossing(tr *trace.Trace) (trace.Sample, bool) {
	if !tr.HasCrossed {
		return trace.Sample{}, false
	}
	for _, s := range tr.Samples {
		if s.HasNew && s.Crossed {
			return s, true
		}
	}
	return trace.Sample{}, false
}

// addRingMarker draws an open circle at the crossing point.
func addRingMarker(p *plot.Plot, x, y float64) error {
	sc, err := plotter.NewScatter(plotter.XYs{{X: x, Y: y}})
	if err != nil {
		return err
	}
	sc.GlyphStyle.Color = color.Black
	sc.GlyphStyle.Radius = vg.Points(3)
	sc.GlyphStyle.Shape = draw.RingGlyph{}
	p.Add(sc)
	return nil
}
