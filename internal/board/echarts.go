package board

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Viderspace/smooth-axis/internal/analysis"
	"github.com/Viderspace/smooth-axis/internal/scenario"
	"github.com/Viderspace/smooth-axis/internal/trace"
)

// RenderHTML writes an interactive variant of the ramp evidence board: one
// chart per env-matrix scenario, stacked on a single scrollable page. It is
// a browser-inspection aid; all grading happens in the analysis package.
func RenderHTML(scens []*scenario.Descriptor, outDir string) (string, error) {
	matrix := scenario.BuildEnvMatrix(scenario.FilterEnvMatrix(scens))
	if len(matrix.EnvPairs) == 0 || len(matrix.Settles) == 0 {
		return "", fmt.Errorf("no env-matrix scenarios found")
	}

	page := components.NewPage()
	page.PageTitle = "smooth_axis settle-time behavior"

	for _, pair := range matrix.EnvPairs {
		for _, settle := range matrix.Settles {
			meta := matrix.Lookup(pair.Jitter, pair.Noise, settle)
			if meta == nil {
				continue
			}
			tr, err := trace.Load(meta.Path)
			if err != nil {
				log.Printf("WARNING: skipping %s: %v", meta.Basename, err)
				continue
			}
			page.AddCharts(scenarioChart(tr, meta, pair, settle))
		}
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	out := filepath.Join(outDir, "settle_time_behavior_matrix.html")
	f, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("create board file: %w", err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return "", fmt.Errorf("render board HTML: %w", err)
	}
	return out, nil
}

// scenarioChart builds one line chart mirroring a PNG board panel.
func scenarioChart(tr *trace.Trace, meta *scenario.Descriptor, pair scenario.EnvPair, settle float64) *charts.Line {
	stats := analysis.CheckMonotonic(tr, analysis.Rising)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1100px", Height: "360px"}),
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("%s - %s", rowLabel(pair.Jitter, pair.Noise), columnTitle(settle)),
			Subtitle: fmt.Sprintf("%s · false updates %d/%d",
				meta.Basename, stats.False, stats.Total),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: float64(meta.MaxRaw)}),
	)

	n := len(tr.Samples)
	xs := make([]string, n)
	base := make([]opts.LineData, n)
	noisy := make([]opts.LineData, n)
	out := make([]opts.LineData, n)
	for i, s := range tr.Samples {
		xs[i] = fmt.Sprintf("%.3f", s.T)
		base[i] = opts.LineData{Value: s.Base}
		noisy[i] = opts.LineData{Value: s.Noisy}
		out[i] = opts.LineData{Value: s.Out}
	}

	line.SetXAxis(xs).
		AddSeries("baseline", base, charts.WithLineStyleOpts(opts.LineStyle{Color: "#000000", Width: 1})).
		AddSeries("noisy input", noisy, charts.WithLineStyleOpts(opts.LineStyle{Color: "#FF4444", Width: 1, Opacity: opts.Float(0.5)})).
		AddSeries("smooth axis", out, charts.WithLineStyleOpts(opts.LineStyle{Color: "#0044AA", Width: 2}))

	return line
}
