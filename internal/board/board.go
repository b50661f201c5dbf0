// Package board renders evidence boards for graded smooth_axis runs: grids
// of per-scenario panels showing the commanded baseline, the noisy input,
// the filtered output, and the analysis annotations (settle markers, false
// update counts). Boards are saved as PNG files; an interactive HTML
// variant is available for browser inspection.
package board

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Palette holds the series colors shared by all boards.
type Palette struct {
	Baseline  color.Color
	Noisy     color.Color
	Smooth    color.Color
	Event     color.Color
	NoiseLine color.Color
	ThreshL   color.Color
	Threshold color.Color
}

// DefaultPalette matches the reference evidence-board colors.
func DefaultPalette() Palette {
	return Palette{
		Baseline:  color.Black,
		Noisy:     color.RGBA{R: 0xFF, G: 0x44, B: 0x44, A: 0xFF},
		Smooth:    color.RGBA{R: 0x00, G: 0x44, B: 0xAA, A: 0xFF},
		Event:     color.RGBA{R: 0x66, G: 0xCC, B: 0xFF, A: 0xFF},
		NoiseLine: color.RGBA{R: 0x00, G: 0xAA, B: 0x00, A: 0xFF},
		ThreshL:   color.RGBA{R: 0xFF, G: 0x88, B: 0x00, A: 0xFF},
		Threshold: color.Gray{Y: 0x80},
	}
}

// mapRanges linearly remaps x from [inMin, inMax] to [outMin, outMax].
func mapRanges(x, inMin, inMax, outMin, outMax float64) float64 {
	if inMax == inMin {
		return outMin
	}
	t := (x - inMin) / (inMax - inMin)
	return outMin + t*(outMax-outMin)
}

// newPanel creates an empty panel with the output range fixed on the Y axis.
func newPanel(outMax float64) *plot.Plot {
	p := plot.New()
	p.Y.Min = 0
	p.Y.Max = outMax
	p.X.Label.Text = ""
	return p
}

// addLine draws (xs, ys) onto p with the given color and width.
func addLine(p *plot.Plot, xs, ys []float64, c color.Color, width vg.Length) (*plotter.Line, error) {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.Color = c
	line.Width = width
	p.Add(line)
	return line, nil
}

// addDashedLine draws a dashed line for diagnostic channels.
func addDashedLine(p *plot.Plot, xs, ys []float64, c color.Color, dashes []vg.Length) error {
	line, err := addLine(p, xs, ys, c, vg.Points(1))
	if err != nil {
		return err
	}
	line.Dashes = dashes
	return nil
}

// addEvents draws update-event markers as small filled circles.
func addEvents(p *plot.Plot, xs, ys []float64, c color.Color) error {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	sc.GlyphStyle.Color = c
	sc.GlyphStyle.Radius = vg.Points(1.2)
	sc.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(sc)
	return nil
}

// addVLine draws a vertical marker spanning the panel's output range.
func addVLine(p *plot.Plot, x, yMax float64, c color.Color, width vg.Length) error {
	line, err := plotter.NewLine(plotter.XYs{{X: x, Y: 0}, {X: x, Y: yMax}})
	if err != nil {
		return err
	}
	line.Color = c
	line.Width = width
	line.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	p.Add(line)
	return nil
}

// addHLine draws a horizontal marker across [xMin, xMax].
func addHLine(p *plot.Plot, y, xMin, xMax float64, c color.Color) error {
	line, err := plotter.NewLine(plotter.XYs{{X: xMin, Y: y}, {X: xMax, Y: y}})
	if err != nil {
		return err
	}
	line.Color = c
	line.Width = vg.Points(1)
	line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(line)
	return nil
}

// addLabel places a small text annotation at data coordinates.
func addLabel(p *plot.Plot, x, y float64, text string) error {
	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: x, Y: y}},
		Labels: []string{text},
	})
	if err != nil {
		return err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Font.Size = vg.Points(6)
		labels.TextStyle[i].Color = color.Gray{Y: 0x55}
	}
	p.Add(labels)
	return nil
}

// saveGrid lays the panels out as tiles and writes a single PNG. Nil panels
// leave their tile empty.
func saveGrid(panels [][]*plot.Plot, panelW, panelH vg.Length, path string) error {
	rows := len(panels)
	if rows == 0 {
		return fmt.Errorf("no panels to render")
	}
	cols := len(panels[0])

	img := vgimg.New(panelW*vg.Length(cols), panelH*vg.Length(rows))
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: rows,
		Cols: cols,
		PadX: vg.Points(4),
		PadY: vg.Points(4),
	}

	canvases := plot.Align(panels, tiles, dc)
	for i := range panels {
		for j := range panels[i] {
			if panels[i][j] != nil {
				panels[i][j].Draw(canvases[i][j])
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create board file: %w", err)
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return fmt.Errorf("write board PNG: %w", err)
	}
	return nil
}
