package render

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"energy-dashboard-go/internal/viewmodel"
)

// PNG canvas size.
const (
	pngWidth  = 12 * vg.Inch
	pngHeight = 7 * vg.Inch
	barWidth  = 18
)


// SavePNG writes a static line, area or bar chart to path. The format
// follows the file extension.
func SavePNG(spec *viewmodel.ChartSpec, path string) error {
	p, err := buildPlot(spec)
	if err != nil {
		return err
	}
	if err := p.Save(pngWidth, pngHeight, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func buildPlot(spec *viewmodel.ChartSpec) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = spec.Title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Y.Label.Text = spec.ValueFormat.Unit
	p.Legend.Top = true

	switch spec.Kind {
	case viewmodel.KindLine, viewmodel.KindArea:
		if err := addLines(p, spec); err != nil {
			return nil, err
		}
	case viewmodel.KindBar:
		if err := addBars(p, spec); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: png export of %q", ErrUnsupportedView, spec.Kind)
	}

	if spec.Kind == viewmodel.KindBar && spec.Horizontal {
		p.NominalY(spec.Labels...)
	} else {
		p.NominalX(spec.Labels...)
	}
	p.Add(plotter.NewGrid())
	return p, nil
}

// seriesColor is the series' own color, or the palette color of its index
// when the series carries none the raster backend can read.
func seriesColor(s viewmodel.Series, index int) color.Color {
	if c, ok := viewmodel.ParseCSS(s.Color); ok {
		return c
	}
	return viewmodel.SourceColor(index).RGBA()
}

func addLines(p *plot.Plot, spec *viewmodel.ChartSpec) error {
	// Stacked areas draw the running sum so each band sits on the previous.
	running := make([]float64, len(spec.Labels))
	for j, s := range spec.Series {
		pts := make(plotter.XYs, len(s.Values))
		for i, v := range s.Values {
			y := v
			if spec.Stacked && i < len(running) {
				running[i] += v
				y = running[i]
			}
			pts[i] = plotter.XY{X: float64(i), Y: y}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("line %q: %w", s.Name, err)
		}
		line.Color = seriesColor(s, j)
		line.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}
	return nil
}

func addBars(p *plot.Plot, spec *viewmodel.ChartSpec) error {
	n := len(spec.Series)
	var below *plotter.BarChart
	for j, s := range spec.Series {
		values := make(plotter.Values, len(s.Values))
		copy(values, s.Values)
		bars, err := plotter.NewBarChart(values, vg.Points(barWidth))
		if err != nil {
			return fmt.Errorf("bars %q: %w", s.Name, err)
		}
		bars.Color = seriesColor(s, j)
		bars.LineStyle.Width = vg.Length(0)
		bars.Horizontal = spec.Horizontal
		if spec.Stacked {
			if below != nil {
				bars.StackOn(below)
			}
			below = bars
		} else if n > 1 {
			bars.Offset = vg.Points(float64(j)-float64(n-1)/2) * barWidth
		}
		p.Add(bars)
		p.Legend.Add(s.Name, bars)
	}
	return nil
}
