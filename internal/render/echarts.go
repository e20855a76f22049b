package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"slices"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"energy-dashboard-go/internal/viewmodel"
)

const (
	chartWidth    = "100%"
	chartHeight   = "420px"
	detailHeight  = "560px"
	stackName     = "total"
	areaOpacity   = 0.55
	pieRadius     = "70%"
	doughnutInner = "42%"
)

type echart interface {
	Render(w io.Writer) error
}

func echartsTheme(theme string) string {
	if theme == ThemeDark {
		return "dark"
	}
	return "white"
}

func chartFragment(spec *viewmodel.ChartSpec, theme string) (template.HTML, error) {
	var chart echart
	switch spec.Kind {
	case viewmodel.KindLine, viewmodel.KindArea:
		chart = lineChart(spec, theme)
	case viewmodel.KindBar:
		chart = barChart(spec, theme)
	case viewmodel.KindPie, viewmodel.KindDoughnut:
		pie, err := pieChart(spec, theme)
		if err != nil {
			return "", err
		}
		chart = pie
	default:
		return "", fmt.Errorf("%w: chart kind %q", ErrUnsupportedView, spec.Kind)
	}

	var buf bytes.Buffer
	if err := chart.Render(&buf); err != nil {
		return "", fmt.Errorf("rendering chart: %w", err)
	}
	return template.HTML(extractChartContent(buf.String())), nil
}

func globalOpts(spec *viewmodel.ChartSpec, theme, height, trigger string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Theme:  echartsTheme(theme),
			Width:  chartWidth,
			Height: height,
		}),
		charts.WithTitleOpts(opts.Title{Title: spec.Title, Subtitle: spec.Subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: trigger}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(len(spec.Series) > 1),
			Top:  "bottom",
		}),
	}
}

func lineChart(spec *viewmodel.ChartSpec, theme string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(globalOpts(spec, theme, chartHeight, "axis")...)
	line.SetXAxis(spec.Labels)

	for _, s := range spec.Series {
		data := make([]opts.LineData, len(s.Values))
		for i, v := range s.Values {
			data[i] = opts.LineData{Value: v}
		}
		lc := opts.LineChart{Smooth: opts.Bool(true)}
		if spec.Stacked {
			lc.Stack = stackName
		}
		series := []charts.SeriesOpts{
			charts.WithLineChartOpts(lc),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
		}
		if spec.Kind == viewmodel.KindArea {
			series = append(series, charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: opts.Float(areaOpacity)}))
		}
		line.AddSeries(s.Name, data, series...)
	}
	return line
}

func barChart(spec *viewmodel.ChartSpec, theme string) *charts.Bar {
	height := chartHeight
	labels := spec.Labels
	seriesList := spec.Series
	if spec.Horizontal {
		height = detailHeight
		// Category axes grow upwards once the bar is flipped; reverse so the
		// first entry sits on top.
		labels = reversed(labels)
		seriesList = make([]viewmodel.Series, len(spec.Series))
		for i, s := range spec.Series {
			s.Values = reversed(s.Values)
			s.PointColors = reversed(s.PointColors)
			seriesList[i] = s
		}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOpts(spec, theme, height, "axis")...)
	bar.SetXAxis(labels)

	for _, s := range seriesList {
		data := make([]opts.BarData, len(s.Values))
		for i, v := range s.Values {
			data[i] = opts.BarData{Value: v}
			if i < len(s.PointColors) {
				data[i].ItemStyle = &opts.ItemStyle{Color: s.PointColors[i]}
			}
		}
		series := []charts.SeriesOpts{charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color})}
		if spec.Stacked {
			series = append(series, charts.WithBarChartOpts(opts.BarChart{Stack: stackName}))
		}
		bar.AddSeries(s.Name, data, series...)
	}
	if spec.Horizontal {
		bar.XYReversal()
	}
	return bar
}

func pieChart(spec *viewmodel.ChartSpec, theme string) (*charts.Pie, error) {
	if len(spec.Series) == 0 {
		return nil, fmt.Errorf("%w: pie without series", ErrUnsupportedView)
	}
	s := spec.Series[0]

	selected := make(map[string]bool, len(spec.Labels))
	for i, name := range spec.Labels {
		selected[name] = i >= len(spec.Visible) || spec.Visible[i]
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:  echartsTheme(theme),
			Width:  chartWidth,
			Height: chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{Title: spec.Title, Subtitle: spec.Subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{
			Show:     opts.Bool(true),
			Top:      "bottom",
			Selected: selected,
		}),
	)

	data := make([]opts.PieData, 0, len(s.Values))
	for i, v := range s.Values {
		name := ""
		if i < len(spec.Labels) {
			name = spec.Labels[i]
		}
		lbl := ""
		if i < len(s.Labels) {
			lbl = s.Labels[i]
		}
		// Hidden slices and small shares carry an empty label.
		d := opts.PieData{
			Name:  name,
			Value: v,
			Label: &opts.Label{Show: opts.Bool(lbl != ""), Formatter: lbl},
		}
		if i < len(s.PointColors) {
			d.ItemStyle = &opts.ItemStyle{Color: s.PointColors[i]}
		}
		data = append(data, d)
	}

	var radius interface{} = pieRadius
	if spec.Kind == viewmodel.KindDoughnut {
		radius = []string{doughnutInner, pieRadius}
	}
	pie.AddSeries(s.Name, data).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true)}),
			charts.WithPieChartOpts(opts.PieChart{Radius: radius}),
		)
	return pie, nil
}

func extractChartContent(html string) string {
	start := strings.Index(html, `<div class="container">`)
	if start == -1 {
		return html
	}
	end := strings.Index(html, `</body>`)
	if end == -1 {
		return html
	}
	content := html[start:end]
	return strings.ReplaceAll(content, `class="container"`, `class="echart-box"`)
}

func reversed[T any](in []T) []T {
	out := slices.Clone(in)
	slices.Reverse(out)
	return out
}
