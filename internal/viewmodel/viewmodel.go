// Package viewmodel packages aggregator results into renderer-agnostic chart,
// heatmap and table specifications. It performs no aggregation itself.
package viewmodel

import "energy-dashboard-go/internal/types"

// Slot names a display area owned by the renderer.
type Slot string

// Dashboard slots.
const (
	SlotTrend       Slot = "trend"
	SlotSourceTrend Slot = "source-trend"
	SlotGrowth      Slot = "growth"
	SlotRegional    Slot = "regional"
	SlotMix         Slot = "mix"
	SlotShare       Slot = "share"
	SlotDetail      Slot = "detail"
	SlotTable       Slot = "table"
	SlotStats       Slot = "stats"
)

// View is any view-model handed to a renderer.
type View interface {
	ViewSlot() Slot
}

// ChartKind selects the chart type.
type ChartKind string

// Chart kinds.
const (
	KindLine     ChartKind = "line"
	KindArea     ChartKind = "area"
	KindBar      ChartKind = "bar"
	KindPie      ChartKind = "pie"
	KindDoughnut ChartKind = "doughnut"
)

// Series is one named data series. PointColors, when set, colors each point
// individually (pie slices); Labels carries per-point display labels.
type Series struct {
	Name        string    `json:"name"`
	Values      []float64 `json:"values"`
	Color       string    `json:"color,omitempty"`
	PointColors []string  `json:"point_colors,omitempty"`
	Labels      []string  `json:"labels,omitempty"`
}

// ChartSpec describes one chart.
type ChartSpec struct {
	Slot        Slot       `json:"slot"`
	Kind        ChartKind  `json:"kind"`
	Title       string     `json:"title"`
	Subtitle    string     `json:"subtitle,omitempty"`
	Year        types.Year `json:"year,omitempty"`
	Labels      []string   `json:"labels"`
	Series      []Series   `json:"series"`
	ValueFormat Formatter  `json:"value_format"`
	LabelFormat Formatter  `json:"label_format"`
	Horizontal  bool       `json:"horizontal,omitempty"`
	Stacked     bool       `json:"stacked,omitempty"`
	// Visible is the legend visibility mask of pie-style charts.
	Visible []bool `json:"visible,omitempty"`
}

func (c *ChartSpec) ViewSlot() Slot { return c.Slot }

// Clone returns a deep copy of c.
func (c *ChartSpec) Clone() *ChartSpec {
	out := *c
	out.Labels = append([]string(nil), c.Labels...)
	out.Visible = append([]bool(nil), c.Visible...)
	out.Series = make([]Series, len(c.Series))
	for i, s := range c.Series {
		s.Values = append([]float64(nil), s.Values...)
		s.PointColors = append([]string(nil), s.PointColors...)
		s.Labels = append([]string(nil), s.Labels...)
		out.Series[i] = s
	}
	return &out
}

// HeatCell is one heatmap cell.
type HeatCell struct {
	Value      float64 `json:"value"`
	Intensity  float64 `json:"intensity"`
	Background string  `json:"background"`
	Text       string  `json:"text"`
	Display    string  `json:"display"`
}

// HeatRow is one region's row of cells.
type HeatRow struct {
	Region string     `json:"region"`
	Cells  []HeatCell `json:"cells"`
}

// HeatmapSpec is a region×source intensity table.
type HeatmapSpec struct {
	Slot        Slot       `json:"slot"`
	Title       string     `json:"title"`
	Year        types.Year `json:"year"`
	Columns     []string   `json:"columns"`
	Rows        []HeatRow  `json:"rows"`
	Max         float64    `json:"max"`
	ValueFormat Formatter  `json:"value_format"`
}

func (h *HeatmapSpec) ViewSlot() Slot { return h.Slot }

// TableSpec is a plain table for the HTML table renderer.
type TableSpec struct {
	Slot    Slot       `json:"slot"`
	Title   string     `json:"title"`
	Year    types.Year `json:"year,omitempty"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Footer  []string   `json:"footer,omitempty"`
}

func (t *TableSpec) ViewSlot() Slot { return t.Slot }

// StatCard is one headline figure.
type StatCard struct {
	Title  string `json:"title"`
	Value  string `json:"value"`
	Detail string `json:"detail,omitempty"`
}

// StatsSpec is the headline figures of a year.
type StatsSpec struct {
	Slot    Slot       `json:"slot"`
	Year    types.Year `json:"year"`
	Cards   []StatCard `json:"cards"`
	Insight string     `json:"insight,omitempty"`
}

func (s *StatsSpec) ViewSlot() Slot { return s.Slot }
