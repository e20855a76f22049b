package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"energy-dashboard-go/internal/viewmodel"
)

const (
	tableCSSClass   = "dashboard-table"
	heatmapCSSClass = "dashboard-heatmap"
)

func rowOf(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}

func tableWriter(spec *viewmodel.TableSpec) table.Writer {
	tbl := table.NewWriter()
	if spec.Title != "" {
		tbl.SetTitle(spec.Title)
	}
	tbl.AppendHeader(rowOf(spec.Columns))
	for _, r := range spec.Rows {
		tbl.AppendRow(rowOf(r))
	}
	if len(spec.Footer) > 0 {
		tbl.AppendFooter(rowOf(spec.Footer))
	}
	return tbl
}

// HTMLTable renders spec as an HTML table with escaped cell text.
func HTMLTable(spec *viewmodel.TableSpec) string {
	tbl := tableWriter(spec)
	tbl.Style().HTML = table.HTMLOptions{
		CSSClass:    tableCSSClass,
		EmptyColumn: "&nbsp;",
		EscapeText:  true,
		Newline:     "<br/>",
	}
	return tbl.RenderHTML()
}

// TextTable renders spec for a terminal.
func TextTable(spec *viewmodel.TableSpec) string {
	tbl := tableWriter(spec)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	return tbl.Render()
}

// HTMLHeatmap renders spec as an HTML table whose cells carry their
// intensity background.
func HTMLHeatmap(spec *viewmodel.HeatmapSpec) string {
	tbl := table.NewWriter()
	if spec.Title != "" {
		tbl.SetTitle(html.EscapeString(spec.Title))
	}

	header := table.Row{"지역"}
	for _, c := range spec.Columns {
		header = append(header, html.EscapeString(c))
	}
	tbl.AppendHeader(header)

	for _, r := range spec.Rows {
		row := table.Row{html.EscapeString(r.Region)}
		for _, c := range r.Cells {
			row = append(row, fmt.Sprintf(`<span class="heat-cell" style="background:%s;color:%s">%s</span>`,
				c.Background, c.Text, html.EscapeString(c.Display)))
		}
		tbl.AppendRow(row)
	}

	tbl.Style().HTML = table.HTMLOptions{
		CSSClass:    heatmapCSSClass,
		EmptyColumn: "&nbsp;",
		EscapeText:  false,
		Newline:     "<br/>",
	}
	return tbl.RenderHTML()
}

// TextHeatmap renders spec's values for a terminal, marking each cell's
// intensity with a bar.
func TextHeatmap(spec *viewmodel.HeatmapSpec) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	if spec.Title != "" {
		tbl.SetTitle(spec.Title)
	}
	header := table.Row{"지역"}
	for _, c := range spec.Columns {
		header = append(header, c)
	}
	tbl.AppendHeader(header)
	for _, r := range spec.Rows {
		row := table.Row{r.Region}
		for _, c := range r.Cells {
			row = append(row, c.Display+" "+intensityBar(c.Intensity))
		}
		tbl.AppendRow(row)
	}
	return tbl.Render()
}

const intensityBarWidth = 5

func intensityBar(intensity float64) string {
	n := int(intensity*intensityBarWidth + 0.5)
	if n > intensityBarWidth {
		n = intensityBarWidth
	}
	return strings.Repeat("█", n) + strings.Repeat("░", intensityBarWidth-n)
}
