package viewmodel

import (
	"energy-dashboard-go/internal/aggregator"
	"energy-dashboard-go/internal/highlights"
	"energy-dashboard-go/internal/types"
)

// HeatmapView packages a grid as a heatmap table.
func HeatmapView(g aggregator.Grid) *HeatmapSpec {
	format := EnergyFormat()
	columns := make([]string, len(g.Sources))
	for j, s := range g.Sources {
		columns[j] = string(s)
	}
	rows := make([]HeatRow, len(g.Regions))
	for i, region := range g.Regions {
		cells := make([]HeatCell, len(g.Sources))
		for j := range g.Sources {
			intensity := g.Intensity(i, j)
			cells[j] = HeatCell{
				Value:      g.Cells[i][j],
				Intensity:  intensity,
				Background: HeatBackground(intensity),
				Text:       HeatText(intensity),
				Display:    format.Format(g.Cells[i][j]),
			}
		}
		rows[i] = HeatRow{Region: region, Cells: cells}
	}
	return &HeatmapSpec{
		Slot:        SlotDetail,
		Title:       "지역별/원별 발전량 히트맵",
		Year:        g.Year,
		Columns:     columns,
		Rows:        rows,
		Max:         g.Max,
		ValueFormat: format,
	}
}

// RegionTable lists every region of year with its per-source values and
// total, in the order of derived.RegionTotals, with a national footer.
func RegionTable(records []types.RegionRecord, sources []types.Source, derived aggregator.DerivedTotals) *TableSpec {
	format := EnergyFormat()
	byName := make(map[string]types.RegionRecord, len(records))
	for _, r := range records {
		byName[r.Region] = r
	}

	columns := make([]string, 0, len(sources)+2)
	columns = append(columns, "지역")
	for _, s := range sources {
		columns = append(columns, string(s))
	}
	columns = append(columns, "합계")

	rows := make([][]string, 0, len(derived.RegionTotals))
	for _, rt := range derived.RegionTotals {
		rec := byName[rt.Region]
		row := make([]string, 0, len(columns))
		row = append(row, rt.Region)
		for _, s := range sources {
			row = append(row, format.Format(rec.Get(s)))
		}
		row = append(row, format.Format(rt.Total))
		rows = append(rows, row)
	}

	footer := make([]string, 0, len(columns))
	footer = append(footer, "합계")
	for _, st := range derived.SourceTotals {
		footer = append(footer, format.Format(st.Total))
	}
	footer = append(footer, format.Format(derived.GrandTotal))

	return &TableSpec{
		Slot:    SlotTable,
		Title:   "지역별 발전량",
		Year:    derived.Year,
		Columns: columns,
		Rows:    rows,
		Footer:  footer,
	}
}

// StatsView formats the headline figures of a year.
func StatsView(h highlights.Highlights) *StatsSpec {
	energy := EnergyFormat()
	cards := []StatCard{
		{Title: "총 발전량", Value: energy.Format(h.Total), Detail: string(h.Year)},
		{Title: "지역 수", Value: Formatter{Kind: FormatPlain}.Format(float64(h.RegionCount))},
	}
	if h.TopRegion != "" {
		cards = append(cards, StatCard{
			Title:  "최대 발전 지역",
			Value:  h.TopRegion,
			Detail: shareDetail(h.TopRegionShare),
		})
	}
	if h.DominantSource != "" {
		cards = append(cards, StatCard{
			Title:  "주요 에너지원",
			Value:  string(h.DominantSource),
			Detail: shareDetail(h.DominantShare),
		})
	}
	if h.HasGrowth {
		cards = append(cards, StatCard{Title: "전년 대비 성장률", Value: GrowthFormat().Format(h.Growth)})
	}
	return &StatsSpec{Slot: SlotStats, Year: h.Year, Cards: cards, Insight: h.Insight}
}

func shareDetail(p float64) string {
	return Formatter{Kind: FormatShare}.Format(p)
}
