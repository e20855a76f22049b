package viewmodel

import (
	"fmt"

	"energy-dashboard-go/internal/aggregator"
	"energy-dashboard-go/internal/types"
)

// TotalSeriesName labels series that sum every source.
const TotalSeriesName = "총 발전량"

// SourceLabel is the display name of a source, including AllSources.
func SourceLabel(s types.Source) string {
	if s == types.AllSources {
		return "전체"
	}
	return string(s)
}

// TrendChart is the line of national totals per year.
func TrendChart(totals []aggregator.YearTotal) *ChartSpec {
	labels := make([]string, len(totals))
	values := make([]float64, len(totals))
	for i, t := range totals {
		labels[i] = string(t.Year)
		values[i] = t.Total
	}
	return &ChartSpec{
		Slot:   SlotTrend,
		Kind:   KindLine,
		Title:  "연도별 총 발전량 추이",
		Labels: labels,
		Series: []Series{{
			Name:   TotalSeriesName,
			Values: values,
			Color:  SourceColor(0).CSS(),
		}},
		ValueFormat: EnergyFormat(),
		LabelFormat: EnergyFormat(),
	}
}

// SourceTrendChart stacks each source's national total per year. series[i]
// belongs to sources[i].
func SourceTrendChart(years []types.Year, sources []types.Source, series [][]float64) *ChartSpec {
	labels := make([]string, len(years))
	for i, y := range years {
		labels[i] = string(y)
	}
	out := make([]Series, len(sources))
	for i, s := range sources {
		var values []float64
		if i < len(series) {
			values = series[i]
		}
		out[i] = Series{Name: string(s), Values: values, Color: SourceColor(i).CSS()}
	}
	return &ChartSpec{
		Slot:        SlotSourceTrend,
		Kind:        KindArea,
		Title:       "연도별 원별 발전량 추이",
		Labels:      labels,
		Series:      out,
		ValueFormat: EnergyFormat(),
		LabelFormat: EnergyFormat(),
		Stacked:     true,
	}
}

// GrowthChart is the bar chart of year-over-year growth.
func GrowthChart(points []types.GrowthPoint) *ChartSpec {
	labels := make([]string, len(points))
	values := make([]float64, len(points))
	for i, p := range points {
		labels[i] = string(p.Year)
		values[i] = p.Rate
	}
	return &ChartSpec{
		Slot:   SlotGrowth,
		Kind:   KindBar,
		Title:  "전년 대비 성장률 (YoY)",
		Labels: labels,
		Series: []Series{{
			Name:   "성장률",
			Values: values,
			Color:  SourceColor(1).CSS(),
		}},
		ValueFormat: GrowthFormat(),
		LabelFormat: GrowthFormat(),
	}
}

// RegionalChart stacks each source for the top regions of year.
func RegionalChart(year types.Year, top []types.RegionRecord, sources []types.Source) *ChartSpec {
	labels := make([]string, len(top))
	for i, r := range top {
		labels[i] = r.Region
	}
	series := make([]Series, len(sources))
	for j, s := range sources {
		values := make([]float64, len(top))
		for i, r := range top {
			values[i] = r.Get(s)
		}
		series[j] = Series{Name: string(s), Values: values, Color: SourceColor(j).CSS()}
	}
	return &ChartSpec{
		Slot:        SlotRegional,
		Kind:        KindBar,
		Title:       fmt.Sprintf("지역별 발전량 상위 %d", len(top)),
		Subtitle:    string(year),
		Year:        year,
		Labels:      labels,
		Series:      series,
		ValueFormat: EnergyFormat(),
		LabelFormat: EnergyFormat(),
		Stacked:     true,
	}
}

// MixChart is the source mix doughnut of year. Slice labels follow the
// visibility mask; a nil mask means every slice is visible.
func MixChart(year types.Year, mix []aggregator.SourceTotal, mask []bool) *ChartSpec {
	labels := make([]string, len(mix))
	colors := make([]string, len(mix))
	for i, m := range mix {
		labels[i] = string(m.Source)
		colors[i] = SourceColor(i).CSS()
	}
	return pieSpec(SlotMix, KindDoughnut, "원별 구성비", year, labels, aggregator.MixValues(mix), colors, mask)
}

// ShareChart is the pie of each region's share of year's total.
func ShareChart(year types.Year, shares []aggregator.RegionTotalEntry, mask []bool) *ChartSpec {
	labels := make([]string, len(shares))
	colors := make([]string, len(shares))
	for i, s := range shares {
		labels[i] = s.Region
		colors[i] = SourceColor(i).CSS()
	}
	return pieSpec(SlotShare, KindPie, "지역별 발전 비중", year, labels, aggregator.ShareValues(shares), colors, mask)
}

// RankingChart is the horizontal ranking of every region for source.
// sourceIndex picks the source's color; AllSources passes -1.
func RankingChart(year types.Year, source types.Source, sourceIndex int, ranking []aggregator.RegionValue) *ChartSpec {
	labels := make([]string, len(ranking))
	values := make([]float64, len(ranking))
	for i, r := range ranking {
		labels[i] = r.Region
		values[i] = r.Value
	}
	color := HeatBackground(1)
	if sourceIndex >= 0 {
		color = SourceColor(sourceIndex).CSS()
	}
	return &ChartSpec{
		Slot:     SlotDetail,
		Kind:     KindBar,
		Title:    SourceLabel(source) + " 발전 지역 순위",
		Subtitle: string(year),
		Year:     year,
		Labels:   labels,
		Series: []Series{{
			Name:   SourceLabel(source),
			Values: values,
			Color:  color,
		}},
		ValueFormat: EnergyFormat(),
		LabelFormat: EnergyFormat(),
		Horizontal:  true,
	}
}

// Relabel returns a copy of a pie-style spec whose visibility and slice
// labels reflect mask. Values are left as they are.
func Relabel(spec *ChartSpec, mask []bool) *ChartSpec {
	out := spec.Clone()
	out.Visible = normalizeMask(mask, len(out.Labels))
	if len(out.Series) > 0 {
		out.Series[0].Labels = aggregator.ShareLabels(out.Series[0].Values, out.Visible)
	}
	return out
}

func pieSpec(slot Slot, kind ChartKind, title string, year types.Year, labels []string, values []float64, colors []string, mask []bool) *ChartSpec {
	visible := normalizeMask(mask, len(values))
	return &ChartSpec{
		Slot:     slot,
		Kind:     kind,
		Title:    title,
		Subtitle: string(year),
		Year:     year,
		Labels:   labels,
		Series: []Series{{
			Name:        title,
			Values:      values,
			PointColors: colors,
			Labels:      aggregator.ShareLabels(values, visible),
		}},
		ValueFormat: EnergyFormat(),
		LabelFormat: ShareFormat(),
		Visible:     visible,
	}
}

// normalizeMask returns a mask of length n; missing entries are visible.
func normalizeMask(mask []bool, n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = i >= len(mask) || mask[i]
	}
	return out
}
