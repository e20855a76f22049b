package viewmodel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy-dashboard-go/internal/aggregator"
	"energy-dashboard-go/internal/highlights"
	"energy-dashboard-go/internal/selection"
	"energy-dashboard-go/internal/types"
	"energy-dashboard-go/internal/viewmodel"
)

func dataset() *types.Dataset {
	return &types.Dataset{
		Sources: []types.Source{"solar", "wind"},
		Regional: map[types.Year][]types.RegionRecord{
			"2022": {
				{Region: "A", Values: map[types.Source]float64{"solar": 2}},
				{Region: "B", Values: map[types.Source]float64{"solar": 1, "wind": 4}},
			},
			"2023": {
				{Region: "A", Values: map[types.Source]float64{"solar": 100, "wind": 0}},
				{Region: "B", Values: map[types.Source]float64{"solar": 50, "wind": 50}},
			},
		},
		Yearly: []types.YearlyAggregate{
			{Year: "2022", Values: map[types.Source]float64{"solar": 3, "wind": 4}},
			{Year: "2023", Values: map[types.Source]float64{"solar": 150, "wind": 50}},
		},
		GrowthRate: []types.GrowthPoint{{Year: "2023", Rate: 2757.1}},
		LatestYear: "2023",
	}
}

func TestSourceColor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, viewmodel.SourceColor(0).Hue)
	assert.Equal(t, 137, viewmodel.SourceColor(1).Hue)
	assert.Equal(t, 274, viewmodel.SourceColor(2).Hue)
	assert.Equal(t, 51, viewmodel.SourceColor(3).Hue)
	assert.Equal(t, (57*137)%360, viewmodel.SourceColor(57).Hue)
	assert.Equal(t, "hsl(137, 65%, 55%)", viewmodel.SourceColor(1).CSS())
	assert.Equal(t, "hsla(0, 65%, 55%, 0.70)", viewmodel.SourceColor(0).Alpha(0.7))
}

func TestHeatColors(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "transparent", viewmodel.HeatBackground(0))
	assert.Equal(t, "hsla(152, 65%, 38%, 0.55)", viewmodel.HeatBackground(0.55))
	assert.Equal(t, "#ffffff", viewmodel.HeatText(0.9))
	assert.Equal(t, "#1f2933", viewmodel.HeatText(0.2))
}

func TestFormatters(t *testing.T) {
	t.Parallel()

	energy := viewmodel.EnergyFormat()
	assert.Equal(t, "1,234,568 MWh", energy.Format(1234567.6))
	assert.Equal(t, "0 MWh", energy.Format(0))

	share := viewmodel.ShareFormat()
	assert.Empty(t, share.Format(3.0))
	assert.Equal(t, "3.1%", share.Format(3.1))

	growth := viewmodel.GrowthFormat()
	assert.Equal(t, "+4.2%", growth.Format(4.2))
	assert.Equal(t, "-0.5%", growth.Format(-0.5))

	assert.Equal(t, "12", viewmodel.Formatter{Kind: viewmodel.FormatPlain}.Format(12))
}

func TestMixChart_WorkedExample(t *testing.T) {
	t.Parallel()

	ds := dataset()
	mix, err := aggregator.SourceMixTotals(ds, "2023")
	require.NoError(t, err)

	spec := viewmodel.MixChart("2023", mix, nil)
	assert.Equal(t, viewmodel.SlotMix, spec.ViewSlot())
	assert.Equal(t, viewmodel.KindDoughnut, spec.Kind)
	assert.Equal(t, []string{"solar", "wind"}, spec.Labels)
	assert.Equal(t, []bool{true, true}, spec.Visible)
	require.Len(t, spec.Series, 1)
	assert.Equal(t, []float64{150, 50}, spec.Series[0].Values)
	assert.Equal(t, []string{"75.0%", "25.0%"}, spec.Series[0].Labels)
	assert.Equal(t, []string{"hsl(0, 65%, 55%)", "hsl(137, 65%, 55%)"}, spec.Series[0].PointColors)
}

func TestRelabel_HidingASlice(t *testing.T) {
	t.Parallel()

	mix, err := aggregator.SourceMixTotals(dataset(), "2023")
	require.NoError(t, err)
	spec := viewmodel.MixChart("2023", mix, nil)

	hidden := viewmodel.Relabel(spec, []bool{true, false})
	assert.Equal(t, []bool{true, false}, hidden.Visible)
	assert.Equal(t, []string{"100.0%", ""}, hidden.Series[0].Labels)
	assert.Equal(t, []float64{150, 50}, hidden.Series[0].Values, "values stay in the data")

	assert.Equal(t, []string{"75.0%", "25.0%"}, spec.Series[0].Labels, "original untouched")
	assert.Equal(t, []bool{true, true}, spec.Visible)
}

func TestShareChart(t *testing.T) {
	t.Parallel()

	shares, err := aggregator.RegionShareTotals(dataset(), "2022")
	require.NoError(t, err)

	spec := viewmodel.ShareChart("2022", shares, nil)
	assert.Equal(t, viewmodel.KindPie, spec.Kind)
	assert.Equal(t, []string{"B", "A"}, spec.Labels)
	assert.Equal(t, []string{"71.4%", "28.6%"}, spec.Series[0].Labels)
}

func TestRegionalChart(t *testing.T) {
	t.Parallel()

	ds := dataset()
	top, err := aggregator.TopRegions(ds, "2022", ds.Sources, 1)
	require.NoError(t, err)

	spec := viewmodel.RegionalChart("2022", top, ds.Sources)
	assert.True(t, spec.Stacked)
	assert.Equal(t, []string{"B"}, spec.Labels)
	require.Len(t, spec.Series, 2)
	assert.Equal(t, "solar", spec.Series[0].Name)
	assert.Equal(t, []float64{1}, spec.Series[0].Values)
	assert.Equal(t, []float64{4}, spec.Series[1].Values)
	assert.Equal(t, "지역별 발전량 상위 1", spec.Title)
}

func TestTrendAndGrowthCharts(t *testing.T) {
	t.Parallel()

	ds := dataset()
	totals, err := aggregator.YearlyTotals(ds)
	require.NoError(t, err)

	trend := viewmodel.TrendChart(totals)
	assert.Equal(t, []string{"2022", "2023"}, trend.Labels)
	assert.Equal(t, []float64{7, 200}, trend.Series[0].Values)

	growth := viewmodel.GrowthChart(ds.GrowthRate)
	assert.Equal(t, viewmodel.FormatGrowth, growth.ValueFormat.Kind)
	assert.Equal(t, []float64{2757.1}, growth.Series[0].Values)

	solar, err := aggregator.SourceSeries(ds, "solar")
	require.NoError(t, err)
	wind, err := aggregator.SourceSeries(ds, "wind")
	require.NoError(t, err)
	stacked := viewmodel.SourceTrendChart([]types.Year{"2022", "2023"}, ds.Sources, [][]float64{solar, wind})
	assert.Equal(t, viewmodel.KindArea, stacked.Kind)
	assert.Equal(t, []float64{4, 50}, stacked.Series[1].Values)
}

func TestDetailView_StateMachine(t *testing.T) {
	t.Parallel()

	ds := dataset()
	d := viewmodel.NewDetailView()
	assert.Equal(t, viewmodel.DetailRanking, d.Mode())

	view, err := d.Build(ds, selection.Snapshot{Year: "2023", Source: "wind"})
	require.NoError(t, err)
	ranking, ok := view.(*viewmodel.ChartSpec)
	require.True(t, ok)
	assert.True(t, ranking.Horizontal)
	assert.Equal(t, []string{"B", "A"}, ranking.Labels)
	assert.Equal(t, viewmodel.SourceColor(1).CSS(), ranking.Series[0].Color)

	require.NoError(t, d.Switch(viewmodel.DetailHeatmap))
	view, err = d.Build(ds, selection.Snapshot{Year: "2023", Source: "wind"})
	require.NoError(t, err)
	heat, ok := view.(*viewmodel.HeatmapSpec)
	require.True(t, ok)
	assert.Equal(t, viewmodel.SlotDetail, heat.ViewSlot())

	err = d.Switch("pie")
	require.ErrorIs(t, err, types.ErrInvalidSelection)
	assert.Equal(t, viewmodel.DetailHeatmap, d.Mode())

	require.NoError(t, d.Switch(viewmodel.DetailRanking))
	assert.Equal(t, viewmodel.DetailRanking, d.Mode())
}

func TestDetailView_AllSourcesRanking(t *testing.T) {
	t.Parallel()

	view, err := viewmodel.NewDetailView().Build(dataset(), selection.Snapshot{Year: "2022", Source: types.AllSources})
	require.NoError(t, err)

	spec := view.(*viewmodel.ChartSpec)
	assert.Equal(t, []float64{5, 2}, spec.Series[0].Values)
	assert.Equal(t, "전체 발전 지역 순위", spec.Title)
}

func TestParseDetailMode(t *testing.T) {
	t.Parallel()

	m, err := viewmodel.ParseDetailMode("heatmap")
	require.NoError(t, err)
	assert.Equal(t, viewmodel.DetailHeatmap, m)

	_, err = viewmodel.ParseDetailMode("table")
	require.ErrorIs(t, err, types.ErrInvalidSelection)
}

func TestHeatmapView(t *testing.T) {
	t.Parallel()

	g, err := aggregator.HeatmapGrid(dataset(), "2023")
	require.NoError(t, err)

	spec := viewmodel.HeatmapView(g)
	assert.Equal(t, []string{"solar", "wind"}, spec.Columns)
	require.Len(t, spec.Rows, 2)
	assert.InDelta(t, 1.0, spec.Rows[0].Cells[0].Intensity, 1e-12)
	assert.Zero(t, spec.Rows[0].Cells[1].Intensity)
	assert.Equal(t, "transparent", spec.Rows[0].Cells[1].Background)
	assert.InDelta(t, 0.55, spec.Rows[1].Cells[1].Intensity, 1e-12)
	assert.Equal(t, "50 MWh", spec.Rows[1].Cells[1].Display)
}

func TestRegionTable(t *testing.T) {
	t.Parallel()

	ds := dataset()
	derived, err := aggregator.Derive(ds, "2022")
	require.NoError(t, err)

	table := viewmodel.RegionTable(ds.Regions("2022"), ds.Sources, derived)
	assert.Equal(t, []string{"지역", "solar", "wind", "합계"}, table.Columns)
	assert.Equal(t, [][]string{
		{"B", "1 MWh", "4 MWh", "5 MWh"},
		{"A", "2 MWh", "0 MWh", "2 MWh"},
	}, table.Rows)
	assert.Equal(t, []string{"합계", "3 MWh", "4 MWh", "7 MWh"}, table.Footer)
}

func TestStatsView(t *testing.T) {
	t.Parallel()

	h, err := highlights.Generate(dataset(), "2023")
	require.NoError(t, err)

	stats := viewmodel.StatsView(h)
	require.Len(t, stats.Cards, 5)
	assert.Equal(t, "200 MWh", stats.Cards[0].Value)
	assert.Equal(t, "2", stats.Cards[1].Value)
	assert.Equal(t, "A", stats.Cards[2].Value)
	assert.Equal(t, "50.0%", stats.Cards[2].Detail)
	assert.Equal(t, "solar", stats.Cards[3].Value)
	assert.Equal(t, "+2757.1%", stats.Cards[4].Value)
}

func TestColorRGBA(t *testing.T) {
	t.Parallel()

	red := viewmodel.Color{Hue: 0}.RGBA()
	assert.Equal(t, uint8(255), red.A)
	assert.Greater(t, red.R, red.G)
	assert.Equal(t, red.G, red.B)

	parsed, ok := viewmodel.ParseCSS(viewmodel.SourceColor(3).CSS())
	require.True(t, ok)
	assert.Equal(t, viewmodel.SourceColor(3).RGBA(), parsed)

	_, ok = viewmodel.ParseCSS("#ff0000")
	assert.False(t, ok)
}
