package aggregator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy-dashboard-go/internal/aggregator"
	"energy-dashboard-go/internal/types"
)

const (
	solar types.Source = "solar"
	wind  types.Source = "wind"
	hydro types.Source = "hydro"
)

func rec(region string, values map[types.Source]float64) types.RegionRecord {
	return types.RegionRecord{Region: region, Values: values}
}

// twoRegions is the worked example: A and B tie on total.
func twoRegions() *types.Dataset {
	return &types.Dataset{
		Sources: []types.Source{solar, wind},
		Regional: map[types.Year][]types.RegionRecord{
			"2023": {
				rec("A", map[types.Source]float64{solar: 100, wind: 0}),
				rec("B", map[types.Source]float64{solar: 50, wind: 50}),
			},
		},
		LatestYear: "2023",
	}
}

func sample() *types.Dataset {
	return &types.Dataset{
		Sources: []types.Source{solar, wind, hydro},
		Regional: map[types.Year][]types.RegionRecord{
			"2022": {
				rec("North", map[types.Source]float64{solar: 10, wind: 5}),
				rec("South", map[types.Source]float64{solar: 3, wind: 2, hydro: 10}),
				rec("East", map[types.Source]float64{solar: 7, hydro: 8}),
				rec("West", map[types.Source]float64{}),
			},
			"2023": {
				rec("North", map[types.Source]float64{solar: 1000, wind: 500}),
				rec("South", map[types.Source]float64{solar: 300, wind: 200, hydro: 1100}),
				rec("East", map[types.Source]float64{solar: 700, hydro: 800}),
				rec("West", map[types.Source]float64{solar: 20}),
			},
		},
		Yearly: []types.YearlyAggregate{
			{Year: "2022", Values: map[types.Source]float64{solar: 20, wind: 7, hydro: 18}},
			{Year: "2023", Values: map[types.Source]float64{solar: 2020, wind: 700, hydro: 1900}},
		},
		GrowthRate: []types.GrowthPoint{{Year: "2023", Rate: 9944.4}},
		LatestYear: "2023",
	}
}

func TestWorkedExample(t *testing.T) {
	t.Parallel()

	ds := twoRegions()
	records := ds.Regions("2023")

	assert.InDelta(t, 100.0, aggregator.RegionTotal(records[0], ds.Sources), 1e-9)
	assert.InDelta(t, 100.0, aggregator.RegionTotal(records[1], ds.Sources), 1e-9)

	top, err := aggregator.TopRegions(ds, "2023", ds.Sources, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "A", top[0].Region)
	assert.Equal(t, "B", top[1].Region)

	mix, err := aggregator.SourceMixTotals(ds, "2023")
	require.NoError(t, err)
	require.Equal(t, []aggregator.SourceTotal{
		{Source: solar, Total: 150},
		{Source: wind, Total: 50},
	}, mix)

	values := aggregator.MixValues(mix)
	all := []bool{true, true}
	assert.InDelta(t, 75.0, aggregator.VisibleSharePercent(values, all, 0), 1e-9)
	assert.InDelta(t, 25.0, aggregator.VisibleSharePercent(values, all, 1), 1e-9)
}

func TestTotalForYear_MatchesRegionTotals(t *testing.T) {
	t.Parallel()

	ds := sample()
	for _, year := range ds.Years() {
		total, err := aggregator.TotalForYear(ds, year)
		require.NoError(t, err)

		want := 0.0
		for _, r := range ds.Regions(year) {
			want += aggregator.RegionTotal(r, ds.Sources)
		}
		assert.InDelta(t, want, total, 1e-9, "year %s", year)
	}
}

func TestTotalForYear_InvalidYear(t *testing.T) {
	t.Parallel()

	_, err := aggregator.TotalForYear(sample(), "1999")
	require.ErrorIs(t, err, types.ErrInvalidYear)
}

func TestNilDataset(t *testing.T) {
	t.Parallel()

	_, err := aggregator.TotalForYear(nil, "2023")
	require.ErrorIs(t, err, types.ErrDatasetNotLoaded)

	_, err = aggregator.TopRegions(nil, "2023", nil, 3)
	require.ErrorIs(t, err, types.ErrDatasetNotLoaded)

	_, err = aggregator.RankBySource(nil, "2023", solar)
	require.ErrorIs(t, err, types.ErrDatasetNotLoaded)

	_, err = aggregator.HeatmapGrid(nil, "2023")
	require.ErrorIs(t, err, types.ErrDatasetNotLoaded)

	_, err = aggregator.YearlyTotals(nil)
	require.ErrorIs(t, err, types.ErrDatasetNotLoaded)
}

func TestRegionTotal_MissingKeysAreZero(t *testing.T) {
	t.Parallel()

	r := rec("Lone", map[types.Source]float64{solar: 4})
	assert.InDelta(t, 4.0, aggregator.RegionTotal(r, []types.Source{solar, wind, hydro}), 1e-9)
	assert.Zero(t, aggregator.RegionTotal(types.RegionRecord{Region: "Empty"}, []types.Source{solar}))
}

func TestTopRegions_PrefixOfFullRanking(t *testing.T) {
	t.Parallel()

	ds := sample()
	full, err := aggregator.RankBySource(ds, "2023", types.AllSources)
	require.NoError(t, err)

	for n := 0; n <= 6; n++ {
		top, err := aggregator.TopRegions(ds, "2023", ds.Sources, n)
		require.NoError(t, err)
		require.Len(t, top, min(n, len(full)))

		for i, r := range top {
			assert.Equal(t, full[i].Region, r.Region)
		}
	}
}

func TestTopRegions_InvalidSource(t *testing.T) {
	t.Parallel()

	_, err := aggregator.TopRegions(sample(), "2023", []types.Source{"tidal"}, 2)
	require.ErrorIs(t, err, types.ErrInvalidSource)
}

func TestTopRegions_DoesNotReorderDataset(t *testing.T) {
	t.Parallel()

	ds := sample()
	_, err := aggregator.TopRegions(ds, "2023", ds.Sources, 4)
	require.NoError(t, err)
	assert.Equal(t, "North", ds.Regions("2023")[0].Region)
	assert.Equal(t, "West", ds.Regions("2023")[3].Region)
}

func TestRankingsAreStableOnTies(t *testing.T) {
	t.Parallel()

	ds := &types.Dataset{
		Sources: []types.Source{solar, wind},
		Regional: map[types.Year][]types.RegionRecord{
			"2023": {
				rec("Q", map[types.Source]float64{solar: 5, wind: 5}),
				rec("R", map[types.Source]float64{solar: 20}),
				rec("S", map[types.Source]float64{solar: 10}),
				rec("T", map[types.Source]float64{wind: 10}),
				rec("U", map[types.Source]float64{solar: 5}),
			},
		},
		LatestYear: "2023",
	}

	top, err := aggregator.TopRegions(ds, "2023", ds.Sources, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"R", "Q", "S", "T", "U"}, regionNames(top))

	shares, err := aggregator.RegionShareTotals(ds, "2023")
	require.NoError(t, err)
	names := make([]string, len(shares))
	for i, s := range shares {
		names[i] = s.Region
	}
	assert.Equal(t, []string{"R", "Q", "S", "T", "U"}, names)

	bySolar, err := aggregator.RankBySource(ds, "2023", solar)
	require.NoError(t, err)
	assert.Equal(t, []aggregator.RegionValue{
		{Region: "R", Value: 20},
		{Region: "S", Value: 10},
		{Region: "Q", Value: 5},
		{Region: "U", Value: 5},
		{Region: "T", Value: 0},
	}, bySolar)
}

func TestRankBySource_FullSetAndErrors(t *testing.T) {
	t.Parallel()

	ds := sample()
	ranked, err := aggregator.RankBySource(ds, "2023", hydro)
	require.NoError(t, err)
	require.Len(t, ranked, 4)
	assert.Equal(t, "South", ranked[0].Region)
	assert.Equal(t, "East", ranked[1].Region)

	_, err = aggregator.RankBySource(ds, "2023", "tidal")
	require.ErrorIs(t, err, types.ErrInvalidSource)

	_, err = aggregator.RankBySource(ds, "2030", solar)
	require.ErrorIs(t, err, types.ErrInvalidYear)
}

func TestSourceMixTotals_FollowsSourceOrder(t *testing.T) {
	t.Parallel()

	mix, err := aggregator.SourceMixTotals(sample(), "2023")
	require.NoError(t, err)
	require.Len(t, mix, 3)
	assert.Equal(t, solar, mix[0].Source)
	assert.Equal(t, wind, mix[1].Source)
	assert.Equal(t, hydro, mix[2].Source)
	assert.InDelta(t, 2020.0, mix[0].Total, 1e-9)
	assert.InDelta(t, 700.0, mix[1].Total, 1e-9)
	assert.InDelta(t, 1900.0, mix[2].Total, 1e-9)
}

func TestDerive(t *testing.T) {
	t.Parallel()

	ds := sample()
	d, err := aggregator.Derive(ds, "2023")
	require.NoError(t, err)

	total, err := aggregator.TotalForYear(ds, "2023")
	require.NoError(t, err)
	assert.InDelta(t, total, d.GrandTotal, 1e-9)
	assert.Equal(t, "South", d.RegionTotals[0].Region)
	assert.Len(t, d.SourceTotals, 3)

	sourceSum := 0.0
	for _, s := range d.SourceTotals {
		sourceSum += s.Total
	}
	assert.InDelta(t, d.GrandTotal, sourceSum, 1e-9)
}

func TestVisibleSharePercent_SumsToHundred(t *testing.T) {
	t.Parallel()

	values := []float64{2020, 700, 1800, 13, 0}
	masks := [][]bool{
		{true, true, true, true, true},
		{true, false, true, true, true},
		{false, false, true, false, true},
		{true, true, false, true, false},
		{true},
	}

	for _, mask := range masks {
		sum := 0.0
		visible := 0
		for i := range values {
			if i < len(mask) && !mask[i] {
				continue
			}
			visible++
			sum += aggregator.VisibleSharePercent(values, mask, i)
		}
		assert.InDelta(t, 100.0, sum, 0.05*float64(visible), "mask %v", mask)
	}
}

func TestVisibleSharePercent_EdgeCases(t *testing.T) {
	t.Parallel()

	assert.Zero(t, aggregator.VisibleSharePercent([]float64{0, 0}, []bool{true, true}, 0))
	assert.Zero(t, aggregator.VisibleSharePercent([]float64{5, 5}, []bool{false, false}, 0))
	assert.Zero(t, aggregator.VisibleSharePercent([]float64{5}, nil, 3))
	assert.Zero(t, aggregator.VisibleSharePercent([]float64{5}, nil, -1))
	assert.InDelta(t, 33.3, aggregator.VisibleSharePercent([]float64{1, 1, 1}, nil, 0), 1e-9)
	assert.InDelta(t, 50.0, aggregator.VisibleSharePercent([]float64{1, 1, 1}, []bool{true, false, true}, 0), 1e-9)
}

func TestPercentLabelThreshold(t *testing.T) {
	t.Parallel()

	assert.Empty(t, aggregator.PercentLabel(3.0))
	assert.Empty(t, aggregator.PercentLabel(0))
	assert.Equal(t, "3.1%", aggregator.PercentLabel(3.1))
	assert.Equal(t, "75.0%", aggregator.PercentLabel(75))
	assert.False(t, aggregator.ShowPercentLabel(3.0))
	assert.True(t, aggregator.ShowPercentLabel(3.1))
}

func TestShareLabels(t *testing.T) {
	t.Parallel()

	labels := aggregator.ShareLabels([]float64{970, 30, 0}, []bool{true, true, true})
	assert.Equal(t, []string{"97.0%", "", ""}, labels)

	labels = aggregator.ShareLabels([]float64{970, 30, 0}, []bool{false, true, true})
	assert.Equal(t, []string{"", "100.0%", ""}, labels)
}

func regionNames(records []types.RegionRecord) []string {
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Region
	}
	return names
}
