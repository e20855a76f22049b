package highlights_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy-dashboard-go/internal/highlights"
	"energy-dashboard-go/internal/types"
)

func dataset() *types.Dataset {
	return &types.Dataset{
		Sources: []types.Source{"solar", "wind"},
		Regional: map[types.Year][]types.RegionRecord{
			"2022": {
				{Region: "A", Values: map[types.Source]float64{"solar": 40, "wind": 60}},
				{Region: "B", Values: map[types.Source]float64{"wind": 120}},
			},
			"2023": {
				{Region: "A", Values: map[types.Source]float64{"solar": 100}},
				{Region: "B", Values: map[types.Source]float64{"solar": 50, "wind": 50}},
			},
			"2024": {
				{Region: "A"},
			},
		},
		GrowthRate: []types.GrowthPoint{{Year: "2023", Rate: -25}},
		LatestYear: "2023",
	}
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	h, err := highlights.Generate(dataset(), "2023")
	require.NoError(t, err)

	assert.InDelta(t, 200.0, h.Total, 1e-9)
	assert.Equal(t, 2, h.RegionCount)
	assert.Equal(t, "A", h.TopRegion, "ties keep input order")
	assert.InDelta(t, 50.0, h.TopRegionShare, 1e-9)
	assert.Equal(t, types.Source("solar"), h.DominantSource)
	assert.InDelta(t, 75.0, h.DominantShare, 1e-9)
	assert.True(t, h.HasGrowth)
	assert.InDelta(t, -25.0, h.Growth, 1e-9)
	assert.Equal(t, "2023년 발전량 중 solar 비중 75.0%", h.Insight)
}

func TestGenerate_NoGrowthAndEmptyYear(t *testing.T) {
	t.Parallel()

	h, err := highlights.Generate(dataset(), "2022")
	require.NoError(t, err)
	assert.False(t, h.HasGrowth)
	assert.Equal(t, types.Source("wind"), h.DominantSource)
	assert.Equal(t, "B", h.TopRegion)

	h, err = highlights.Generate(dataset(), "2024")
	require.NoError(t, err)
	assert.Empty(t, h.TopRegion)
	assert.Empty(t, h.DominantSource)
	assert.Equal(t, "2024년 발전 기록 없음", h.Insight)
}

func TestGenerate_InsightWithoutDominantSource(t *testing.T) {
	t.Parallel()

	even := map[types.Year][]types.RegionRecord{}
	for _, y := range []types.Year{"2022", "2023"} {
		even[y] = []types.RegionRecord{
			{Region: "A", Values: map[types.Source]float64{"a": 40, "b": 30, "c": 30}},
			{Region: "B", Values: map[types.Source]float64{"a": 20, "b": 20, "c": 10}},
		}
	}
	ds := &types.Dataset{
		Sources:    []types.Source{"a", "b", "c"},
		Regional:   even,
		GrowthRate: []types.GrowthPoint{{Year: "2023", Rate: -10}},
		LatestYear: "2023",
	}

	h, err := highlights.Generate(ds, "2023")
	require.NoError(t, err)
	assert.Equal(t, "2023년 발전량 전년 대비 10.0% 감소", h.Insight)

	h, err = highlights.Generate(ds, "2022")
	require.NoError(t, err)
	assert.Equal(t, "2022년 발전량 1위 A (66.7%)", h.Insight)
}

func TestGenerate_InvalidYear(t *testing.T) {
	t.Parallel()

	_, err := highlights.Generate(dataset(), "1900")
	require.ErrorIs(t, err, types.ErrInvalidYear)
}
