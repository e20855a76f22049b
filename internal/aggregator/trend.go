package aggregator

import (
	"fmt"
	"slices"

	"energy-dashboard-go/internal/types"
)

// OthersLabel names the slice small sources are folded into.
const OthersLabel = "기타 (Others)"

// DefaultOthersThreshold is the share under which a source joins "Others".
const DefaultOthersThreshold = 0.02

// YearTotal is the national total of one year.
type YearTotal struct {
	Year  types.Year `json:"year"`
	Total float64    `json:"total"`
}

// MixSlice is one slice of a grouped source mix.
type MixSlice struct {
	Label string  `json:"label"`
	Total float64 `json:"total"`
}

// YearlyTotals sums the pre-aggregated national totals of each year over
// all sources, in dataset order.
func YearlyTotals(ds *types.Dataset) ([]YearTotal, error) {
	if ds == nil {
		return nil, types.ErrDatasetNotLoaded
	}
	out := make([]YearTotal, len(ds.Yearly))
	for i, y := range ds.Yearly {
		total := 0.0
		for _, s := range ds.Sources {
			total += y.Get(s)
		}
		out[i] = YearTotal{Year: y.Year, Total: total}
	}
	return out, nil
}

// SourceSeries returns source's national total for each yearly aggregate.
func SourceSeries(ds *types.Dataset, source types.Source) ([]float64, error) {
	if ds == nil {
		return nil, types.ErrDatasetNotLoaded
	}
	if !ds.HasSource(source) {
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidSource, source)
	}
	out := make([]float64, len(ds.Yearly))
	for i, y := range ds.Yearly {
		out[i] = y.Get(source)
	}
	return out, nil
}

// GrowthRates returns the dataset's year-over-year growth series.
func GrowthRates(ds *types.Dataset) ([]types.GrowthPoint, error) {
	if ds == nil {
		return nil, types.ErrDatasetNotLoaded
	}
	return slices.Clone(ds.GrowthRate), nil
}

// ComputeGrowth derives percent change between consecutive totals, rounded
// to one decimal. The first year has no predecessor and is skipped, as is
// any year following a zero total.
func ComputeGrowth(totals []YearTotal) []types.GrowthPoint {
	var out []types.GrowthPoint
	for i := 1; i < len(totals); i++ {
		prev := totals[i-1].Total
		if prev == 0 {
			continue
		}
		out = append(out, types.GrowthPoint{
			Year: totals[i].Year,
			Rate: Round1((totals[i].Total - prev) / prev * 100),
		})
	}
	return out
}

// GroupSmallShares drops empty sources, folds those below threshold (a
// fraction of the total) into a single OthersLabel slice and returns the
// result largest first.
func GroupSmallShares(mix []SourceTotal, threshold float64) []MixSlice {
	sum := 0.0
	for _, m := range mix {
		if m.Total > 0 {
			sum += m.Total
		}
	}
	if sum == 0 {
		return []MixSlice{}
	}

	var (
		out    []MixSlice
		others float64
	)
	for _, m := range mix {
		if m.Total <= 0 {
			continue
		}
		if m.Total/sum < threshold {
			others += m.Total
			continue
		}
		out = append(out, MixSlice{Label: string(m.Source), Total: m.Total})
	}
	if others > 0 {
		out = append(out, MixSlice{Label: OthersLabel, Total: others})
	}
	slices.SortStableFunc(out, func(a, b MixSlice) int { return descending(a.Total, b.Total) })
	return out
}

// SourceVersusRest splits the total of year into source and everything else.
func SourceVersusRest(ds *types.Dataset, year types.Year, source types.Source) (float64, float64, error) {
	mix, err := SourceMixTotals(ds, year)
	if err != nil {
		return 0, 0, err
	}
	if !ds.HasSource(source) {
		return 0, 0, fmt.Errorf("%w: %q", types.ErrInvalidSource, source)
	}
	var own, rest float64
	for _, m := range mix {
		if m.Source == source {
			own += m.Total
		} else {
			rest += m.Total
		}
	}
	return own, rest, nil
}
