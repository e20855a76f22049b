// Package aggregator computes totals, rankings, shares and heatmap scales
// from a dataset and a selected year or source. Every function is pure:
// results are rebuilt from the dataset on each call.
package aggregator

import (
	"fmt"
	"math"
	"slices"

	"energy-dashboard-go/internal/types"
)

// RegionValue is one entry of a per-source ranking.
type RegionValue struct {
	Region string  `json:"region"`
	Value  float64 `json:"value"`
}

// SourceTotal is one source's national total for a year.
type SourceTotal struct {
	Source types.Source `json:"source"`
	Total  float64      `json:"total"`
}

// RegionTotalEntry is one region's total over all sources for a year.
type RegionTotalEntry struct {
	Region string  `json:"region"`
	Total  float64 `json:"total"`
}

// DerivedTotals groups the per-year totals a selection change recomputes.
type DerivedTotals struct {
	Year         types.Year         `json:"year"`
	RegionTotals []RegionTotalEntry `json:"region_totals"`
	SourceTotals []SourceTotal      `json:"source_totals"`
	GrandTotal   float64            `json:"grand_total"`
}

// TotalForYear sums every source of every region in year.
func TotalForYear(ds *types.Dataset, year types.Year) (float64, error) {
	records, err := regionsFor(ds, year)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, r := range records {
		total += RegionTotal(r, ds.Sources)
	}
	return total, nil
}

// RegionTotal sums record over sources; sources the record lacks count as 0.
func RegionTotal(record types.RegionRecord, sources []types.Source) float64 {
	total := 0.0
	for _, s := range sources {
		total += record.Get(s)
	}
	return total
}

// TopRegions ranks the regions of year by their total over sources and
// returns the first n. Regions with equal totals keep their input order.
func TopRegions(ds *types.Dataset, year types.Year, sources []types.Source, n int) ([]types.RegionRecord, error) {
	records, err := regionsFor(ds, year)
	if err != nil {
		return nil, err
	}
	for _, s := range sources {
		if !ds.HasSource(s) {
			return nil, fmt.Errorf("%w: %q", types.ErrInvalidSource, s)
		}
	}
	if n <= 0 {
		return []types.RegionRecord{}, nil
	}

	ranked := slices.Clone(records)
	slices.SortStableFunc(ranked, func(a, b types.RegionRecord) int {
		return descending(RegionTotal(a, sources), RegionTotal(b, sources))
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked, nil
}

// RankBySource ranks every region of year by its value for source.
// AllSources ranks by the region's total instead.
func RankBySource(ds *types.Dataset, year types.Year, source types.Source) ([]RegionValue, error) {
	records, err := regionsFor(ds, year)
	if err != nil {
		return nil, err
	}
	if source != types.AllSources && !ds.HasSource(source) {
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidSource, source)
	}

	out := make([]RegionValue, len(records))
	for i, r := range records {
		v := r.Get(source)
		if source == types.AllSources {
			v = RegionTotal(r, ds.Sources)
		}
		out[i] = RegionValue{Region: r.Region, Value: v}
	}
	slices.SortStableFunc(out, func(a, b RegionValue) int { return descending(a.Value, b.Value) })
	return out, nil
}

// SourceMixTotals sums each source across the regions of year, in
// dataset source order.
func SourceMixTotals(ds *types.Dataset, year types.Year) ([]SourceTotal, error) {
	records, err := regionsFor(ds, year)
	if err != nil {
		return nil, err
	}
	out := make([]SourceTotal, len(ds.Sources))
	for i, s := range ds.Sources {
		total := 0.0
		for _, r := range records {
			total += r.Get(s)
		}
		out[i] = SourceTotal{Source: s, Total: total}
	}
	return out, nil
}

// MixValues returns the totals of mix as a plain series.
func MixValues(mix []SourceTotal) []float64 {
	values := make([]float64, len(mix))
	for i, m := range mix {
		values[i] = m.Total
	}
	return values
}

// RegionShareTotals returns one total per region for year, largest first.
func RegionShareTotals(ds *types.Dataset, year types.Year) ([]RegionTotalEntry, error) {
	records, err := regionsFor(ds, year)
	if err != nil {
		return nil, err
	}
	out := make([]RegionTotalEntry, len(records))
	for i, r := range records {
		out[i] = RegionTotalEntry{Region: r.Region, Total: RegionTotal(r, ds.Sources)}
	}
	slices.SortStableFunc(out, func(a, b RegionTotalEntry) int { return descending(a.Total, b.Total) })
	return out, nil
}

// ShareValues returns the totals of shares as a plain series.
func ShareValues(shares []RegionTotalEntry) []float64 {
	values := make([]float64, len(shares))
	for i, s := range shares {
		values[i] = s.Total
	}
	return values
}

// Derive computes the region, source and grand totals of year.
func Derive(ds *types.Dataset, year types.Year) (DerivedTotals, error) {
	shares, err := RegionShareTotals(ds, year)
	if err != nil {
		return DerivedTotals{}, err
	}
	mix, err := SourceMixTotals(ds, year)
	if err != nil {
		return DerivedTotals{}, err
	}
	grand := 0.0
	for _, s := range shares {
		grand += s.Total
	}
	return DerivedTotals{
		Year:         year,
		RegionTotals: shares,
		SourceTotals: mix,
		GrandTotal:   grand,
	}, nil
}

// VisibleSharePercent returns values[index] as a percentage of the sum of
// the visible values, rounded to one decimal. Mask entries past the end of
// mask count as visible. It returns 0 for an out of range index or when
// nothing visible carries weight.
func VisibleSharePercent(values []float64, mask []bool, index int) float64 {
	if index < 0 || index >= len(values) {
		return 0
	}
	sum := 0.0
	for j, v := range values {
		if j < len(mask) && !mask[j] {
			continue
		}
		sum += v
	}
	if sum == 0 {
		return 0
	}
	return Round1(100 * values[index] / sum)
}

// Round1 rounds v to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func regionsFor(ds *types.Dataset, year types.Year) ([]types.RegionRecord, error) {
	if ds == nil {
		return nil, types.ErrDatasetNotLoaded
	}
	records, ok := ds.Regional[year]
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidYear, year)
	}
	return records, nil
}

func descending(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}
