package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"energy-dashboard-go/internal/aggregator"
	"energy-dashboard-go/internal/types"
)

// Header names of the metadata columns in the raw statistics export.
const (
	ColumnYear     = "연도"
	ColumnProvince = "광역지자체"
	ColumnRegion   = "기초지자체"
)

// excludedColumns are metadata and subtotal columns that must not be
// counted as sources.
var excludedColumns = columnSet(
	ColumnYear, ColumnProvince, ColumnRegion,
	"신재생에너지 합계", "재생에너지합계", "신에너지합계", "재생에너지 합계", "신에너지 합계",
	"합계", "소계", "지역별 공급비중",
)

var headerAliases = map[string]string{
	"year":     ColumnYear,
	"province": ColumnProvince,
	"region":   ColumnRegion,
	"district": ColumnRegion,
}

// Build turns raw rows (header first) into a dashboard document. Rows are
// filtered to opts.Province when the sheet has a province column, grouped by
// year and region, and summed per source. Without a province filter, regions
// are named "<province> <region>". Regions within a year are sorted
// by name; sources keep their column order.
func Build(rows [][]string, opts ImportOptions) (*types.Dataset, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: no data rows", types.ErrMalformedDataset)
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if alias, ok := headerAliases[strings.ToLower(h)]; ok {
			h = alias
		}
		header[i] = h
	}

	yearCol, provinceCol, regionCol := -1, -1, -1
	var sources []types.Source
	var sourceCols []int
	for i, h := range header {
		switch h {
		case ColumnYear:
			yearCol = i
		case ColumnProvince:
			provinceCol = i
		case ColumnRegion:
			regionCol = i
		}
		if _, skip := excludedColumns[h]; skip || h == "" {
			continue
		}
		sources = append(sources, types.Source(h))
		sourceCols = append(sourceCols, i)
	}
	if yearCol < 0 || regionCol < 0 {
		return nil, fmt.Errorf("%w: missing %s or %s column", types.ErrMalformedDataset, ColumnYear, ColumnRegion)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: no source columns", types.ErrMalformedDataset)
	}

	grouped := map[types.Year]map[string]types.RegionRecord{}
	for _, row := range rows[1:] {
		if provinceCol >= 0 && opts.Province != "" && strings.TrimSpace(cell(row, provinceCol)) != opts.Province {
			continue
		}
		year := normalizeYear(cell(row, yearCol))
		region := strings.TrimSpace(cell(row, regionCol))
		if year == "" || region == "" {
			continue
		}
		// District names repeat across provinces (중구, 동구, ...).
		if provinceCol >= 0 && opts.Province == "" {
			if province := strings.TrimSpace(cell(row, provinceCol)); province != "" {
				region = province + " " + region
			}
		}

		regions, ok := grouped[year]
		if !ok {
			regions = map[string]types.RegionRecord{}
			grouped[year] = regions
		}
		rec, ok := regions[region]
		if !ok {
			rec = types.RegionRecord{Region: region, Values: make(map[types.Source]float64, len(sources))}
			regions[region] = rec
		}
		for j, col := range sourceCols {
			rec.Values[sources[j]] += ParseAmount(cell(row, col))
		}
	}
	if len(grouped) == 0 {
		return nil, fmt.Errorf("%w: no rows matched province %q", types.ErrMalformedDataset, opts.Province)
	}

	ds := &types.Dataset{
		Sources:  sources,
		Regional: make(map[types.Year][]types.RegionRecord, len(grouped)),
	}
	years := sortedYears(grouped)
	for _, y := range years {
		records := make([]types.RegionRecord, 0, len(grouped[y]))
		sums := make(map[types.Source]float64, len(sources))
		for _, name := range sortedRegions(grouped[y]) {
			rec := grouped[y][name]
			for _, s := range sources {
				sums[s] += rec.Values[s]
			}
			records = append(records, rec)
		}
		ds.Regional[y] = records
		ds.Yearly = append(ds.Yearly, types.YearlyAggregate{Year: y, Values: sums})
	}
	ds.LatestYear = years[len(years)-1]

	totals, err := aggregator.YearlyTotals(ds)
	if err != nil {
		return nil, err
	}
	ds.GrowthRate = aggregator.ComputeGrowth(totals)
	return ds, nil
}

// ParseAmount reads a raw generation cell. Thousands separators are ignored;
// "-", blanks and unparseable text count as zero.
func ParseAmount(raw string) float64 {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if s == "" || s == "-" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// normalizeYear maps "2023", " 2023 " and "2023.0" to "2023".
func normalizeYear(raw string) types.Year {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) {
		return types.Year(strconv.FormatInt(int64(f), 10))
	}
	return types.Year(s)
}

func columnSet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
