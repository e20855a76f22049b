// Package highlights derives the headline figures of a year from
// aggregator output.
package highlights

import (
	"fmt"

	"energy-dashboard-go/internal/aggregator"
	"energy-dashboard-go/internal/types"
)

// Share of the year's total above which a single source is called dominant.
const dominantShare = 50.0

// Highlights are the headline numbers of one year.
type Highlights struct {
	Year           types.Year   `json:"year"`
	Total          float64      `json:"total"`
	RegionCount    int          `json:"region_count"`
	TopRegion      string       `json:"top_region"`
	TopRegionShare float64      `json:"top_region_share"`
	DominantSource types.Source `json:"dominant_source"`
	DominantShare  float64      `json:"dominant_share"`
	Growth         float64      `json:"growth"`
	HasGrowth      bool         `json:"has_growth"`
	Insight        string       `json:"insight"`
}

// Generate computes the highlights of year.
func Generate(ds *types.Dataset, year types.Year) (Highlights, error) {
	d, err := aggregator.Derive(ds, year)
	if err != nil {
		return Highlights{}, err
	}

	h := Highlights{
		Year:        year,
		Total:       d.GrandTotal,
		RegionCount: len(d.RegionTotals),
	}

	if len(d.RegionTotals) > 0 && d.RegionTotals[0].Total > 0 {
		h.TopRegion = d.RegionTotals[0].Region
		h.TopRegionShare = aggregator.VisibleSharePercent(aggregator.ShareValues(d.RegionTotals), nil, 0)
	}

	values := aggregator.MixValues(d.SourceTotals)
	best := -1
	for i, st := range d.SourceTotals {
		if st.Total > 0 && (best < 0 || st.Total > d.SourceTotals[best].Total) {
			best = i
		}
	}
	if best >= 0 {
		h.DominantSource = d.SourceTotals[best].Source
		h.DominantShare = aggregator.VisibleSharePercent(values, nil, best)
	}

	for _, g := range ds.GrowthRate {
		if g.Year == year {
			h.Growth = g.Rate
			h.HasGrowth = true
			break
		}
	}

	h.Insight = insight(h)
	return h, nil
}

// insight is the one-line Korean caption shown under the stat cards.
func insight(h Highlights) string {
	switch {
	case h.Total == 0:
		return fmt.Sprintf("%s년 발전 기록 없음", h.Year)
	case h.DominantShare >= dominantShare:
		return fmt.Sprintf("%s년 발전량 중 %s 비중 %.1f%%", h.Year, h.DominantSource, h.DominantShare)
	case h.HasGrowth && h.Growth < 0:
		return fmt.Sprintf("%s년 발전량 전년 대비 %.1f%% 감소", h.Year, -h.Growth)
	default:
		return fmt.Sprintf("%s년 발전량 1위 %s (%.1f%%)", h.Year, h.TopRegion, h.TopRegionShare)
	}
}
