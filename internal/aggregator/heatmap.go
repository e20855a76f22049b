package aggregator

import "energy-dashboard-go/internal/types"

// Default intensity bounds for heatmap cells.
const (
	IntensityFloor   = 0.1
	IntensityCeiling = 1.0
)

// Grid is the region×source matrix of one year with its largest cell.
type Grid struct {
	Year    types.Year     `json:"year"`
	Regions []string       `json:"regions"`
	Sources []types.Source `json:"sources"`
	Cells   [][]float64    `json:"cells"`
	Max     float64        `json:"max"`
}

// HeatmapIntensity maps value onto [floor, ceiling] relative to maxValue.
// Non-positive values map to 0 and the result never exceeds ceiling.
func HeatmapIntensity(value, maxValue, floor, ceiling float64) float64 {
	if value <= 0 || maxValue <= 0 {
		return 0
	}
	v := floor + (value/maxValue)*(ceiling-floor)
	if v < 0 {
		return 0
	}
	if v > ceiling {
		return ceiling
	}
	return v
}

// DefaultHeatmapIntensity is HeatmapIntensity with the default bounds.
func DefaultHeatmapIntensity(value, maxValue float64) float64 {
	return HeatmapIntensity(value, maxValue, IntensityFloor, IntensityCeiling)
}

// HeatmapGrid builds the grid for year. Max is taken over this year's cells
// only.
func HeatmapGrid(ds *types.Dataset, year types.Year) (Grid, error) {
	records, err := regionsFor(ds, year)
	if err != nil {
		return Grid{}, err
	}
	g := Grid{
		Year:    year,
		Regions: make([]string, len(records)),
		Sources: append([]types.Source(nil), ds.Sources...),
		Cells:   make([][]float64, len(records)),
	}
	for i, r := range records {
		g.Regions[i] = r.Region
		row := make([]float64, len(ds.Sources))
		for j, s := range ds.Sources {
			v := r.Get(s)
			row[j] = v
			if v > g.Max {
				g.Max = v
			}
		}
		g.Cells[i] = row
	}
	return g, nil
}

// Intensity returns the intensity of cell (row, col) against the grid max.
func (g Grid) Intensity(row, col int) float64 {
	return DefaultHeatmapIntensity(g.Cells[row][col], g.Max)
}
