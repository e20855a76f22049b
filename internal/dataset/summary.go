package dataset

import (
	"energy-dashboard-go/internal/aggregator"
	"energy-dashboard-go/internal/logger"
	"energy-dashboard-go/internal/types"
)

// Summary is a compact profile of a loaded document, printed by the CLI
// before anything is rendered.
type Summary struct {
	Years          []types.Year              `json:"years"`
	LatestYear     types.Year                `json:"latest_year"`
	Sources        []types.Source            `json:"sources"`
	RegionsPerYear map[types.Year]int        `json:"regions_per_year"`
	LatestTotal    float64                   `json:"latest_total"`
	TopBySource    map[types.Source][]string `json:"top_regions_by_source"`
	GrowthPoints   int                       `json:"growth_points"`
}

const summaryTopN = 3

// Summarize profiles ds for its latest year.
func Summarize(ds *types.Dataset) (Summary, error) {
	log := logger.New().WithField("component", "dataset.summary")
	if ds == nil {
		return Summary{}, types.ErrDatasetNotLoaded
	}

	total, err := aggregator.TotalForYear(ds, ds.LatestYear)
	if err != nil {
		log.WithError(err).Error("latest year total failed")
		return Summary{}, err
	}

	s := Summary{
		Years:          ds.Years(),
		LatestYear:     ds.LatestYear,
		Sources:        append([]types.Source(nil), ds.Sources...),
		RegionsPerYear: make(map[types.Year]int, len(ds.Regional)),
		LatestTotal:    total,
		TopBySource:    make(map[types.Source][]string, len(ds.Sources)),
		GrowthPoints:   len(ds.GrowthRate),
	}
	for y, records := range ds.Regional {
		s.RegionsPerYear[y] = len(records)
	}
	for _, src := range ds.Sources {
		ranking, err := aggregator.RankBySource(ds, ds.LatestYear, src)
		if err != nil {
			return Summary{}, err
		}
		top := []string{}
		for i := 0; i < len(ranking) && i < summaryTopN; i++ {
			if ranking[i].Value <= 0 {
				break
			}
			top = append(top, ranking[i].Region)
		}
		s.TopBySource[src] = top
	}

	log.WithFields(map[string]interface{}{
		"years":       len(s.Years),
		"sources":     len(s.Sources),
		"latest_year": s.LatestYear,
	}).Info("dataset summarization complete")
	return s, nil
}
