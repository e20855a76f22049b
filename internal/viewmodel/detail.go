package viewmodel

import (
	"fmt"

	"energy-dashboard-go/internal/aggregator"
	"energy-dashboard-go/internal/selection"
	"energy-dashboard-go/internal/types"
)

// DetailMode is the content of the shared detail slot.
type DetailMode string

// Detail modes.
const (
	DetailRanking DetailMode = "ranking"
	DetailHeatmap DetailMode = "heatmap"
)

// ParseDetailMode validates a mode name.
func ParseDetailMode(s string) (DetailMode, error) {
	switch m := DetailMode(s); m {
	case DetailRanking, DetailHeatmap:
		return m, nil
	default:
		return "", fmt.Errorf("%w: detail mode %q", types.ErrInvalidSelection, s)
	}
}

// DetailView is the two-state machine behind the detail slot. It starts in
// DetailRanking and only changes on Switch.
type DetailView struct {
	mode DetailMode
}

// NewDetailView returns a detail view in ranking mode.
func NewDetailView() *DetailView {
	return &DetailView{mode: DetailRanking}
}

// Mode returns the current mode.
func (d *DetailView) Mode() DetailMode {
	return d.mode
}

// Switch enters mode. Re-entering the current mode is allowed; the caller
// rebuilds the slot either way. An unknown mode leaves the state unchanged.
func (d *DetailView) Switch(mode DetailMode) error {
	if _, err := ParseDetailMode(string(mode)); err != nil {
		return err
	}
	d.mode = mode
	return nil
}

// Build computes the detail slot for the current mode from scratch.
func (d *DetailView) Build(ds *types.Dataset, sel selection.Snapshot) (View, error) {
	switch d.mode {
	case DetailHeatmap:
		g, err := aggregator.HeatmapGrid(ds, sel.Year)
		if err != nil {
			return nil, err
		}
		return HeatmapView(g), nil
	default:
		ranking, err := aggregator.RankBySource(ds, sel.Year, sel.Source)
		if err != nil {
			return nil, err
		}
		return RankingChart(sel.Year, sel.Source, ds.SourceIndex(sel.Source), ranking), nil
	}
}
