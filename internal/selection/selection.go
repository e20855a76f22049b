// Package selection holds the year/source cursor a dashboard session
// computes its views against.
package selection

import (
	"fmt"

	"energy-dashboard-go/internal/types"
)

// Snapshot is a read-only copy of a selection.
type Snapshot struct {
	Year   types.Year   `json:"year"`
	Source types.Source `json:"source"`
}

// Selection is the current year and source of one session. It validates
// every update against the dataset it was created for.
type Selection struct {
	ds     *types.Dataset
	year   types.Year
	source types.Source
}

// New starts a selection at the dataset's latest year and defaultSource,
// falling back to the first source when defaultSource is unknown.
func New(ds *types.Dataset, defaultSource types.Source) (*Selection, error) {
	if ds == nil {
		return nil, types.ErrDatasetNotLoaded
	}
	if !ds.HasYear(ds.LatestYear) {
		return nil, fmt.Errorf("%w: latest year %q has no regional data", types.ErrMalformedDataset, ds.LatestYear)
	}
	if len(ds.Sources) == 0 {
		return nil, fmt.Errorf("%w: no sources", types.ErrMalformedDataset)
	}

	source := ds.Sources[0]
	if ds.HasSource(defaultSource) {
		source = defaultSource
	}
	return &Selection{ds: ds, year: ds.LatestYear, source: source}, nil
}

// SetYear moves the selection to year. An unknown year leaves it unchanged.
func (s *Selection) SetYear(year types.Year) error {
	if !s.ds.HasYear(year) {
		return fmt.Errorf("%w: %w: %q", types.ErrInvalidSelection, types.ErrInvalidYear, year)
	}
	s.year = year
	return nil
}

// SetSource moves the selection to source, which may be AllSources.
// An unknown source leaves it unchanged.
func (s *Selection) SetSource(source types.Source) error {
	if source != types.AllSources && !s.ds.HasSource(source) {
		return fmt.Errorf("%w: %w: %q", types.ErrInvalidSelection, types.ErrInvalidSource, source)
	}
	s.source = source
	return nil
}

// Year returns the selected year.
func (s *Selection) Year() types.Year { return s.year }

// Source returns the selected source.
func (s *Selection) Source() types.Source { return s.source }

// Current returns a copy of the selection.
func (s *Selection) Current() Snapshot {
	return Snapshot{Year: s.year, Source: s.source}
}
