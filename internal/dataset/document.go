// Package dataset reads, validates, fetches and writes the dashboard
// document, and builds it from raw generation spreadsheets.
package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"energy-dashboard-go/internal/types"
)

// required lists the top-level keys a document cannot do without.
var required = []string{"sources", "regional", "latest_year"}

// Decode parses a dashboard document and validates it.
func Decode(r io.Reader) (*types.Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrMalformedDataset, err)
	}
	for _, key := range required {
		raw, ok := probe[key]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return nil, fmt.Errorf("%w: missing %q", types.ErrMalformedDataset, key)
		}
	}

	var ds types.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrMalformedDataset, err)
	}
	if err := Validate(&ds); err != nil {
		return nil, err
	}
	return &ds, nil
}

// LoadFile decodes the document at path.
func LoadFile(path string) (*types.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Validate checks the structural invariants the engine relies on: at least
// one unique source, a latest year with regional data, and unique region
// names within each year.
func Validate(ds *types.Dataset) error {
	if ds == nil {
		return types.ErrDatasetNotLoaded
	}
	if len(ds.Sources) == 0 {
		return fmt.Errorf("%w: no sources", types.ErrMalformedDataset)
	}
	seen := make(map[types.Source]struct{}, len(ds.Sources))
	for _, s := range ds.Sources {
		if s == "" || s == types.AllSources {
			return fmt.Errorf("%w: invalid source name %q", types.ErrMalformedDataset, s)
		}
		if _, dup := seen[s]; dup {
			return fmt.Errorf("%w: duplicate source %q", types.ErrMalformedDataset, s)
		}
		seen[s] = struct{}{}
	}
	if ds.LatestYear == "" {
		return fmt.Errorf("%w: missing latest year", types.ErrMalformedDataset)
	}
	if !ds.HasYear(ds.LatestYear) {
		return fmt.Errorf("%w: latest year %q has no regional data", types.ErrMalformedDataset, ds.LatestYear)
	}
	for year, records := range ds.Regional {
		names := make(map[string]struct{}, len(records))
		for _, r := range records {
			if _, dup := names[r.Region]; dup {
				return fmt.Errorf("%w: duplicate region %q in %s", types.ErrMalformedDataset, r.Region, year)
			}
			names[r.Region] = struct{}{}
		}
	}
	return nil
}

// Encode writes ds as an indented dashboard document, keeping non-ASCII
// names readable.
func Encode(w io.Writer, ds *types.Dataset) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(ds); err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	return nil
}

// SaveFile writes ds to path.
func SaveFile(path string, ds *types.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	if err := Encode(f, ds); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
