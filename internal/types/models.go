package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Source names an energy-generation category (solar, wind, ...).
type Source string

// AllSources is the "all sources combined" context a selection can point at.
const AllSources Source = "__all__"

// Year is the string key a dataset uses for one year, e.g. "2023".
type Year string

// UnmarshalJSON accepts both 2023 and "2023".
func (y *Year) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*y = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*y = Year(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("year: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*y = Year(strconv.FormatInt(i, 10))
		return nil
	}
	*y = Year(n.String())
	return nil
}

// MarshalJSON writes numeric years as numbers, like the exported dashboard document.
func (y Year) MarshalJSON() ([]byte, error) {
	if i, err := strconv.Atoi(string(y)); err == nil {
		return []byte(strconv.Itoa(i)), nil
	}
	return json.Marshal(string(y))
}

// RegionRecord holds one region's generation per source for a single year.
type RegionRecord struct {
	Region string
	Values map[Source]float64
}

// Get returns the value for source, or 0 when the record has no entry for it.
func (r RegionRecord) Get(s Source) float64 {
	return r.Values[s]
}

func (r *RegionRecord) UnmarshalJSON(b []byte) error {
	region, values, err := decodeFlat(b, "region")
	if err != nil {
		return fmt.Errorf("region record: %w", err)
	}
	var name string
	if len(region) > 0 {
		if err := json.Unmarshal(region, &name); err != nil {
			return fmt.Errorf("region record: region: %w", err)
		}
	}
	r.Region = name
	r.Values = values
	return nil
}

func (r RegionRecord) MarshalJSON() ([]byte, error) {
	return encodeFlat("region", r.Region, r.Values)
}

// YearlyAggregate is the pre-aggregated national total per source for one year.
type YearlyAggregate struct {
	Year   Year
	Values map[Source]float64
}

// Get returns the total for source, or 0.
func (y YearlyAggregate) Get(s Source) float64 {
	return y.Values[s]
}

func (y *YearlyAggregate) UnmarshalJSON(b []byte) error {
	raw, values, err := decodeFlat(b, "year")
	if err != nil {
		return fmt.Errorf("yearly aggregate: %w", err)
	}
	var year Year
	if len(raw) > 0 {
		if err := year.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("yearly aggregate: %w", err)
		}
	}
	y.Year = year
	y.Values = values
	return nil
}

func (y YearlyAggregate) MarshalJSON() ([]byte, error) {
	return encodeFlat("year", y.Year, y.Values)
}

// GrowthPoint is the year-over-year growth of total generation, in percent.
type GrowthPoint struct {
	Year Year    `json:"year"`
	Rate float64 `json:"rate"`
}

// Dataset is the whole dashboard document. It is not modified after load.
type Dataset struct {
	Sources    []Source                `json:"sources"`
	Regional   map[Year][]RegionRecord `json:"regional"`
	Yearly     []YearlyAggregate       `json:"yearly"`
	GrowthRate []GrowthPoint           `json:"growth_rate"`
	LatestYear Year                    `json:"latest_year"`
}

// Years returns the years present in Regional, ascending.
func (d *Dataset) Years() []Year {
	years := make([]Year, 0, len(d.Regional))
	for y := range d.Regional {
		years = append(years, y)
	}
	sort.Slice(years, func(i, j int) bool { return yearLess(years[i], years[j]) })
	return years
}

// HasYear reports whether year has regional data.
func (d *Dataset) HasYear(y Year) bool {
	_, ok := d.Regional[y]
	return ok
}

// HasSource reports whether s is one of the dataset's sources.
func (d *Dataset) HasSource(s Source) bool {
	return d.SourceIndex(s) >= 0
}

// SourceIndex returns the position of s in Sources, or -1.
func (d *Dataset) SourceIndex(s Source) int {
	for i, src := range d.Sources {
		if src == s {
			return i
		}
	}
	return -1
}

// Regions returns the records for year in their original order.
func (d *Dataset) Regions(y Year) []RegionRecord {
	return d.Regional[y]
}

// yearLess orders numeric years numerically and everything else lexically.
func yearLess(a, b Year) bool {
	ai, aerr := strconv.Atoi(string(a))
	bi, berr := strconv.Atoi(string(b))
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return a < b
}

func decodeFlat(b []byte, key string) (json.RawMessage, map[Source]float64, error) {
	var fields map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return nil, nil, err
	}
	values := make(map[Source]float64, len(fields))
	for k, raw := range fields {
		if k == key {
			continue
		}
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		var v float64
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, nil, fmt.Errorf("field %q: %w", k, err)
		}
		values[Source(k)] = v
	}
	return fields[key], values, nil
}

func encodeFlat(key string, id any, values map[Source]float64) ([]byte, error) {
	out := make(map[string]any, len(values)+1)
	for k, v := range values {
		out[string(k)] = v
	}
	out[key] = id
	return json.Marshal(out)
}
