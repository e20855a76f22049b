package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"energy-dashboard-go/internal/logger"
	"energy-dashboard-go/internal/types"
)

// Encoding names accepted by ImportOptions.
const (
	EncodingCP949 = "cp949"
	EncodingUTF8  = "utf-8"
)

// ImportOptions controls how raw spreadsheet rows become a dataset.
type ImportOptions struct {
	// Province keeps only rows of this top-level region. Empty keeps all.
	Province string
	// Encoding of CSV input; defaults to cp949.
	Encoding string
}

// ImportFiles reads every file matching patterns (.xlsx via excelize,
// anything else as CSV), merges their rows by header name and builds a
// dataset from them.
func ImportFiles(patterns []string, opts ImportOptions) (*types.Dataset, error) {
	log := logger.New().WithField("component", "dataset.import")

	var files []string
	for _, p := range patterns {
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", p, err)
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files matched %v", patterns)
	}

	var tables [][][]string
	for _, f := range files {
		rows, err := readTable(f, opts)
		if err != nil {
			log.WithError(err).WithField("path", f).Error("load failed")
			return nil, err
		}
		log.WithField("path", f).WithField("rows", len(rows)).Info("loaded file")
		tables = append(tables, rows)
	}
	return Build(mergeTables(tables), opts)
}

func readTable(path string, opts ImportOptions) ([][]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readWorkbook(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	return readCSV(f, opts.Encoding)
}

func readWorkbook(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return rows, nil
}

func readCSV(r io.Reader, encoding string) ([][]string, error) {
	switch strings.ToLower(encoding) {
	case "", EncodingCP949, "euc-kr":
		r = transform.NewReader(r, korean.EUCKR.NewDecoder())
	case EncodingUTF8, "utf8":
		r = transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	default:
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rows, nil
}

// mergeTables concatenates tables, aligning columns by header name. Columns
// missing from a table read as empty cells.
func mergeTables(tables [][][]string) [][]string {
	var header []string
	index := map[string]int{}
	for _, t := range tables {
		if len(t) == 0 {
			continue
		}
		for _, h := range t[0] {
			h = strings.TrimSpace(h)
			if _, ok := index[h]; !ok {
				index[h] = len(header)
				header = append(header, h)
			}
		}
	}
	if header == nil {
		return nil
	}

	out := [][]string{header}
	for _, t := range tables {
		if len(t) == 0 {
			continue
		}
		for _, row := range t[1:] {
			merged := make([]string, len(header))
			for i, h := range t[0] {
				if i < len(row) {
					merged[index[strings.TrimSpace(h)]] = row[i]
				}
			}
			out = append(out, merged)
		}
	}
	return out
}

// sortedYears returns the keys of m ascending.
func sortedYears(m map[types.Year]map[string]types.RegionRecord) []types.Year {
	ds := types.Dataset{Regional: make(map[types.Year][]types.RegionRecord, len(m))}
	for y := range m {
		ds.Regional[y] = nil
	}
	return ds.Years()
}

// sortedRegions returns the region names of m in lexical order, matching the
// grouping order of the original export.
func sortedRegions(m map[string]types.RegionRecord) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
