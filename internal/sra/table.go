// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sra

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// NA marks a missing cell. Run metadata is sparse; normalizing empties to
// a single marker keeps the column operations simple.
const NA = "NA"

// RunTable is a column-ordered table of run metadata. Cells are strings;
// empty cells are normalized to NA on parse.
type RunTable struct {
	Columns []string   `json:"columns" yaml:"columns"`
	Rows    [][]string `json:"rows" yaml:"rows"`
}

// KV is one study-level field, preserving sheet order.
type KV struct {
	Field string `json:"field" yaml:"field"`
	Value string `json:"value" yaml:"value"`
}

// ColumnPreview summarizes one column for the annotation prompt.
type ColumnPreview struct {
	Name     string
	Distinct int
	Examples []string
}

// downloadKeys marks columns that only describe file locations or
// checksums; they carry no study information.
var downloadKeys = []string{
	"ftp", "http", "url", "aspera", "download", "md5", "fastq", "bam", "cram", "sra_file",
}

// accessionKeys marks identifier-like columns that never encode grouping.
var accessionKeys = []string{
	"acc", "accession", "run", "srr", "srx", "srs", "sra", "gsm", "samn",
	"ftp", "http", "url", "md5", "download", "size",
}

// ParseTSV reads a tab-separated table with a header row. Short rows are
// padded and empty cells are normalized to NA.
func ParseTSV(r io.Reader) (*RunTable, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading TSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("TSV has no header row")
	}

	t := &RunTable{Columns: records[0]}
	for _, rec := range records[1:] {
		row := make([]string, len(t.Columns))
		for i := range row {
			v := ""
			if i < len(rec) {
				v = strings.TrimSpace(rec[i])
			}
			if v == "" {
				v = NA
			}
			row[i] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// ColumnIndex returns the position of the named column, or -1.
func (t *RunTable) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns the values of the named column, or nil if absent.
func (t *RunTable) Column(name string) []string {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out
}

// FindColumn returns the first column whose name contains any of the
// given lowercase substrings, or "".
func (t *RunTable) FindColumn(substrings ...string) string {
	for _, c := range t.Columns {
		lc := strings.ToLower(c)
		for _, sub := range substrings {
			if strings.Contains(lc, sub) {
				return c
			}
		}
	}
	return ""
}

// AddColumn appends a column. The value slice must match the row count.
func (t *RunTable) AddColumn(name string, values []string) error {
	if len(values) != len(t.Rows) {
		return fmt.Errorf("column %s has %d values for %d rows", name, len(values), len(t.Rows))
	}
	t.Columns = append(t.Columns, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], values[i])
	}
	return nil
}

// selectColumns returns a new table containing the named columns, in the
// given order.
func (t *RunTable) selectColumns(names []string) *RunTable {
	idx := make([]int, 0, len(names))
	for _, n := range names {
		if i := t.ColumnIndex(n); i >= 0 {
			idx = append(idx, i)
		}
	}
	out := &RunTable{Columns: make([]string, len(idx))}
	for j, i := range idx {
		out.Columns[j] = t.Columns[i]
	}
	for _, row := range t.Rows {
		nr := make([]string, len(idx))
		for j, i := range idx {
			nr[j] = row[i]
		}
		out.Rows = append(out.Rows, nr)
	}
	return out
}

// distinct returns the number of distinct values in the column at idx,
// counting NA as a value.
func (t *RunTable) distinct(idx int) int {
	seen := make(map[string]struct{})
	for _, row := range t.Rows {
		seen[row[idx]] = struct{}{}
	}
	return len(seen)
}

// StripDownloadColumns returns a copy without file-location and checksum
// columns.
func (t *RunTable) StripDownloadColumns() *RunTable {
	var keep []string
	for _, c := range t.Columns {
		lc := strings.ToLower(c)
		drop := false
		for _, k := range downloadKeys {
			if strings.Contains(lc, k) {
				drop = true
				break
			}
		}
		if !drop {
			keep = append(keep, c)
		}
	}
	return t.selectColumns(keep)
}

// DeduplicateColumns returns a copy without all-NA columns, constant
// columns, and later columns whose full value vector duplicates an
// earlier one. Used to build the annotation preview.
func (t *RunTable) DeduplicateColumns() *RunTable {
	seen := make(map[string]struct{})
	var keep []string
	for i, c := range t.Columns {
		if t.distinct(i) <= 1 {
			continue
		}
		var key strings.Builder
		for _, row := range t.Rows {
			key.WriteString(row[i])
			key.WriteByte('\x00')
		}
		k := key.String()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keep = append(keep, c)
	}
	return t.selectColumns(keep)
}

// SplitStudySample divides the table into study-level fields (columns
// with a single value across all runs) and a sample-level table (the
// rest).
func (t *RunTable) SplitStudySample() ([]KV, *RunTable) {
	var study []KV
	var sampleCols []string
	for i, c := range t.Columns {
		if t.distinct(i) == 1 && len(t.Rows) > 0 {
			study = append(study, KV{Field: c, Value: t.Rows[0][i]})
		} else {
			sampleCols = append(sampleCols, c)
		}
	}
	return study, t.selectColumns(sampleCols)
}

// GroupingCandidates returns the columns that plausibly encode a sample
// grouping: between 2 and min(10, max(2, n/2)) distinct values, skipping
// identifier and file-location columns.
func (t *RunTable) GroupingCandidates() []string {
	n := len(t.Rows)
	upper := n / 2
	if upper < 2 {
		upper = 2
	}
	if upper > 10 {
		upper = 10
	}

	var out []string
	for i, c := range t.Columns {
		lc := strings.ToLower(c)
		skip := false
		for _, k := range accessionKeys {
			if strings.Contains(lc, k) {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		if k := t.distinct(i); k >= 2 && k <= upper {
			out = append(out, c)
		}
	}
	return out
}

// Preview summarizes the deduplicated columns for the annotation prompt:
// name, distinct count, and up to maxExamples example values in row order.
func (t *RunTable) Preview(maxExamples int) []ColumnPreview {
	clean := t.DeduplicateColumns()
	out := make([]ColumnPreview, 0, len(clean.Columns))
	for i, c := range clean.Columns {
		p := ColumnPreview{Name: c, Distinct: clean.distinct(i)}
		seen := make(map[string]struct{})
		for _, row := range clean.Rows {
			if _, ok := seen[row[i]]; ok {
				continue
			}
			seen[row[i]] = struct{}{}
			p.Examples = append(p.Examples, row[i])
			if len(p.Examples) >= maxExamples {
				break
			}
		}
		out = append(out, p)
	}
	return out
}

// SampleSize returns the number of distinct non-NA biosample values, or
// the row count when no biosample-like column exists.
func (t *RunTable) SampleSize() int {
	col := t.FindColumn("biosample", "sample_accession")
	if col == "" {
		return len(t.Rows)
	}
	seen := make(map[string]struct{})
	for _, v := range t.Column(col) {
		if v == NA {
			continue
		}
		seen[v] = struct{}{}
	}
	if len(seen) == 0 {
		return len(t.Rows)
	}
	return len(seen)
}
