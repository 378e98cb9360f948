// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package grouping applies sample-grouping rules to a run table and
// normalizes group labels.
package grouping

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/prjmeta/internal/sra"
)

// regexPrefix marks a pattern that should be matched as a
// case-insensitive substring regex rather than an exact cell value.
const regexPrefix = "regex:"

// Rule maps values of one metadata column to group labels.
type Rule struct {
	Column     string            `json:"column_name" yaml:"column_name"`
	Logic      map[string]string `json:"grouping_logic" yaml:"grouping_logic"`
	Confidence string            `json:"confidence" yaml:"confidence"`
	Reason     string            `json:"reason" yaml:"reason"`
}

var (
	groupWord    = regexp.MustCompile(`(?i)\bgroup\b`)
	cjkTimepoint = regexp.MustCompile(`第?\s*(\d+)\s*天`)
	timepoint    = regexp.MustCompile(`(?i)time(?:point)?\s*(\d+)`)
)

// NormalizeLabel cleans a group label: strips the word "group", rewrites
// timepoint spellings to dayN, and trims. Empty or NA input stays NA.
func NormalizeLabel(s string) string {
	v := strings.TrimSpace(s)
	if v == "" || strings.ToUpper(v) == sra.NA {
		return sra.NA
	}
	v = groupWord.ReplaceAllString(v, "")
	v = cjkTimepoint.ReplaceAllString(v, "day$1")
	v = timepoint.ReplaceAllString(v, "day$1")
	return strings.TrimSpace(v)
}

// Apply writes one group column per rule into the table: the first rule
// produces "group", later ones "subgroup1", "subgroup2", ... Cells no
// pattern matches stay NA. A rule naming a column the table does not
// have is skipped with a warning. Patterns within a rule are applied in
// sorted order so repeated runs label identically.
func Apply(t *sra.RunTable, rules []Rule, w io.Writer) {
	for i, rule := range rules {
		outCol := "group"
		if i > 0 {
			outCol = fmt.Sprintf("subgroup%d", i)
		}

		values := make([]string, len(t.Rows))
		for j := range values {
			values[j] = sra.NA
		}

		src := t.Column(rule.Column)
		if src == nil {
			fmt.Fprintf(w, "warning: grouping column %q not in table, skipping\n", rule.Column)
			addColumn(t, outCol, values, w)
			continue
		}

		patterns := make([]string, 0, len(rule.Logic))
		for p := range rule.Logic {
			patterns = append(patterns, p)
		}
		sort.Strings(patterns)

		for _, pattern := range patterns {
			label := NormalizeLabel(rule.Logic[pattern])
			if strings.HasPrefix(pattern, regexPrefix) {
				re, err := regexp.Compile("(?i)" + strings.TrimPrefix(pattern, regexPrefix))
				if err != nil {
					fmt.Fprintf(w, "warning: bad grouping pattern %q: %v\n", pattern, err)
					continue
				}
				for j, cell := range src {
					if re.MatchString(cell) {
						values[j] = label
					}
				}
				continue
			}
			for j, cell := range src {
				if cell == pattern {
					values[j] = label
				}
			}
		}

		addColumn(t, outCol, values, w)
	}
}

// addColumn attaches a finished group column. The values are built to the
// table's row count, so a length mismatch can only mean a caller bug;
// surface it as a warning rather than dropping it on the floor.
func addColumn(t *sra.RunTable, name string, values []string, w io.Writer) {
	if err := t.AddColumn(name, values); err != nil {
		fmt.Fprintf(w, "warning: %v\n", err)
	}
}

// Summary returns "label: count; ..." over the table's group column,
// skipping NA, with labels in first-appearance order. Empty when the
// table has no group column or only NA cells.
func Summary(t *sra.RunTable) string {
	col := t.Column("group")
	if col == nil {
		return ""
	}

	counts := make(map[string]int)
	var order []string
	for _, v := range col {
		if v == sra.NA {
			continue
		}
		if _, ok := counts[v]; !ok {
			order = append(order, v)
		}
		counts[v]++
	}

	parts := make([]string, 0, len(order))
	for _, label := range order {
		parts = append(parts, fmt.Sprintf("%s: %d", label, counts[label]))
	}
	return strings.Join(parts, "; ")
}
