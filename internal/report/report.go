// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report assembles the final project summary from the stage
// outputs and renders it as JSON or YAML.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/prjmeta/internal/annotate"
	"github.com/pdiddy/prjmeta/internal/grouping"
	"github.com/pdiddy/prjmeta/internal/sra"
	"github.com/pdiddy/prjmeta/pkg/types"
)

// Entry is one named field of the project sheet.
type Entry struct {
	Name  string
	Value types.Field
}

// Sheet is an ordered list of fields that serializes as an object whose
// keys keep their order.
type Sheet []Entry

// MarshalJSON emits the entries as an object in sheet order.
func (s Sheet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(e.Value)
		if err != nil {
			return nil, fmt.Errorf("marshaling field %s: %w", e.Name, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML emits the entries as a mapping in sheet order.
func (s Sheet) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range s {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: e.Name}
		valNode := &yaml.Node{}
		if err := valNode.Encode(e.Value); err != nil {
			return nil, fmt.Errorf("encoding field %s: %w", e.Name, err)
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

// Report is the full pipeline output.
type Report struct {
	Project    Sheet                       `json:"bioproject" yaml:"bioproject"`
	Literature *types.LiteratureCollection `json:"literature" yaml:"literature"`
	Study      []sra.KV                    `json:"study,omitempty" yaml:"study,omitempty"`
	Samples    *sra.RunTable               `json:"samples,omitempty" yaml:"samples,omitempty"`
}

// Input carries the stage outputs into Build. Runs and Samples are nil
// when the run-metadata stage failed or was skipped.
type Input struct {
	Accession  string
	Project    types.ProjectRecord
	PMIDs      []string
	Literature *types.LiteratureCollection
	Runs       *sra.RunTable
	Study      []sra.KV
	Samples    *sra.RunTable
	Annotation annotate.Annotation
}

// Build assembles the project sheet in its fixed field order.
func Build(in Input) Report {
	accession := in.Accession
	if accession == "" {
		accession = in.Project.Accession.String()
	}

	var journals, dates, dois []string
	if in.Literature != nil {
		for _, pmid := range in.Literature.PMIDs() {
			rec, _ := in.Literature.Get(pmid)
			journals = append(journals, rec.Journal.String())
			dates = append(dates, rec.PubDate.String())
			dois = append(dois, rec.DOI.String())
		}
	}

	var ruleColumns []string
	for _, r := range in.Annotation.GroupingColumns {
		ruleColumns = append(ruleColumns, r.Column)
	}

	var groupInfo, sampleSize string
	if in.Samples != nil {
		groupInfo = grouping.Summary(in.Samples)
	}
	if in.Runs != nil {
		sampleSize = strconv.Itoa(in.Runs.SampleSize())
	}

	sheet := Sheet{
		{Name: "bioproject", Value: types.Field(accession)},
		{Name: "geo_accession", Value: in.Project.GEOAccession},
		{Name: "pmid", Value: joinClean(in.PMIDs, ",")},
		{Name: "journal_name", Value: joinClean(journals, "; ")},
		{Name: "publication_date", Value: joinClean(dates, "; ")},
		{Name: "publication_doi", Value: joinClean(dois, "; ")},
		{Name: "species", Value: in.Project.OrganismName},
		{Name: "disease_major", Value: in.Annotation.DiseaseMajor},
		{Name: "disease_minor", Value: in.Annotation.DiseaseMinor},
		{Name: "icd11_code", Value: in.Annotation.ICD11Code},
		{Name: "sample_source", Value: in.Annotation.SampleSource},
		{Name: "instrument", Value: firstNonNA(in.Runs, "instrument")},
		{Name: "library_strategy", Value: firstNonNA(in.Runs, "library_strategy")},
		{Name: "library_source", Value: firstNonNA(in.Runs, "library_source")},
		{Name: "library_selection", Value: firstNonNA(in.Runs, "library_selection")},
		{Name: "library_layout", Value: firstNonNA(in.Runs, "library_layout")},
		{Name: "grouping", Value: joinClean(ruleColumns, ", ")},
		{Name: "group_info", Value: types.Field(groupInfo)},
		{Name: "sample_size", Value: types.Field(sampleSize)},
	}

	return Report{
		Project:    sheet,
		Literature: in.Literature,
		Study:      in.Study,
		Samples:    in.Samples,
	}
}

// joinClean joins values with sep, dropping empties and NA markers and
// deduplicating while preserving first-appearance order.
func joinClean(values []string, sep string) types.Field {
	seen := make(map[string]struct{})
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || strings.ToUpper(v) == sra.NA {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return types.Field(strings.Join(out, sep))
}

// firstNonNA returns the first non-NA value of the first column whose
// name contains the given substring.
func firstNonNA(t *sra.RunTable, substring string) types.Field {
	if t == nil {
		return ""
	}
	col := t.FindColumn(substring)
	if col == "" {
		return ""
	}
	for _, v := range t.Column(col) {
		if v != sra.NA {
			return types.Field(v)
		}
	}
	return ""
}

// Render writes the report to w in the selected format. JSON output is
// indented; the stage subcommands use the plain encoder instead.
func Render(w io.Writer, rep Report, format types.OutputFormat) error {
	switch format {
	case types.OutputYAML:
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(rep); err != nil {
			enc.Close()
			return err
		}
		return enc.Close()
	case types.OutputJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
