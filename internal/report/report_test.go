// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/prjmeta/internal/annotate"
	"github.com/pdiddy/prjmeta/internal/grouping"
	"github.com/pdiddy/prjmeta/internal/sra"
	"github.com/pdiddy/prjmeta/pkg/types"
)

var sheetOrder = []string{
	"bioproject", "geo_accession", "pmid",
	"journal_name", "publication_date", "publication_doi",
	"species", "disease_major", "disease_minor", "icd11_code", "sample_source",
	"instrument", "library_strategy", "library_source", "library_selection", "library_layout",
	"grouping", "group_info", "sample_size",
}

func sampleInput(t *testing.T) Input {
	t.Helper()

	lit := types.NewLiteratureCollection()
	lit.Add("39160575", &types.LiteratureRecord{
		PMID:    "39160575",
		Journal: "Nature",
		PubDate: "2024 Aug 19",
		DOI:     "10.1038/s41586-024-07123-7",
	})
	lit.Add("39812345", &types.LiteratureRecord{
		PMID:    "39812345",
		Journal: "Nature",
		PubDate: "2025 Jan 10",
	})

	runs, err := sra.ParseTSV(strings.NewReader(
		"run_accession\tsample_accession\tinstrument_model\tlibrary_strategy\tlibrary_layout\tsample_title\n" +
			"SRR100\tSAMN01\tNovaSeq 6000\tRNA-Seq\tPAIRED\thealthy donor 1\n" +
			"SRR101\tSAMN02\tNovaSeq 6000\tRNA-Seq\tPAIRED\tIPF donor 2\n"))
	require.NoError(t, err)

	study, samples := runs.SplitStudySample()
	grouping.Apply(samples, []grouping.Rule{{
		Column: "sample_title",
		Logic:  map[string]string{"regex:healthy": "control", "regex:ipf": "IPF"},
	}}, &strings.Builder{})

	return Input{
		Accession: "PRJNA979185",
		Project: types.ProjectRecord{
			Accession:    "PRJNA979185",
			GEOAccession: "GSE234567",
			OrganismName: "Homo sapiens",
		},
		PMIDs:      []string{"39160575", "39812345"},
		Literature: lit,
		Runs:       runs,
		Study:      study,
		Samples:    samples,
		Annotation: annotate.Annotation{
			DiseaseMajor: "Diseases of the respiratory system",
			ICD11Code:    "CB03.4",
			SampleSource: "lung tissue",
			GroupingColumns: []grouping.Rule{
				{Column: "sample_title"},
			},
		},
	}
}

func sheetMap(s Sheet) map[string]types.Field {
	m := make(map[string]types.Field, len(s))
	for _, e := range s {
		m[e.Name] = e.Value
	}
	return m
}

func TestBuildSheetOrder(t *testing.T) {
	rep := Build(sampleInput(t))

	names := make([]string, len(rep.Project))
	for i, e := range rep.Project {
		names[i] = e.Name
	}
	assert.Equal(t, sheetOrder, names)
}

func TestBuildFieldValues(t *testing.T) {
	rep := Build(sampleInput(t))
	m := sheetMap(rep.Project)

	assert.Equal(t, "PRJNA979185", m["bioproject"].String())
	assert.Equal(t, "GSE234567", m["geo_accession"].String())
	assert.Equal(t, "39160575,39812345", m["pmid"].String())
	// The duplicated journal collapses to one value.
	assert.Equal(t, "Nature", m["journal_name"].String())
	assert.Equal(t, "2024 Aug 19; 2025 Jan 10", m["publication_date"].String())
	assert.Equal(t, "10.1038/s41586-024-07123-7", m["publication_doi"].String())
	assert.Equal(t, "Homo sapiens", m["species"].String())
	assert.Equal(t, "NovaSeq 6000", m["instrument"].String())
	assert.Equal(t, "RNA-Seq", m["library_strategy"].String())
	assert.Equal(t, "PAIRED", m["library_layout"].String())
	assert.Equal(t, "sample_title", m["grouping"].String())
	assert.Equal(t, "control: 1; IPF: 1", m["group_info"].String())
	assert.Equal(t, "2", m["sample_size"].String())
	assert.True(t, m["disease_minor"].IsAbsent())
}

func TestBuildWithoutRuns(t *testing.T) {
	in := sampleInput(t)
	in.Runs = nil
	in.Study = nil
	in.Samples = nil

	rep := Build(in)
	m := sheetMap(rep.Project)

	assert.True(t, m["instrument"].IsAbsent())
	assert.True(t, m["group_info"].IsAbsent())
	assert.True(t, m["sample_size"].IsAbsent())
	assert.Nil(t, rep.Study)
	assert.Nil(t, rep.Samples)
}

func TestBuildFallsBackToProjectAccession(t *testing.T) {
	in := sampleInput(t)
	in.Accession = ""

	m := sheetMap(Build(in).Project)
	assert.Equal(t, "PRJNA979185", m["bioproject"].String())
}

func TestJoinClean(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		sep    string
		want   string
	}{
		{"drops empties and NA", []string{"a", "", "NA", "b"}, "; ", "a; b"},
		{"dedupes in order", []string{"x", "y", "x"}, ",", "x,y"},
		{"lowercase na dropped", []string{"na", "z"}, ",", "z"},
		{"all filtered", []string{"", "NA"}, ",", ""},
		{"nil input", nil, ",", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, joinClean(tt.values, tt.sep).String())
		})
	}
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Build(sampleInput(t)), types.OutputJSON))

	var decoded struct {
		Bioproject map[string]*string `json:"bioproject"`
		Literature map[string]struct {
			Journal *string `json:"journal"`
		} `json:"literature"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	require.NotNil(t, decoded.Bioproject["bioproject"])
	assert.Equal(t, "PRJNA979185", *decoded.Bioproject["bioproject"])
	// Absent fields serialize as JSON null, not "".
	val, ok := decoded.Bioproject["disease_minor"]
	require.True(t, ok, "absent field key still present")
	assert.Nil(t, val)

	// Keys of the sheet object keep their order in the raw output.
	raw := buf.String()
	assert.Less(t, strings.Index(raw, `"bioproject"`), strings.Index(raw, `"geo_accession"`))
	assert.Less(t, strings.Index(raw, `"geo_accession"`), strings.Index(raw, `"pmid"`))
}

func TestRenderYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Build(sampleInput(t)), types.OutputYAML))

	var decoded struct {
		Bioproject map[string]interface{} `yaml:"bioproject"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "PRJNA979185", decoded.Bioproject["bioproject"])
	assert.Nil(t, decoded.Bioproject["disease_minor"])
}

// failWriter rejects every write so encoder flush errors surface.
type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) {
	return 0, errors.New("write refused")
}

func TestRenderYAMLWriteFailure(t *testing.T) {
	err := Render(failWriter{}, Build(sampleInput(t)), types.OutputYAML)
	require.Error(t, err)
}

func TestRenderUnknownFormat(t *testing.T) {
	err := Render(&bytes.Buffer{}, Report{}, types.OutputFormat("toml"))
	require.Error(t, err)
}
