// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package annotate asks a chat model to classify the study (disease,
// sample source) and propose sample-grouping rules from the collected
// metadata.
package annotate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"regexp"

	"github.com/pdiddy/prjmeta/internal/grouping"
	"github.com/pdiddy/prjmeta/pkg/types"
)

// Backend abstracts the chat API so tests can supply a mock.
type Backend interface {
	Annotate(ctx context.Context, prompt string) (string, error)
}

// Annotation holds the model's structured reply. Fields the model did
// not supply stay absent.
type Annotation struct {
	DiseaseMajor    types.Field     `json:"disease_major" yaml:"disease_major"`
	DiseaseMinor    types.Field     `json:"disease_minor" yaml:"disease_minor"`
	ICD11Code       types.Field     `json:"icd11_code" yaml:"icd11_code"`
	SampleSource    types.Field     `json:"sample_source" yaml:"sample_source"`
	GroupingColumns []grouping.Rule `json:"grouping_columns" yaml:"grouping_columns"`
}

// jsonBlock matches the first brace-delimited block in the model's
// reply; models wrap the JSON in prose more often than not.
var jsonBlock = regexp.MustCompile(`(?s)\{.*\}`)

// ParseAnnotation extracts and decodes the JSON block from a model reply.
func ParseAnnotation(reply string) (Annotation, error) {
	block := jsonBlock.FindString(reply)
	if block == "" {
		return Annotation{}, fmt.Errorf("reply contains no JSON block")
	}

	var wire struct {
		DiseaseMajor string          `json:"disease_major"`
		DiseaseMinor string          `json:"disease_minor"`
		ICD11Code    string          `json:"icd11_code"`
		SampleSource string          `json:"sample_source"`
		Grouping     []grouping.Rule `json:"grouping_columns"`
	}
	if err := json.Unmarshal([]byte(block), &wire); err != nil {
		return Annotation{}, fmt.Errorf("decoding annotation JSON: %w", err)
	}

	return Annotation{
		DiseaseMajor:    cleanField(wire.DiseaseMajor),
		DiseaseMinor:    cleanField(wire.DiseaseMinor),
		ICD11Code:       cleanField(wire.ICD11Code),
		SampleSource:    cleanField(wire.SampleSource),
		GroupingColumns: wire.Grouping,
	}, nil
}

// cleanField treats the model's "NA" convention as absent.
func cleanField(s string) types.Field {
	if s == "" || s == "NA" {
		return ""
	}
	return types.Field(s)
}

// Run calls the backend with the assembled prompt and parses the reply.
// Any failure downgrades to an empty annotation with a warning; the
// pipeline's own fields never depend on the model being reachable.
func Run(ctx context.Context, backend Backend, prompt string, w io.Writer) Annotation {
	reply, err := backend.Annotate(ctx, prompt)
	if err != nil {
		fmt.Fprintf(w, "warning: annotation request failed: %v\n", err)
		return Annotation{}
	}

	ann, err := ParseAnnotation(reply)
	if err != nil {
		fmt.Fprintf(w, "warning: %v\n", err)
		return Annotation{}
	}
	return ann
}
