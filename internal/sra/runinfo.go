// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sra fetches per-run sequencing metadata for a project and
// provides the table operations the downstream stages need.
package sra

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/prjmeta/pkg/types"
)

// PortalBaseURL is the ENA portal filereport endpoint. Declared as a var
// so tests can substitute an httptest server.
var PortalBaseURL = "https://www.ebi.ac.uk/ena/portal/api/filereport"

// defaultFields is the read_run column set requested when the config does
// not select its own.
var defaultFields = []string{
	"run_accession",
	"sample_accession",
	"secondary_sample_accession",
	"experiment_accession",
	"study_accession",
	"sample_title",
	"experiment_title",
	"scientific_name",
	"instrument_platform",
	"instrument_model",
	"library_name",
	"library_strategy",
	"library_source",
	"library_selection",
	"library_layout",
	"read_count",
	"base_count",
	"sample_alias",
	"first_public",
}

// FetchRunInfo downloads the run-level metadata table for a project
// accession as TSV and parses it. An empty result set is an error: a
// project with no runs has nothing for the sample stages to work on.
func FetchRunInfo(ctx context.Context, client *http.Client, accession string, cfg types.RunInfoConfig) (*RunTable, error) {
	if accession == "" {
		return nil, fmt.Errorf("accession is empty")
	}

	fields := cfg.Fields
	if len(fields) == 0 {
		fields = defaultFields
	}

	params := url.Values{}
	params.Set("accession", accession)
	params.Set("result", "read_run")
	params.Set("format", "tsv")
	params.Set("fields", strings.Join(fields, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, PortalBaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("filereport request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("filereport returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading filereport response: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("no run metadata for %s", accession)
	}

	table, err := ParseTSV(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing run metadata for %s: %w", accession, err)
	}
	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("no run metadata rows for %s", accession)
	}
	return table, nil
}
