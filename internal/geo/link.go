// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package geo resolves a GEO series accession to its linked PubMed
// identifiers, falling back to a title search when none are linked.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/prjmeta/internal/eutils"
)

// summary holds the fields read from a GEO DataSets document summary.
type summary struct {
	Title     string        `json:"title"`
	PubMedIDs []json.Number `json:"pubmedids"`
}

// Link returns the PubMed identifiers associated with a GEO series, in
// the order the record lists them. An empty accession returns an empty
// list without touching the network. When the record links no PMIDs but
// carries a title, a title-restricted PubMed search supplies the first
// hit, taken as-is with no relevance check.
func Link(ctx context.Context, client *eutils.Client, geoAccession string, w io.Writer) ([]string, error) {
	geoAccession = strings.TrimSpace(geoAccession)
	if geoAccession == "" {
		return nil, nil
	}

	uids, err := client.ESearch(ctx, "gds", geoAccession+"[ACCN]", 1)
	if err != nil {
		return nil, fmt.Errorf("locating GEO record %s: %w", geoAccession, err)
	}
	if len(uids) == 0 {
		fmt.Fprintf(w, "no GEO DataSets entry for %s\n", geoAccession)
		return nil, nil
	}

	sum, err := fetchSummary(ctx, client, uids[0])
	if err != nil {
		return nil, fmt.Errorf("reading GEO summary for %s: %w", geoAccession, err)
	}

	if len(sum.PubMedIDs) > 0 {
		pmids := make([]string, 0, len(sum.PubMedIDs))
		for _, id := range sum.PubMedIDs {
			pmids = append(pmids, id.String())
		}
		return pmids, nil
	}

	title := strings.TrimSpace(sum.Title)
	if title == "" {
		return nil, nil
	}

	fmt.Fprintf(w, "no linked publication for %s, searching PubMed by title\n", geoAccession)
	hits, err := client.ESearch(ctx, "pubmed", fmt.Sprintf("%q[Title]", title), 1)
	if err != nil {
		return nil, fmt.Errorf("title search for %s: %w", geoAccession, err)
	}
	if len(hits) == 0 {
		return nil, nil
	}
	return hits[:1], nil
}

// fetchSummary reads the esummary document for one GEO DataSets UID.
func fetchSummary(ctx context.Context, client *eutils.Client, uid string) (summary, error) {
	body, err := client.ESummary(ctx, "gds", uid)
	if err != nil {
		return summary{}, err
	}

	var env struct {
		Result map[string]json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return summary{}, fmt.Errorf("parsing esummary response: %w", err)
	}

	raw, ok := env.Result[uid]
	if !ok {
		return summary{}, fmt.Errorf("esummary response has no entry for uid %s", uid)
	}

	var sum summary
	if err := json.Unmarshal(raw, &sum); err != nil {
		return summary{}, fmt.Errorf("parsing summary for uid %s: %w", uid, err)
	}
	return sum, nil
}
