// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed fetches literature records in MEDLINE format and parses
// them into structured fields.
package pubmed

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/prjmeta/internal/eutils"
	"github.com/pdiddy/prjmeta/pkg/types"
)

// NotAvailableKey keys the placeholder record emitted when no literature
// identifier was discovered upstream.
const NotAvailableKey = "not available"

// FetchOne retrieves and parses the MEDLINE record for one PMID.
func FetchOne(ctx context.Context, client *eutils.Client, pmid string) (*types.LiteratureRecord, error) {
	body, err := client.EFetch(ctx, "pubmed", pmid, "medline", "text")
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("empty MEDLINE response for PMID %s", pmid)
	}
	return ParseMedline(pmid, string(body)), nil
}

// FetchAll retrieves every PMID sequentially and collects the records in
// discovery order. A failed or empty fetch yields a placeholder record
// with only the identifier set; one bad PMID never aborts the batch. An
// empty input list yields a single all-absent placeholder under
// NotAvailableKey.
func FetchAll(ctx context.Context, client *eutils.Client, pmids []string, w io.Writer) *types.LiteratureCollection {
	coll := types.NewLiteratureCollection()

	if len(pmids) == 0 {
		coll.Add(NotAvailableKey, &types.LiteratureRecord{})
		return coll
	}

	for _, pmid := range pmids {
		rec, err := FetchOne(ctx, client, pmid)
		if err != nil {
			fmt.Fprintf(w, "warning: PMID %s: %v\n", pmid, err)
			rec = &types.LiteratureRecord{PMID: types.Field(pmid)}
		}
		coll.Add(pmid, rec)
	}
	return coll
}
