// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bioproject fetches a BioProject record and extracts its fields
// by evaluating path expressions against the document.
package bioproject

import (
	"context"
	"fmt"

	"github.com/pdiddy/prjmeta/internal/eutils"
	"github.com/pdiddy/prjmeta/pkg/types"
)

// fieldPaths maps each ProjectRecord field to the path expression that
// locates it in a BioProject efetch document. A path that matches nothing
// leaves the field absent.
var fieldPaths = struct {
	accession      string
	geoAccession   string
	title          string
	description    string
	pmid           string
	organismName   string
	submissionDate string
}{
	accession:      "ProjectID/ArchiveID/@accession",
	geoAccession:   "ExternalLink/dbXREF[@db='GEO']/ID",
	title:          "ProjectDescr/Title",
	description:    "ProjectDescr/Description",
	pmid:           "ProjectDescr/Publication/@id",
	organismName:   "Organism/OrganismName",
	submissionDate: "Submission/@submitted",
}

// Resolve fetches the BioProject document for accession and extracts the
// known fields. A fetch or parse failure is fatal to the run; a field
// whose path matches nothing is simply absent.
func Resolve(ctx context.Context, client *eutils.Client, accession string) (types.ProjectRecord, error) {
	if accession == "" {
		return types.ProjectRecord{}, fmt.Errorf("accession is empty")
	}

	body, err := client.EFetch(ctx, "bioproject", accession, "", "xml")
	if err != nil {
		return types.ProjectRecord{}, fmt.Errorf("fetching BioProject %s: %w", accession, err)
	}

	doc, err := ParseDocument(body)
	if err != nil {
		return types.ProjectRecord{}, fmt.Errorf("parsing BioProject %s: %w", accession, err)
	}

	return Extract(doc), nil
}

// Extract builds a ProjectRecord from an already-parsed document. Split
// out from Resolve so the field table can be exercised without a server.
func Extract(doc *Node) types.ProjectRecord {
	return types.ProjectRecord{
		Accession:      lookupField(doc, fieldPaths.accession),
		GEOAccession:   lookupField(doc, fieldPaths.geoAccession),
		Title:          lookupField(doc, fieldPaths.title),
		Description:    lookupField(doc, fieldPaths.description),
		PMID:           lookupField(doc, fieldPaths.pmid),
		OrganismName:   lookupField(doc, fieldPaths.organismName),
		SubmissionDate: lookupField(doc, fieldPaths.submissionDate),
	}
}

func lookupField(doc *Node, expr string) types.Field {
	v, ok := Lookup(doc, expr)
	if !ok {
		return ""
	}
	return types.Field(v)
}
