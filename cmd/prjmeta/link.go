package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/prjmeta/internal/geo"
)

var linkCmd = &cobra.Command{
	Use:   "link [geo-accession]",
	Short: "List the PubMed identifiers linked to a GEO series",
	Long: `Link looks up a GEO series accession (e.g. GSE234567) in GEO DataSets and
prints the linked PubMed identifiers in upstream order. When the record
links no publication but has a title, a title-restricted PubMed search
supplies the first hit.`,
	RunE: runLink,
}

func init() {
	rootCmd.AddCommand(linkCmd)
}

func runLink(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Usage()
	}

	client := newEutilsClient(cmd)
	pmids, err := geo.Link(cmd.Context(), client, args[0], os.Stderr)
	if err != nil {
		return err
	}
	if pmids == nil {
		pmids = []string{}
	}
	return json.NewEncoder(os.Stdout).Encode(pmids)
}
