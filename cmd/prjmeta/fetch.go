package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/prjmeta/internal/pubmed"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [pmid...]",
	Short: "Fetch literature records for PubMed identifiers",
	Long: `Fetch retrieves each PMID's record in MEDLINE format, parses out title,
abstract, journal, publication date, and DOI, and prints the collection
keyed by PMID in argument order. A PMID that cannot be fetched yields a
placeholder entry instead of aborting the batch.`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Usage()
	}

	client := newEutilsClient(cmd)
	coll := pubmed.FetchAll(cmd.Context(), client, args, os.Stderr)
	return json.NewEncoder(os.Stdout).Encode(coll)
}
