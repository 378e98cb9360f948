package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/prjmeta/internal/bioproject"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [accession]",
	Short: "Resolve a BioProject accession to its project record",
	Long: `Resolve fetches the BioProject XML document for an accession (e.g.
PRJNA979185) and extracts the known fields: accession, GEO cross-reference,
title, description, publication id, organism, and submission date. Fields
the document does not carry are emitted as null.`,
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Usage()
	}

	client := newEutilsClient(cmd)
	rec, err := bioproject.Resolve(cmd.Context(), client, args[0])
	if err != nil {
		return err
	}
	return json.NewEncoder(os.Stdout).Encode(rec)
}
