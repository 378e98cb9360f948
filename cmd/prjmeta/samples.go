package main

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/prjmeta/internal/sra"
	"github.com/pdiddy/prjmeta/pkg/types"
)

var samplesCmd = &cobra.Command{
	Use:   "samples [accession]",
	Short: "Download the run metadata table for a project",
	Long: `Samples downloads the per-run sequencing metadata for a project accession
from the ENA portal, drops file-location and checksum columns, and prints
the table.`,
	RunE: runSamples,
}

func init() {
	rootCmd.AddCommand(samplesCmd)
}

// runInfoConfig assembles the run-metadata stage configuration.
func runInfoConfig(cmd *cobra.Command) types.RunInfoConfig {
	return types.RunInfoConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   httpTimeout(cmd),
			UserAgent: defaultUserAgent,
		},
		Fields: viper.GetStringSlice("runinfo.fields"),
	}
}

func runSamples(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Usage()
	}

	cfg := runInfoConfig(cmd)
	client := &http.Client{Timeout: cfg.Timeout}

	table, err := sra.FetchRunInfo(cmd.Context(), client, args[0], cfg)
	if err != nil {
		return err
	}
	return json.NewEncoder(os.Stdout).Encode(table.StripDownloadColumns())
}
