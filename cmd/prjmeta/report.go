package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/prjmeta/internal/annotate"
	"github.com/pdiddy/prjmeta/internal/bioproject"
	"github.com/pdiddy/prjmeta/internal/geo"
	"github.com/pdiddy/prjmeta/internal/grouping"
	"github.com/pdiddy/prjmeta/internal/pubmed"
	"github.com/pdiddy/prjmeta/internal/report"
	"github.com/pdiddy/prjmeta/internal/sra"
	"github.com/pdiddy/prjmeta/pkg/types"
)

const defaultAnnotateTimeout = 120 * time.Second

var reportCmd = &cobra.Command{
	Use:   "report [accession]",
	Short: "Run the full pipeline and assemble the project report",
	Long: `Report chains every stage for a BioProject accession: resolve the project
record, follow the GEO cross-reference to linked publications, fetch the
literature records, download the run metadata, optionally ask the
annotation model for disease classification and grouping rules, and print
the assembled report.

Annotation runs only when a deepseek-api-key is configured.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().String("format", "json", "output format: json or yaml")
	reportCmd.Flags().String("model", "", "annotation model (default deepseek-chat)")
	reportCmd.Flags().Bool("no-annotate", false, "skip the annotation stage")

	rootCmd.AddCommand(reportCmd)
}

// annotateConfig assembles the annotation stage configuration.
func annotateConfig(cmd *cobra.Command) types.AnnotateConfig {
	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = viper.GetString("annotate.model")
	}
	timeout := viper.GetDuration("annotate.timeout")
	if timeout == 0 {
		timeout = defaultAnnotateTimeout
	}
	return types.AnnotateConfig{
		Model:       model,
		APIKey:      secretDefault("deepseek-api-key", viper.GetString("annotate.api_key")),
		Temperature: viper.GetFloat64("annotate.temperature"),
		Timeout:     timeout,
	}
}

func runReport(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Usage()
	}

	accession := args[0]
	ctx := cmd.Context()
	w := os.Stderr
	client := newEutilsClient(cmd)

	fmt.Fprintf(w, "resolving %s\n", accession)
	project, err := bioproject.Resolve(ctx, client, accession)
	if err != nil {
		return err
	}

	pmids, err := geo.Link(ctx, client, project.GEOAccession.String(), w)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "resolved %s (geo=%s, pmids=%s)\n",
		accession, orNA(project.GEOAccession.String()), orNA(strings.Join(pmids, ",")))

	coll := pubmed.FetchAll(ctx, client, pmids, w)

	fmt.Fprintf(w, "downloading run metadata for %s\n", accession)
	riCfg := runInfoConfig(cmd)
	runs, err := sra.FetchRunInfo(ctx, &http.Client{Timeout: riCfg.Timeout}, accession, riCfg)
	var study []sra.KV
	var samples *sra.RunTable
	if err != nil {
		fmt.Fprintf(w, "warning: run metadata unavailable: %v\n", err)
		runs = nil
	} else {
		runs = runs.StripDownloadColumns()
		study, samples = runs.SplitStudySample()
		fmt.Fprintf(w, "got %d runs, %d sample-level columns\n", len(runs.Rows), len(samples.Columns))
	}

	var ann annotate.Annotation
	noAnnotate, _ := cmd.Flags().GetBool("no-annotate")
	annCfg := annotateConfig(cmd)
	switch {
	case noAnnotate:
	case annCfg.APIKey == "":
		fmt.Fprintln(w, "annotation skipped: no deepseek-api-key configured")
	default:
		fmt.Fprintln(w, "requesting annotation")
		var preview []sra.ColumnPreview
		if runs != nil {
			preview = runs.Preview(6)
		}
		backend := &annotate.DeepSeekBackend{
			Client: &http.Client{Timeout: annCfg.Timeout},
			Cfg:    annCfg,
		}
		ann = annotate.Run(ctx, backend, annotate.BuildPrompt(project, coll, preview), w)
		if samples != nil && len(ann.GroupingColumns) > 0 {
			grouping.Apply(samples, ann.GroupingColumns, w)
		}
	}

	rep := report.Build(report.Input{
		Accession:  accession,
		Project:    project,
		PMIDs:      pmids,
		Literature: coll,
		Runs:       runs,
		Study:      study,
		Samples:    samples,
		Annotation: ann,
	})

	format, _ := cmd.Flags().GetString("format")
	return report.Render(os.Stdout, rep, types.OutputFormat(format))
}

func orNA(s string) string {
	if s == "" {
		return sra.NA
	}
	return s
}
