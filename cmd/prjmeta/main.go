// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the prjmeta CLI.
package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/prjmeta/internal/eutils"
	"github.com/pdiddy/prjmeta/internal/secrets"
	"github.com/pdiddy/prjmeta/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "prjmeta/0.1"
	toolName         = "prjmeta"
)

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback if set, otherwise the secret value for key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the prjmeta CLI.
var rootCmd = &cobra.Command{
	Use:   "prjmeta",
	Short: "Assemble BioProject / GEO / PubMed metadata for a project accession",
	Long: `prjmeta resolves a BioProject accession to its project record, follows the
GEO cross-reference to linked PubMed publications, fetches the literature
records, and assembles everything into a single report alongside the
project's run metadata.

Each pipeline stage is a subcommand: resolve, link, fetch, and samples
print their own output so stages can be inspected independently; report
runs the full chain.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./prjmeta.yaml or ~/.config/prjmeta/config.yaml)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("prjmeta")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "prjmeta"))
		}
	}

	viper.SetEnvPrefix("PRJMETA")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// httpTimeout reads the shared timeout flag with its default.
func httpTimeout(cmd *cobra.Command) time.Duration {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return timeout
}

// eutilsConfig assembles the E-utilities stage configuration from flags,
// the config file, and the secrets directory.
func eutilsConfig(cmd *cobra.Command) types.EutilsConfig {
	return types.EutilsConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   httpTimeout(cmd),
			UserAgent: defaultUserAgent,
		},
		Tool:   toolName,
		Email:  secretDefault("ncbi-email", viper.GetString("eutils.email")),
		APIKey: secretDefault("ncbi-api-key", viper.GetString("eutils.api_key")),
	}
}

// newEutilsClient builds the shared E-utilities client.
func newEutilsClient(cmd *cobra.Command) *eutils.Client {
	cfg := eutilsConfig(cmd)
	return eutils.New(&http.Client{Timeout: cfg.Timeout}, cfg)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
