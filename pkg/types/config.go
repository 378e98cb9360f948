// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "prjmeta/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// EutilsConfig holds settings for stages that call the NCBI E-utilities.
type EutilsConfig struct {
	HTTPConfig `yaml:",inline"`

	// Tool is the tool name reported to NCBI with every request.
	Tool string `json:"tool" yaml:"tool"`

	// Email is the maintainer contact reported to NCBI with every request.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// APIKey is an optional NCBI API key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// RunInfoConfig holds settings for the run-metadata stage.
type RunInfoConfig struct {
	HTTPConfig `yaml:",inline"`

	// Fields selects the filereport columns to request. Empty means the
	// portal's default read_run field set.
	Fields []string `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// AnnotateConfig holds settings for the AI annotation stage.
type AnnotateConfig struct {
	// Model is the chat model identifier (e.g. "deepseek-chat").
	Model string `json:"model" yaml:"model"`

	// APIKey authenticates against the chat completions API. When empty
	// the annotation stage is disabled.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Temperature is the sampling temperature (default 0.2).
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// Timeout is the request timeout for the chat API (default 120s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// OutputFormat selects the report serialization.
type OutputFormat string

const (
	OutputJSON OutputFormat = "json"
	OutputYAML OutputFormat = "yaml"
)

// ReportConfig holds settings for report assembly.
type ReportConfig struct {
	// Format selects the output serialization: json or yaml.
	Format OutputFormat `json:"format" yaml:"format"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Eutils   EutilsConfig   `json:"eutils" yaml:"eutils"`
	RunInfo  RunInfoConfig  `json:"runinfo" yaml:"runinfo"`
	Annotate AnnotateConfig `json:"annotate" yaml:"annotate"`
	Report   ReportConfig   `json:"report" yaml:"report"`
}
