package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/biporcid/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective global configuration",
	Long: `Show the global configuration after environment overrides.

The file lives at ~/.config/bip/orcid.yml (or $XDG_CONFIG_HOME/bip/orcid.yml).
BIP_ORCID_DEFAULT_TYPE and BIP_ORCID_NEXUS_PATH override file values.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

// ConfigResponse is the response for the config command.
type ConfigResponse struct {
	Path   string               `json:"path"`
	Config *config.GlobalConfig `json:"config"`
	Format bool                 `json:"format_output"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg := mustLoadGlobalConfig()
	resp := ConfigResponse{
		Path:   config.GlobalConfigPath(),
		Config: cfg,
		Format: cfg.FormatOutputOrDefault(),
	}

	if humanOutput {
		outputHuman("config file: %s\n", resp.Path)
		outputHuman("nexus_path: %s\n", cfg.NexusPath)
		outputHuman("default_type: %s\n", cfg.DefaultType)
		outputHuman("citation_style: %s\n", cfg.CitationStyle)
		outputHuman("format_output: %t\n", resp.Format)
		outputHuman("preserve_whitespace: %t\n", cfg.PreserveWhitespace)
		outputHuman("log_level: %s\n", cfg.LogLevel)
		outputHuman("contributor_sequence: %t\n", cfg.ContributorSequence)
		return nil
	}
	return outputJSON(resp)
}
