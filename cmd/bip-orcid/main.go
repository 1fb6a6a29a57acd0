// Package main provides the bip-orcid CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/matsen/biporcid/internal/config"
	"github.com/matsen/biporcid/internal/input"
	"github.com/matsen/biporcid/internal/logging"
	"github.com/matsen/biporcid/internal/storage"
	"github.com/matsen/biporcid/internal/work"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	logLevel    string

	logger = zerolog.Nop()
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bip-orcid",
	Short: "Build ORCID work XML records",
	Long: `bip-orcid builds ORCID work records (schema 2.0) as XML.

Records come from YAML or JSON work files, from a bipartite reference
library, or from a PDF. Status output is JSON by default; XML goes to stdout
or to --out. Nothing is sent to ORCID.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error, off)")
	rootCmd.Version = Version
}

// setup loads .env and the global config, then builds the logger.
// Flag > environment > config file > default.
func setup(cmd *cobra.Command, args []string) error {
	// A missing .env is normal.
	_ = godotenv.Load()

	cfg := mustLoadGlobalConfig()

	level := cfg.LogLevel
	if level == "" {
		level = logging.DefaultConfig().Level
	}
	level = logging.LevelFromEnv(level)
	if logLevel != "" {
		level = logLevel
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = level
	logger = logging.New(logCfg)
	return nil
}

// mustLoadGlobalConfig loads and validates ~/.config/bip/orcid.yml, exits on error.
func mustLoadGlobalConfig() *config.GlobalConfig {
	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "loading global config: %v", err)
	}
	if err := cfg.Validate(work.IsWorkType); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return cfg
}

// getStartingDirectory returns the directory to start searching for a repository.
// Checks global config nexus_path first, then current working directory.
func getStartingDirectory() (string, int) {
	if root := config.GetNexusPath(); root != "" {
		return root, 0
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", outputError(ExitError, "getting current directory: %v", err)
	}
	return cwd, 0
}

// mustFindRepository finds and validates the repository, exits on error.
// Returns the repository root path.
func mustFindRepository() string {
	start, exitCode := getStartingDirectory()
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	repoRoot, err := config.FindRepository(start)
	if err != nil {
		fmt.Fprintln(os.Stderr, config.HelpfulConfigMessage())
		os.Exit(ExitConfigError)
	}
	return repoRoot
}

// mustOpenIndex opens the export index, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenIndex(repoRoot string) *storage.DB {
	if err := os.MkdirAll(config.CachePath(repoRoot), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}
	db, err := storage.OpenDB(config.IndexPath(repoRoot))
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	return db
}

// mustLoadConfig loads configuration, exits on error.
func mustLoadConfig(repoRoot string) *config.Config {
	cfg, err := config.Load(repoRoot)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	if err := config.ValidatePDFRoot(cfg.PDFRoot); err != nil {
		exitWithError(ExitConfigError, "pdf_root: %v", err)
	}
	return cfg
}

// exitCodeFor maps record and input errors to ExitDataError.
func exitCodeFor(err error) int {
	switch {
	case work.IsValidation(err),
		errors.Is(err, input.ErrInvalidInput),
		errors.Is(err, input.ErrUnsupportedFormat):
		return ExitDataError
	default:
		return ExitError
	}
}

// writeOptions combines global config with per-command flags.
func writeOptions(cfg *config.GlobalConfig, compact, preserve bool) work.Options {
	opts := work.DefaultOptions()
	opts.FormatOutput = cfg.FormatOutputOrDefault() && !compact
	opts.PreserveWhitespace = cfg.PreserveWhitespace || preserve
	return opts
}
