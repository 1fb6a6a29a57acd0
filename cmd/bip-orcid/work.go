package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/matsen/biporcid/internal/config"
	"github.com/matsen/biporcid/internal/input"
	"github.com/matsen/biporcid/internal/logging"
	"github.com/matsen/biporcid/internal/work"
)

var (
	workCompact  bool
	workPreserve bool
	workOut      string
)

func init() {
	workCmd.Flags().BoolVar(&workCompact, "compact", false, "Write XML without indentation")
	workCmd.Flags().BoolVar(&workPreserve, "preserve-whitespace", false, "Keep whitespace-only text when indenting")
	workCmd.Flags().StringVarP(&workOut, "out", "o", "", "Write XML to FILE instead of stdout")
	rootCmd.AddCommand(workCmd)
}

var workCmd = &cobra.Command{
	Use:   "work <file.yml|file.json>",
	Short: "Build a work XML document from a work file",
	Long: `Build an ORCID work XML document from a YAML or JSON work file.

When the file has no type, default_type from the global config is used.

Examples:
  bip-orcid work paper.yml
  bip-orcid work paper.json --compact --out paper.xml`,
	Args: cobra.ExactArgs(1),
	RunE: runWork,
}

func runWork(cmd *cobra.Command, args []string) error {
	cfg := mustLoadGlobalConfig()
	log := logging.WithInput(logger, args[0])

	in := mustLoadInput(args[0], cfg)
	if err := in.Validate(); err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	r, err := in.Apply()
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	xml, err := r.XML(writeOptions(cfg, workCompact, workPreserve))
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}
	log.Debug().Str("type", r.Type()).Int("external_ids", len(r.ExternalIDs())).Msg("built work")

	resp, err := writeXML(xml, workOut)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	reportWrite(resp)
	return nil
}

// mustLoadInput reads a work file and fills in the configured default type.
func mustLoadInput(path string, cfg *config.GlobalConfig) *input.WorkInput {
	in, err := input.Load(path)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}
	if in.Type == "" && cfg.DefaultType != "" {
		in.Type = cfg.DefaultType
	}
	return in
}

// recordProblems lists every reason a work file cannot become a document.
func recordProblems(in *input.WorkInput) []string {
	if err := in.Validate(); err != nil {
		var verr *input.ValidationError
		if errors.As(err, &verr) {
			problems := make([]string, len(verr.Problems))
			for i, p := range verr.Problems {
				problems[i] = p.String()
			}
			return problems
		}
		return []string{err.Error()}
	}

	r, err := in.Apply()
	if err != nil {
		return []string{err.Error()}
	}
	if err := r.Validate(); err != nil {
		var mf *work.MissingFieldsError
		if errors.As(err, &mf) {
			problems := make([]string, len(mf.Fields))
			for i, f := range mf.Fields {
				problems[i] = f + ": required"
			}
			return problems
		}
		return []string{err.Error()}
	}
	return nil
}
