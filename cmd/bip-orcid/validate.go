package main

import (
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate <file.yml|file.json>",
	Short: "Check a work file without writing XML",
	Long: `Check a work file against the ORCID vocabularies and required fields.

Every problem is reported at once. Exits with code 3 when the file is invalid.

Examples:
  bip-orcid validate paper.yml
  bip-orcid validate paper.json --human`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg := mustLoadGlobalConfig()
	in := mustLoadInput(args[0], cfg)

	problems := recordProblems(in)
	resp := ValidateResponse{Valid: len(problems) == 0, Errors: problems}
	if resp.Errors == nil {
		resp.Errors = []string{}
	}

	if humanOutput {
		if resp.Valid {
			outputHuman("%s: valid\n", args[0])
		} else {
			outputHuman("%s: %d problem(s)\n", args[0], len(problems))
			for _, p := range problems {
				outputHuman("  - %s\n", p)
			}
		}
	} else {
		outputJSON(resp)
	}

	if !resp.Valid {
		os.Exit(ExitDataError)
	}
	return nil
}
