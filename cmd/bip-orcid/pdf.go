package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/biporcid/internal/export"
	"github.com/matsen/biporcid/internal/pdf"
	"github.com/matsen/biporcid/internal/reference"
)

var (
	pdfType    string
	pdfCompact bool
	pdfOut     string
)

func init() {
	pdfCmd.Flags().StringVar(&pdfType, "type", "", "Work type (default: default_type from config, else journal-article)")
	pdfCmd.Flags().BoolVar(&pdfCompact, "compact", false, "Write XML without indentation")
	pdfCmd.Flags().StringVarP(&pdfOut, "out", "o", "", "Write XML to FILE instead of stdout")
	rootCmd.AddCommand(pdfCmd)
}

var pdfCmd = &cobra.Command{
	Use:   "pdf <file.pdf>",
	Short: "Build a work XML document from a PDF",
	Long: `Build an ORCID work XML document from a PDF.

The title is the first substantial line of page 1 and the DOI is searched for
in the first pages. A PDF without a DOI cannot become a work.

Examples:
  bip-orcid pdf paper.pdf
  bip-orcid pdf thesis.pdf --type dissertation --out thesis.xml`,
	Args: cobra.ExactArgs(1),
	RunE: runPDF,
}

func runPDF(cmd *cobra.Command, args []string) error {
	cfg := mustLoadGlobalConfig()
	path := args[0]

	meta, err := pdf.Extract(path)
	if err != nil {
		exitWithError(ExitError, "reading PDF: %v", err)
	}
	if meta.DOI == "" {
		exitWithError(ExitDataError, "no DOI found in the first %d pages of %s", pdf.ScanPages, path)
	}
	if meta.Title == "" {
		exitWithError(ExitDataError, "no title found on the first page of %s", path)
	}

	ref := reference.Reference{
		ID:    strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		DOI:   meta.DOI,
		Title: meta.Title,
	}
	opts := export.Options{WorkType: firstNonEmpty(pdfType, cfg.DefaultType)}
	if err := export.ValidateOptions(opts); err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	r, err := export.ToWork(ref, opts)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}
	logger.Debug().Str("title", meta.Title).Str("doi", meta.DOI).Msg("read PDF")

	xml, err := r.XML(writeOptions(cfg, pdfCompact, false))
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	resp, err := writeXML(xml, pdfOut)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	reportWrite(resp)
	return nil
}
