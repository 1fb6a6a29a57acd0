package main

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matsen/biporcid/internal/config"
	"github.com/matsen/biporcid/internal/export"
	"github.com/matsen/biporcid/internal/logging"
	"github.com/matsen/biporcid/internal/pdf"
	"github.com/matsen/biporcid/internal/reference"
	"github.com/matsen/biporcid/internal/storage"
	"github.com/matsen/biporcid/internal/work"
)

var (
	exportKeys     string
	exportBulk     bool
	exportType     string
	exportCitation string
	exportSince    int
	exportUntil    int
	exportVenue    string
	exportLimit    int
	exportCompact  bool
	exportOut      string
)

func init() {
	exportCmd.Flags().StringVar(&exportKeys, "keys", "", "Export only specified IDs (comma-separated)")
	exportCmd.Flags().BoolVar(&exportBulk, "bulk", false, "Write one bulk document instead of one document per reference")
	exportCmd.Flags().StringVar(&exportType, "type", "", "Work type for every reference (default: derived from venue)")
	exportCmd.Flags().StringVar(&exportCitation, "citation", "", "Citation to embed: bibtex or none")
	exportCmd.Flags().IntVar(&exportSince, "since", 0, "Only references published in or after this year")
	exportCmd.Flags().IntVar(&exportUntil, "until", 0, "Only references published in or before this year")
	exportCmd.Flags().StringVar(&exportVenue, "venue", "", "Only references whose venue contains this text")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 0, "Maximum number of references (0 for all)")
	exportCmd.Flags().BoolVar(&exportCompact, "compact", false, "Write XML without indentation")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Write XML to FILE instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export library references as ORCID works",
	Long: `Export references from the bipartite library as ORCID work XML.

The index is rebuilt from refs.jsonl first. References without a DOI, PMID,
PMCID or arXiv id are skipped unless a DOI can be read from their PDF under
pdf_root.

Examples:
  bip-orcid export --bulk > works.xml
  bip-orcid export --keys Ahn2026-rs,Gao2026-gi --citation bibtex
  bip-orcid export --keys 10.1093/molbev/msaa123
  bip-orcid export --since 2020 --type working-paper --out recent.xml`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := mustLoadGlobalConfig()

	opts := export.Options{
		WorkType: firstNonEmpty(exportType, cfg.DefaultType),
		Citation: firstNonEmpty(exportCitation, cfg.CitationStyle),
		Sequence: cfg.ContributorSequence,
	}
	if err := export.ValidateOptions(opts); err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	repoRoot := mustFindRepository()
	repoCfg := mustLoadConfig(repoRoot)
	db := mustOpenIndex(repoRoot)
	defer db.Close()

	n, err := db.RebuildFromJSONL(config.RefsPath(repoRoot))
	if err != nil {
		exitWithError(exitCodeForStorage(err), "rebuilding index: %v", err)
	}
	logger.Debug().Int("refs", n).Str("repo", repoRoot).Msg("index rebuilt")

	var lookup doiLookup
	if repoCfg.PDFRoot != "" {
		lookup = pdf.NewResolver(repoCfg.PDFRoot)
	}

	refs, err := selectReferences(db, exportKeys, storage.Filter{
		YearFrom: exportSince,
		YearTo:   exportUntil,
		Venue:    exportVenue,
		Limit:    exportLimit,
		// Without PDFs to read a DOI from, unidentified references would only be skipped.
		IdentifiedOnly: lookup == nil,
	})
	if err != nil {
		code := ExitError
		if errors.Is(err, errUnknownKey) {
			code = ExitDataError
		}
		exitWithError(code, "%v", err)
	}
	if len(refs) == 0 {
		total, err := db.Count()
		if err != nil {
			exitWithError(ExitError, "counting references: %v", err)
		}
		exitWithError(ExitDataError, "no references to export (%d in library)", total)
	}

	records, skipped, err := convertReferences(cmd.Context(), logger, refs, opts, lookup)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}
	if len(records) == 0 {
		exitWithError(ExitDataError, "no exportable references (%d skipped without identifiers)", len(skipped))
	}

	xml, err := renderWorks(records, exportBulk, writeOptions(cfg, exportCompact, false))
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	resp, err := writeXML(xml, exportOut)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if resp != nil {
		resp.Works = len(records)
	}
	reportWrite(resp)

	if len(skipped) > 0 {
		logger.Warn().Strs("ids", skipped).Msg("skipped references without identifiers")
	}
	return nil
}

// errUnknownKey is returned for a --keys entry that matches no reference.
var errUnknownKey = errors.New("unknown key")

// selectReferences returns the references named by keys, in the order given,
// or the references matching f when keys is empty. A key is a reference ID
// or a DOI in any common spelling.
func selectReferences(db *storage.DB, keys string, f storage.Filter) ([]reference.Reference, error) {
	if keys == "" {
		refs, err := db.Select(f)
		if err != nil {
			return nil, fmt.Errorf("listing references: %w", err)
		}
		return refs, nil
	}

	var refs []reference.Reference
	for _, key := range strings.Split(keys, ",") {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		ref, err := db.GetByID(key)
		if err == nil && ref == nil && strings.HasPrefix(reference.NormalizeDOI(key), "10.") {
			ref, err = db.GetByDOI(key)
		}
		if err != nil {
			return nil, fmt.Errorf("getting reference %s: %w", key, err)
		}
		if ref == nil {
			return nil, fmt.Errorf("%w: %s", errUnknownKey, key)
		}
		refs = append(refs, *ref)
	}
	return refs, nil
}

// doiLookup reads a DOI from a library PDF.
type doiLookup interface {
	LookupDOI(relativePath string) (string, error)
}

// convertReferences turns references into work records in parallel.
// Records keep the order of refs. References without any identifier are
// returned as skipped IDs; any other failure stops the conversion.
func convertReferences(ctx context.Context, log zerolog.Logger, refs []reference.Reference, opts export.Options, lookup doiLookup) ([]*work.Record, []string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	results := make([]*work.Record, len(refs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i := range refs {
		i := i
		ref := refs[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			refLog := logging.WithReference(log, ref.ID, ref.DOI)

			if !ref.HasIdentifier() && ref.PDFPath != "" && lookup != nil {
				doi, err := lookup.LookupDOI(ref.PDFPath)
				switch {
				case err != nil:
					refLog.Debug().Err(err).Str("pdf", ref.PDFPath).Msg("no DOI from PDF")
				case doi != "":
					refLog.Info().Str("found_doi", doi).Msg("DOI read from PDF")
					ref.DOI = doi
				}
			}

			r, err := export.ToWork(ref, opts)
			if errors.Is(err, export.ErrNoIdentifier) {
				refLog.Debug().Msg("no identifier")
				return nil
			}
			if err != nil {
				return err
			}
			results[i] = r
			refLog.Debug().Str("type", r.Type()).Msg("converted")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	records := make([]*work.Record, 0, len(results))
	var skipped []string
	for i, r := range results {
		if r == nil {
			skipped = append(skipped, refs[i].ID)
			continue
		}
		records = append(records, r)
	}
	return records, skipped, nil
}

// renderWorks serializes records as one bulk document or as one document
// per record separated by blank lines.
func renderWorks(records []*work.Record, bulk bool, opts work.Options) (string, error) {
	if bulk {
		return work.BulkXML(opts, records...)
	}

	docs := make([]string, len(records))
	for i, r := range records {
		xml, err := r.XML(opts)
		if err != nil {
			return "", err
		}
		docs[i] = strings.TrimRight(xml, "\n")
	}
	return strings.Join(docs, "\n\n"), nil
}

// exitCodeForStorage treats unreadable refs.jsonl lines as data errors.
func exitCodeForStorage(err error) int {
	var lineErr *storage.LineError
	if errors.As(err, &lineErr) {
		return ExitDataError
	}
	return ExitError
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
