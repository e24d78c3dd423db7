package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alberto/anybib/internal/match"
	"github.com/alberto/anybib/internal/pipeline"
	"github.com/alberto/anybib/internal/reference"
	"github.com/alberto/anybib/internal/registry"
	"github.com/alberto/anybib/internal/store"
)

var (
	ingestPDF    string
	ingestDryRun bool
	ingestCreate bool
	ingestSkip   bool
)

func init() {
	ingestCmd.Flags().StringVar(&ingestPDF, "pdf", "", "PDF to attach; scanned for a DOI when none is given")
	ingestCmd.Flags().BoolVar(&ingestDryRun, "dry-run", false, "Resolve and match but do not write to the store")
	ingestCmd.Flags().BoolVar(&ingestCreate, "create", false, "Create without prompting even when duplicates exist")
	ingestCmd.Flags().BoolVar(&ingestSkip, "skip", false, "Abort without prompting when duplicates exist")
	ingestCmd.MarkFlagsMutuallyExclusive("create", "skip")
	rootCmd.AddCommand(ingestCmd)
}

var ingestCmd = &cobra.Command{
	Use:   "ingest [doi]",
	Short: "Resolve a DOI and publish it to the store",
	Long: `Resolve a DOI against CrossRef (DataCite as fallback), rank duplicate
candidates in the store, and create or update a reference entity.

With --pdf and no DOI argument, the PDF's leading pages are scanned for
one. When duplicates are found the command prompts: [a]bort, [u]se
existing, or [c]reate new. --create and --skip replace the prompt with
a fixed policy.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	identifier := ""
	if len(args) == 1 {
		identifier = args[0]
	}
	if identifier == "" && ingestPDF == "" {
		exitWithError(ExitError, "give a DOI or --pdf")
	}

	cfg := loadConfig()
	s := openStore(cfg)
	engine := newEngine(cfg, s)

	var decide pipeline.DecideFunc
	switch {
	case ingestSkip:
		decide = skipOnDuplicates
	case ingestCreate, ingestDryRun:
		// CreateAlways default.
	default:
		decide = promptDecision
	}

	p := pipeline.New(newResolver(cfg), s, engine, fieldKeys(cfg), decide)
	report, err := p.Ingest(cmd.Context(), identifier, pipeline.Options{
		PDFPath: ingestPDF,
		DryRun:  ingestDryRun,
	})
	if err != nil {
		if registry.IsNotFound(err) {
			exitWithError(ExitNotFound, "%v", err)
		}
		if store.IsUnavailable(err) {
			exitWithError(ExitStoreError, "%v", err)
		}
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		printReportHuman(report)
		return nil
	}
	return outputJSON(report)
}

func printReportHuman(report *pipeline.Report) {
	fmt.Printf("%s\n", report.CiteKey)
	fmt.Printf("  %s (%d)\n", truncateString(report.Record.Title, 70), report.Record.Year)
	if report.Record.Venue != "" {
		fmt.Printf("  %s\n", report.Record.Venue)
	}
	switch report.Action {
	case pipeline.ActionAbort:
		fmt.Println("Aborted, nothing written.")
	default:
		if report.EntityID != "" {
			fmt.Printf("%sd entity %s\n", report.Action, report.EntityID)
		}
	}
	if report.Attached {
		fmt.Println("PDF attached.")
	}
	if report.Degraded {
		fmt.Println("warning: candidate lists may be incomplete (store enumeration interrupted)")
	}
}

// skipOnDuplicates aborts whenever any duplicate candidate exists.
func skipOnDuplicates(rec *reference.Record, duplicates []match.Candidate) (pipeline.Decision, error) {
	if len(duplicates) > 0 {
		return pipeline.Decision{Action: pipeline.ActionAbort}, nil
	}
	return pipeline.Decision{Action: pipeline.ActionCreate}, nil
}

// promptDecision asks the user what to do when duplicates exist.
func promptDecision(rec *reference.Record, duplicates []match.Candidate) (pipeline.Decision, error) {
	if len(duplicates) == 0 {
		return pipeline.Decision{Action: pipeline.ActionCreate}, nil
	}

	fmt.Println("Potential duplicates detected:")
	for i, c := range duplicates {
		fmt.Printf("  [%d] %s (%.2f, %s)\n", i+1, c.Entity.Name, c.Similarity, c.Reason)
	}
	fmt.Println("Options: [a]bort, [u]se existing, [c]reate new")

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("Select option: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return pipeline.Decision{}, fmt.Errorf("reading selection: %w", err)
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "a", "abort":
			return pipeline.Decision{Action: pipeline.ActionAbort}, nil
		case "c", "create":
			return pipeline.Decision{Action: pipeline.ActionCreate}, nil
		case "u", "use":
			fmt.Print("Enter the number of the entity to reuse: ")
			numLine, err := reader.ReadString('\n')
			if err != nil {
				return pipeline.Decision{}, fmt.Errorf("reading selection: %w", err)
			}
			idx, err := strconv.Atoi(strings.TrimSpace(numLine))
			if err != nil || idx < 1 || idx > len(duplicates) {
				fmt.Println("Selection out of range. Try again.")
				continue
			}
			return pipeline.Decision{
				Action:   pipeline.ActionUpdate,
				EntityID: duplicates[idx-1].Entity.ID,
			}, nil
		default:
			fmt.Println("Input not recognized. Choose a, u, or c.")
		}
	}
}
