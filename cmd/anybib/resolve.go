package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alberto/anybib/internal/bibtex"
	"github.com/alberto/anybib/internal/registry"
)

var resolveBibtex bool

func init() {
	resolveCmd.Flags().BoolVar(&resolveBibtex, "bibtex", false, "Print a BibTeX entry instead of the record")
	rootCmd.AddCommand(resolveCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <doi>",
	Short: "Fetch registry metadata for a DOI",
	Args:  cobra.ExactArgs(1),
	RunE:  runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	rec, err := newResolver(cfg).Resolve(cmd.Context(), args[0])
	if err != nil {
		if registry.IsNotFound(err) {
			exitWithError(ExitNotFound, "%v", err)
		}
		exitWithError(ExitError, "%v", err)
	}

	if resolveBibtex {
		fmt.Print(bibtex.Format(rec))
		return nil
	}

	if humanOutput {
		fmt.Printf("%s\n", rec.Title)
		fmt.Printf("  %s (%d)\n", rec.FormattedAuthors(), rec.Year)
		if rec.Venue != "" {
			fmt.Printf("  %s\n", rec.Venue)
		}
		fmt.Printf("  %s\n", rec.Identifier)
		return nil
	}
	return outputJSON(rec)
}
