package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alberto/anybib/internal/bibtex"
	"github.com/alberto/anybib/internal/registry"
)

func init() {
	rootCmd.AddCommand(keyCmd)
}

var keyCmd = &cobra.Command{
	Use:   "key <doi>",
	Short: "Print the citation key for a DOI",
	Long: `Resolve a DOI and print its citation key: first author's surname
(articles and diacritics stripped), year, first title word.`,
	Args: cobra.ExactArgs(1),
	RunE: runKey,
}

func runKey(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	rec, err := newResolver(cfg).Resolve(cmd.Context(), args[0])
	if err != nil {
		if registry.IsNotFound(err) {
			exitWithError(ExitNotFound, "%v", err)
		}
		exitWithError(ExitError, "%v", err)
	}

	key := bibtex.CiteKey(rec)
	if humanOutput {
		fmt.Println(key)
		return nil
	}
	return outputJSON(map[string]string{"identifier": rec.Identifier, "citeKey": key})
}
