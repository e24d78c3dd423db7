package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alberto/anybib/internal/match"
	"github.com/alberto/anybib/internal/text"
)

func init() {
	aliasesCmd.AddCommand(aliasesCheckCmd)
	rootCmd.AddCommand(aliasesCmd)
}

var aliasesCmd = &cobra.Command{
	Use:   "aliases",
	Short: "Inspect the journal alias table",
}

var aliasesCheckCmd = &cobra.Command{
	Use:   "check <name-a> <name-b>",
	Short: "Check whether two journal names are known aliases",
	Args:  cobra.ExactArgs(2),
	RunE:  runAliasesCheck,
}

// CheckResponse reports an alias-table lookup for a pair of names.
type CheckResponse struct {
	A            string  `json:"a"`
	B            string  `json:"b"`
	KnownAlias   bool    `json:"knownAlias"`
	Abbreviation bool    `json:"abbreviation"`
	Similarity   float64 `json:"similarity"`
}

func runAliasesCheck(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	aliases := match.DefaultAliases()
	if cfg.AliasFile != "" {
		if err := aliases.LoadFile(cfg.AliasFile); err != nil {
			exitWithError(ExitConfigError, "loading alias file: %v", err)
		}
	}

	a, b := args[0], args[1]
	resp := CheckResponse{
		A:            a,
		B:            b,
		KnownAlias:   aliases.Match(a, b),
		Abbreviation: text.IsAbbreviation(a, b) || text.IsAbbreviation(b, a),
		Similarity:   text.Similarity(a, b),
	}

	if humanOutput {
		fmt.Printf("known alias:   %v\n", resp.KnownAlias)
		fmt.Printf("abbreviation:  %v\n", resp.Abbreviation)
		fmt.Printf("similarity:    %.3f\n", resp.Similarity)
		return nil
	}
	return outputJSON(resp)
}
