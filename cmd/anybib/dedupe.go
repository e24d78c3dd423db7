package main

import (
	"github.com/spf13/cobra"
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Rank duplicate candidates in the store",
}

func init() {
	dedupeCmd.AddCommand(dedupeArticleCmd)
	dedupeCmd.AddCommand(dedupePersonCmd)
	dedupeCmd.AddCommand(dedupeJournalCmd)
	rootCmd.AddCommand(dedupeCmd)
}

var dedupeArticleCmd = &cobra.Command{
	Use:   "article <doi>",
	Short: "Find articles with the same identifier",
	Args:  cobra.ExactArgs(1),
	RunE:  runDedupeArticle,
}

func runDedupeArticle(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	engine := newEngine(cfg, openStore(cfg))

	res, err := engine.Articles(cmd.Context(), args[0])
	if err != nil {
		exitWithError(ExitStoreError, "%v", err)
	}

	if humanOutput {
		printCandidatesHuman(res)
		return nil
	}
	return outputJSON(MatchResponse{Query: args[0], Result: res})
}

var (
	dedupePersonGiven string
	dedupePersonORCID string
)

func init() {
	dedupePersonCmd.Flags().StringVar(&dedupePersonGiven, "given", "", "Given name to compare")
	dedupePersonCmd.Flags().StringVar(&dedupePersonORCID, "orcid", "", "ORCID to pin an exact match")
}

var dedupePersonCmd = &cobra.Command{
	Use:   "person <family-name>",
	Short: "Find persons with matching or similar names",
	Args:  cobra.ExactArgs(1),
	RunE:  runDedupePerson,
}

func runDedupePerson(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	engine := newEngine(cfg, openStore(cfg))

	res, err := engine.Persons(cmd.Context(), args[0], dedupePersonGiven, dedupePersonORCID)
	if err != nil {
		exitWithError(ExitStoreError, "%v", err)
	}

	if humanOutput {
		printCandidatesHuman(res)
		return nil
	}
	return outputJSON(MatchResponse{Query: args[0], Result: res})
}

var dedupeJournalCmd = &cobra.Command{
	Use:   "journal <name>",
	Short: "Find journals by name, abbreviation, or similarity",
	Args:  cobra.ExactArgs(1),
	RunE:  runDedupeJournal,
}

func runDedupeJournal(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	engine := newEngine(cfg, openStore(cfg))

	res, err := engine.Journals(cmd.Context(), args[0])
	if err != nil {
		exitWithError(ExitStoreError, "%v", err)
	}

	if humanOutput {
		printCandidatesHuman(res)
		return nil
	}
	return outputJSON(MatchResponse{Query: args[0], Result: res})
}
