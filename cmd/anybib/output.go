package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/alberto/anybib/internal/match"
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MatchResponse wraps a match result for JSON output.
type MatchResponse struct {
	Query  string       `json:"query"`
	Result match.Result `json:"result"`
}

// printCandidatesHuman prints ranked candidates in human-readable format.
func printCandidatesHuman(res match.Result) {
	if len(res.Candidates) == 0 {
		fmt.Println("No candidates.")
	}
	for i, c := range res.Candidates {
		fmt.Printf("%d. [%.2f %s] %s\n", i+1, c.Similarity, c.Tier, c.Entity.Name)
		fmt.Printf("   %s (%s)\n", c.Reason, c.Entity.ID)
	}
	if res.Degraded {
		fmt.Println("warning: store enumeration was interrupted; candidates may be incomplete")
	}
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
