package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alberto/anybib/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set configuration values.

Usage:
  anybib config                          # Show all config (secrets redacted)
  anybib config threshold                # Get specific value
  anybib config threshold 0.85           # Set value

Keys:
  anytype-base-url  Anytype API endpoint
  anytype-token     Anytype bearer token
  anytype-space     Anytype space id
  identifier-key    Store field holding the article identifier
  orcid-key         Store field holding a person's ORCID
  family-key        Store field holding a person's family name
  given-key         Store field holding a person's given name
  threshold         Similarity admission threshold in [0,1]
  alias-file        Extra journal alias YAML file
  local-store-path  SQLite path used when no Anytype space is set
  crossref-mailto   Contact address for CrossRef's polite pool`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

// ConfigResponse is the redacted configuration view.
type ConfigResponse struct {
	Path           string  `json:"path"`
	AnytypeBaseURL string  `json:"anytype_base_url,omitempty"`
	AnytypeSpace   string  `json:"anytype_space,omitempty"`
	TokenSet       bool    `json:"token_set"`
	IdentifierKey  string  `json:"identifier_key"`
	ORCIDKey       string  `json:"orcid_key"`
	FamilyKey      string  `json:"family_key"`
	GivenKey       string  `json:"given_key"`
	Threshold      float64 `json:"threshold"`
	AliasFile      string  `json:"alias_file,omitempty"`
	LocalStorePath string  `json:"local_store_path,omitempty"`
	CrossRefMailto string  `json:"crossref_mailto,omitempty"`
}

// UpdateResponse is the response for config set.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	if len(args) == 0 {
		return showConfig(cfg)
	}

	key := normalizeKey(args[0])
	slot, redacted := configSlot(cfg, key)
	if slot == nil {
		exitWithError(ExitError, "unknown configuration key: %s", args[0])
	}

	if len(args) == 1 {
		value := *slot
		if redacted && value != "" {
			value = "(set)"
		}
		if humanOutput {
			fmt.Println(value)
			return nil
		}
		return outputJSON(map[string]string{key: value})
	}

	value := args[1]
	if key == "threshold" {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 || f > 1 {
			exitWithError(ExitError, "threshold must be a number in [0,1]")
		}
	}
	*slot = value

	if err := config.Save(toFileConfig(cfg)); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		if redacted {
			fmt.Printf("Updated %s\n", key)
		} else {
			fmt.Printf("Updated %s to %s\n", key, value)
		}
		return nil
	}
	shown := value
	if redacted {
		shown = "(set)"
	}
	return outputJSON(UpdateResponse{Status: "updated", Key: key, Value: shown})
}

func showConfig(cfg *config.Config) error {
	resp := ConfigResponse{
		Path:           config.GlobalConfigPath(),
		AnytypeBaseURL: cfg.AnytypeBaseURL,
		AnytypeSpace:   cfg.AnytypeSpace,
		TokenSet:       cfg.AnytypeToken != "",
		IdentifierKey:  cfg.IdentifierKey,
		ORCIDKey:       cfg.ORCIDKey,
		FamilyKey:      cfg.FamilyKey,
		GivenKey:       cfg.GivenKey,
		Threshold:      cfg.Threshold,
		AliasFile:      cfg.AliasFile,
		LocalStorePath: cfg.LocalStorePath,
		CrossRefMailto: cfg.CrossRefMailto,
	}

	if humanOutput {
		fmt.Printf("config:       %s\n", resp.Path)
		fmt.Printf("space:        %s\n", resp.AnytypeSpace)
		fmt.Printf("token set:    %v\n", resp.TokenSet)
		fmt.Printf("threshold:    %.2f\n", resp.Threshold)
		fmt.Printf("field keys:   %s / %s / %s / %s\n",
			resp.IdentifierKey, resp.ORCIDKey, resp.FamilyKey, resp.GivenKey)
		if resp.AliasFile != "" {
			fmt.Printf("alias file:   %s\n", resp.AliasFile)
		}
		if resp.LocalStorePath != "" {
			fmt.Printf("local store:  %s\n", resp.LocalStorePath)
		}
		return nil
	}
	return outputJSON(resp)
}

// configSlot maps a CLI key onto the config field it edits. The threshold
// is handled through a string shim so Save round-trips user input exactly.
var thresholdShim string

func configSlot(cfg *config.Config, key string) (slot *string, redacted bool) {
	switch key {
	case "anytype-base-url":
		return &cfg.AnytypeBaseURL, false
	case "anytype-token":
		return &cfg.AnytypeToken, true
	case "anytype-space":
		return &cfg.AnytypeSpace, false
	case "identifier-key":
		return &cfg.IdentifierKey, false
	case "orcid-key":
		return &cfg.ORCIDKey, false
	case "family-key":
		return &cfg.FamilyKey, false
	case "given-key":
		return &cfg.GivenKey, false
	case "threshold":
		thresholdShim = strconv.FormatFloat(cfg.Threshold, 'g', -1, 64)
		return &thresholdShim, false
	case "alias-file":
		return &cfg.AliasFile, false
	case "local-store-path":
		return &cfg.LocalStorePath, false
	case "crossref-mailto":
		return &cfg.CrossRefMailto, false
	}
	return nil, false
}

// toFileConfig folds the threshold shim back into the config before saving.
func toFileConfig(cfg *config.Config) *config.Config {
	if thresholdShim != "" {
		if f, err := strconv.ParseFloat(thresholdShim, 64); err == nil {
			cfg.Threshold = f
		}
	}
	return cfg
}

// normalizeKey accepts snake_case keys as written in the YAML file.
func normalizeKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "_", "-")
	return key
}
