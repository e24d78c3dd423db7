// Package config handles global configuration and environment loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "anybib"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"

	// DefaultThreshold is the similarity threshold when none is configured.
	DefaultThreshold = 0.8
)

// Config is the anybib configuration, loaded from the global YAML file
// with environment variables taking precedence.
type Config struct {
	// Anytype store connection.
	AnytypeBaseURL string `yaml:"anytype_base_url,omitempty"`
	AnytypeToken   string `yaml:"anytype_token,omitempty"`
	AnytypeSpace   string `yaml:"anytype_space,omitempty"`

	// Entity field keys, overridable per workspace.
	IdentifierKey string `yaml:"identifier_key,omitempty"`
	ORCIDKey      string `yaml:"orcid_key,omitempty"`
	FamilyKey     string `yaml:"family_key,omitempty"`
	GivenKey      string `yaml:"given_key,omitempty"`

	// Matching. A threshold of 0 means "unset" and selects the default;
	// the matching engine treats 0 the same way, so an admit-everything
	// threshold cannot be configured.
	Threshold float64 `yaml:"threshold,omitempty"`
	AliasFile string  `yaml:"alias_file,omitempty"`

	// Local SQLite store path, used when no Anytype space is configured.
	LocalStorePath string `yaml:"local_store_path,omitempty"`

	// CrossRef polite-pool contact address.
	CrossRefMailto string `yaml:"crossref_mailto,omitempty"`
}

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/anybib/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// Load reads the global config file and applies environment overrides.
// A missing file yields defaults, not an error. A .env file in the
// working directory is loaded first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return loadFrom(GlobalConfigPath())
}

func loadFrom(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// Defaults only.
		default:
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	if cfg.Threshold < 0 || cfg.Threshold > 1 {
		return nil, fmt.Errorf("threshold %v out of range [0,1]", cfg.Threshold)
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString(&cfg.AnytypeBaseURL, "ANYTYPE_BASE_URL")
	setString(&cfg.AnytypeToken, "ANYTYPE_TOKEN")
	setString(&cfg.AnytypeSpace, "ANYTYPE_SPACE_ID")
	setString(&cfg.IdentifierKey, "ANYBIB_IDENTIFIER_KEY")
	setString(&cfg.ORCIDKey, "ANYBIB_ORCID_KEY")
	setString(&cfg.FamilyKey, "ANYBIB_FAMILY_KEY")
	setString(&cfg.GivenKey, "ANYBIB_GIVEN_KEY")
	setString(&cfg.AliasFile, "ANYBIB_ALIAS_FILE")
	setString(&cfg.LocalStorePath, "ANYBIB_STORE_PATH")
	setString(&cfg.CrossRefMailto, "CROSSREF_MAILTO")

	if v := os.Getenv("ANYBIB_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Threshold = f
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Threshold == 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.IdentifierKey == "" {
		cfg.IdentifierKey = "doi"
	}
	if cfg.ORCIDKey == "" {
		cfg.ORCIDKey = "orcid"
	}
	if cfg.FamilyKey == "" {
		cfg.FamilyKey = "family"
	}
	if cfg.GivenKey == "" {
		cfg.GivenKey = "given"
	}
	cfg.AliasFile = ExpandTilde(cfg.AliasFile)
	cfg.LocalStorePath = ExpandTilde(cfg.LocalStorePath)
}

// Save writes the config to the global config file, creating the
// directory if needed.
func Save(cfg *Config) error {
	path := GlobalConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ExpandTilde expands a leading ~ to the user's home directory.
func ExpandTilde(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
