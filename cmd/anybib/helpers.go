package main

import (
	"path/filepath"

	"github.com/alberto/anybib/internal/config"
	"github.com/alberto/anybib/internal/match"
	"github.com/alberto/anybib/internal/registry"
	"github.com/alberto/anybib/internal/store"
)

// loadConfig loads the global config or exits with a config error.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// openStore connects to the configured store: Anytype when a space is
// configured, otherwise a local SQLite database.
func openStore(cfg *config.Config) store.Store {
	if cfg.AnytypeSpace != "" {
		if cfg.AnytypeToken == "" {
			exitWithError(ExitConfigError, "anytype_space is set but anytype_token is missing")
		}
		opts := []store.AnytypeOption{}
		if cfg.AnytypeBaseURL != "" {
			opts = append(opts, store.WithBaseURL(cfg.AnytypeBaseURL))
		}
		return store.NewAnytype(cfg.AnytypeToken, cfg.AnytypeSpace, opts...)
	}

	path := cfg.LocalStorePath
	if path == "" {
		path = filepath.Join(filepath.Dir(config.GlobalConfigPath()), "store.db")
	}
	s, err := store.OpenSQLite(path)
	if err != nil {
		exitWithError(ExitStoreError, "opening local store: %v", err)
	}
	return s
}

// newEngine builds a matching engine from the config.
func newEngine(cfg *config.Config, s store.Store) *match.Engine {
	aliases := match.DefaultAliases()
	if cfg.AliasFile != "" {
		if err := aliases.LoadFile(cfg.AliasFile); err != nil {
			exitWithError(ExitConfigError, "loading alias file: %v", err)
		}
	}
	return match.New(s, match.Options{
		Threshold: cfg.Threshold,
		Keys:      fieldKeys(cfg),
		Aliases:   aliases,
	})
}

func fieldKeys(cfg *config.Config) match.FieldKeys {
	return match.FieldKeys{
		Identifier: cfg.IdentifierKey,
		ORCID:      cfg.ORCIDKey,
		Family:     cfg.FamilyKey,
		Given:      cfg.GivenKey,
	}
}

// newResolver builds the registry chain: CrossRef first, DataCite fallback.
func newResolver(cfg *config.Config) registry.Resolver {
	var crOpts []registry.CrossRefOption
	if cfg.CrossRefMailto != "" {
		crOpts = append(crOpts, registry.WithMailto(cfg.CrossRefMailto))
	}
	return registry.Multi{
		registry.NewCrossRef(crOpts...),
		registry.NewDataCite(),
	}
}
