// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/SmileyChris/faker-news/internal/generator"
	"github.com/SmileyChris/faker-news/internal/pool"
	"github.com/SmileyChris/faker-news/internal/secrets"
	"github.com/SmileyChris/faker-news/internal/store"
	"github.com/SmileyChris/faker-news/pkg/types"
)

// loadConfig assembles the configuration value object from viper (config
// file, FAKER_NEWS_* environment, flags) and fills in the API key and
// provider from the credential sources when the file leaves them unset.
func loadConfig() types.Config {
	cfg := types.Config{
		Store: types.StoreConfig{
			DBPath: viper.GetString("db"),
		},
		Generator: types.GeneratorConfig{
			Provider:   types.GeneratorProvider(viper.GetString("generator.provider")),
			Model:      viper.GetString("generator.model"),
			APIKey:     viper.GetString("generator.api_key"),
			BaseURL:    viper.GetString("generator.base_url"),
			MaxRetries: viper.GetInt("generator.max_retries"),
		},
		Pool: types.PoolConfig{
			MinHeadlines:  viper.GetInt("pool.min_headlines"),
			HeadlineBatch: viper.GetInt("pool.headline_batch"),
			WordTarget:    viper.GetInt("pool.word_target"),
		},
	}

	if cfg.Generator.Provider == "" {
		cfg.Generator.Provider = detectProvider()
	}
	if cfg.Generator.APIKey == "" {
		cfg.Generator.APIKey, _ = secrets.Resolve(cfg.Generator.Provider, secrets.DefaultDir)
	}
	return cfg
}

// detectProvider prefers openai, falling back to dashscope when only a
// DashScope credential is configured.
func detectProvider() types.GeneratorProvider {
	if v, _ := secrets.Resolve(types.ProviderOpenAI, secrets.DefaultDir); v != "" {
		return types.ProviderOpenAI
	}
	if v, _ := secrets.Resolve(types.ProviderDashScope, secrets.DefaultDir); v != "" {
		return types.ProviderDashScope
	}
	return types.ProviderOpenAI
}

// openManager wires the store, generator, and pool manager together. The
// returned func closes the store.
func openManager() (*pool.Manager, func(), error) {
	cfg := loadConfig()

	gen, err := generator.NewClient(cfg.Generator)
	if err != nil {
		return nil, nil, fmt.Errorf("configuring generator: %w (run 'faker-news setup')", err)
	}

	st, err := store.New(cfg.Store)
	if err != nil {
		return nil, nil, err
	}

	return pool.New(st, gen, cfg.Pool), func() { st.Close() }, nil
}

// openStore opens just the store, for commands that never generate.
func openStore() (*store.Store, error) {
	return store.New(types.StoreConfig{DBPath: viper.GetString("db")})
}
